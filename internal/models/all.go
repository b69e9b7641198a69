package models

// All returns every persisted model in dependency order for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&StudentProfile{},
		&StaffProfile{},
		&Course{},
		&FeeStructure{},
		&AcademicDue{},
		&HostelDue{},
		&OtherDue{},
		&BorrowRecord{},
		&LegacyAcademicRecord{},
		&DepartmentDue{},
		&Challan{},
		&ActivityLog{},
	}
}
