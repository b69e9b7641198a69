package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	BorrowKindLibrary = "library"
	BorrowKindSports  = "sports"
)

// BorrowRecord logs a book or equipment borrowing along with any fine levied.
// Library and sports records share the table and are told apart by Kind.
type BorrowRecord struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	StudentProfileID uint           `gorm:"not null;index" json:"student_profile_id"`
	Kind             string         `gorm:"size:10;not null;index" json:"kind"`
	ItemName         string         `gorm:"size:255;not null" json:"item_name"`
	BorrowDate       datatypes.Date `gorm:"not null" json:"borrow_date"`
	ReturnDate       *time.Time     `json:"return_date"`
	FineAmount       int64          `gorm:"not null;default:0" json:"fine_amount"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	StudentProfile   StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// Department returns the department owning records of this kind.
func (b BorrowRecord) Department() Department {
	return BorrowKindDepartment(b.Kind)
}

// BorrowKindDepartment maps a borrow kind onto its owning department.
func BorrowKindDepartment(kind string) Department {
	if kind == BorrowKindSports {
		return DepartmentSports
	}
	return DepartmentLibrary
}
