package models

import "time"

// OtherDue is an ad-hoc amount owed to the library, sports or lab in-charge.
type OtherDue struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	StudentProfileID uint           `gorm:"not null;uniqueIndex:idx_other_due_student_category" json:"student_profile_id"`
	Category         Department     `gorm:"size:20;not null;uniqueIndex:idx_other_due_student_category" json:"category"`
	Amount           int64          `gorm:"not null;default:0" json:"amount"`
	Remark           string         `gorm:"type:text" json:"remark"`
	CreatedByID      *uint          `json:"created_by_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	StudentProfile   StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// OtherDueCategories lists the departments that may raise ad-hoc dues.
var OtherDueCategories = []Department{DepartmentLibrary, DepartmentSports, DepartmentLab}

// IsOtherDueCategory reports whether the department may own an OtherDue.
func IsOtherDueCategory(d Department) bool {
	for _, category := range OtherDueCategories {
		if category == d {
			return true
		}
	}
	return false
}
