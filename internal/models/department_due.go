package models

import (
	"time"

	"gorm.io/datatypes"
)

// DepartmentDue is a free-form due raised by a department's staff against a student.
type DepartmentDue struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	StudentProfileID uint           `gorm:"not null;index" json:"student_profile_id"`
	Department       Department     `gorm:"size:20;not null;index" json:"department"`
	Amount           int64          `gorm:"not null" json:"amount"`
	DueDate          datatypes.Date `gorm:"not null" json:"due_date"`
	Description      string         `gorm:"type:text" json:"description"`
	IsPaid           bool           `gorm:"not null;default:false;index" json:"is_paid"`
	CreatedByID      *uint          `json:"created_by_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	StudentProfile   StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
