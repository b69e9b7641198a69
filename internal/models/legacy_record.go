package models

import (
	"strings"
	"time"
)

// LegacyAcademicRecord is a flat due imported from pre-system ledgers. The
// student link is optional because old roll numbers do not always match.
type LegacyAcademicRecord struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	StudentProfileID *uint           `gorm:"index" json:"student_profile_id"`
	RollNumber       string          `gorm:"size:50;not null;uniqueIndex:idx_legacy_roll_label" json:"roll_number"`
	StudentName      string          `gorm:"size:255" json:"student_name"`
	Label            string          `gorm:"size:100;not null;uniqueIndex:idx_legacy_roll_label" json:"label"`
	DueAmount        int64           `gorm:"not null;default:0" json:"due_amount"`
	TCNumber         string          `gorm:"size:50" json:"tc_number"`
	TCIssuedOn       *time.Time      `json:"tc_issued_on"`
	Remarks          string          `gorm:"type:text" json:"remarks"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	StudentProfile   *StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsLabDue reports whether the record belongs to department/lab dues rather than tuition.
func (l LegacyAcademicRecord) IsLabDue() bool {
	label := strings.ToLower(l.Label)
	return strings.Contains(label, "lab") || strings.Contains(label, "department")
}
