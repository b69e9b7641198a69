package models

import "time"

const (
	ChallanStatusPending  = "pending"
	ChallanStatusVerified = "verified"
	ChallanStatusRejected = "rejected"
)

// Challan is a payment receipt uploaded by a student for verification by staff.
type Challan struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	StudentProfileID uint           `gorm:"not null;index" json:"student_profile_id"`
	Department       Department     `gorm:"size:20;not null;index" json:"department"`
	FileURL          string         `gorm:"size:512;not null" json:"file_url"`
	MimeType         string         `gorm:"size:100" json:"mime_type"`
	Amount           int64          `gorm:"not null" json:"amount"`
	Status           string         `gorm:"size:20;not null;default:pending" json:"status"`
	UploadedByID     uint           `gorm:"not null" json:"uploaded_by_id"`
	VerifiedByID     *uint          `json:"verified_by_id"`
	VerifiedAt       *time.Time     `json:"verified_at"`
	Remarks          string         `gorm:"type:text" json:"remarks"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	StudentProfile   StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// ChallanDepartments lists the departments that accept uploaded challans.
var ChallanDepartments = []Department{DepartmentAccounts, DepartmentHostel}
