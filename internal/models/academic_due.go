package models

import "time"

const (
	PaymentStatusProcessing = "processing"
	PaymentStatusUnpaid     = "unpaid"
	PaymentStatusPaid       = "paid"
)

// AcademicDue links a student to the fee structure charged for one academic year label.
type AcademicDue struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	StudentProfileID uint           `gorm:"not null;uniqueIndex:idx_academic_due_student_year" json:"student_profile_id"`
	YearLabel        string         `gorm:"size:2;not null;uniqueIndex:idx_academic_due_student_year" json:"year_label"`
	FeeStructureID   *uint          `gorm:"index" json:"fee_structure_id"`
	PaidByGovt       int64          `gorm:"not null;default:0" json:"paid_by_govt"`
	PaidByStudent    int64          `gorm:"not null;default:0" json:"paid_by_student"`
	PaymentStatus    string         `gorm:"size:20;not null;default:unpaid" json:"payment_status"`
	Remarks          string         `gorm:"type:text" json:"remarks"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	StudentProfile   StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	FeeStructure     *FeeStructure  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"fee_structure,omitempty"`
}

// Paid is the total amount recorded against the due.
func (a AcademicDue) Paid() int64 {
	return a.PaidByGovt + a.PaidByStudent
}

// DueAmount computes tuition + special + exam - paid_by_govt - paid_by_student.
func (a AcademicDue) DueAmount(fee FeeStructure) int64 {
	return fee.ChargedTotal() - a.Paid()
}
