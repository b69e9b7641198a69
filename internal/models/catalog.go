package models

import "time"

// Course is a catalogued programme of study.
type Course struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:150;uniqueIndex;not null" json:"name"`
	DurationYears int       `gorm:"not null;default:2" json:"duration_years"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FeeStructure holds the fees charged for a course in one academic year and campus category.
type FeeStructure struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CourseName   string    `gorm:"size:150;not null;uniqueIndex:idx_fee_structure_key" json:"course_name"`
	AcademicYear string    `gorm:"size:10;not null;uniqueIndex:idx_fee_structure_key" json:"academic_year"`
	Category     string    `gorm:"size:50;not null;uniqueIndex:idx_fee_structure_key" json:"category"`
	TuitionFee   int64     `gorm:"not null" json:"tuition_fee"`
	SpecialFee   *int64    `json:"special_fee"`
	OtherFee     *int64    `json:"other_fee"`
	ExamFee      *int64    `json:"exam_fee"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChargedTotal is the amount a student is charged against this structure:
// tuition, special and exam fees with missing components counted as zero.
func (f FeeStructure) ChargedTotal() int64 {
	return f.TuitionFee + valueOrZero(f.SpecialFee) + valueOrZero(f.ExamFee)
}

func valueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
