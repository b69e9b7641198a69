package dto

import "github.com/noah-isme/ssp-go-api/internal/models"

// CourseResponse describes a catalogued course.
type CourseResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	DurationYears int    `json:"duration_years"`
}

// NewCourseResponse maps a course.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{ID: course.ID, Name: course.Name, DurationYears: course.DurationYears}
}

// FeeStructureListRequest filters fee structures.
type FeeStructureListRequest struct {
	CourseName   string
	AcademicYear string
	Category     string
}

// FeeStructureUpsertRequest creates or replaces a fee structure keyed by course, year and category.
type FeeStructureUpsertRequest struct {
	CourseName   string `json:"course_name" validate:"required,max=150"`
	AcademicYear string `json:"academic_year" validate:"required,academic_year"`
	Category     string `json:"category" validate:"required,max=50"`
	TuitionFee   int64  `json:"tuition_fee" validate:"gte=0"`
	SpecialFee   *int64 `json:"special_fee" validate:"omitempty,gte=0"`
	OtherFee     *int64 `json:"other_fee" validate:"omitempty,gte=0"`
	ExamFee      *int64 `json:"exam_fee" validate:"omitempty,gte=0"`
}

// FeeStructureResponse describes a fee structure.
type FeeStructureResponse struct {
	ID           uint   `json:"id"`
	CourseName   string `json:"course_name"`
	AcademicYear string `json:"academic_year"`
	Category     string `json:"category"`
	TuitionFee   int64  `json:"tuition_fee"`
	SpecialFee   *int64 `json:"special_fee"`
	OtherFee     *int64 `json:"other_fee"`
	ExamFee      *int64 `json:"exam_fee"`
	TotalFee     int64  `json:"total_fee"`
}

// NewFeeStructureResponse maps a fee structure.
func NewFeeStructureResponse(fee models.FeeStructure) FeeStructureResponse {
	return FeeStructureResponse{
		ID:           fee.ID,
		CourseName:   fee.CourseName,
		AcademicYear: fee.AcademicYear,
		Category:     fee.Category,
		TuitionFee:   fee.TuitionFee,
		SpecialFee:   fee.SpecialFee,
		OtherFee:     fee.OtherFee,
		ExamFee:      fee.ExamFee,
		TotalFee:     fee.ChargedTotal(),
	}
}
