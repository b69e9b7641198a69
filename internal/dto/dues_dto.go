package dto

import (
	"time"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

const dateLayout = "2006-01-02"

func studentRef(profile models.StudentProfile) StudentRef {
	return StudentRef{
		StudentProfileID: profile.ID,
		RollNumber:       profile.RollNumber,
		StudentName:      profile.User.FullName(),
	}
}

// DepartmentDueListRequest captures the department due listing filters.
type DepartmentDueListRequest struct {
	StudentID     string
	Department    string
	IsPaid        *bool
	MinAmount     *int64
	MaxAmount     *int64
	DueDateBefore *time.Time
	DueDateAfter  *time.Time
	Search        string
	Ordering      string
	Page          int
	PageSize      int
}

// DepartmentDueCreateRequest raises a new department due against a student.
type DepartmentDueCreateRequest struct {
	StudentID   string `json:"student_id" validate:"required,max=50"`
	Department  string `json:"department" validate:"omitempty,max=30"`
	Amount      int64  `json:"amount" validate:"gt=0"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"max=2000"`
}

// DepartmentDueResponse describes a department due.
type DepartmentDueResponse struct {
	ID uint `json:"id"`
	StudentRef
	Department  string    `json:"department"`
	Amount      int64     `json:"amount"`
	DueDate     string    `json:"due_date"`
	Description string    `json:"description"`
	IsPaid      bool      `json:"is_paid"`
	CreatedByID *uint     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDepartmentDueResponse maps a due with its preloaded student.
func NewDepartmentDueResponse(due models.DepartmentDue) DepartmentDueResponse {
	return DepartmentDueResponse{
		ID:          due.ID,
		StudentRef:  studentRef(due.StudentProfile),
		Department:  string(due.Department),
		Amount:      due.Amount,
		DueDate:     time.Time(due.DueDate).Format(dateLayout),
		Description: due.Description,
		IsPaid:      due.IsPaid,
		CreatedByID: due.CreatedByID,
		CreatedAt:   due.CreatedAt,
		UpdatedAt:   due.UpdatedAt,
	}
}

// DepartmentDueListResponse wraps a page of department dues.
type DepartmentDueListResponse struct {
	Items      []DepartmentDueResponse `json:"items"`
	Pagination PaginationMeta          `json:"pagination"`
}

// MarkPaidResponse acknowledges a mark-as-paid request.
type MarkPaidResponse struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

// AcademicDueListRequest filters academic dues.
type AcademicDueListRequest struct {
	StudentID     string
	PaymentStatus string
	YearLabel     string
	Page          int
	PageSize      int
}

// AcademicDueUpdateRequest patches the payment side of an academic due.
type AcademicDueUpdateRequest struct {
	PaidByGovt    *int64  `json:"paid_by_govt" validate:"omitempty,gte=0"`
	PaidByStudent *int64  `json:"paid_by_student" validate:"omitempty,gte=0"`
	PaymentStatus *string `json:"payment_status" validate:"omitempty,oneof=processing unpaid paid"`
	Remarks       *string `json:"remarks" validate:"omitempty,max=2000"`
}

// AcademicDueResponse describes an academic due and its computed balance.
type AcademicDueResponse struct {
	ID uint `json:"id"`
	StudentRef
	YearLabel     string                `json:"year_label"`
	FeeStructure  *FeeStructureResponse `json:"fee_structure"`
	TotalFee      int64                 `json:"total_fee"`
	PaidByGovt    int64                 `json:"paid_by_govt"`
	PaidByStudent int64                 `json:"paid_by_student"`
	DueAmount     *int64                `json:"due_amount"`
	PaymentStatus string                `json:"payment_status"`
	Remarks       string                `json:"remarks"`
}

// NewAcademicDueResponse maps an academic due. Dues without a fee structure
// carry a null balance.
func NewAcademicDueResponse(due models.AcademicDue) AcademicDueResponse {
	response := AcademicDueResponse{
		ID:            due.ID,
		StudentRef:    studentRef(due.StudentProfile),
		YearLabel:     due.YearLabel,
		PaidByGovt:    due.PaidByGovt,
		PaidByStudent: due.PaidByStudent,
		PaymentStatus: due.PaymentStatus,
		Remarks:       due.Remarks,
	}
	if due.FeeStructure != nil {
		fee := NewFeeStructureResponse(*due.FeeStructure)
		amount := due.DueAmount(*due.FeeStructure)
		response.FeeStructure = &fee
		response.TotalFee = fee.TotalFee
		response.DueAmount = &amount
	}
	return response
}

// AcademicDueListResponse wraps a page of academic dues.
type AcademicDueListResponse struct {
	Items      []AcademicDueResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// HostelDueListRequest filters hostel dues.
type HostelDueListRequest struct {
	StudentID   string
	YearOfStudy string
	Page        int
	PageSize    int
}

// HostelDueUpdateRequest patches a hostel due row.
type HostelDueUpdateRequest struct {
	MessBill    *int64  `json:"mess_bill" validate:"omitempty,gte=0"`
	Scholarship *int64  `json:"scholarship" validate:"omitempty,gte=0"`
	Deposit     *int64  `json:"deposit" validate:"omitempty,gte=0"`
	Remarks     *string `json:"remarks" validate:"omitempty,max=2000"`
}

// HostelDueResponse describes one hostel year.
type HostelDueResponse struct {
	ID uint `json:"id"`
	StudentRef
	YearOfStudy string `json:"year_of_study"`
	MessBill    int64  `json:"mess_bill"`
	Scholarship int64  `json:"scholarship"`
	Deposit     int64  `json:"deposit"`
	DueAmount   int64  `json:"due_amount"`
	Remarks     string `json:"remarks"`
}

// NewHostelDueResponse maps a hostel due.
func NewHostelDueResponse(due models.HostelDue) HostelDueResponse {
	return HostelDueResponse{
		ID:          due.ID,
		StudentRef:  studentRef(due.StudentProfile),
		YearOfStudy: due.YearOfStudy,
		MessBill:    due.MessBill,
		Scholarship: due.Scholarship,
		Deposit:     due.Deposit,
		DueAmount:   due.DueAmount(),
		Remarks:     due.Remarks,
	}
}

// HostelDueListResponse wraps a page of hostel dues.
type HostelDueListResponse struct {
	Items      []HostelDueResponse `json:"items"`
	Pagination PaginationMeta      `json:"pagination"`
}

// OtherDueListRequest filters ad-hoc dues.
type OtherDueListRequest struct {
	StudentID string
	Category  string
}

// OtherDueUpsertRequest sets the ad-hoc amount a student owes a department.
type OtherDueUpsertRequest struct {
	StudentID string `json:"student_id" validate:"required,max=50"`
	Category  string `json:"category" validate:"required,oneof=library sports lab"`
	Amount    int64  `json:"amount" validate:"gte=0"`
	Remark    string `json:"remark" validate:"max=2000"`
}

// OtherDueResponse describes an ad-hoc due.
type OtherDueResponse struct {
	ID uint `json:"id"`
	StudentRef
	Category  string    `json:"category"`
	Amount    int64     `json:"amount"`
	Remark    string    `json:"remark"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOtherDueResponse maps an ad-hoc due.
func NewOtherDueResponse(due models.OtherDue) OtherDueResponse {
	return OtherDueResponse{
		ID:         due.ID,
		StudentRef: studentRef(due.StudentProfile),
		Category:   string(due.Category),
		Amount:     due.Amount,
		Remark:     due.Remark,
		UpdatedAt:  due.UpdatedAt,
	}
}

// BorrowRecordListRequest filters library or sports records.
type BorrowRecordListRequest struct {
	StudentID    string
	Search       string
	WithFineOnly bool
	Page         int
	PageSize     int
}

// BorrowRecordCreateRequest logs a new borrowing.
type BorrowRecordCreateRequest struct {
	StudentID  string  `json:"student_id" validate:"required,max=50"`
	ItemName   string  `json:"item_name" validate:"required,max=255"`
	BorrowDate string  `json:"borrow_date" validate:"required,datetime=2006-01-02"`
	ReturnDate *string `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
	FineAmount int64   `json:"fine_amount" validate:"gte=0"`
}

// BorrowRecordUpdateRequest assigns a fine or records a return.
type BorrowRecordUpdateRequest struct {
	FineAmount *int64  `json:"fine_amount" validate:"omitempty,gte=0"`
	ReturnDate *string `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
}

// BorrowRecordResponse describes a borrowing.
type BorrowRecordResponse struct {
	ID uint `json:"id"`
	StudentRef
	Kind       string  `json:"kind"`
	ItemName   string  `json:"item_name"`
	BorrowDate string  `json:"borrow_date"`
	ReturnDate *string `json:"return_date"`
	FineAmount int64   `json:"fine_amount"`
}

// NewBorrowRecordResponse maps a borrow record.
func NewBorrowRecordResponse(record models.BorrowRecord) BorrowRecordResponse {
	response := BorrowRecordResponse{
		ID:         record.ID,
		StudentRef: studentRef(record.StudentProfile),
		Kind:       record.Kind,
		ItemName:   record.ItemName,
		BorrowDate: time.Time(record.BorrowDate).Format(dateLayout),
		FineAmount: record.FineAmount,
	}
	if record.ReturnDate != nil {
		returned := record.ReturnDate.Format(dateLayout)
		response.ReturnDate = &returned
	}
	return response
}

// BorrowRecordListResponse wraps a page of borrow records.
type BorrowRecordListResponse struct {
	Items      []BorrowRecordResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// BorrowRecordGroup collects one student's records with the fine total.
type BorrowRecordGroup struct {
	StudentRef
	TotalFineAmount int64                  `json:"total_fine_amount"`
	Records         []BorrowRecordResponse `json:"records"`
}

// LegacyRecordListRequest filters legacy academic records.
type LegacyRecordListRequest struct {
	StudentID     string
	Search        string
	UnmatchedOnly bool
	Page          int
	PageSize      int
}

// LegacyRecordResponse describes a legacy academic record.
type LegacyRecordResponse struct {
	ID               uint    `json:"id"`
	StudentProfileID *uint   `json:"student_profile_id"`
	RollNumber       string  `json:"roll_number"`
	StudentName      string  `json:"student_name"`
	Label            string  `json:"label"`
	Section          string  `json:"section"`
	DueAmount        int64   `json:"due_amount"`
	TCNumber         string  `json:"tc_number"`
	TCIssuedOn       *string `json:"tc_issued_on"`
	Remarks          string  `json:"remarks"`
}

// NewLegacyRecordResponse maps a legacy record; Section is "lab" or "academic".
func NewLegacyRecordResponse(record models.LegacyAcademicRecord) LegacyRecordResponse {
	response := LegacyRecordResponse{
		ID:               record.ID,
		StudentProfileID: record.StudentProfileID,
		RollNumber:       record.RollNumber,
		StudentName:      record.StudentName,
		Label:            record.Label,
		Section:          "academic",
		DueAmount:        record.DueAmount,
		TCNumber:         record.TCNumber,
		Remarks:          record.Remarks,
	}
	if record.IsLabDue() {
		response.Section = "lab"
	}
	if record.TCIssuedOn != nil {
		issued := record.TCIssuedOn.Format(dateLayout)
		response.TCIssuedOn = &issued
	}
	return response
}

// LegacyRecordListResponse wraps a page of legacy records.
type LegacyRecordListResponse struct {
	Items      []LegacyRecordResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// DataIntegrityWarning reports a row skipped during aggregation.
type DataIntegrityWarning struct {
	Kind     string `json:"kind"`
	RecordID uint   `json:"record_id"`
	Message  string `json:"message"`
}

// DuesBreakdown holds the per-category outstanding amounts.
type DuesBreakdown struct {
	Academic int64 `json:"academic"`
	Hostel   int64 `json:"hostel"`
	Library  int64 `json:"library"`
	Lab      int64 `json:"lab"`
	Sports   int64 `json:"sports"`
	Other    int64 `json:"other"`
}

// Total sums every category.
func (b DuesBreakdown) Total() int64 {
	return b.Academic + b.Hostel + b.Library + b.Lab + b.Sports + b.Other
}

// DuesSummaryResponse is the aggregated view of a student's dues.
type DuesSummaryResponse struct {
	StudentRef
	Course     string                 `json:"course"`
	Breakdown  DuesBreakdown          `json:"breakdown"`
	GrandTotal int64                  `json:"grand_total"`
	Warnings   []DataIntegrityWarning `json:"warnings"`
}
