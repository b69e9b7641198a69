package dto

import (
	"time"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// ImportRowError describes a row that could not be imported.
type ImportRowError struct {
	Row        int    `json:"row"`
	RollNumber string `json:"roll_number,omitempty"`
	Message    string `json:"message"`
}

// ImportReport summarises a bulk import run.
type ImportReport struct {
	Kind      string           `json:"kind"`
	Processed int              `json:"processed"`
	Upserted  int              `json:"upserted"`
	Created   int              `json:"created"`
	Skipped   int              `json:"skipped"`
	Unmatched int              `json:"unmatched"`
	Errors    []ImportRowError `json:"errors"`
}

// ChallanUploadRequest carries the metadata sent alongside a challan file.
type ChallanUploadRequest struct {
	Department string `validate:"required,oneof=accounts hostel"`
	Amount     int64  `validate:"gt=0"`
	Remarks    string `validate:"max=2000"`
}

// ChallanListRequest filters challans.
type ChallanListRequest struct {
	StudentID  string
	Department string
	Status     string
	Page       int
	PageSize   int
}

// ChallanReviewRequest verifies or rejects a challan.
type ChallanReviewRequest struct {
	Status  string `json:"status" validate:"required,oneof=verified rejected"`
	Remarks string `json:"remarks" validate:"max=2000"`
}

// ChallanResponse describes an uploaded challan.
type ChallanResponse struct {
	ID uint `json:"id"`
	StudentRef
	Department   string     `json:"department"`
	FileURL      string     `json:"file_url"`
	MimeType     string     `json:"mime_type"`
	Amount       int64      `json:"amount"`
	Status       string     `json:"status"`
	VerifiedByID *uint      `json:"verified_by_id"`
	VerifiedAt   *time.Time `json:"verified_at"`
	Remarks      string     `json:"remarks"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewChallanResponse maps a challan.
func NewChallanResponse(challan models.Challan) ChallanResponse {
	return ChallanResponse{
		ID:           challan.ID,
		StudentRef:   studentRef(challan.StudentProfile),
		Department:   string(challan.Department),
		FileURL:      challan.FileURL,
		MimeType:     challan.MimeType,
		Amount:       challan.Amount,
		Status:       challan.Status,
		VerifiedByID: challan.VerifiedByID,
		VerifiedAt:   challan.VerifiedAt,
		Remarks:      challan.Remarks,
		CreatedAt:    challan.CreatedAt,
	}
}

// ChallanListResponse wraps a page of challans.
type ChallanListResponse struct {
	Items      []ChallanResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// DepartmentStat is the outstanding position of one department.
type DepartmentStat struct {
	Department      string `json:"department"`
	Outstanding     int64  `json:"outstanding"`
	RecordCount     int64  `json:"record_count"`
	PendingChallans int64  `json:"pending_challans"`
}

// DepartmentStatsResponse lists every department's position.
type DepartmentStatsResponse struct {
	Departments []DepartmentStat `json:"departments"`
	Total       int64            `json:"total"`
	GeneratedAt time.Time        `json:"generated_at"`
	CacheHit    bool             `json:"cache_hit"`
}

// ActivityListRequest filters the audit trail.
type ActivityListRequest struct {
	Page       int
	PageSize   int
	ActorID    uint
	Department string
	Action     string
	EntityType string
	// From and To are calendar days, both inclusive.
	From *time.Time
	To   *time.Time
}

// ActivityResponse describes an audit entry.
type ActivityResponse struct {
	ID            uint                   `json:"id"`
	ActorID       uint                   `json:"actor_id"`
	ActorRole     string                 `json:"actor_role"`
	Department    string                 `json:"department,omitempty"`
	Action        string                 `json:"action"`
	EntityType    string                 `json:"entity_type"`
	EntityID      *uint                  `json:"entity_id,omitempty"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Metadata      map[string]interface{} `json:"metadata"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NewActivityResponse maps an activity log entry.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	metadata := map[string]interface{}{}
	for key, value := range entry.Metadata {
		metadata[key] = value
	}
	return ActivityResponse{
		ID:            entry.ID,
		ActorID:       entry.ActorID,
		ActorRole:     entry.ActorRole,
		Department:    entry.Department,
		Action:        entry.Action,
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		CorrelationID: entry.CorrelationID,
		Metadata:      metadata,
		CreatedAt:     entry.CreatedAt,
	}
}

// ActivityListResponse wraps a page of audit entries.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// StaffAccountRequest creates a staff login from the admin CLI.
type StaffAccountRequest struct {
	Email       string `validate:"required,email,max=255"`
	Password    string `validate:"required,min=8,max=128"`
	FirstName   string `validate:"max=150"`
	LastName    string `validate:"max=150"`
	Department  string `validate:"required"`
	Designation string `validate:"max=50"`
	Gender      string `validate:"max=10"`
	PhoneNumber string `validate:"max=15"`
	Admin       bool
}

// SeedReport summarises a seeding run.
type SeedReport struct {
	AdminCreated  bool `json:"admin_created"`
	StaffCreated  int  `json:"staff_created"`
	Courses       int  `json:"courses"`
	FeeStructures int  `json:"fee_structures"`
	FeeCopies     int  `json:"fee_copies"`
}
