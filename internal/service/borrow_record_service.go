package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

// BorrowRecordService manages the library and sports borrowing logs. Every
// method takes the record kind, which also decides the owning department.
type BorrowRecordService interface {
	List(ctx context.Context, principal auth.Principal, kind string, req dto.BorrowRecordListRequest) (dto.BorrowRecordListResponse, error)
	Grouped(ctx context.Context, principal auth.Principal, kind string, req dto.BorrowRecordListRequest) ([]dto.BorrowRecordGroup, error)
	Create(ctx context.Context, principal auth.Principal, kind string, req dto.BorrowRecordCreateRequest) (dto.BorrowRecordResponse, error)
	Update(ctx context.Context, principal auth.Principal, kind string, id uint, req dto.BorrowRecordUpdateRequest) (dto.BorrowRecordResponse, error)
}

type borrowRecordService struct {
	repo      repository.BorrowRecordRepository
	resolver  studentResolver
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewBorrowRecordService constructs the borrow record service.
func NewBorrowRecordService(repo repository.BorrowRecordRepository, students repository.StudentProfileRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) BorrowRecordService {
	return &borrowRecordService{
		repo:      repo,
		resolver:  studentResolver{profiles: students},
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "borrow_record_service").Logger(),
	}
}

func (s *borrowRecordService) List(ctx context.Context, principal auth.Principal, kind string, req dto.BorrowRecordListRequest) (dto.BorrowRecordListResponse, error) {
	filter, page, pageSize, err := s.filter(ctx, principal, kind, req)
	if err != nil {
		return dto.BorrowRecordListResponse{}, err
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.BorrowRecordListResponse{}, err
	}
	items := make([]dto.BorrowRecordResponse, 0, len(records))
	for _, item := range records {
		items = append(items, dto.NewBorrowRecordResponse(item))
	}
	return dto.BorrowRecordListResponse{Items: items, Pagination: dto.NewPaginationMeta(page, pageSize, total)}, nil
}

// Grouped collects records per student with their total fine, in first-seen order.
func (s *borrowRecordService) Grouped(ctx context.Context, principal auth.Principal, kind string, req dto.BorrowRecordListRequest) ([]dto.BorrowRecordGroup, error) {
	req.Page, req.PageSize = 0, 0
	filter, _, _, err := s.filter(ctx, principal, kind, req)
	if err != nil {
		return nil, err
	}
	filter.PageSize = 0

	records, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	index := map[uint]int{}
	groups := make([]dto.BorrowRecordGroup, 0)
	for _, item := range records {
		response := dto.NewBorrowRecordResponse(item)
		position, ok := index[item.StudentProfileID]
		if !ok {
			position = len(groups)
			index[item.StudentProfileID] = position
			groups = append(groups, dto.BorrowRecordGroup{StudentRef: response.StudentRef})
		}
		groups[position].TotalFineAmount += item.FineAmount
		groups[position].Records = append(groups[position].Records, response)
	}
	return groups, nil
}

func (s *borrowRecordService) Create(ctx context.Context, principal auth.Principal, kind string, req dto.BorrowRecordCreateRequest) (dto.BorrowRecordResponse, error) {
	if err := validBorrowKind(kind); err != nil {
		return dto.BorrowRecordResponse{}, err
	}
	if err := requireDepartment(principal, models.BorrowKindDepartment(kind)); err != nil {
		return dto.BorrowRecordResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.BorrowRecordResponse{}, err
	}

	borrowDate, err := time.Parse("2006-01-02", req.BorrowDate)
	if err != nil {
		return dto.BorrowRecordResponse{}, NewValidationError("borrow_date", "expected YYYY-MM-DD")
	}
	returnDate, err := parseOptionalDate("return_date", req.ReturnDate)
	if err != nil {
		return dto.BorrowRecordResponse{}, err
	}
	if returnDate != nil && returnDate.Before(borrowDate) {
		return dto.BorrowRecordResponse{}, NewValidationError("return_date", "must not be before the borrow date")
	}

	student, err := s.resolver.byRoll(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return dto.BorrowRecordResponse{}, NewValidationError("student_id", "no student with this roll number")
		}
		return dto.BorrowRecordResponse{}, err
	}

	item := models.BorrowRecord{
		StudentProfileID: student.ID,
		Kind:             kind,
		ItemName:         cleanText(req.ItemName),
		BorrowDate:       datatypes.Date(borrowDate),
		ReturnDate:       returnDate,
		FineAmount:       req.FineAmount,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return dto.BorrowRecordResponse{}, err
	}
	item.StudentProfile = student

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actorOf(principal),
		Action:     kind + "_record.created",
		EntityType: "borrow_record",
		EntityID:   &item.ID,
		Metadata:   map[string]interface{}{"roll_number": student.RollNumber, "item_name": item.ItemName},
	})
	return dto.NewBorrowRecordResponse(item), nil
}

// Update assigns a fine or records the return of a borrowed item.
func (s *borrowRecordService) Update(ctx context.Context, principal auth.Principal, kind string, id uint, req dto.BorrowRecordUpdateRequest) (dto.BorrowRecordResponse, error) {
	if err := validBorrowKind(kind); err != nil {
		return dto.BorrowRecordResponse{}, err
	}
	if err := requireDepartment(principal, models.BorrowKindDepartment(kind)); err != nil {
		return dto.BorrowRecordResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.BorrowRecordResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BorrowRecordResponse{}, ErrRecordNotFound
		}
		return dto.BorrowRecordResponse{}, err
	}
	if existing.Kind != kind {
		return dto.BorrowRecordResponse{}, ErrRecordNotFound
	}

	updates := map[string]interface{}{}
	if req.FineAmount != nil {
		updates["fine_amount"] = *req.FineAmount
	}
	returnDate, err := parseOptionalDate("return_date", req.ReturnDate)
	if err != nil {
		return dto.BorrowRecordResponse{}, err
	}
	if returnDate != nil {
		if returnDate.Before(time.Time(existing.BorrowDate)) {
			return dto.BorrowRecordResponse{}, NewValidationError("return_date", "must not be before the borrow date")
		}
		updates["return_date"] = *returnDate
	}
	if len(updates) == 0 {
		return dto.BorrowRecordResponse{}, NewValidationError("body", "no fields to update")
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BorrowRecordResponse{}, ErrRecordNotFound
		}
		return dto.BorrowRecordResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actorOf(principal),
		Action:     kind + "_record.updated",
		EntityType: "borrow_record",
		EntityID:   &updated.ID,
		Metadata:   updates,
	})
	return dto.NewBorrowRecordResponse(updated), nil
}

func (s *borrowRecordService) filter(ctx context.Context, principal auth.Principal, kind string, req dto.BorrowRecordListRequest) (repository.BorrowRecordFilter, int, int, error) {
	if err := validBorrowKind(kind); err != nil {
		return repository.BorrowRecordFilter{}, 0, 0, err
	}
	if err := requireReader(principal, models.BorrowKindDepartment(kind)); err != nil {
		return repository.BorrowRecordFilter{}, 0, 0, err
	}
	studentID, err := s.resolver.listScope(ctx, principal, req.StudentID)
	if err != nil {
		return repository.BorrowRecordFilter{}, 0, 0, err
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	return repository.BorrowRecordFilter{
		Kind:             kind,
		StudentProfileID: studentID,
		Search:           req.Search,
		WithFineOnly:     req.WithFineOnly,
		Page:             page,
		PageSize:         pageSize,
	}, page, pageSize, nil
}

func validBorrowKind(kind string) error {
	if kind != models.BorrowKindLibrary && kind != models.BorrowKindSports {
		return NewValidationError("kind", "must be library or sports")
	}
	return nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, NewValidationError(field, "expected YYYY-MM-DD")
	}
	return &parsed, nil
}
