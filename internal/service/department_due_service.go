package service

import (
	"context"
	"errors"
	"strings"
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

// DepartmentDueService manages dues raised by department staff.
type DepartmentDueService interface {
	List(ctx context.Context, principal auth.Principal, req dto.DepartmentDueListRequest) (dto.DepartmentDueListResponse, error)
	Create(ctx context.Context, principal auth.Principal, req dto.DepartmentDueCreateRequest) (dto.DepartmentDueResponse, error)
	MarkPaid(ctx context.Context, principal auth.Principal, id uint) (dto.MarkPaidResponse, error)
}

type departmentDueService struct {
	repo      repository.DepartmentDueRepository
	resolver  studentResolver
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	logger    zerolog.Logger
}

// NewDepartmentDueService constructs the department due service.
func NewDepartmentDueService(
	repo repository.DepartmentDueRepository,
	students repository.StudentProfileRepository,
	validator *validator.Validate,
	activity ActivityRecorder,
	events EventPublisher,
	logger zerolog.Logger,
) DepartmentDueService {
	return &departmentDueService{
		repo:      repo,
		resolver:  studentResolver{profiles: students},
		validator: validator,
		activity:  activity,
		events:    events,
		logger:    logger.With().Str("component", "department_due_service").Logger(),
	}
}

// List returns a student's own dues, a staff member's department dues, or any dues for admins.
func (s *departmentDueService) List(ctx context.Context, principal auth.Principal, req dto.DepartmentDueListRequest) (dto.DepartmentDueListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)
	filter := repository.DepartmentDueFilter{
		IsPaid:    req.IsPaid,
		MinAmount: req.MinAmount,
		MaxAmount: req.MaxAmount,
		DueBefore: req.DueDateBefore,
		DueAfter:  req.DueDateAfter,
		Search:    req.Search,
		Ordering:  strings.TrimSpace(req.Ordering),
		Page:      page,
		PageSize:  pageSize,
	}

	requested := models.Department("")
	if strings.TrimSpace(req.Department) != "" {
		department, ok := models.ParseDepartment(req.Department)
		if !ok {
			return dto.DepartmentDueListResponse{}, NewValidationError("department", "unknown department")
		}
		requested = department
	}

	switch {
	case principal.IsStudent():
		profile, err := s.resolver.own(ctx, principal)
		if err != nil {
			return dto.DepartmentDueListResponse{}, err
		}
		filter.StudentProfileID = &profile.ID
		filter.Department = requested
	case principal.IsAdmin():
		filter.RollNumber = strings.TrimSpace(req.StudentID)
		filter.Department = requested
	default:
		if requested != "" && requested != principal.Department {
			return dto.DepartmentDueListResponse{}, ErrForbidden
		}
		filter.RollNumber = strings.TrimSpace(req.StudentID)
		filter.Department = principal.Department
	}

	dues, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.DepartmentDueListResponse{}, err
	}

	items := make([]dto.DepartmentDueResponse, 0, len(dues))
	for _, due := range dues {
		items = append(items, dto.NewDepartmentDueResponse(due))
	}
	return dto.DepartmentDueListResponse{Items: items, Pagination: dto.NewPaginationMeta(page, pageSize, total)}, nil
}

// Create stamps the caller's department on the due. A payload naming another
// department is rejected rather than silently rewritten.
func (s *departmentDueService) Create(ctx context.Context, principal auth.Principal, req dto.DepartmentDueCreateRequest) (dto.DepartmentDueResponse, error) {
	if !principal.IsStaff() {
		return dto.DepartmentDueResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.DepartmentDueResponse{}, err
	}

	department, err := s.targetDepartment(principal, req.Department)
	if err != nil {
		return dto.DepartmentDueResponse{}, err
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return dto.DepartmentDueResponse{}, NewValidationError("due_date", "expected YYYY-MM-DD")
	}

	student, err := s.resolver.byRoll(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return dto.DepartmentDueResponse{}, NewValidationError("student_id", "no student with this roll number")
		}
		return dto.DepartmentDueResponse{}, err
	}

	actorID := principal.UserID
	due := models.DepartmentDue{
		StudentProfileID: student.ID,
		Department:       department,
		Amount:           req.Amount,
		DueDate:          datatypes.Date(dueDate),
		Description:      cleanText(req.Description),
		CreatedByID:      &actorID,
	}
	if err := s.repo.Create(ctx, &due); err != nil {
		return dto.DepartmentDueResponse{}, err
	}
	due.StudentProfile = student

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actorOf(principal),
		Action:     "due.created",
		EntityType: "department_due",
		EntityID:   &due.ID,
		Metadata: map[string]interface{}{
			"roll_number": student.RollNumber,
			"department":  string(department),
			"amount":      due.Amount,
		},
	})
	s.events.Publish(ctx, Event{
		Type:       EventDueCreated,
		Department: string(department),
		EntityID:   due.ID,
		ActorID:    principal.UserID,
		Payload:    map[string]interface{}{"roll_number": student.RollNumber, "amount": due.Amount},
	})

	return dto.NewDepartmentDueResponse(due), nil
}

func (s *departmentDueService) targetDepartment(principal auth.Principal, requested string) (models.Department, error) {
	requested = strings.TrimSpace(requested)
	if principal.IsAdmin() {
		if requested == "" {
			return "", NewValidationError("department", "department is required")
		}
		department, ok := models.ParseDepartment(requested)
		if !ok {
			return "", NewValidationError("department", "unknown department")
		}
		return department, nil
	}

	if requested == "" {
		return principal.Department, nil
	}
	department, ok := models.ParseDepartment(requested)
	if !ok || department != principal.Department {
		return "", NewValidationError("department", "you can only assign dues for your own department")
	}
	return department, nil
}

// MarkPaid flips is_paid for the owning department. Repeating it is a no-op.
func (s *departmentDueService) MarkPaid(ctx context.Context, principal auth.Principal, id uint) (dto.MarkPaidResponse, error) {
	due, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MarkPaidResponse{}, ErrDueNotFound
		}
		return dto.MarkPaidResponse{}, err
	}
	if err := requireDepartment(principal, due.Department); err != nil {
		return dto.MarkPaidResponse{}, err
	}

	response := dto.MarkPaidResponse{ID: due.ID, Status: "marked as paid"}
	if due.IsPaid {
		return response, nil
	}

	if err := s.repo.MarkPaid(ctx, due.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MarkPaidResponse{}, ErrDueNotFound
		}
		return dto.MarkPaidResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actorOf(principal),
		Action:     "due.marked_paid",
		EntityType: "department_due",
		EntityID:   &due.ID,
		Metadata:   map[string]interface{}{"amount": due.Amount, "department": string(due.Department)},
	})
	s.events.Publish(ctx, Event{Type: EventDuePaid, Department: string(due.Department), EntityID: due.ID, ActorID: principal.UserID})

	return response, nil
}
