package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

// OtherDueService manages ad-hoc library, sports and lab dues.
type OtherDueService interface {
	List(ctx context.Context, principal auth.Principal, req dto.OtherDueListRequest) ([]dto.OtherDueResponse, error)
	Upsert(ctx context.Context, principal auth.Principal, req dto.OtherDueUpsertRequest) (dto.OtherDueResponse, error)
}

type otherDueService struct {
	repo      repository.OtherDueRepository
	resolver  studentResolver
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	logger    zerolog.Logger
}

// NewOtherDueService constructs the other due service.
func NewOtherDueService(repo repository.OtherDueRepository, students repository.StudentProfileRepository, validator *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) OtherDueService {
	return &otherDueService{
		repo:      repo,
		resolver:  studentResolver{profiles: students},
		validator: validator,
		activity:  activity,
		events:    events,
		logger:    logger.With().Str("component", "other_due_service").Logger(),
	}
}

// List scopes staff to their own category; requesting another category is forbidden.
func (s *otherDueService) List(ctx context.Context, principal auth.Principal, req dto.OtherDueListRequest) ([]dto.OtherDueResponse, error) {
	category := models.Department(strings.TrimSpace(req.Category))
	if category != "" && !models.IsOtherDueCategory(category) {
		return nil, NewValidationError("category", "must be one of library, sports, lab")
	}

	if principal.Role == models.RoleStaff {
		if !models.IsOtherDueCategory(principal.Department) {
			return nil, ErrForbidden
		}
		if category != "" && category != principal.Department {
			return nil, ErrForbidden
		}
		category = principal.Department
	}

	studentID, err := s.resolver.listScope(ctx, principal, req.StudentID)
	if err != nil {
		return nil, err
	}

	dues, err := s.repo.List(ctx, repository.OtherDueFilter{StudentProfileID: studentID, Category: category})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OtherDueResponse, 0, len(dues))
	for _, due := range dues {
		items = append(items, dto.NewOtherDueResponse(due))
	}
	return items, nil
}

// Upsert sets the amount owed to the caller's own category.
func (s *otherDueService) Upsert(ctx context.Context, principal auth.Principal, req dto.OtherDueUpsertRequest) (dto.OtherDueResponse, error) {
	if !principal.IsStaff() {
		return dto.OtherDueResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.OtherDueResponse{}, err
	}
	category := models.Department(req.Category)
	if !principal.CanManage(category) {
		return dto.OtherDueResponse{}, NewValidationError("category", "you can only assign dues for your own department")
	}

	student, err := s.resolver.byRoll(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return dto.OtherDueResponse{}, NewValidationError("student_id", "no student with this roll number")
		}
		return dto.OtherDueResponse{}, err
	}

	actorID := principal.UserID
	due := models.OtherDue{
		StudentProfileID: student.ID,
		Category:         category,
		Amount:           req.Amount,
		Remark:           cleanText(req.Remark),
		CreatedByID:      &actorID,
	}
	if err := s.repo.Upsert(ctx, &due); err != nil {
		return dto.OtherDueResponse{}, err
	}
	due.StudentProfile = student

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actorOf(principal),
		Action:     "other_due.upserted",
		EntityType: "other_due",
		EntityID:   &due.ID,
		Metadata:   map[string]interface{}{"roll_number": student.RollNumber, "category": string(category), "amount": due.Amount},
	})
	s.events.Publish(ctx, Event{Type: EventOtherDueUpserted, Department: string(category), EntityID: due.ID, ActorID: principal.UserID})

	return dto.NewOtherDueResponse(due), nil
}
