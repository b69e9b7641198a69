package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

// HostelDueService exposes hostel accounts to students and the hostel office.
type HostelDueService interface {
	List(ctx context.Context, principal auth.Principal, req dto.HostelDueListRequest) (dto.HostelDueListResponse, error)
	Update(ctx context.Context, principal auth.Principal, id uint, req dto.HostelDueUpdateRequest) (dto.HostelDueResponse, error)
}

type hostelDueService struct {
	repo      repository.HostelDueRepository
	resolver  studentResolver
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewHostelDueService constructs the hostel due service.
func NewHostelDueService(repo repository.HostelDueRepository, students repository.StudentProfileRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) HostelDueService {
	return &hostelDueService{
		repo:      repo,
		resolver:  studentResolver{profiles: students},
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "hostel_due_service").Logger(),
	}
}

func (s *hostelDueService) List(ctx context.Context, principal auth.Principal, req dto.HostelDueListRequest) (dto.HostelDueListResponse, error) {
	if err := requireReader(principal, models.DepartmentHostel); err != nil {
		return dto.HostelDueListResponse{}, err
	}
	studentID, err := s.resolver.listScope(ctx, principal, req.StudentID)
	if err != nil {
		return dto.HostelDueListResponse{}, err
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	dues, total, err := s.repo.List(ctx, repository.HostelDueFilter{
		StudentProfileID: studentID,
		YearOfStudy:      strings.TrimSpace(req.YearOfStudy),
		Page:             page,
		PageSize:         pageSize,
	})
	if err != nil {
		return dto.HostelDueListResponse{}, err
	}

	items := make([]dto.HostelDueResponse, 0, len(dues))
	for _, due := range dues {
		items = append(items, dto.NewHostelDueResponse(due))
	}
	return dto.HostelDueListResponse{Items: items, Pagination: dto.NewPaginationMeta(page, pageSize, total)}, nil
}

func (s *hostelDueService) Update(ctx context.Context, principal auth.Principal, id uint, req dto.HostelDueUpdateRequest) (dto.HostelDueResponse, error) {
	if err := requireDepartment(principal, models.DepartmentHostel); err != nil {
		return dto.HostelDueResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.HostelDueResponse{}, err
	}

	updates := map[string]interface{}{}
	if req.MessBill != nil {
		updates["mess_bill"] = *req.MessBill
	}
	if req.Scholarship != nil {
		updates["scholarship"] = *req.Scholarship
	}
	if req.Deposit != nil {
		updates["deposit"] = *req.Deposit
	}
	if req.Remarks != nil {
		updates["remarks"] = cleanText(*req.Remarks)
	}
	if len(updates) == 0 {
		return dto.HostelDueResponse{}, NewValidationError("body", "no fields to update")
	}

	due, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.HostelDueResponse{}, ErrDueNotFound
		}
		return dto.HostelDueResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actorOf(principal),
		Action:     "hostel_due.updated",
		EntityType: "hostel_due",
		EntityID:   &due.ID,
		Metadata:   updates,
	})
	return dto.NewHostelDueResponse(due), nil
}
