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

// AcademicDueService exposes tuition dues to students and the accounts section.
type AcademicDueService interface {
	List(ctx context.Context, principal auth.Principal, req dto.AcademicDueListRequest) (dto.AcademicDueListResponse, error)
	Update(ctx context.Context, principal auth.Principal, id uint, req dto.AcademicDueUpdateRequest) (dto.AcademicDueResponse, error)
}

type academicDueService struct {
	repo      repository.AcademicDueRepository
	resolver  studentResolver
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewAcademicDueService constructs the academic due service.
func NewAcademicDueService(repo repository.AcademicDueRepository, students repository.StudentProfileRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) AcademicDueService {
	return &academicDueService{
		repo:      repo,
		resolver:  studentResolver{profiles: students},
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "academic_due_service").Logger(),
	}
}

func (s *academicDueService) List(ctx context.Context, principal auth.Principal, req dto.AcademicDueListRequest) (dto.AcademicDueListResponse, error) {
	if err := requireReader(principal, models.DepartmentAccounts); err != nil {
		return dto.AcademicDueListResponse{}, err
	}
	studentID, err := s.resolver.listScope(ctx, principal, req.StudentID)
	if err != nil {
		return dto.AcademicDueListResponse{}, err
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	dues, total, err := s.repo.List(ctx, repository.AcademicDueFilter{
		StudentProfileID: studentID,
		PaymentStatus:    strings.TrimSpace(req.PaymentStatus),
		YearLabel:        strings.TrimSpace(req.YearLabel),
		Page:             page,
		PageSize:         pageSize,
	})
	if err != nil {
		return dto.AcademicDueListResponse{}, err
	}

	items := make([]dto.AcademicDueResponse, 0, len(dues))
	for _, due := range dues {
		items = append(items, dto.NewAcademicDueResponse(due))
	}
	return dto.AcademicDueListResponse{Items: items, Pagination: dto.NewPaginationMeta(page, pageSize, total)}, nil
}

func (s *academicDueService) Update(ctx context.Context, principal auth.Principal, id uint, req dto.AcademicDueUpdateRequest) (dto.AcademicDueResponse, error) {
	if err := requireDepartment(principal, models.DepartmentAccounts); err != nil {
		return dto.AcademicDueResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AcademicDueResponse{}, err
	}

	updates := map[string]interface{}{}
	if req.PaidByGovt != nil {
		updates["paid_by_govt"] = *req.PaidByGovt
	}
	if req.PaidByStudent != nil {
		updates["paid_by_student"] = *req.PaidByStudent
	}
	if req.PaymentStatus != nil {
		updates["payment_status"] = *req.PaymentStatus
	}
	if req.Remarks != nil {
		updates["remarks"] = cleanText(*req.Remarks)
	}
	if len(updates) == 0 {
		return dto.AcademicDueResponse{}, NewValidationError("body", "no fields to update")
	}

	due, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AcademicDueResponse{}, ErrDueNotFound
		}
		return dto.AcademicDueResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actorOf(principal),
		Action:     "academic_due.updated",
		EntityType: "academic_due",
		EntityID:   &due.ID,
		Metadata:   updates,
	})
	return dto.NewAcademicDueResponse(due), nil
}
