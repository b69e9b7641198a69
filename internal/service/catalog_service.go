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

// CatalogService serves courses and fee structures.
type CatalogService interface {
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	ListFeeStructures(ctx context.Context, req dto.FeeStructureListRequest) ([]dto.FeeStructureResponse, error)
	UpsertFeeStructure(ctx context.Context, principal auth.Principal, req dto.FeeStructureUpsertRequest) (dto.FeeStructureResponse, error)
	FindFeeStructure(ctx context.Context, courseName, academicYear, category string) (models.FeeStructure, error)
}

type catalogService struct {
	repo      repository.CatalogRepository
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	logger    zerolog.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(repo repository.CatalogRepository, validator *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		events:    events,
		logger:    logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, dto.NewCourseResponse(course))
	}
	return responses, nil
}

func (s *catalogService) ListFeeStructures(ctx context.Context, req dto.FeeStructureListRequest) ([]dto.FeeStructureResponse, error) {
	fees, err := s.repo.ListFeeStructures(ctx, repository.FeeStructureFilter{
		CourseName:   strings.TrimSpace(req.CourseName),
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		Category:     strings.TrimSpace(req.Category),
	})
	if err != nil {
		return nil, err
	}
	responses := make([]dto.FeeStructureResponse, 0, len(fees))
	for _, fee := range fees {
		responses = append(responses, dto.NewFeeStructureResponse(fee))
	}
	return responses, nil
}

// UpsertFeeStructure is restricted to accounts staff and admins.
func (s *catalogService) UpsertFeeStructure(ctx context.Context, principal auth.Principal, req dto.FeeStructureUpsertRequest) (dto.FeeStructureResponse, error) {
	if err := requireDepartment(principal, models.DepartmentAccounts); err != nil {
		return dto.FeeStructureResponse{}, err
	}
	req.CourseName = strings.TrimSpace(req.CourseName)
	req.AcademicYear = strings.TrimSpace(req.AcademicYear)
	req.Category = strings.TrimSpace(req.Category)
	if err := s.validator.Struct(req); err != nil {
		return dto.FeeStructureResponse{}, err
	}

	fee := models.FeeStructure{
		CourseName:   req.CourseName,
		AcademicYear: req.AcademicYear,
		Category:     req.Category,
		TuitionFee:   req.TuitionFee,
		SpecialFee:   req.SpecialFee,
		OtherFee:     req.OtherFee,
		ExamFee:      req.ExamFee,
	}
	if err := s.repo.UpsertFeeStructure(ctx, &fee); err != nil {
		return dto.FeeStructureResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actorOf(principal),
		Action:     "fee_structure.upserted",
		EntityType: "fee_structure",
		EntityID:   &fee.ID,
		Metadata: map[string]interface{}{
			"course_name":   fee.CourseName,
			"academic_year": fee.AcademicYear,
			"category":      fee.Category,
			"total_fee":     fee.ChargedTotal(),
		},
	})
	s.events.Publish(ctx, Event{Type: EventFeeStructureSet, Department: string(models.DepartmentAccounts), EntityID: fee.ID, ActorID: principal.UserID})

	return dto.NewFeeStructureResponse(fee), nil
}

func (s *catalogService) FindFeeStructure(ctx context.Context, courseName, academicYear, category string) (models.FeeStructure, error) {
	fee, err := s.repo.FindFeeStructure(ctx, courseName, academicYear, category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FeeStructure{}, ErrFeeStructureNotFound
		}
		return models.FeeStructure{}, err
	}
	return fee, nil
}
