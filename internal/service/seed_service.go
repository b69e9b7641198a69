package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

// ErrSeedPasswordMissing indicates the admin password was not configured.
var ErrSeedPasswordMissing = errors.New("admin default password is not configured")

const (
	seedBaseYear = "2022-23"
	seedNextYear = "2023-24"
)

// SeedOptions controls what a seeding run creates.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	// StaffPassword creates one sample account per department when set.
	StaffPassword string
}

// SeedService provisions the admin account and the course and fee catalog.
type SeedService interface {
	Seed(ctx context.Context, options SeedOptions) (dto.SeedReport, error)
}

type seedService struct {
	catalog  repository.CatalogRepository
	users    repository.UserRepository
	accounts AccountService
	logger   zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(catalog repository.CatalogRepository, users repository.UserRepository, accounts AccountService, logger zerolog.Logger) SeedService {
	return &seedService{
		catalog:  catalog,
		users:    users,
		accounts: accounts,
		logger:   logger.With().Str("component", "seed_service").Logger(),
	}
}

// Seed is idempotent: existing accounts keep their passwords and fee rows for
// the following year are only copied when missing.
func (s *seedService) Seed(ctx context.Context, options SeedOptions) (dto.SeedReport, error) {
	if strings.TrimSpace(options.AdminPassword) == "" {
		return dto.SeedReport{}, ErrSeedPasswordMissing
	}

	var report dto.SeedReport
	created, err := s.ensureStaff(ctx, dto.StaffAccountRequest{
		Email:       options.AdminEmail,
		Password:    options.AdminPassword,
		FirstName:   "Principal",
		Department:  string(models.DepartmentAccounts),
		Designation: "Principal",
		Admin:       true,
	})
	if err != nil {
		return report, err
	}
	report.AdminCreated = created

	if options.StaffPassword != "" {
		for _, staff := range sampleStaff {
			created, err := s.ensureStaff(ctx, dto.StaffAccountRequest{
				Email:       staff.email,
				Password:    options.StaffPassword,
				FirstName:   staff.firstName,
				Department:  staff.department,
				Designation: staff.designation,
			})
			if err != nil {
				return report, err
			}
			if created {
				report.StaffCreated++
			}
		}
	}

	for _, item := range feeCatalog {
		course := models.Course{Name: item.course, DurationYears: item.years}
		if err := s.catalog.UpsertCourse(ctx, &course); err != nil {
			return report, err
		}
		report.Courses++

		fee := models.FeeStructure{
			CourseName:   item.course,
			AcademicYear: seedBaseYear,
			Category:     item.category,
			TuitionFee:   item.tuition,
			SpecialFee:   int64Ptr(item.special),
			OtherFee:     int64Ptr(item.other),
			ExamFee:      int64Ptr(item.exam),
		}
		if err := s.catalog.UpsertFeeStructure(ctx, &fee); err != nil {
			return report, err
		}
		report.FeeStructures++

		copied, err := s.copyForward(ctx, fee)
		if err != nil {
			return report, err
		}
		if copied {
			report.FeeCopies++
		}
	}

	s.logger.Info().
		Bool("admin_created", report.AdminCreated).
		Int("staff_created", report.StaffCreated).
		Int("courses", report.Courses).
		Int("fee_structures", report.FeeStructures).
		Int("fee_copies", report.FeeCopies).
		Msg("seed completed")
	return report, nil
}

func (s *seedService) ensureStaff(ctx context.Context, req dto.StaffAccountRequest) (bool, error) {
	_, err := s.users.FindStaffByEmail(ctx, req.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if _, err := s.accounts.CreateStaff(ctx, req); err != nil {
		return false, err
	}
	return true, nil
}

func (s *seedService) copyForward(ctx context.Context, fee models.FeeStructure) (bool, error) {
	_, err := s.catalog.FindFeeStructure(ctx, fee.CourseName, seedNextYear, fee.Category)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	next := models.FeeStructure{
		CourseName:   fee.CourseName,
		AcademicYear: seedNextYear,
		Category:     fee.Category,
		TuitionFee:   fee.TuitionFee,
		SpecialFee:   fee.SpecialFee,
		OtherFee:     fee.OtherFee,
		ExamFee:      fee.ExamFee,
	}
	if err := s.catalog.UpsertFeeStructure(ctx, &next); err != nil {
		return false, err
	}
	return true, nil
}

func int64Ptr(v int64) *int64 {
	return &v
}
