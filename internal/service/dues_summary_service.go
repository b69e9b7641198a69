package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/observability"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

// DuesSummaryService aggregates every ledger into a per-category view of what a student owes.
type DuesSummaryService interface {
	Summary(ctx context.Context, principal auth.Principal, rollNumber string) (dto.DuesSummaryResponse, error)
}

// DuesSummaryRepositories groups the ledgers read by the summary.
type DuesSummaryRepositories struct {
	Students       repository.StudentProfileRepository
	Academic       repository.AcademicDueRepository
	Hostel         repository.HostelDueRepository
	Other          repository.OtherDueRepository
	Borrow         repository.BorrowRecordRepository
	Legacy         repository.LegacyRecordRepository
	DepartmentDues repository.DepartmentDueRepository
}

type duesSummaryService struct {
	repos    DuesSummaryRepositories
	resolver studentResolver
	logger   zerolog.Logger
}

// NewDuesSummaryService constructs the dues summary service.
func NewDuesSummaryService(repos DuesSummaryRepositories, logger zerolog.Logger) DuesSummaryService {
	return &duesSummaryService{
		repos:    repos,
		resolver: studentResolver{profiles: repos.Students},
		logger:   logger.With().Str("component", "dues_summary_service").Logger(),
	}
}

func (s *duesSummaryService) Summary(ctx context.Context, principal auth.Principal, rollNumber string) (dto.DuesSummaryResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/ssp-go-api/internal/service/dues_summary")
	ctx, span := tracer.Start(ctx, "dues.summary")
	defer span.End()

	student, err := s.target(ctx, principal, rollNumber)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve_student_failed")
		return dto.DuesSummaryResponse{}, err
	}
	span.SetAttributes(attribute.Int64("dues.student_profile_id", int64(student.ID)))

	breakdown, warnings, err := s.aggregate(ctx, student.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "aggregate_failed")
		return dto.DuesSummaryResponse{}, err
	}
	span.SetAttributes(
		attribute.Int64("dues.grand_total", breakdown.Total()),
		attribute.Int("dues.warnings", len(warnings)),
	)

	return dto.DuesSummaryResponse{
		StudentRef: dto.StudentRef{
			StudentProfileID: student.ID,
			RollNumber:       student.RollNumber,
			StudentName:      student.User.FullName(),
		},
		Course:     student.CourseName,
		Breakdown:  breakdown,
		GrandTotal: breakdown.Total(),
		Warnings:   warnings,
	}, nil
}

// target resolves whose summary is requested. A summary spans every
// department, so staff outside accounts cannot read one.
func (s *duesSummaryService) target(ctx context.Context, principal auth.Principal, rollNumber string) (models.StudentProfile, error) {
	if principal.IsStudent() {
		return s.resolver.own(ctx, principal)
	}
	if !principal.CanManage(models.DepartmentAccounts) {
		return models.StudentProfile{}, ErrForbidden
	}
	if strings.TrimSpace(rollNumber) == "" {
		return models.StudentProfile{}, NewValidationError("student_id", "required for staff")
	}
	return s.resolver.byRoll(ctx, rollNumber)
}

func (s *duesSummaryService) aggregate(ctx context.Context, studentID uint) (dto.DuesBreakdown, []dto.DataIntegrityWarning, error) {
	var breakdown dto.DuesBreakdown
	warnings := make([]dto.DataIntegrityWarning, 0)

	academic, _, err := s.repos.Academic.List(ctx, repository.AcademicDueFilter{StudentProfileID: &studentID})
	if err != nil {
		return breakdown, nil, fmt.Errorf("list academic dues: %w", err)
	}
	for _, due := range academic {
		if due.FeeStructure == nil {
			warning := dto.DataIntegrityWarning{
				Kind:     "academic_due",
				RecordID: due.ID,
				Message:  "academic due has no fee structure and was excluded",
			}
			warnings = append(warnings, warning)
			observability.SummaryWarnings().Inc()
			s.logger.Warn().
				Uint("academic_due_id", due.ID).
				Uint("student_profile_id", studentID).
				Msg("academic due without fee structure skipped")
			continue
		}
		breakdown.Academic += due.DueAmount(*due.FeeStructure)
	}

	legacy, _, err := s.repos.Legacy.List(ctx, repository.LegacyRecordFilter{StudentProfileID: &studentID})
	if err != nil {
		return breakdown, nil, fmt.Errorf("list legacy records: %w", err)
	}
	for _, item := range legacy {
		if item.IsLabDue() {
			breakdown.Lab += item.DueAmount
			continue
		}
		breakdown.Academic += item.DueAmount
	}

	hostel, _, err := s.repos.Hostel.List(ctx, repository.HostelDueFilter{StudentProfileID: &studentID})
	if err != nil {
		return breakdown, nil, fmt.Errorf("list hostel dues: %w", err)
	}
	breakdown.Hostel = models.HostelTotal(hostel)

	borrowed, _, err := s.repos.Borrow.List(ctx, repository.BorrowRecordFilter{StudentProfileID: &studentID})
	if err != nil {
		return breakdown, nil, fmt.Errorf("list borrow records: %w", err)
	}
	for _, item := range borrowed {
		switch item.Kind {
		case models.BorrowKindSports:
			breakdown.Sports += item.FineAmount
		default:
			breakdown.Library += item.FineAmount
		}
	}

	others, err := s.repos.Other.List(ctx, repository.OtherDueFilter{StudentProfileID: &studentID})
	if err != nil {
		return breakdown, nil, fmt.Errorf("list other dues: %w", err)
	}
	for _, item := range others {
		if item.Category == models.DepartmentLab {
			breakdown.Lab += item.Amount
			continue
		}
		breakdown.Other += item.Amount
	}

	unpaid := false
	departmentDues, _, err := s.repos.DepartmentDues.List(ctx, repository.DepartmentDueFilter{StudentProfileID: &studentID, IsPaid: &unpaid})
	if err != nil {
		return breakdown, nil, fmt.Errorf("list department dues: %w", err)
	}
	for _, item := range departmentDues {
		breakdown.Other += item.Amount
	}

	return breakdown, warnings, nil
}
