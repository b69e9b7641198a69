package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

// LegacyRecordService exposes legacy academic dues to the owning student and accounts.
type LegacyRecordService interface {
	List(ctx context.Context, principal auth.Principal, req dto.LegacyRecordListRequest) (dto.LegacyRecordListResponse, error)
}

type legacyRecordService struct {
	repo     repository.LegacyRecordRepository
	resolver studentResolver
	logger   zerolog.Logger
}

// NewLegacyRecordService constructs the legacy record service.
func NewLegacyRecordService(repo repository.LegacyRecordRepository, students repository.StudentProfileRepository, logger zerolog.Logger) LegacyRecordService {
	return &legacyRecordService{
		repo:     repo,
		resolver: studentResolver{profiles: students},
		logger:   logger.With().Str("component", "legacy_record_service").Logger(),
	}
}

func (s *legacyRecordService) List(ctx context.Context, principal auth.Principal, req dto.LegacyRecordListRequest) (dto.LegacyRecordListResponse, error) {
	if err := requireReader(principal, models.DepartmentAccounts); err != nil {
		return dto.LegacyRecordListResponse{}, err
	}
	studentID, err := s.resolver.listScope(ctx, principal, req.StudentID)
	if err != nil {
		return dto.LegacyRecordListResponse{}, err
	}

	filter := repository.LegacyRecordFilter{StudentProfileID: studentID}
	if !principal.IsStudent() {
		filter.Search = req.Search
		filter.UnmatchedOnly = req.UnmatchedOnly
	}
	filter.Page, filter.PageSize = normalizePage(req.Page, req.PageSize)

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.LegacyRecordListResponse{}, err
	}
	items := make([]dto.LegacyRecordResponse, 0, len(records))
	for _, item := range records {
		items = append(items, dto.NewLegacyRecordResponse(item))
	}
	return dto.LegacyRecordListResponse{Items: items, Pagination: dto.NewPaginationMeta(filter.Page, filter.PageSize, total)}, nil
}
