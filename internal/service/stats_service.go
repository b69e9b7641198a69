package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
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

const statsCacheKey = "stats:departments"

// StatsService reports the outstanding position of every department.
type StatsService interface {
	Departments(ctx context.Context, principal auth.Principal) (dto.DepartmentStatsResponse, error)
}

type statsService struct {
	repo     repository.StatsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStatsService constructs the stats service. A nil cache disables caching.
func NewStatsService(repo repository.StatsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StatsService {
	return &statsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "stats_service").Logger(),
		now:      time.Now,
	}
}

func (s *statsService) Departments(ctx context.Context, principal auth.Principal) (dto.DepartmentStatsResponse, error) {
	if !principal.CanManage(models.DepartmentAccounts) {
		return dto.DepartmentStatsResponse{}, ErrForbidden
	}

	tracer := otel.Tracer("github.com/noah-isme/ssp-go-api/internal/service/stats")
	ctx, span := tracer.Start(ctx, "stats.departments")
	span.SetAttributes(attribute.String("stats.cache_key", statsCacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var response dto.DepartmentStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				observability.StatsCacheLookups().WithLabelValues("hit").Inc()
				span.SetAttributes(attribute.Bool("stats.cache_hit", true))
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
			span.RecordError(err)
		}
		observability.StatsCacheLookups().WithLabelValues("miss").Inc()
	}

	response, err := s.compute(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "aggregate_failed")
		return dto.DepartmentStatsResponse{}, err
	}
	span.SetAttributes(attribute.Int64("stats.total", response.Total))

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
				span.RecordError(err)
			}
		}
	}
	return response, nil
}

func (s *statsService) compute(ctx context.Context) (dto.DepartmentStatsResponse, error) {
	stats := make(map[models.Department]*dto.DepartmentStat, len(models.Departments))
	for _, department := range models.Departments {
		stats[department] = &dto.DepartmentStat{Department: string(department)}
	}
	add := func(department models.Department, amount, count int64) {
		if stat, ok := stats[department]; ok {
			stat.Outstanding += amount
			stat.RecordCount += count
		}
	}

	academic, err := s.repo.AcademicOutstanding(ctx)
	if err != nil {
		return dto.DepartmentStatsResponse{}, err
	}
	add(models.DepartmentAccounts, academic.Amount, academic.Count)

	legacy, err := s.repo.LegacyTotals(ctx)
	if err != nil {
		return dto.DepartmentStatsResponse{}, err
	}
	for _, item := range legacy {
		if item.IsLabDue() {
			add(models.DepartmentLab, item.DueAmount, 1)
			continue
		}
		add(models.DepartmentAccounts, item.DueAmount, 1)
	}

	hostelRows, err := s.repo.HostelRows(ctx)
	if err != nil {
		return dto.DepartmentStatsResponse{}, err
	}
	for _, rows := range groupHostelRows(hostelRows) {
		add(models.DepartmentHostel, models.HostelTotal(rows), int64(len(rows)))
	}

	others, err := s.repo.OtherDueTotals(ctx)
	if err != nil {
		return dto.DepartmentStatsResponse{}, err
	}
	for _, total := range others {
		add(models.Department(total.Key), total.Amount, total.Count)
	}

	fines, err := s.repo.BorrowFineTotals(ctx)
	if err != nil {
		return dto.DepartmentStatsResponse{}, err
	}
	for _, total := range fines {
		add(models.BorrowKindDepartment(total.Key), total.Amount, total.Count)
	}

	departmentDues, err := s.repo.UnpaidDepartmentDueTotals(ctx)
	if err != nil {
		return dto.DepartmentStatsResponse{}, err
	}
	for _, total := range departmentDues {
		add(models.Department(total.Key), total.Amount, total.Count)
	}

	pending, err := s.repo.PendingChallanCounts(ctx)
	if err != nil {
		return dto.DepartmentStatsResponse{}, err
	}
	for _, total := range pending {
		if stat, ok := stats[models.Department(total.Key)]; ok {
			stat.PendingChallans = total.Count
		}
	}

	response := dto.DepartmentStatsResponse{
		Departments: make([]dto.DepartmentStat, 0, len(models.Departments)),
		GeneratedAt: s.now().UTC(),
	}
	for _, department := range models.Departments {
		stat := stats[department]
		response.Departments = append(response.Departments, *stat)
		response.Total += stat.Outstanding
	}
	return response, nil
}

// groupHostelRows splits rows ordered by student into per-student slices.
func groupHostelRows(rows []models.HostelDue) [][]models.HostelDue {
	groups := make([][]models.HostelDue, 0)
	for i, row := range rows {
		if i == 0 || rows[i-1].StudentProfileID != row.StudentProfileID {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], row)
	}
	return groups
}
