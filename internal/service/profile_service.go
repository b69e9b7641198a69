package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

// studentSearchLimit caps the quick search result size.
const studentSearchLimit = 5

// ProfileService returns the caller's profile and powers the student quick search.
type ProfileService interface {
	Get(ctx context.Context, principal auth.Principal) (dto.ProfileResponse, error)
	SearchStudents(ctx context.Context, principal auth.Principal, query string) ([]dto.StudentSearchResult, error)
}

type profileService struct {
	students repository.StudentProfileRepository
	staff    repository.StaffProfileRepository
	resolver studentResolver
	logger   zerolog.Logger
}

// NewProfileService constructs the profile service.
func NewProfileService(students repository.StudentProfileRepository, staff repository.StaffProfileRepository, logger zerolog.Logger) ProfileService {
	return &profileService{
		students: students,
		staff:    staff,
		resolver: studentResolver{profiles: students},
		logger:   logger.With().Str("component", "profile_service").Logger(),
	}
}

func (s *profileService) Get(ctx context.Context, principal auth.Principal) (dto.ProfileResponse, error) {
	if principal.IsStudent() {
		profile, err := s.resolver.own(ctx, principal)
		if err != nil {
			return dto.ProfileResponse{}, err
		}
		return dto.ProfileResponse{Type: "student", Profile: dto.NewStudentProfileResponse(profile)}, nil
	}

	profile, err := s.staff.GetByUserID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrProfileNotFound
		}
		return dto.ProfileResponse{}, err
	}
	return dto.ProfileResponse{Type: "staff", Profile: dto.NewStaffProfileResponse(profile)}, nil
}

// SearchStudents returns at most five students matching roll number or name.
// Students may only find themselves.
func (s *profileService) SearchStudents(ctx context.Context, principal auth.Principal, query string) ([]dto.StudentSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []dto.StudentSearchResult{}, nil
	}

	var owner *uint
	if principal.IsStudent() {
		owner = &principal.UserID
	}
	profiles, err := s.students.Search(ctx, query, owner, studentSearchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]dto.StudentSearchResult, 0, len(profiles))
	for _, profile := range profiles {
		results = append(results, dto.NewStudentSearchResult(profile))
	}
	return results, nil
}
