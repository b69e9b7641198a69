package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/observability"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

const (
	loginPathStudent = "student"
	loginPathStaff   = "staff"
)

// AuthService implements the two login paths and token rotation.
type AuthService interface {
	StudentLogin(ctx context.Context, req dto.StudentLoginRequest) (dto.LoginResponse, error)
	StaffLogin(ctx context.Context, req dto.StaffLoginRequest) (dto.LoginResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (dto.RefreshResponse, error)
	Logout(ctx context.Context, req dto.RefreshRequest) error
}

type authService struct {
	users     repository.UserRepository
	students  repository.StudentProfileRepository
	staff     repository.StaffProfileRepository
	tokens    *auth.TokenIssuer
	revoked   repository.TokenStore
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(
	users repository.UserRepository,
	students repository.StudentProfileRepository,
	staff repository.StaffProfileRepository,
	tokens *auth.TokenIssuer,
	revoked repository.TokenStore,
	validator *validator.Validate,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		users:     users,
		students:  students,
		staff:     staff,
		tokens:    tokens,
		revoked:   revoked,
		validator: validator,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

// StudentLogin authenticates by roll number. The identifier is matched against
// student logins only, so a staff email can never authenticate here.
func (s *authService) StudentLogin(ctx context.Context, req dto.StudentLoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, s.malformed(loginPathStudent, req.Password, err)
	}

	user, err := s.users.FindStudentByLogin(ctx, req.RollNumber)
	if err != nil {
		return dto.LoginResponse{}, s.reject(loginPathStudent, req.Password, "unknown_user", err)
	}
	principal, err := s.verify(loginPathStudent, user, req.Password, models.RoleStudent)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	profile, err := s.students.GetByUserID(ctx, user.ID)
	if err != nil {
		return dto.LoginResponse{}, s.reject(loginPathStudent, "", "missing_profile", err)
	}

	response, err := s.issue(principal, user)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	response.RollNumber = profile.RollNumber
	s.succeed(loginPathStudent, user.ID)
	return response, nil
}

// StaffLogin authenticates by email against staff accounts only.
func (s *authService) StaffLogin(ctx context.Context, req dto.StaffLoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, s.malformed(loginPathStaff, req.Password, err)
	}

	user, err := s.users.FindStaffByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Debug().Str("email", maskEmailAddress(req.Email)).Msg("staff login lookup failed")
		return dto.LoginResponse{}, s.reject(loginPathStaff, req.Password, "unknown_user", err)
	}
	principal, err := s.verify(loginPathStaff, user, req.Password, models.RoleStaff, models.RoleAdmin)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	profile, err := s.staff.GetByUserID(ctx, user.ID)
	if err != nil {
		return dto.LoginResponse{}, s.reject(loginPathStaff, "", "missing_profile", err)
	}
	principal.Department = profile.Department

	response, err := s.issue(principal, user)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	response.Department = string(profile.Department)
	s.succeed(loginPathStaff, user.ID)
	return response, nil
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (dto.RefreshResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RefreshResponse{}, err
	}

	claims, err := s.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		return dto.RefreshResponse{}, ErrUnauthenticated
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return dto.RefreshResponse{}, err
	}
	if revoked {
		return dto.RefreshResponse{}, ErrUnauthenticated
	}

	principal, err := claims.Principal()
	if err != nil {
		return dto.RefreshResponse{}, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RefreshResponse{}, ErrUnauthenticated
		}
		return dto.RefreshResponse{}, err
	}
	role, err := user.Role()
	if err != nil || role != principal.Role || !user.IsActive {
		return dto.RefreshResponse{}, ErrUnauthenticated
	}
	if role.IsStaff() {
		profile, err := s.staff.GetByUserID(ctx, user.ID)
		if err != nil {
			return dto.RefreshResponse{}, ErrUnauthenticated
		}
		principal.Department = profile.Department
	}

	access, expiresAt, err := s.tokens.IssueAccess(principal)
	if err != nil {
		return dto.RefreshResponse{}, err
	}
	return dto.RefreshResponse{AccessToken: access, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

// Logout revokes the refresh token until it would have expired.
func (s *authService) Logout(ctx context.Context, req dto.RefreshRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	claims, err := s.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		return ErrUnauthenticated
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		if errors.Is(err, repository.ErrRevocationUnavailable) {
			return ErrServiceUnavailable
		}
		return err
	}
	s.logger.Info().Str("subject", claims.Subject).Msg("refresh token revoked")
	return nil
}

// verify checks the password first so every rejection below costs one bcrypt comparison.
func (s *authService) verify(path string, user models.User, password string, allowed ...models.Role) (auth.Principal, error) {
	if !auth.CheckPassword(user.PasswordHash, password) {
		return auth.Principal{}, s.fail(path, "bad_password", nil)
	}
	if !user.IsActive {
		return auth.Principal{}, s.fail(path, "inactive", nil)
	}
	role, err := user.Role()
	if err != nil {
		return auth.Principal{}, s.fail(path, "ambiguous_role", err)
	}
	for _, candidate := range allowed {
		if role == candidate {
			return auth.Principal{UserID: user.ID, Role: role}, nil
		}
	}
	return auth.Principal{}, s.fail(path, "role_mismatch", nil)
}

func (s *authService) issue(principal auth.Principal, user models.User) (dto.LoginResponse, error) {
	pair, err := s.tokens.IssuePair(principal)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	return dto.LoginResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        "Bearer",
		ExpiresAt:        pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             dto.NewUserSummary(user, principal.Role),
	}, nil
}

// reject handles a missing row. Lookup failures other than not-found are
// surfaced; a missing user still pays for one bcrypt comparison.
func (s *authService) reject(path, password, reason string, err error) error {
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if password != "" {
		auth.BurnPasswordCheck(password)
	}
	return s.fail(path, reason, nil)
}

// malformed rejects a login payload that fails validation with the same
// outward error as a wrong password.
func (s *authService) malformed(path, password string, cause error) error {
	if password != "" {
		auth.BurnPasswordCheck(password)
	}
	return s.fail(path, "malformed_request", cause)
}

func (s *authService) fail(path, reason string, cause error) error {
	observability.LoginAttempts().WithLabelValues(path, reason).Inc()
	event := s.logger.Info().Str("path", path).Str("reason", reason)
	if cause != nil {
		event = event.Err(cause)
	}
	event.Msg("login rejected")
	return ErrInvalidCredentials
}

func (s *authService) succeed(path string, userID uint) {
	observability.LoginAttempts().WithLabelValues(path, "success").Inc()
	s.logger.Info().Str("path", path).Uint("user_id", userID).Msg("login succeeded")
}
