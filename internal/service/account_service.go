package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

// ErrAccountExists indicates the login is already taken.
var ErrAccountExists = errors.New("account already exists")

// AccountService manages logins on behalf of operators.
type AccountService interface {
	CreateStaff(ctx context.Context, req dto.StaffAccountRequest) (models.User, error)
	ResetPassword(ctx context.Context, identifier, password string) error
}

type accountService struct {
	users     repository.UserRepository
	staff     repository.StaffProfileRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAccountService constructs the account service.
func NewAccountService(users repository.UserRepository, staff repository.StaffProfileRepository, validator *validator.Validate, logger zerolog.Logger) AccountService {
	return &accountService{
		users:     users,
		staff:     staff,
		validator: validator,
		logger:    logger.With().Str("component", "account_service").Logger(),
		now:       time.Now,
	}
}

// CreateStaff creates a staff user and profile. Staff log in with their email,
// which doubles as the login.
func (s *accountService) CreateStaff(ctx context.Context, req dto.StaffAccountRequest) (models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return models.User{}, err
	}
	department, ok := models.ParseDepartment(req.Department)
	if !ok {
		return models.User{}, NewValidationError("department", "unknown department")
	}

	if _, err := s.users.FindByLoginOrEmail(ctx, req.Email); err == nil {
		return models.User{}, ErrAccountExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}
	email := req.Email
	user := models.User{
		Login:        email,
		Email:        &email,
		IsStaff:      true,
		IsSuperuser:  req.Admin,
		IsActive:     true,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hash,
	}
	profile := models.StaffProfile{
		Department:  department,
		Designation: strings.TrimSpace(req.Designation),
		Gender:      strings.TrimSpace(req.Gender),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		JoinDate:    s.now().UTC(),
	}
	if err := s.staff.CreateStaff(ctx, &user, &profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrAccountExists
		}
		return models.User{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("department", string(department)).Bool("admin", req.Admin).Msg("staff account created")
	return user, nil
}

func (s *accountService) ResetPassword(ctx context.Context, identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return NewValidationError("login", "required")
	}
	if len(password) < 8 {
		return NewValidationError("password", "must be at least 8 characters")
	}

	user, err := s.users.FindByLoginOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("password reset")
	return nil
}
