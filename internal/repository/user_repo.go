package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// UserRepository persists identity records.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	FindStudentByLogin(ctx context.Context, login string) (models.User, error)
	FindStaffByEmail(ctx context.Context, email string) (models.User, error)
	FindByLoginOrEmail(ctx context.Context, identifier string) (models.User, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindStudentByLogin matches the roll number against the login column only.
func (r *userRepository) FindStudentByLogin(ctx context.Context, login string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("login = ?", strings.TrimSpace(login)).
		Where("is_student = ?", true).
		First(&user).Error
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindStaffByEmail matches the email column only.
func (r *userRepository) FindStaffByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Where("is_staff = ?", true).
		First(&user).Error
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindByLoginOrEmail is used by operator tooling only; login endpoints must
// use the path-specific finders.
func (r *userRepository) FindByLoginOrEmail(ctx context.Context, identifier string) (models.User, error) {
	identifier = strings.TrimSpace(identifier)
	var user models.User
	err := r.db.WithContext(ctx).
		Where("login = ? OR LOWER(email) = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
