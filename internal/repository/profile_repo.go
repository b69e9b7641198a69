package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// StudentProfileRepository exposes persistence helpers for student profiles.
type StudentProfileRepository interface {
	GetByID(ctx context.Context, id uint) (models.StudentProfile, error)
	GetByUserID(ctx context.Context, userID uint) (models.StudentProfile, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (models.StudentProfile, error)
	Search(ctx context.Context, query string, ownerUserID *uint, limit int) ([]models.StudentProfile, error)
	UpsertStudent(ctx context.Context, user *models.User, profile *models.StudentProfile) (bool, error)
}

type studentProfileRepository struct {
	db *gorm.DB
}

// NewStudentProfileRepository constructs the student profile repository.
func NewStudentProfileRepository(db *gorm.DB) StudentProfileRepository {
	return &studentProfileRepository{db: db}
}

func (r *studentProfileRepository) GetByID(ctx context.Context, id uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Preload("User").First(&profile, id).Error; err != nil {
		return models.StudentProfile{}, err
	}
	return profile, nil
}

func (r *studentProfileRepository) GetByUserID(ctx context.Context, userID uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.StudentProfile{}, err
	}
	return profile, nil
}

func (r *studentProfileRepository) GetByRollNumber(ctx context.Context, rollNumber string) (models.StudentProfile, error) {
	var profile models.StudentProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("roll_number = ?", strings.TrimSpace(rollNumber)).
		First(&profile).Error
	if err != nil {
		return models.StudentProfile{}, err
	}
	return profile, nil
}

// Search matches a case-insensitive substring of the roll number, first name or last name.
// A non-nil ownerUserID restricts matches to that user's own profile.
func (r *studentProfileRepository) Search(ctx context.Context, query string, ownerUserID *uint, limit int) ([]models.StudentProfile, error) {
	like := containsPattern(query)
	tx := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = student_profiles.user_id").
		Where(`LOWER(student_profiles.roll_number) LIKE ? ESCAPE '\' OR LOWER(users.first_name) LIKE ? ESCAPE '\' OR LOWER(users.last_name) LIKE ? ESCAPE '\'`, like, like, like)
	if ownerUserID != nil {
		tx = tx.Where("student_profiles.user_id = ?", *ownerUserID)
	}
	var profiles []models.StudentProfile
	err := tx.Order("student_profiles.roll_number ASC").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpsertStudent creates the user and profile for a new roll number or refreshes
// the admission details of an existing one. Passwords of existing users are kept.
// It reports whether a new student was created.
func (r *studentProfileRepository) UpsertStudent(ctx context.Context, user *models.User, profile *models.StudentProfile) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.StudentProfile
		err := tx.Where("roll_number = ?", profile.RollNumber).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			profile.UserID = user.ID
			if err := tx.Omit("User").Create(profile).Error; err != nil {
				return err
			}
			created = true
			return nil
		case err != nil:
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", existing.UserID).Updates(map[string]interface{}{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		}).Error; err != nil {
			return err
		}

		profile.ID = existing.ID
		profile.UserID = existing.UserID
		return tx.Model(&models.StudentProfile{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"course_name":   profile.CourseName,
			"caste":         profile.Caste,
			"gender":        profile.Gender,
			"phone_number":  profile.PhoneNumber,
			"batch":         profile.Batch,
			"year_of_study": profile.YearOfStudy,
			"is_hostel":     profile.IsHostel,
		}).Error
	})
	return created, err
}

// StaffProfileRepository exposes persistence helpers for staff profiles.
type StaffProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (models.StaffProfile, error)
	CreateStaff(ctx context.Context, user *models.User, profile *models.StaffProfile) error
	UpdateDetails(ctx context.Context, userID uint, designation, phone string) error
}

type staffProfileRepository struct {
	db *gorm.DB
}

// NewStaffProfileRepository constructs the staff profile repository.
func NewStaffProfileRepository(db *gorm.DB) StaffProfileRepository {
	return &staffProfileRepository{db: db}
}

func (r *staffProfileRepository) GetByUserID(ctx context.Context, userID uint) (models.StaffProfile, error) {
	var profile models.StaffProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.StaffProfile{}, err
	}
	return profile, nil
}

func (r *staffProfileRepository) CreateStaff(ctx context.Context, user *models.User, profile *models.StaffProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Omit("User").Create(profile).Error
	})
}

// UpdateDetails changes mutable staff fields. Join date is never updated.
func (r *staffProfileRepository) UpdateDetails(ctx context.Context, userID uint, designation, phone string) error {
	result := r.db.WithContext(ctx).Model(&models.StaffProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"designation":  designation,
			"phone_number": phone,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
