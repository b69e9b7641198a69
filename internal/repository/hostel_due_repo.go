package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// HostelDueFilter narrows hostel due listings.
type HostelDueFilter struct {
	StudentProfileID *uint
	YearOfStudy      string
	Page             int
	PageSize         int
}

// HostelDueRepository persists hostel mess and deposit accounts.
type HostelDueRepository interface {
	List(ctx context.Context, filter HostelDueFilter) ([]models.HostelDue, int64, error)
	GetByID(ctx context.Context, id uint) (models.HostelDue, error)
	Upsert(ctx context.Context, due *models.HostelDue) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.HostelDue, error)
}

type hostelDueRepository struct {
	db *gorm.DB
}

// NewHostelDueRepository constructs the hostel due repository.
func NewHostelDueRepository(db *gorm.DB) HostelDueRepository {
	return &hostelDueRepository{db: db}
}

func (r *hostelDueRepository) List(ctx context.Context, filter HostelDueFilter) ([]models.HostelDue, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.HostelDue{})
	if filter.StudentProfileID != nil {
		query = query.Where("student_profile_id = ?", *filter.StudentProfileID)
	}
	if filter.YearOfStudy != "" {
		query = query.Where("year_of_study = ?", filter.YearOfStudy)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dues []models.HostelDue
	err := paginate(query, filter.Page, filter.PageSize).
		Preload("StudentProfile.User").
		Order("student_profile_id ASC, year_of_study ASC").
		Find(&dues).Error
	if err != nil {
		return nil, 0, err
	}
	return dues, total, nil
}

func (r *hostelDueRepository) GetByID(ctx context.Context, id uint) (models.HostelDue, error) {
	var due models.HostelDue
	if err := r.db.WithContext(ctx).Preload("StudentProfile.User").First(&due, id).Error; err != nil {
		return models.HostelDue{}, err
	}
	return due, nil
}

// Upsert writes the due keyed by (student, year of study).
func (r *hostelDueRepository) Upsert(ctx context.Context, due *models.HostelDue) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_profile_id"}, {Name: "year_of_study"}},
		DoUpdates: clause.AssignmentColumns([]string{"mess_bill", "scholarship", "deposit", "remarks", "updated_at"}),
	}).Create(due).Error
}

func (r *hostelDueRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.HostelDue, error) {
	result := r.db.WithContext(ctx).Model(&models.HostelDue{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.HostelDue{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.HostelDue{}, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}
