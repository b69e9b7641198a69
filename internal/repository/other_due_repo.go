package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// OtherDueFilter narrows ad-hoc due listings.
type OtherDueFilter struct {
	StudentProfileID *uint
	Category         models.Department
}

// OtherDueRepository persists library, sports and lab ad-hoc dues.
type OtherDueRepository interface {
	List(ctx context.Context, filter OtherDueFilter) ([]models.OtherDue, error)
	Upsert(ctx context.Context, due *models.OtherDue) error
}

type otherDueRepository struct {
	db *gorm.DB
}

// NewOtherDueRepository constructs the other due repository.
func NewOtherDueRepository(db *gorm.DB) OtherDueRepository {
	return &otherDueRepository{db: db}
}

func (r *otherDueRepository) List(ctx context.Context, filter OtherDueFilter) ([]models.OtherDue, error) {
	query := r.db.WithContext(ctx).Model(&models.OtherDue{})
	if filter.StudentProfileID != nil {
		query = query.Where("student_profile_id = ?", *filter.StudentProfileID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var dues []models.OtherDue
	if err := query.Preload("StudentProfile.User").Order("updated_at DESC").Find(&dues).Error; err != nil {
		return nil, err
	}
	return dues, nil
}

// Upsert writes the due keyed by (student, category); the latest amount wins.
func (r *otherDueRepository) Upsert(ctx context.Context, due *models.OtherDue) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_profile_id"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "remark", "created_by_id", "updated_at"}),
	}).Create(due).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("student_profile_id = ? AND category = ?", due.StudentProfileID, due.Category).
		First(due).Error
}
