package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// AcademicDueFilter narrows academic due listings.
type AcademicDueFilter struct {
	StudentProfileID *uint
	PaymentStatus    string
	YearLabel        string
	Page             int
	PageSize         int
}

// AcademicDueRepository persists tuition dues.
type AcademicDueRepository interface {
	List(ctx context.Context, filter AcademicDueFilter) ([]models.AcademicDue, int64, error)
	GetByID(ctx context.Context, id uint) (models.AcademicDue, error)
	Upsert(ctx context.Context, due *models.AcademicDue) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.AcademicDue, error)
}

type academicDueRepository struct {
	db *gorm.DB
}

// NewAcademicDueRepository constructs the academic due repository.
func NewAcademicDueRepository(db *gorm.DB) AcademicDueRepository {
	return &academicDueRepository{db: db}
}

func (r *academicDueRepository) List(ctx context.Context, filter AcademicDueFilter) ([]models.AcademicDue, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AcademicDue{})
	if filter.StudentProfileID != nil {
		query = query.Where("student_profile_id = ?", *filter.StudentProfileID)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.YearLabel != "" {
		query = query.Where("year_label = ?", filter.YearLabel)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(query, filter.Page, filter.PageSize)

	var dues []models.AcademicDue
	err := query.
		Preload("FeeStructure").
		Preload("StudentProfile.User").
		Order("student_profile_id ASC, year_label ASC").
		Find(&dues).Error
	if err != nil {
		return nil, 0, err
	}
	return dues, total, nil
}

func (r *academicDueRepository) GetByID(ctx context.Context, id uint) (models.AcademicDue, error) {
	var due models.AcademicDue
	err := r.db.WithContext(ctx).
		Preload("FeeStructure").
		Preload("StudentProfile.User").
		First(&due, id).Error
	if err != nil {
		return models.AcademicDue{}, err
	}
	return due, nil
}

// Upsert writes the due keyed by (student, year label).
func (r *academicDueRepository) Upsert(ctx context.Context, due *models.AcademicDue) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_profile_id"}, {Name: "year_label"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"fee_structure_id", "paid_by_govt", "paid_by_student", "payment_status", "remarks", "updated_at",
		}),
	}).Create(due).Error
}

func (r *academicDueRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.AcademicDue, error) {
	result := r.db.WithContext(ctx).Model(&models.AcademicDue{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.AcademicDue{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.AcademicDue{}, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}
