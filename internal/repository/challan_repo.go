package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// ChallanFilter narrows challan listings.
type ChallanFilter struct {
	StudentProfileID *uint
	Department       models.Department
	Status           string
	Page             int
	PageSize         int
}

// ChallanRepository persists uploaded payment proofs.
type ChallanRepository interface {
	List(ctx context.Context, filter ChallanFilter) ([]models.Challan, int64, error)
	GetByID(ctx context.Context, id uint) (models.Challan, error)
	Create(ctx context.Context, challan *models.Challan) error
	Save(ctx context.Context, challan *models.Challan) error
}

type challanRepository struct {
	db *gorm.DB
}

// NewChallanRepository constructs the challan repository.
func NewChallanRepository(db *gorm.DB) ChallanRepository {
	return &challanRepository{db: db}
}

func (r *challanRepository) List(ctx context.Context, filter ChallanFilter) ([]models.Challan, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Challan{})
	if filter.StudentProfileID != nil {
		query = query.Where("student_profile_id = ?", *filter.StudentProfileID)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var challans []models.Challan
	err := paginate(query, filter.Page, filter.PageSize).
		Preload("StudentProfile.User").
		Order("created_at DESC, id DESC").
		Find(&challans).Error
	if err != nil {
		return nil, 0, err
	}
	return challans, total, nil
}

func (r *challanRepository) GetByID(ctx context.Context, id uint) (models.Challan, error) {
	var challan models.Challan
	if err := r.db.WithContext(ctx).Preload("StudentProfile.User").First(&challan, id).Error; err != nil {
		return models.Challan{}, err
	}
	return challan, nil
}

func (r *challanRepository) Create(ctx context.Context, challan *models.Challan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(challan).Error
}

func (r *challanRepository) Save(ctx context.Context, challan *models.Challan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(challan).Error
}
