package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// BorrowRecordFilter narrows library and sports record listings.
type BorrowRecordFilter struct {
	Kind             string
	StudentProfileID *uint
	Search           string
	WithFineOnly     bool
	Page             int
	PageSize         int
}

// BorrowRecordRepository persists the library and sports borrowing log.
type BorrowRecordRepository interface {
	List(ctx context.Context, filter BorrowRecordFilter) ([]models.BorrowRecord, int64, error)
	GetByID(ctx context.Context, id uint) (models.BorrowRecord, error)
	Create(ctx context.Context, record *models.BorrowRecord) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.BorrowRecord, error)
}

type borrowRecordRepository struct {
	db *gorm.DB
}

// NewBorrowRecordRepository constructs the borrow record repository.
func NewBorrowRecordRepository(db *gorm.DB) BorrowRecordRepository {
	return &borrowRecordRepository{db: db}
}

func (r *borrowRecordRepository) List(ctx context.Context, filter BorrowRecordFilter) ([]models.BorrowRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BorrowRecord{})
	if filter.Kind != "" {
		query = query.Where("borrow_records.kind = ?", filter.Kind)
	}
	if filter.StudentProfileID != nil {
		query = query.Where("borrow_records.student_profile_id = ?", *filter.StudentProfileID)
	}
	if filter.WithFineOnly {
		query = query.Where("borrow_records.fine_amount > 0")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.
			Joins("JOIN student_profiles ON student_profiles.id = borrow_records.student_profile_id").
			Where("LOWER(borrow_records.item_name) LIKE ? OR LOWER(student_profiles.roll_number) LIKE ?", like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.BorrowRecord
	err := paginate(query, filter.Page, filter.PageSize).
		Preload("StudentProfile.User").
		Order("borrow_records.borrow_date DESC, borrow_records.id DESC").
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *borrowRecordRepository) GetByID(ctx context.Context, id uint) (models.BorrowRecord, error) {
	var record models.BorrowRecord
	if err := r.db.WithContext(ctx).Preload("StudentProfile.User").First(&record, id).Error; err != nil {
		return models.BorrowRecord{}, err
	}
	return record, nil
}

func (r *borrowRecordRepository) Create(ctx context.Context, record *models.BorrowRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

func (r *borrowRecordRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.BorrowRecord, error) {
	result := r.db.WithContext(ctx).Model(&models.BorrowRecord{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.BorrowRecord{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.BorrowRecord{}, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}
