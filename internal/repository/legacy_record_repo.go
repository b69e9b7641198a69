package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// LegacyRecordFilter narrows legacy academic record listings.
type LegacyRecordFilter struct {
	StudentProfileID *uint
	Search           string
	UnmatchedOnly    bool
	Page             int
	PageSize         int
}

// LegacyRecordRepository persists flat legacy academic dues.
type LegacyRecordRepository interface {
	List(ctx context.Context, filter LegacyRecordFilter) ([]models.LegacyAcademicRecord, int64, error)
	Upsert(ctx context.Context, record *models.LegacyAcademicRecord) error
}

type legacyRecordRepository struct {
	db *gorm.DB
}

// NewLegacyRecordRepository constructs the legacy record repository.
func NewLegacyRecordRepository(db *gorm.DB) LegacyRecordRepository {
	return &legacyRecordRepository{db: db}
}

func (r *legacyRecordRepository) List(ctx context.Context, filter LegacyRecordFilter) ([]models.LegacyAcademicRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LegacyAcademicRecord{})
	if filter.StudentProfileID != nil {
		query = query.Where("student_profile_id = ?", *filter.StudentProfileID)
	}
	if filter.UnmatchedOnly {
		query = query.Where("student_profile_id IS NULL")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := containsPattern(search)
		query = query.Where(`LOWER(roll_number) LIKE ? ESCAPE '\' OR LOWER(student_name) LIKE ? ESCAPE '\'`, like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.LegacyAcademicRecord
	if err := paginate(query, filter.Page, filter.PageSize).Order("roll_number ASC, label ASC").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Upsert writes the record keyed by (roll number, label).
func (r *legacyRecordRepository) Upsert(ctx context.Context, record *models.LegacyAcademicRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "roll_number"}, {Name: "label"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"student_profile_id", "student_name", "due_amount", "tc_number", "tc_issued_on", "remarks", "updated_at",
		}),
	}).Create(record).Error
}
