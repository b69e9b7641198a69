package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// FeeStructureFilter narrows fee structure listings.
type FeeStructureFilter struct {
	CourseName   string
	AcademicYear string
	Category     string
}

// CatalogRepository persists courses and fee structures.
type CatalogRepository interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	UpsertCourse(ctx context.Context, course *models.Course) error
	ListFeeStructures(ctx context.Context, filter FeeStructureFilter) ([]models.FeeStructure, error)
	FindFeeStructure(ctx context.Context, courseName, academicYear, category string) (models.FeeStructure, error)
	UpsertFeeStructure(ctx context.Context, fee *models.FeeStructure) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository constructs the catalog repository.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *catalogRepository) UpsertCourse(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"duration_years", "updated_at"}),
	}).Create(course).Error
}

func (r *catalogRepository) ListFeeStructures(ctx context.Context, filter FeeStructureFilter) ([]models.FeeStructure, error) {
	query := r.db.WithContext(ctx).Model(&models.FeeStructure{})
	if filter.CourseName != "" {
		query = query.Where("course_name = ?", filter.CourseName)
	}
	if filter.AcademicYear != "" {
		query = query.Where("academic_year = ?", filter.AcademicYear)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var fees []models.FeeStructure
	if err := query.Order("academic_year DESC, course_name ASC, category ASC").Find(&fees).Error; err != nil {
		return nil, err
	}
	return fees, nil
}

func (r *catalogRepository) FindFeeStructure(ctx context.Context, courseName, academicYear, category string) (models.FeeStructure, error) {
	var fee models.FeeStructure
	err := r.db.WithContext(ctx).
		Where("course_name = ? AND academic_year = ? AND category = ?", courseName, academicYear, category).
		First(&fee).Error
	if err != nil {
		return models.FeeStructure{}, err
	}
	return fee, nil
}

// UpsertFeeStructure writes the fee amounts keyed by (course, academic year, category).
func (r *catalogRepository) UpsertFeeStructure(ctx context.Context, fee *models.FeeStructure) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "course_name"}, {Name: "academic_year"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"tuition_fee", "special_fee", "other_fee", "exam_fee", "updated_at",
		}),
	}).Create(fee).Error
	if err != nil {
		return err
	}

	stored, err := r.FindFeeStructure(ctx, fee.CourseName, fee.AcademicYear, fee.Category)
	if err != nil {
		return err
	}
	*fee = stored
	return nil
}
