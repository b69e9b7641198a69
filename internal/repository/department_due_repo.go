package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// DepartmentDueFilter defines filters for listing department dues.
type DepartmentDueFilter struct {
	StudentProfileID *uint
	RollNumber       string
	Department       models.Department
	IsPaid           *bool
	MinAmount        *int64
	MaxAmount        *int64
	DueBefore        *time.Time
	DueAfter         *time.Time
	Search           string
	Ordering         string
	Page             int
	PageSize         int
}

var departmentDueOrderings = map[string]string{
	"amount":      "department_dues.amount ASC",
	"-amount":     "department_dues.amount DESC",
	"due_date":    "department_dues.due_date ASC",
	"-due_date":   "department_dues.due_date DESC",
	"created_at":  "department_dues.created_at ASC",
	"-created_at": "department_dues.created_at DESC",
}

// DepartmentDueRepository persists dues raised by department staff.
type DepartmentDueRepository interface {
	List(ctx context.Context, filter DepartmentDueFilter) ([]models.DepartmentDue, int64, error)
	GetByID(ctx context.Context, id uint) (models.DepartmentDue, error)
	Create(ctx context.Context, due *models.DepartmentDue) error
	MarkPaid(ctx context.Context, id uint) error
}

type departmentDueRepository struct {
	db *gorm.DB
}

// NewDepartmentDueRepository constructs the department due repository.
func NewDepartmentDueRepository(db *gorm.DB) DepartmentDueRepository {
	return &departmentDueRepository{db: db}
}

func (r *departmentDueRepository) List(ctx context.Context, filter DepartmentDueFilter) ([]models.DepartmentDue, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DepartmentDue{}).
		Joins("JOIN student_profiles ON student_profiles.id = department_dues.student_profile_id").
		Joins("JOIN users ON users.id = student_profiles.user_id")

	if filter.StudentProfileID != nil {
		query = query.Where("department_dues.student_profile_id = ?", *filter.StudentProfileID)
	}
	if filter.RollNumber != "" {
		query = query.Where("student_profiles.roll_number = ?", filter.RollNumber)
	}
	if filter.Department != "" {
		query = query.Where("department_dues.department = ?", filter.Department)
	}
	if filter.IsPaid != nil {
		query = query.Where("department_dues.is_paid = ?", *filter.IsPaid)
	}
	if filter.MinAmount != nil {
		query = query.Where("department_dues.amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("department_dues.amount <= ?", *filter.MaxAmount)
	}
	if filter.DueBefore != nil {
		query = query.Where("department_dues.due_date <= ?", *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		query = query.Where("department_dues.due_date >= ?", *filter.DueAfter)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := containsPattern(search)
		query = query.Where(
			`LOWER(users.first_name) LIKE ? ESCAPE '\' OR LOWER(users.last_name) LIKE ? ESCAPE '\' OR LOWER(department_dues.description) LIKE ? ESCAPE '\'`,
			like, like, like,
		)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := departmentDueOrderings[filter.Ordering]
	if !ok {
		order = departmentDueOrderings["-created_at"]
	}

	var dues []models.DepartmentDue
	err := paginate(query, filter.Page, filter.PageSize).
		Preload("StudentProfile.User").
		Order(order).
		Order("department_dues.id DESC").
		Find(&dues).Error
	if err != nil {
		return nil, 0, err
	}
	return dues, total, nil
}

func (r *departmentDueRepository) GetByID(ctx context.Context, id uint) (models.DepartmentDue, error) {
	var due models.DepartmentDue
	if err := r.db.WithContext(ctx).Preload("StudentProfile.User").First(&due, id).Error; err != nil {
		return models.DepartmentDue{}, err
	}
	return due, nil
}

func (r *departmentDueRepository) Create(ctx context.Context, due *models.DepartmentDue) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(due).Error
}

// MarkPaid sets is_paid on a single row. Marking an already paid due succeeds.
func (r *departmentDueRepository) MarkPaid(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.DepartmentDue{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_paid": true, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
