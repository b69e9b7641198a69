package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// GroupTotal is an outstanding amount and row count for one grouping key.
type GroupTotal struct {
	Key    string `gorm:"column:group_key"`
	Amount int64  `gorm:"column:amount"`
	Count  int64  `gorm:"column:row_count"`
}

// StatsRepository runs the aggregate queries behind department statistics.
type StatsRepository interface {
	AcademicOutstanding(ctx context.Context) (GroupTotal, error)
	LegacyTotals(ctx context.Context) ([]models.LegacyAcademicRecord, error)
	HostelRows(ctx context.Context) ([]models.HostelDue, error)
	OtherDueTotals(ctx context.Context) ([]GroupTotal, error)
	BorrowFineTotals(ctx context.Context) ([]GroupTotal, error)
	UnpaidDepartmentDueTotals(ctx context.Context) ([]GroupTotal, error)
	PendingChallanCounts(ctx context.Context) ([]GroupTotal, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository constructs the stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// AcademicOutstanding sums academic dues that reference a fee structure.
func (r *statsRepository) AcademicOutstanding(ctx context.Context) (GroupTotal, error) {
	var total GroupTotal
	err := r.db.WithContext(ctx).
		Table("academic_dues").
		Select("'accounts' AS group_key, " +
			"COALESCE(SUM(fee_structures.tuition_fee + COALESCE(fee_structures.special_fee, 0) + COALESCE(fee_structures.exam_fee, 0) - academic_dues.paid_by_govt - academic_dues.paid_by_student), 0) AS amount, " +
			"COUNT(academic_dues.id) AS row_count").
		Joins("JOIN fee_structures ON fee_structures.id = academic_dues.fee_structure_id").
		Scan(&total).Error
	return total, err
}

// LegacyTotals returns the label and amount of every legacy record; the split
// between academic and lab dues is decided by the label.
func (r *statsRepository) LegacyTotals(ctx context.Context) ([]models.LegacyAcademicRecord, error) {
	var records []models.LegacyAcademicRecord
	err := r.db.WithContext(ctx).
		Model(&models.LegacyAcademicRecord{}).
		Select("id", "label", "due_amount").
		Find(&records).Error
	return records, err
}

func (r *statsRepository) HostelRows(ctx context.Context) ([]models.HostelDue, error) {
	var rows []models.HostelDue
	err := r.db.WithContext(ctx).
		Model(&models.HostelDue{}).
		Select("id", "student_profile_id", "year_of_study", "mess_bill", "scholarship", "deposit").
		Order("student_profile_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *statsRepository) OtherDueTotals(ctx context.Context) ([]GroupTotal, error) {
	return r.groupTotals(ctx, "other_dues", "category", "amount")
}

func (r *statsRepository) BorrowFineTotals(ctx context.Context) ([]GroupTotal, error) {
	return r.groupTotals(ctx, "borrow_records", "kind", "fine_amount", "fine_amount > ?", 0)
}

func (r *statsRepository) UnpaidDepartmentDueTotals(ctx context.Context) ([]GroupTotal, error) {
	return r.groupTotals(ctx, "department_dues", "department", "amount", "is_paid = ?", false)
}

func (r *statsRepository) PendingChallanCounts(ctx context.Context) ([]GroupTotal, error) {
	var totals []GroupTotal
	err := r.db.WithContext(ctx).
		Table("challans").
		Select("department AS group_key, 0 AS amount, COUNT(*) AS row_count").
		Where("status = ?", models.ChallanStatusPending).
		Group("department").
		Scan(&totals).Error
	return totals, err
}

func (r *statsRepository) groupTotals(ctx context.Context, table, keyColumn, amountColumn string, conditions ...interface{}) ([]GroupTotal, error) {
	query := r.db.WithContext(ctx).
		Table(table).
		Select(keyColumn + " AS group_key, COALESCE(SUM(" + amountColumn + "), 0) AS amount, COUNT(*) AS row_count").
		Group(keyColumn)
	if len(conditions) > 0 {
		query = query.Where(conditions[0], conditions[1:]...)
	}

	var totals []GroupTotal
	if err := query.Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}
