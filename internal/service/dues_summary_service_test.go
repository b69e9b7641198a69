package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

const mcom = "M.Com. (e-Commerce)"

func newSummaryService(env *serviceEnv) DuesSummaryService {
	return NewDuesSummaryService(DuesSummaryRepositories{
		Students:       env.students,
		Academic:       env.academic,
		Hostel:         env.hostel,
		Other:          env.other,
		Borrow:         env.borrow,
		Legacy:         env.legacy,
		DepartmentDues: env.departmentDues,
	}, testLogger())
}

func TestDuesSummaryAcademicScenario(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	student, principal := env.student(t, "5000000001", "Aarav", "Sharma", mcom)
	fee := env.feeStructure(t, mcom, "2022-23", 19010, 2000, 3340)

	require.NoError(t, env.academic.Upsert(ctx, &models.AcademicDue{StudentProfileID: student.ID, YearLabel: "1", FeeStructureID: &fee.ID, PaidByStudent: 10000, PaymentStatus: models.PaymentStatusUnpaid}))
	require.NoError(t, env.academic.Upsert(ctx, &models.AcademicDue{StudentProfileID: student.ID, YearLabel: "2", FeeStructureID: &fee.ID, PaidByStudent: 24350, PaymentStatus: models.PaymentStatusPaid}))

	summary, err := newSummaryService(env).Summary(ctx, principal, "")
	require.NoError(t, err)
	require.Equal(t, int64(14350), summary.Breakdown.Academic)
	require.Equal(t, "5000000001", summary.RollNumber)
	require.Empty(t, summary.Warnings)
}

func TestDuesSummaryGrandTotalIsSumOfCategories(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	student, principal := env.student(t, "5000000002", "Diya", "Rao", mcom)
	fee := env.feeStructure(t, mcom, "2022-23", 19010, 2000, 3340)

	require.NoError(t, env.academic.Upsert(ctx, &models.AcademicDue{StudentProfileID: student.ID, YearLabel: "1", FeeStructureID: &fee.ID, PaidByGovt: 4350}))
	require.NoError(t, env.hostel.Upsert(ctx, &models.HostelDue{StudentProfileID: student.ID, YearOfStudy: "1", MessBill: 12000, Scholarship: 2000, Deposit: 1000}))
	require.NoError(t, env.hostel.Upsert(ctx, &models.HostelDue{StudentProfileID: student.ID, YearOfStudy: "2", MessBill: 5000, Scholarship: 0, Deposit: 1000}))
	require.NoError(t, env.borrow.Create(ctx, &models.BorrowRecord{StudentProfileID: student.ID, Kind: models.BorrowKindLibrary, ItemName: "B-1", BorrowDate: datatypes.Date(time.Now()), FineAmount: 50}))
	require.NoError(t, env.borrow.Create(ctx, &models.BorrowRecord{StudentProfileID: student.ID, Kind: models.BorrowKindSports, ItemName: "Bat", BorrowDate: datatypes.Date(time.Now()), FineAmount: 70}))
	require.NoError(t, env.other.Upsert(ctx, &models.OtherDue{StudentProfileID: student.ID, Category: models.DepartmentLab, Amount: 300}))
	require.NoError(t, env.other.Upsert(ctx, &models.OtherDue{StudentProfileID: student.ID, Category: models.DepartmentLibrary, Amount: 20}))
	require.NoError(t, env.legacy.Upsert(ctx, &models.LegacyAcademicRecord{StudentProfileID: &student.ID, RollNumber: student.RollNumber, Label: "Lab Dues", DueAmount: 400}))
	require.NoError(t, env.legacy.Upsert(ctx, &models.LegacyAcademicRecord{StudentProfileID: &student.ID, RollNumber: student.RollNumber, Label: "Tuition 2021", DueAmount: 1000}))
	require.NoError(t, env.departmentDues.Create(ctx, &models.DepartmentDue{StudentProfileID: student.ID, Department: models.DepartmentHostel, Amount: 250, DueDate: datatypes.Date(time.Now())}))
	paid := models.DepartmentDue{StudentProfileID: student.ID, Department: models.DepartmentHostel, Amount: 9999, DueDate: datatypes.Date(time.Now())}
	require.NoError(t, env.departmentDues.Create(ctx, &paid))
	require.NoError(t, env.departmentDues.MarkPaid(ctx, paid.ID))

	summary, err := newSummaryService(env).Summary(ctx, principal, "")
	require.NoError(t, err)

	breakdown := summary.Breakdown
	require.Equal(t, int64(20000+1000), breakdown.Academic)
	require.Equal(t, int64(10000+5000-1000), breakdown.Hostel)
	require.Equal(t, int64(50), breakdown.Library)
	require.Equal(t, int64(70), breakdown.Sports)
	require.Equal(t, int64(700), breakdown.Lab)
	require.Equal(t, int64(270), breakdown.Other)
	require.Equal(t, breakdown.Academic+breakdown.Hostel+breakdown.Library+breakdown.Lab+breakdown.Sports+breakdown.Other, summary.GrandTotal)
}

func TestDuesSummaryWarnsOnMissingFeeStructure(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	student, principal := env.student(t, "5000000003", "Kabir", "Iyer", mcom)
	require.NoError(t, env.academic.Upsert(ctx, &models.AcademicDue{StudentProfileID: student.ID, YearLabel: "1", PaidByStudent: 100}))
	require.NoError(t, env.hostel.Upsert(ctx, &models.HostelDue{StudentProfileID: student.ID, YearOfStudy: "1", MessBill: 12000, Scholarship: 2000, Deposit: 1000}))

	summary, err := newSummaryService(env).Summary(ctx, principal, "")
	require.NoError(t, err)
	require.Len(t, summary.Warnings, 1)
	require.Equal(t, "academic_due", summary.Warnings[0].Kind)
	require.Equal(t, int64(0), summary.Breakdown.Academic)
	require.Equal(t, int64(9000), summary.Breakdown.Hostel)
	require.Equal(t, int64(9000), summary.GrandTotal)
}

func TestDuesSummaryEmptyStudentIsZero(t *testing.T) {
	env := newServiceEnv(t)
	_, principal := env.student(t, "5000000004", "Meera", "Nair", mcom)

	summary, err := newSummaryService(env).Summary(context.Background(), principal, "")
	require.NoError(t, err)
	require.Zero(t, summary.GrandTotal)
	require.NotNil(t, summary.Warnings)
}

func TestDuesSummaryScope(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.student(t, "5000000005", "Ishaan", "Gupta", mcom)
	svc := newSummaryService(env)

	hostel := env.staffMember(t, "hostel@tu.in", models.DepartmentHostel)
	_, err := svc.Summary(ctx, hostel, "5000000005")
	require.ErrorIs(t, err, ErrForbidden)

	accounts := env.staffMember(t, "accounts@tu.in", models.DepartmentAccounts)
	summary, err := svc.Summary(ctx, accounts, "5000000005")
	require.NoError(t, err)
	require.Equal(t, "Ishaan Gupta", summary.StudentName)

	_, err = svc.Summary(ctx, accounts, "")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Summary(ctx, adminPrincipal(), "0000000000")
	require.ErrorIs(t, err, ErrNotFound)
}
