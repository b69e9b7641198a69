package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

func seedStatsFixture(t *testing.T, env *serviceEnv) {
	t.Helper()
	profile, _ := env.student(t, "5000001001", "Aarav", "Menon", mcom)
	fee := env.feeStructure(t, mcom, "2022-23", 10000, 500, 500)

	rows := []interface{}{
		&models.AcademicDue{StudentProfileID: profile.ID, YearLabel: "1", FeeStructureID: &fee.ID, PaidByGovt: 4000, PaidByStudent: 2000, PaymentStatus: models.PaymentStatusUnpaid},
		&models.LegacyAcademicRecord{StudentProfileID: &profile.ID, RollNumber: profile.RollNumber, Label: "Lab dues", DueAmount: 700},
		&models.LegacyAcademicRecord{StudentProfileID: &profile.ID, RollNumber: profile.RollNumber, Label: "2019 Dues", DueAmount: 1000},
		&models.HostelDue{StudentProfileID: profile.ID, YearOfStudy: "1", MessBill: 8000, Scholarship: 2000, Deposit: 3000},
		&models.HostelDue{StudentProfileID: profile.ID, YearOfStudy: "2", MessBill: 6000, Deposit: 3000},
		&models.OtherDue{StudentProfileID: profile.ID, Category: models.DepartmentLab, Amount: 200},
		&models.BorrowRecord{StudentProfileID: profile.ID, Kind: models.BorrowKindLibrary, ItemName: "Atlas", BorrowDate: datatypes.Date(time.Now()), FineAmount: 50},
		&models.DepartmentDue{StudentProfileID: profile.ID, Department: models.DepartmentSports, Amount: 300, DueDate: datatypes.Date(time.Now())},
		&models.DepartmentDue{StudentProfileID: profile.ID, Department: models.DepartmentSports, Amount: 999, DueDate: datatypes.Date(time.Now()), IsPaid: true},
		&models.Challan{StudentProfileID: profile.ID, Department: models.DepartmentHostel, FileURL: "https://files.example.test/a", Amount: 9000, Status: models.ChallanStatusPending, UploadedByID: profile.UserID},
	}
	for _, row := range rows {
		require.NoError(t, env.db.Omit(clause.Associations).Create(row).Error)
	}
}

func TestStatsServiceDepartments(t *testing.T) {
	env := newServiceEnv(t)
	seedStatsFixture(t, env)
	svc := NewStatsService(repository.NewStatsRepository(env.db), nil, time.Minute, testLogger())

	response, err := svc.Departments(context.Background(), adminPrincipal())
	require.NoError(t, err)
	require.Len(t, response.Departments, len(models.Departments))

	outstanding := map[string]int64{}
	pending := map[string]int64{}
	for _, stat := range response.Departments {
		outstanding[stat.Department] = stat.Outstanding
		pending[stat.Department] = stat.PendingChallans
	}
	require.Equal(t, int64(6000), outstanding["accounts"])
	require.Equal(t, int64(9000), outstanding["hostel"])
	require.Equal(t, int64(900), outstanding["lab"])
	require.Equal(t, int64(50), outstanding["library"])
	require.Equal(t, int64(300), outstanding["sports"])
	require.Equal(t, int64(16250), response.Total)
	require.Equal(t, int64(1), pending["hostel"])
}

func TestStatsServiceCachesResponse(t *testing.T) {
	env := newServiceEnv(t)
	seedStatsFixture(t, env)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewStatsService(repository.NewStatsRepository(env.db), client, time.Minute, testLogger())

	first, err := svc.Departments(context.Background(), adminPrincipal())
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.True(t, mr.Exists(statsCacheKey))

	second, err := svc.Departments(context.Background(), adminPrincipal())
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Total, second.Total)
}

func TestStatsServiceRequiresAccounts(t *testing.T) {
	env := newServiceEnv(t)
	hostel := env.staffMember(t, "hostel@tu.in", models.DepartmentHostel)
	accounts := env.staffMember(t, "accounts@tu.in", models.DepartmentAccounts)
	svc := NewStatsService(repository.NewStatsRepository(env.db), nil, time.Minute, testLogger())

	_, err := svc.Departments(context.Background(), hostel)
	require.ErrorIs(t, err, ErrForbidden)

	response, err := svc.Departments(context.Background(), accounts)
	require.NoError(t, err)
	require.Zero(t, response.Total)
}
