package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type memoryStorage struct {
	objects map[string][]byte
}

func (m *memoryStorage) Put(ctx context.Context, department, rollNumber string, reader io.Reader) (string, error) {
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s-%d", department, rollNumber, len(m.objects)+1)
	m.objects[key] = payload
	return "https://files.example.test/" + key, nil
}

// serviceEnv wires real repositories over a private in-memory database.
type serviceEnv struct {
	db             *gorm.DB
	users          repository.UserRepository
	students       repository.StudentProfileRepository
	staff          repository.StaffProfileRepository
	catalog        repository.CatalogRepository
	academic       repository.AcademicDueRepository
	hostel         repository.HostelDueRepository
	other          repository.OtherDueRepository
	borrow         repository.BorrowRecordRepository
	legacy         repository.LegacyRecordRepository
	departmentDues repository.DepartmentDueRepository
	challans       repository.ChallanRepository
	activityRepo   repository.ActivityLogRepository
	activity       ActivityService
	events         *recordingPublisher
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	activityRepo := repository.NewActivityLogRepository(db)
	return &serviceEnv{
		db:             db,
		users:          repository.NewUserRepository(db),
		students:       repository.NewStudentProfileRepository(db),
		staff:          repository.NewStaffProfileRepository(db),
		catalog:        repository.NewCatalogRepository(db),
		academic:       repository.NewAcademicDueRepository(db),
		hostel:         repository.NewHostelDueRepository(db),
		other:          repository.NewOtherDueRepository(db),
		borrow:         repository.NewBorrowRecordRepository(db),
		legacy:         repository.NewLegacyRecordRepository(db),
		departmentDues: repository.NewDepartmentDueRepository(db),
		challans:       repository.NewChallanRepository(db),
		activityRepo:   activityRepo,
		activity:       NewActivityService(activityRepo, testLogger()),
		events:         &recordingPublisher{},
	}
}

func (e *serviceEnv) student(t *testing.T, roll, first, last, course string) (models.StudentProfile, auth.Principal) {
	t.Helper()
	user := models.User{Login: roll, IsStudent: true, IsActive: true, FirstName: first, LastName: last, PasswordHash: "x"}
	require.NoError(t, e.db.Create(&user).Error)
	profile := models.StudentProfile{UserID: user.ID, RollNumber: roll, CourseName: course, Caste: "BC", PhoneNumber: "9000000000"}
	require.NoError(t, e.db.Omit("User").Create(&profile).Error)
	profile.User = user
	return profile, auth.Principal{UserID: user.ID, Role: models.RoleStudent}
}

func (e *serviceEnv) staffMember(t *testing.T, email string, department models.Department) auth.Principal {
	t.Helper()
	user := models.User{Login: email, Email: &email, IsStaff: true, IsActive: true, PasswordHash: "x"}
	require.NoError(t, e.db.Create(&user).Error)
	profile := models.StaffProfile{UserID: user.ID, Department: department, JoinDate: time.Now()}
	require.NoError(t, e.db.Omit("User").Create(&profile).Error)
	return auth.Principal{UserID: user.ID, Role: models.RoleStaff, Department: department}
}

func (e *serviceEnv) feeStructure(t *testing.T, course, year string, tuition, special, exam int64) models.FeeStructure {
	t.Helper()
	fee := models.FeeStructure{
		CourseName:   course,
		AcademicYear: year,
		Category:     defaultFeeCategory,
		TuitionFee:   tuition,
		SpecialFee:   &special,
		ExamFee:      &exam,
	}
	require.NoError(t, e.catalog.UpsertFeeStructure(context.Background(), &fee))
	return fee
}

func adminPrincipal() auth.Principal {
	return auth.Principal{UserID: 999, Role: models.RoleAdmin}
}

func csvInput(lines ...string) io.Reader {
	return bytes.NewBufferString(strings.Join(lines, "\n") + "\n")
}
