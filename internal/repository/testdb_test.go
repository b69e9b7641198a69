package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func createStudent(t *testing.T, db *gorm.DB, roll, first, last string) models.StudentProfile {
	t.Helper()
	user := models.User{Login: roll, IsStudent: true, IsActive: true, FirstName: first, LastName: last, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	profile := models.StudentProfile{UserID: user.ID, RollNumber: roll, CourseName: "M.Com. (e-Commerce)", Caste: "GEN"}
	require.NoError(t, db.Omit("User").Create(&profile).Error)
	profile.User = user
	return profile
}

func createStaff(t *testing.T, db *gorm.DB, email string, department models.Department) models.User {
	t.Helper()
	user := models.User{Login: email, Email: &email, IsStaff: true, IsActive: true, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	profile := models.StaffProfile{UserID: user.ID, Department: department, JoinDate: time.Now()}
	require.NoError(t, db.Omit("User").Create(&profile).Error)
	return user
}
