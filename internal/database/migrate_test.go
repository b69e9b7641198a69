package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

func TestMigrateCreatesUniqueNaturalKeys(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, model := range models.All() {
		require.True(t, db.Migrator().HasTable(model))
	}
	require.True(t, db.Migrator().HasIndex(&models.HostelDue{}, "idx_hostel_due_student_year"))
	require.True(t, db.Migrator().HasIndex(&models.AcademicDue{}, "idx_academic_due_student_year"))
	require.True(t, db.Migrator().HasIndex(&models.FeeStructure{}, "idx_fee_structure_key"))
	require.True(t, db.Migrator().HasIndex(&models.ActivityLog{}, "idx_activity_actor_time"))
}

func TestConnectOptionalBackendsWithoutURL(t *testing.T) {
	conn, err := ConnectNATS("", "ssp-test")
	require.NoError(t, err)
	require.Nil(t, conn)

	client, err := ConnectRedis(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, client)
}

func TestConnectPostgresRequiresURL(t *testing.T) {
	_, err := ConnectPostgres("")
	require.Error(t, err)
}
