package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

func TestSearchCapsResultsAndMatchesNames(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudentProfileRepository(db)

	for i := 0; i < 7; i++ {
		createStudent(t, db, fmt.Sprintf("50000000%02d", i), "Aarav", fmt.Sprintf("Kumar%d", i))
	}
	createStudent(t, db, "6000000001", "Meera", "Iyer")

	results, err := repo.Search(context.Background(), "aarav", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, profile := range results {
		require.Equal(t, "Aarav", profile.User.FirstName)
	}

	results, err = repo.Search(context.Background(), "6000", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Meera", results[0].User.FirstName)
}

func TestSearchScopesToOwnerBeforeLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudentProfileRepository(db)

	for i := 0; i < 6; i++ {
		createStudent(t, db, fmt.Sprintf("100000000%d", i), "Aarav", fmt.Sprintf("Kumar%d", i))
	}
	self := createStudent(t, db, "9000000001", "Aarav", "Self")

	results, err := repo.Search(context.Background(), "aarav", &self.UserID, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "9000000001", results[0].RollNumber)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudentProfileRepository(db)
	ctx := context.Background()

	createStudent(t, db, "5000000001", "Aarav", "Shah")
	createStudent(t, db, "5000000002", "Meera", "Iyer")

	for _, term := range []string{"_", "%", `\`} {
		results, err := repo.Search(ctx, term, nil, 5)
		require.NoError(t, err)
		require.Empty(t, results, term)
	}

	createStudent(t, db, "5000000003", "Anne_Marie", "Dsouza")
	results, err := repo.Search(ctx, "e_m", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "5000000003", results[0].RollNumber)
}

func TestUpsertStudentKeepsExistingPassword(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudentProfileRepository(db)
	ctx := context.Background()

	user := &models.User{Login: "5000000001", IsStudent: true, FirstName: "Aarav", PasswordHash: "original"}
	profile := &models.StudentProfile{RollNumber: "5000000001", CourseName: "LL.B", Caste: "GEN"}
	created, err := repo.UpsertStudent(ctx, user, profile)
	require.NoError(t, err)
	require.True(t, created)

	again := &models.User{Login: "5000000001", IsStudent: true, FirstName: "Aarav", LastName: "Shah", PasswordHash: "replacement"}
	updatedProfile := &models.StudentProfile{RollNumber: "5000000001", CourseName: "LL.B", Caste: "OBC"}
	created, err = repo.UpsertStudent(ctx, again, updatedProfile)
	require.NoError(t, err)
	require.False(t, created)

	stored, err := repo.GetByRollNumber(ctx, "5000000001")
	require.NoError(t, err)
	require.Equal(t, "OBC", stored.Caste)
	require.Equal(t, "Shah", stored.User.LastName)
	require.Equal(t, "original", stored.User.PasswordHash)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
