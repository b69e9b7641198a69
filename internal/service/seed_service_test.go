package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/models"
)

func newSeedService(env *serviceEnv) SeedService {
	accounts := NewAccountService(env.users, env.staff, NewValidator(), testLogger())
	return NewSeedService(env.catalog, env.users, accounts, testLogger())
}

func TestSeedServiceIsIdempotent(t *testing.T) {
	env := newServiceEnv(t)
	svc := newSeedService(env)
	ctx := context.Background()

	first, err := svc.Seed(ctx, SeedOptions{AdminEmail: "principal@tu.in", AdminPassword: "initial-pass"})
	require.NoError(t, err)
	require.True(t, first.AdminCreated)
	require.Zero(t, first.StaffCreated)
	require.Equal(t, len(feeCatalog), first.Courses)
	require.Equal(t, len(feeCatalog), first.FeeCopies)

	second, err := svc.Seed(ctx, SeedOptions{AdminEmail: "principal@tu.in", AdminPassword: "another-pass"})
	require.NoError(t, err)
	require.False(t, second.AdminCreated)
	require.Zero(t, second.FeeCopies)

	var courses int64
	require.NoError(t, env.db.Model(&models.Course{}).Count(&courses).Error)
	require.Equal(t, int64(len(feeCatalog)), courses)

	var fees int64
	require.NoError(t, env.db.Model(&models.FeeStructure{}).Count(&fees).Error)
	require.Equal(t, int64(2*len(feeCatalog)), fees)

	admin, err := env.users.FindStaffByEmail(ctx, "principal@tu.in")
	require.NoError(t, err)
	require.True(t, admin.IsSuperuser)
	require.True(t, auth.CheckPassword(admin.PasswordHash, "initial-pass"))
}

func TestSeedServiceRequiresAdminPassword(t *testing.T) {
	env := newServiceEnv(t)
	_, err := newSeedService(env).Seed(context.Background(), SeedOptions{AdminEmail: "principal@tu.in"})
	require.ErrorIs(t, err, ErrSeedPasswordMissing)
}
