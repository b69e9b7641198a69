package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

type authFixture struct {
	env     *serviceEnv
	service AuthService
	redis   *miniredis.Miniredis
}

func newAuthFixture(t *testing.T, withRedis bool) authFixture {
	t.Helper()
	env := newServiceEnv(t)
	issuer := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "ssp-test",
	})

	var client *redis.Client
	var server *miniredis.Miniredis
	if withRedis {
		var err error
		server, err = miniredis.Run()
		require.NoError(t, err)
		t.Cleanup(server.Close)
		client = redis.NewClient(&redis.Options{Addr: server.Addr()})
		t.Cleanup(func() { _ = client.Close() })
	}

	svc := NewAuthService(env.users, env.students, env.staff, issuer, repository.NewTokenStore(client), NewValidator(), testLogger())
	return authFixture{env: env, service: svc, redis: server}
}

func (f authFixture) withPassword(t *testing.T, userID uint, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, f.env.users.UpdatePassword(context.Background(), userID, hash))
}

func TestStudentLoginByRollNumber(t *testing.T) {
	f := newAuthFixture(t, false)
	_, principal := f.env.student(t, "5000000501", "Aarav", "Sen", mcom)
	f.withPassword(t, principal.UserID, "student-pass")

	response, err := f.service.StudentLogin(context.Background(), dto.StudentLoginRequest{RollNumber: "5000000501", Password: "student-pass"})
	require.NoError(t, err)
	require.Equal(t, "student", response.User.Role)
	require.Equal(t, "5000000501", response.RollNumber)
	require.Empty(t, response.Department)

	_, err = f.service.StudentLogin(context.Background(), dto.StudentLoginRequest{RollNumber: "5000000501", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStudentPathRejectsStaffEmail(t *testing.T) {
	f := newAuthFixture(t, false)
	staff := f.env.staffMember(t, "accounts@tu.in", models.DepartmentAccounts)
	f.withPassword(t, staff.UserID, "staff-pass")

	_, err := f.service.StudentLogin(context.Background(), dto.StudentLoginRequest{RollNumber: "accounts@tu.in", Password: "staff-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	response, err := f.service.StaffLogin(context.Background(), dto.StaffLoginRequest{Email: "Accounts@TU.in", Password: "staff-pass"})
	require.NoError(t, err)
	require.Equal(t, "accounts", response.Department)
	require.Equal(t, "staff", response.User.Role)
}

func TestStaffPathRejectsStudent(t *testing.T) {
	f := newAuthFixture(t, false)
	email := "aarav@student.tu.in"
	_, principal := f.env.student(t, "5000000502", "Aarav", "Pal", mcom)
	require.NoError(t, f.env.db.Model(&models.User{}).Where("id = ?", principal.UserID).Update("email", email).Error)
	f.withPassword(t, principal.UserID, "student-pass")

	_, err := f.service.StaffLogin(context.Background(), dto.StaffLoginRequest{Email: email, Password: "student-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.StaffLogin(context.Background(), dto.StaffLoginRequest{Email: "nobody@tu.in", Password: "student-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginShapeFailuresLookLikeBadCredentials(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	_, err := f.service.StaffLogin(ctx, dto.StaffLoginRequest{Email: "5000000502", Password: "student-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.StaffLogin(ctx, dto.StaffLoginRequest{Email: "accounts@tu.in"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.StudentLogin(ctx, dto.StudentLoginRequest{Password: "student-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	staff := f.env.staffMember(t, "hostel@tu.in", models.DepartmentHostel)
	f.withPassword(t, staff.UserID, "staff-pass")

	login, err := f.service.StaffLogin(ctx, dto.StaffLoginRequest{Email: "hostel@tu.in", Password: "staff-pass"})
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)

	_, err = f.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: login.AccessToken})
	require.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, f.service.Logout(ctx, dto.RefreshRequest{RefreshToken: login.RefreshToken}))
	_, err = f.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogoutWithoutRedisIsUnavailable(t *testing.T) {
	f := newAuthFixture(t, false)
	staff := f.env.staffMember(t, "lab@tu.in", models.DepartmentLab)
	f.withPassword(t, staff.UserID, "staff-pass")

	login, err := f.service.StaffLogin(context.Background(), dto.StaffLoginRequest{Email: "lab@tu.in", Password: "staff-pass"})
	require.NoError(t, err)
	err = f.service.Logout(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()
	_, principal := f.env.student(t, "5000000503", "Ira", "Roy", mcom)
	f.withPassword(t, principal.UserID, "student-pass")

	login, err := f.service.StudentLogin(ctx, dto.StudentLoginRequest{RollNumber: "5000000503", Password: "student-pass"})
	require.NoError(t, err)
	require.NoError(t, f.env.db.Model(&models.User{}).Where("id = ?", principal.UserID).Update("is_active", false).Error)

	_, err = f.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.service.StudentLogin(ctx, dto.StudentLoginRequest{RollNumber: "5000000503", Password: "student-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
