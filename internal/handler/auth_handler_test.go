package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/handler"
	"github.com/noah-isme/ssp-go-api/internal/service"
)

type mockAuthService struct {
	studentReq dto.StudentLoginRequest
	staffReq   dto.StaffLoginRequest
	response   dto.LoginResponse
	err        error
	logoutErr  error
}

func (m *mockAuthService) StudentLogin(_ context.Context, req dto.StudentLoginRequest) (dto.LoginResponse, error) {
	m.studentReq = req
	return m.response, m.err
}

func (m *mockAuthService) StaffLogin(_ context.Context, req dto.StaffLoginRequest) (dto.LoginResponse, error) {
	m.staffReq = req
	return m.response, m.err
}

func (m *mockAuthService) Refresh(context.Context, dto.RefreshRequest) (dto.RefreshResponse, error) {
	return dto.RefreshResponse{AccessToken: "fresh", TokenType: "Bearer"}, m.err
}

func (m *mockAuthService) Logout(context.Context, dto.RefreshRequest) error {
	return m.logoutErr
}

func newAuthApp(svc service.AuthService) *fiber.App {
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/auth"))
	return app
}

func TestAuthHandler_StudentLogin(t *testing.T) {
	svc := &mockAuthService{response: dto.LoginResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", RollNumber: "5000000001"}}
	app := newAuthApp(svc)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/student/login", nil, map[string]string{"roll_number": "5000000001", "password": "secret"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeEnvelope(t, resp)
	require.True(t, payload.Success)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(payload.Data, &login))
	require.Equal(t, "5000000001", login.RollNumber)
	require.Equal(t, "5000000001", svc.studentReq.RollNumber)
}

func TestAuthHandler_InvalidCredentialsIsUniform(t *testing.T) {
	svc := &mockAuthService{err: service.ErrInvalidCredentials}
	app := newAuthApp(svc)

	student := doJSON(t, app, http.MethodPost, "/api/v1/auth/student/login", nil, map[string]string{"roll_number": "principal@tu.in", "password": "x"})
	staff := doJSON(t, app, http.MethodPost, "/api/v1/auth/staff/login", nil, map[string]string{"email": "principal@tu.in", "password": "x"})

	for _, resp := range []*http.Response{student, staff} {
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		payload := decodeEnvelope(t, resp)
		require.False(t, payload.Success)
		require.Equal(t, "invalid credentials", payload.Message)
	}
}

func TestAuthHandler_LogoutWithoutRevocationStore(t *testing.T) {
	svc := &mockAuthService{logoutErr: service.ErrServiceUnavailable}
	app := newAuthApp(svc)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/logout", nil, map[string]string{"refresh_token": "r"})
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthHandler_MalformedBody(t *testing.T) {
	app := newAuthApp(&mockAuthService{})

	req := doJSON(t, app, http.MethodPost, "/api/v1/auth/refresh", nil, nil)
	require.Equal(t, fiber.StatusBadRequest, req.StatusCode)
}
