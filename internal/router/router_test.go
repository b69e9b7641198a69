package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/config"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/handler"
	"github.com/noah-isme/ssp-go-api/internal/middleware"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/router"
)

type stubStats struct {
	calls int
}

func (s *stubStats) Departments(context.Context, auth.Principal) (dto.DepartmentStatsResponse, error) {
	s.calls++
	return dto.DepartmentStatsResponse{}, nil
}

func newTestApp(t *testing.T) (*fiber.App, *auth.TokenIssuer, *stubStats) {
	t.Helper()
	issuer := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  "router-access",
		RefreshSecret: "router-refresh",
		Issuer:        "ssp-test",
	})
	stats := &stubStats{}

	app := fiber.New()
	router.Register(app, config.Config{AppName: "SSP API", AppEnv: "test", AuthRateLimit: 5}, router.Dependencies{
		StatsHandler:  handler.NewStatsHandler(stats, zerolog.Nop()),
		JWTMiddleware: middleware.JWTProtected(issuer),
	})
	return app, issuer, stats
}

func request(t *testing.T, app *fiber.App, path string, issuer *auth.TokenIssuer, principal *auth.Principal) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if principal != nil {
		token, _, err := issuer.IssueAccess(*principal)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestHealthIsPublic(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := request(t, app, "/api/v1/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "SSP API", resp.Header.Get("X-Application"))
}

func TestMetricsExposed(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := request(t, app, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDuesRoutesRequireToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := request(t, app, "/api/v1/dues/summary", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStatsRestrictedToAccounts(t *testing.T) {
	app, issuer, stats := newTestApp(t)

	hostel := auth.Principal{UserID: 3, Role: models.RoleStaff, Department: models.DepartmentHostel}
	resp := request(t, app, "/api/v1/stats/departments", issuer, &hostel)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Zero(t, stats.calls)

	accounts := auth.Principal{UserID: 4, Role: models.RoleStaff, Department: models.DepartmentAccounts}
	resp = request(t, app, "/api/v1/stats/departments", issuer, &accounts)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	admin := auth.Principal{UserID: 1, Role: models.RoleAdmin}
	resp = request(t, app, "/api/v1/stats/departments", issuer, &admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, stats.calls)
}
