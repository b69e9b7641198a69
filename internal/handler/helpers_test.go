package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/middleware"
	"github.com/noah-isme/ssp-go-api/internal/models"
)

var testTokens = auth.NewTokenIssuer(auth.TokenConfig{
	AccessSecret:  "handler-access",
	RefreshSecret: "handler-refresh",
	Issuer:        "ssp-test",
})

var (
	studentCaller  = auth.Principal{UserID: 11, Role: models.RoleStudent}
	hostelCaller   = auth.Principal{UserID: 21, Role: models.RoleStaff, Department: models.DepartmentHostel}
	libraryCaller  = auth.Principal{UserID: 22, Role: models.RoleStaff, Department: models.DepartmentLibrary}
	accountsCaller = auth.Principal{UserID: 23, Role: models.RoleStaff, Department: models.DepartmentAccounts}
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    json.RawMessage   `json:"meta"`
	Details map[string]string `json:"details"`
}

// protectedGroup returns an app and a JWT-protected group mounted at prefix.
func protectedGroup(prefix string) (*fiber.App, fiber.Router) {
	app := fiber.New()
	return app, app.Group(prefix, middleware.JWTProtected(testTokens))
}

func bearer(t *testing.T, principal auth.Principal) string {
	t.Helper()
	token, _, err := testTokens.IssueAccess(principal)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path string, principal *auth.Principal, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if principal != nil {
		req.Header.Set("Authorization", bearer(t, *principal))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var payload envelope
	decodeResponse(t, resp, &payload)
	return payload
}
