package utils_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-go-api/internal/utils"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
	Details map[string]string      `json:"details"`
}

func TestEnvelopes(t *testing.T) {
	cases := []struct {
		name    string
		handler fiber.Handler
		status  int
		success bool
		message string
		check   func(t *testing.T, payload envelope, raw map[string]interface{})
	}{
		{
			name: "ok with pagination meta",
			handler: func(c *fiber.Ctx) error {
				return utils.OK(c, []string{"21CS001"}, "", map[string]int{"total_items": 1})
			},
			status:  fiber.StatusOK,
			success: true,
			message: "success",
			check: func(t *testing.T, payload envelope, _ map[string]interface{}) {
				require.JSONEq(t, `["21CS001"]`, string(payload.Data))
				require.Equal(t, float64(1), payload.Meta["total_items"])
			},
		},
		{
			name: "created",
			handler: func(c *fiber.Ctx) error {
				return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "department due created", map[string]int64{"amount": 250})
			},
			status:  fiber.StatusCreated,
			success: true,
			message: "department due created",
			check: func(t *testing.T, payload envelope, raw map[string]interface{}) {
				require.JSONEq(t, `{"amount":250}`, string(payload.Data))
				require.NotContains(t, raw, "meta")
			},
		},
		{
			name: "validation failure keeps field details",
			handler: func(c *fiber.Ctx) error {
				return utils.Fail(c, fiber.StatusBadRequest, "validation failed", map[string]string{"amount": "must be greater than 0"})
			},
			status:  fiber.StatusBadRequest,
			success: false,
			message: "validation failed",
			check: func(t *testing.T, payload envelope, raw map[string]interface{}) {
				require.Equal(t, "must be greater than 0", payload.Details["amount"])
				require.NotContains(t, raw, "data")
			},
		},
		{
			name: "plain error omits details",
			handler: func(c *fiber.Ctx) error {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			},
			status:  fiber.StatusForbidden,
			success: false,
			message: "insufficient permissions",
			check: func(t *testing.T, _ envelope, raw map[string]interface{}) {
				require.NotContains(t, raw, "details")
			},
		},
		{
			name: "zero status falls back to 500",
			handler: func(c *fiber.Ctx) error {
				return utils.Fail(c, 0, "", nil)
			},
			status:  fiber.StatusInternalServerError,
			success: false,
			message: "error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", tc.handler)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tc.status, resp.StatusCode)

			var raw map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
			encoded, err := json.Marshal(raw)
			require.NoError(t, err)
			var payload envelope
			require.NoError(t, json.Unmarshal(encoded, &payload))

			require.Equal(t, tc.success, payload.Success)
			require.Equal(t, tc.message, payload.Message)
			if tc.check != nil {
				tc.check(t, payload, raw)
			}
		})
	}
}
