package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/ssp-go-api/internal/config"
	"github.com/noah-isme/ssp-go-api/internal/handler"
	"github.com/noah-isme/ssp-go-api/internal/middleware"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler          *handler.AuthHandler
	ProfileHandler       *handler.ProfileHandler
	CatalogHandler       *handler.CatalogHandler
	DepartmentDueHandler *handler.DepartmentDueHandler
	DuesSummaryHandler   *handler.DuesSummaryHandler
	LedgerHandler        *handler.LedgerHandler
	ChallanHandler       *handler.ChallanHandler
	ImportHandler        *handler.ImportHandler
	StatsHandler         *handler.StatsHandler
	ActivityHandler      *handler.AdminActivityHandler
	JWTMiddleware        fiber.Handler
	Database             handler.Pinger
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.Database))

	if deps.AuthHandler != nil {
		authGroup := api.Group("/auth", middleware.RateLimit("auth", cfg.AuthRateLimit, time.Minute))
		deps.AuthHandler.Register(authGroup)
	}

	// Everything registered below requires an access token.
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
	}
	secured := api.Group("", jwtMiddleware)

	if deps.ProfileHandler != nil {
		deps.ProfileHandler.Register(secured)
	}
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(secured)
	}

	dues := secured.Group("/dues")
	if deps.DuesSummaryHandler != nil {
		deps.DuesSummaryHandler.Register(dues)
	}
	if deps.LedgerHandler != nil {
		deps.LedgerHandler.Register(dues)
	}
	if deps.DepartmentDueHandler != nil {
		deps.DepartmentDueHandler.Register(dues)
	}

	if deps.ChallanHandler != nil {
		deps.ChallanHandler.Register(secured.Group("/challans"))
	}
	if deps.ImportHandler != nil {
		deps.ImportHandler.Register(secured.Group("/imports", middleware.RequireStaff()))
	}
	if deps.StatsHandler != nil {
		deps.StatsHandler.Register(secured.Group("/stats", middleware.RequireDepartment(models.DepartmentAccounts)))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(secured.Group("/activity", middleware.RequireRole(models.RoleAdmin)))
	}
}
