package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	// Roles restricts the principal role; empty admits any authenticated caller.
	Roles []models.Role
	// Departments additionally restricts staff to the listed departments.
	// Admins always pass and students are not affected.
	Departments []models.Department
}

// WithAuth wraps a single route handler with role and department guards.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		if len(opts.Roles) > 0 && !hasRole(principal.Role, opts.Roles) {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
		}

		if len(opts.Departments) > 0 && principal.IsStaff() {
			allowed := false
			for _, department := range opts.Departments {
				if principal.CanManage(department) {
					allowed = true
					break
				}
			}
			if !allowed {
				return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
			}
		}

		return handler(c)
	}
}

func hasRole(role models.Role, roles []models.Role) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}
