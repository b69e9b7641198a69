package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

// RequireRole ensures that the authenticated principal has one of the allowed roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if _, ok := allowed[principal.Role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequireStaff admits staff members and admins.
func RequireStaff() fiber.Handler {
	return RequireRole(models.RoleStaff, models.RoleAdmin)
}

// RequireDepartment admits admins and staff belonging to one of the departments.
func RequireDepartment(departments ...models.Department) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		for _, department := range departments {
			if principal.CanManage(department) {
				return c.Next()
			}
		}
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
}
