package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

const principalLocal = "principal"

// JWTProtected validates bearer access tokens and stores the resolved principal
// in the request locals.
func JWTProtected(issuer *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if len(authorization) < len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := issuer.ParseAccess(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return utils.SendError(c, fiber.StatusUnauthorized, "token expired")
			}
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		principal, err := claims.Principal()
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		c.Locals(principalLocal, principal)
		c.Locals("user_id", principal.UserID)
		c.Locals("user_role", string(principal.Role))
		return c.Next()
	}
}

// PrincipalFrom returns the principal stored by JWTProtected.
func PrincipalFrom(c *fiber.Ctx) (auth.Principal, bool) {
	principal, ok := c.Locals(principalLocal).(auth.Principal)
	if !ok || principal.UserID == 0 {
		return auth.Principal{}, false
	}
	return principal, true
}
