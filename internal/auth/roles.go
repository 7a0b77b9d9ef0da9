package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

// RequireAuth ensures a principal is present.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the principal has the admin flag.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.Admin {
			return apperrors.NewForbidden("access denied")
		}
		return c.Next()
	}
}
