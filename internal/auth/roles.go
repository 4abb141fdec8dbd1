package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/accounts-service/internal/domain"
	apperrors "github.com/spec-kit/accounts-service/pkg/util"
)

// Authorize checks role membership for an already-authenticated user.
func Authorize(user *domain.User, allowed ...domain.UserRole) error {
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return apperrors.NewForbidden(domain.MsgForbidden)
}

// RequireRoles ensures the current user holds one of the allowed roles. With
// no arguments it only requires a valid identity.
func RequireRoles(allowed ...domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.NewUnauthorized(domain.MsgUnauthorized)
		}
		if len(allowed) == 0 {
			return c.Next()
		}
		if err := Authorize(user, allowed...); err != nil {
			return err
		}
		return c.Next()
	}
}
