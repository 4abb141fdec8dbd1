package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/accounts-service/internal/domain"
	"github.com/spec-kit/accounts-service/internal/repository"
	apperrors "github.com/spec-kit/accounts-service/pkg/util"
)

const currentUserKey = "auth_current_user"

// Middleware validates bearer tokens and loads the current user. A token that
// decodes but no longer resolves to an active account is rejected exactly
// like a forged one.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	scheme string
}

// NewMiddleware constructs middleware. Scheme is the expected Authorization
// header prefix, e.g. "Bearer".
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, scheme string) *Middleware {
	if scheme == "" {
		scheme = "Bearer"
	}
	return &Middleware{tokens: tokens, users: users, scheme: scheme}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized(domain.MsgUnauthorized)
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 {
		return apperrors.NewUnauthorized(domain.MsgInvalidToken)
	}
	if parts[0] != m.scheme {
		return apperrors.NewUnauthorized(domain.MsgInvalidTokenType)
	}

	claims, err := m.tokens.VerifyToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized(domain.MsgInvalidToken)
	}

	user, err := m.users.FindByEmail(c.UserContext(), claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized(domain.MsgInvalidToken)
		}
		return apperrors.MapError(err)
	}

	c.Locals(currentUserKey, user)
	return c.Next()
}

// CurrentUser retrieves the authenticated account from the request context.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(currentUserKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
