package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/accounts-service/internal/api/dto"
	"github.com/spec-kit/accounts-service/internal/auth"
	"github.com/spec-kit/accounts-service/internal/observability"
	"github.com/spec-kit/accounts-service/internal/service"
	apperrors "github.com/spec-kit/accounts-service/pkg/util"
)

// resetWindow is how long one forgot-password request blocks the next for
// the same address.
const resetWindow = 15 * time.Minute

// ResetThrottle limits how often a single email can trigger a password
// rotation. Implemented by persistence.Redis; nil disables throttling.
type ResetThrottle interface {
	AcquireResetWindow(ctx context.Context, email string, ttl time.Duration) (bool, error)
}

// AuthHandler exposes signup/signin and password endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	mailer   service.Mailer
	metrics  *observability.Metrics
	throttle ResetThrottle
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, mailer service.Mailer, metrics *observability.Metrics, throttle ResetThrottle) *AuthHandler {
	return &AuthHandler{auth: authService, mailer: mailer, metrics: metrics, throttle: throttle}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return apperrors.NewValidationError("email, password, full_name required")
	}

	result, err := h.auth.Signup(c.UserContext(), req.Email, req.Password, req.FullName)
	if err != nil {
		return apperrors.MapError(err)
	}
	h.recordAuthFlow(observability.FlowSignup, result)
	return respond(c, result)
}

// Signin handles POST /auth/signin.
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var req dto.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required")
	}

	result, err := h.auth.Signin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return apperrors.MapError(err)
	}
	h.recordAuthFlow(observability.FlowSignin, result)
	return respond(c, result)
}

// ChangePassword handles POST /auth/password/change for the current user.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("old_password and new_password required")
	}

	result, err := h.auth.ChangePassword(c.UserContext(), user, req.OldPassword, req.NewPassword)
	if err != nil {
		return apperrors.MapError(err)
	}
	return respond(c, result)
}

// ForgotPassword handles POST /auth/password/forgot. A throttled request
// returns the same accepted response as a served one, so the throttle
// reveals nothing about the address.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required")
	}

	if h.throttle != nil {
		// A throttle fault degrades to open; blocking resets on a cache
		// outage would hurt more than allowing an early retry.
		if ok, err := h.throttle.AcquireResetWindow(c.UserContext(), req.Email, resetWindow); err == nil && !ok {
			return respond(c, service.ForgotPasswordAccepted())
		}
	}

	result, err := h.auth.ForgotPassword(c.UserContext(), req.Email, h.mailer)
	if err != nil {
		return apperrors.MapError(err)
	}
	return respond(c, result)
}

func (h *AuthHandler) recordAuthFlow(flow string, result *service.Result) {
	outcome := observability.OutcomeAccepted
	if result.IsFailure() {
		outcome = observability.OutcomeRejected
	}
	h.metrics.RecordAuthFlow(flow, outcome)
}
