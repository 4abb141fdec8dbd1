package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/accounts-service/internal/api/dto"
	"github.com/spec-kit/accounts-service/internal/auth"
	"github.com/spec-kit/accounts-service/internal/config"
	"github.com/spec-kit/accounts-service/internal/domain"
	"github.com/spec-kit/accounts-service/internal/events"
	"github.com/spec-kit/accounts-service/internal/repository"
)

// Mailer delivers account emails. Implemented by internal/mail; a nil mailer
// disables delivery.
type Mailer interface {
	SendPasswordReset(ctx context.Context, recipient, newPassword string) error
}

// AuthService coordinates signup and signin flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Signup creates a new account and issues its first token. The duplicate
// check strictly precedes hashing, persistence and token issuance; a race
// between two signups is resolved by the unique email constraint and surfaces
// as the same failure as the pre-check.
func (s *AuthService) Signup(ctx context.Context, email, password, fullName string) (*Result, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return Fail(http.StatusBadRequest, domain.MsgEmailExisted), nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	salt, hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		Salt:         salt,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return Fail(http.StatusBadRequest, domain.MsgEmailExisted), nil
		}
		return nil, err
	}

	token, _, err := s.tokenMgr.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.EventUserSignedUp, UserID: user.ID, Email: user.Email})

	return Created(dto.NewUserAuthResponse(user, token)), nil
}

// Signin authenticates an existing account. A missing account and a wrong
// password produce identical failures so responses do not reveal whether the
// email is registered.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Fail(http.StatusBadRequest, domain.MsgInvalidEmailOrPassword), nil
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.Salt, password, user.PasswordHash) {
		return Fail(http.StatusBadRequest, domain.MsgInvalidEmailOrPassword), nil
	}

	// Lookups are ACTIVE-filtered, so this normally cannot trip; kept as a
	// guard in case the repository implementation changes.
	if !user.IsActive() {
		return Fail(http.StatusBadRequest, domain.MsgUserNotActive), nil
	}

	token, _, err := s.tokenMgr.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return OK(http.StatusOK, dto.NewUserAuthResponse(user, token)), nil
}

// ChangePassword verifies the caller's current password before storing a
// fresh salt and hash.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, oldPassword, newPassword string) (*Result, error) {
	if !auth.VerifyPassword(user.Salt, oldPassword, user.PasswordHash) {
		return Fail(http.StatusBadRequest, domain.MsgInvalidOldPassword), nil
	}

	salt, hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, salt, hash); err != nil {
		return nil, err
	}

	return OK(http.StatusOK, dto.NewUserResponse(user)), nil
}

// ForgotPasswordAccepted is the only response the forgot-password flow ever
// produces for a well-formed request. Unknown addresses, served resets and
// failed deliveries all look the same from the outside.
func ForgotPasswordAccepted() *Result {
	return OK(http.StatusOK, map[string]string{"detail": "if the account exists, an email has been sent"})
}

// ForgotPassword replaces the account password with a random one and emails
// it to the owner. Unknown emails succeed silently so the endpoint cannot be
// used to probe for accounts; for the same reason a delivery failure after
// the rotation is logged but not surfaced, since any non-accepted response
// would confirm the account exists. Retrying rotates and mails again.
func (s *AuthService) ForgotPassword(ctx context.Context, email string, mailer Mailer) (*Result, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ForgotPasswordAccepted(), nil
		}
		return nil, err
	}

	newPassword := uuid.NewString()
	salt, hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, salt, hash); err != nil {
		return nil, err
	}

	if mailer != nil {
		if err := mailer.SendPasswordReset(ctx, user.Email, newPassword); err != nil {
			s.logger.Error("password reset delivery failed",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}

	s.publish(ctx, events.Event{Type: events.EventPasswordReset, UserID: user.ID, Email: user.Email})

	return ForgotPasswordAccepted(), nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, event)
	}
}
