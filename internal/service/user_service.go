package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/spec-kit/accounts-service/internal/api/dto"
	"github.com/spec-kit/accounts-service/internal/domain"
	"github.com/spec-kit/accounts-service/internal/events"
	"github.com/spec-kit/accounts-service/internal/repository"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// UserService serves account reads and administrative mutations.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// CurrentUser returns the caller's own record.
func (s *UserService) CurrentUser(user *domain.User) *Result {
	return OK(http.StatusOK, dto.NewUserResponse(user))
}

// GetByID returns a single account, visible only while active.
func (s *UserService) GetByID(ctx context.Context, id string) (*Result, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return FailCode(http.StatusNotFound, domain.MsgUserNotFound, domain.CodeUserNotFound), nil
		}
		return nil, err
	}
	return OK(http.StatusOK, dto.NewUserResponse(user)), nil
}

// List returns a page of accounts, active and inactive alike.
func (s *UserService) List(ctx context.Context, skip, limit int) (*Result, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	users, err := s.users.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return OK(http.StatusOK, responses), nil
}

// UpdateProfile changes an account's full name. Only the name is mutable;
// email, role and credentials have dedicated flows.
func (s *UserService) UpdateProfile(ctx context.Context, id, fullName string) (*Result, error) {
	user, err := s.users.UpdateProfile(ctx, id, fullName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return FailCode(http.StatusNotFound, domain.MsgUserNotFound, domain.CodeUserNotFound), nil
		}
		return nil, err
	}
	return OK(http.StatusOK, dto.NewUserResponse(user)), nil
}

// Delete soft-deletes an account by flipping its status to INACTIVE. The row
// survives; the account simply disappears from authentication.
func (s *UserService) Delete(ctx context.Context, id string) (*Result, error) {
	user, err := s.users.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return FailCode(http.StatusNotFound, domain.MsgUserNotFound, domain.CodeUserNotFound), nil
		}
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{Type: events.EventUserDeactivated, UserID: user.ID, Email: user.Email})
	}

	return OK(http.StatusOK, dto.NewUserResponse(user)), nil
}
