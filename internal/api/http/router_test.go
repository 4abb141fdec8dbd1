package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/accounts-service/internal/api/http/handlers"
	"github.com/spec-kit/accounts-service/internal/auth"
	"github.com/spec-kit/accounts-service/internal/config"
	"github.com/spec-kit/accounts-service/internal/domain"
	"github.com/spec-kit/accounts-service/internal/observability"
	"github.com/spec-kit/accounts-service/internal/repository"
	"github.com/spec-kit/accounts-service/internal/service"
)

// fakeUserRepo is an in-memory repository honoring the ACTIVE-only lookup
// contract of the real implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok || !user.IsActive() {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email && user.IsActive() {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context, skip, limit int) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*domain.User, 0, len(f.users))
	for _, user := range f.users {
		clone := *user
		all = append(all, &clone)
	}
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id, fullName string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok || !user.IsActive() {
		return nil, repository.ErrNotFound
	}
	user.FullName = fullName
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, salt, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok || !user.IsActive() {
		return repository.ErrNotFound
	}
	user.Salt = salt
	user.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok || !user.IsActive() {
		return nil, repository.ErrNotFound
	}
	user.Status = domain.UserStatusInactive
	clone := *user
	return &clone, nil
}

// fakeResetThrottle denies reset windows for the addresses it is told to.
type fakeResetThrottle struct {
	denied map[string]bool
}

func (f *fakeResetThrottle) AcquireResetWindow(_ context.Context, email string, _ time.Duration) (bool, error) {
	return !f.denied[email], nil
}

type testEnv struct {
	app      *fiber.App
	repo     *fakeUserRepo
	auth     *service.AuthService
	metrics  *observability.Metrics
	throttle *fakeResetThrottle
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newFakeUserRepo()
	authCfg := config.AuthConfig{JWTSecret: "test-secret", TokenTTLMinutes: 15, TokenScheme: "Bearer"}

	authService := service.NewAuthService(authCfg, repo, nil, nil)
	userService := service.NewUserService(repo, nil)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), repo, authCfg.TokenScheme)

	metrics := observability.NewMetrics()
	throttle := &fakeResetThrottle{denied: map[string]bool{}}

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	RegisterRoutes(app, RouteConfig{
		APIPrefix:      "/api",
		Health:         handlers.NewHealthHandler("accounts-service-test", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService, nil, metrics, throttle),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
	})

	return &testEnv{app: app, repo: repo, auth: authService, metrics: metrics, throttle: throttle}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func (e *testEnv) signup(t *testing.T, email, password, fullName string) (id, token string) {
	t.Helper()

	resp, body := e.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": password, "full_name": fullName,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "signup body: %v", body)

	data := body["data"].(map[string]any)
	return data["id"].(string), data["token"].(string)
}

func (e *testEnv) seedAdmin(t *testing.T, email string) string {
	t.Helper()

	id, _ := e.signup(t, email, "AdminSecret1", "Admin")
	e.repo.mu.Lock()
	e.repo.users[id].Role = domain.RoleAdmin
	e.repo.mu.Unlock()

	result, err := e.auth.Signin(context.Background(), email, "AdminSecret1")
	require.NoError(t, err)
	require.False(t, result.IsFailure())
	payloadJSON, err := json.Marshal(result.Payload)
	require.NoError(t, err)
	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(payloadJSON, &payload))
	return payload.Token
}

func TestSignupAndMe(t *testing.T) {
	env := newTestEnv(t)

	id, token := env.signup(t, "a@x.com", "Secret1", "A")
	require.NotEmpty(t, token)

	resp, body := env.request(t, http.MethodGet, "/api/users/me", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, id, data["id"])
	assert.Equal(t, "a@x.com", data["email"])
	assert.Equal(t, string(domain.RoleUser), data["role"])
}

func TestSignupDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "Secret1", "A")

	resp, body := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "a@x.com", "password": "Other1", "full_name": "B",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MsgEmailExisted, body["reason"])
}

func TestSigninFailuresAreUniform(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "Secret1", "A")

	respUnknown, bodyUnknown := env.request(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "nobody@x.com", "password": "Secret1",
	})
	respWrong, bodyWrong := env.request(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "a@x.com", "password": "WrongPassword",
	})

	assert.Equal(t, http.StatusBadRequest, respUnknown.StatusCode)
	assert.Equal(t, respUnknown.StatusCode, respWrong.StatusCode)
	assert.Equal(t, bodyUnknown["reason"], bodyWrong["reason"])
	assert.Equal(t, domain.MsgInvalidEmailOrPassword, bodyWrong["reason"])
}

func TestGuardRejectsBadHeaders(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "a@x.com", "Secret1", "A")

	tests := []struct {
		name   string
		header string
		reason string
	}{
		{"missing header", "", domain.MsgUnauthorized},
		{"wrong scheme", "Basic abc", domain.MsgInvalidTokenType},
		{"one part", "Bearer", domain.MsgInvalidToken},
		{"three parts", "Bearer a b", domain.MsgInvalidToken},
		{"garbage token", "Bearer not-a-token", domain.MsgInvalidToken},
		{"lowercase scheme", "bearer " + token, domain.MsgInvalidTokenType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.request(t, http.MethodGet, "/api/users/me", tt.header, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.reason, body["reason"])
		})
	}
}

func TestGuardRejectsVanishedUser(t *testing.T) {
	env := newTestEnv(t)
	id, token := env.signup(t, "a@x.com", "Secret1", "A")

	// Deactivate behind the token's back; a valid signature no longer grants
	// access and the failure is indistinguishable from a forged token.
	_, err := env.repo.Deactivate(context.Background(), id)
	require.NoError(t, err)

	resp, body := env.request(t, http.MethodGet, "/api/users/me", "Bearer "+token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, domain.MsgInvalidToken, body["reason"])
}

func TestAdminRoutesForbiddenForUsers(t *testing.T) {
	env := newTestEnv(t)
	id, token := env.signup(t, "a@x.com", "Secret1", "A")

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users/"},
		{http.MethodGet, "/api/users/" + id},
		{http.MethodPatch, "/api/users/" + id},
		{http.MethodDelete, "/api/users/" + id},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			var body any
			if p.method == http.MethodPatch {
				body = map[string]string{"full_name": "X"}
			}
			resp, decoded := env.request(t, p.method, p.path, "Bearer "+token, body)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, domain.MsgForbidden, decoded["reason"])
		})
	}
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.signup(t, "a@x.com", "Secret1", "A")
	adminToken := env.seedAdmin(t, "admin@x.com")

	resp, body := env.request(t, http.MethodGet, "/api/users/", "Bearer "+adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 2)

	resp, body = env.request(t, http.MethodPatch, "/api/users/"+userID, "Bearer "+adminToken,
		map[string]string{"full_name": "Renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renamed", body["data"].(map[string]any)["full_name"])

	resp, body = env.request(t, http.MethodDelete, "/api/users/"+userID, "Bearer "+adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(domain.UserStatusInactive), body["data"].(map[string]any)["status"])

	// Soft-deleted accounts are invisible to lookup.
	resp, body = env.request(t, http.MethodGet, fmt.Sprintf("/api/users/%s", userID), "Bearer "+adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, domain.MsgUserNotFound, body["reason"])
	assert.Equal(t, domain.CodeUserNotFound, body["code"])
}

func TestChangePasswordFlow(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "Secret1", "A")

	result, err := env.auth.Signin(context.Background(), "a@x.com", "Secret1")
	require.NoError(t, err)
	payloadJSON, _ := json.Marshal(result.Payload)
	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(payloadJSON, &payload))

	resp, body := env.request(t, http.MethodPost, "/api/auth/password/change", "Bearer "+payload.Token,
		map[string]string{"old_password": "Wrong", "new_password": "NewSecret1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MsgInvalidOldPassword, body["reason"])

	resp, _ = env.request(t, http.MethodPost, "/api/auth/password/change", "Bearer "+payload.Token,
		map[string]string{"old_password": "Secret1", "new_password": "NewSecret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Old password no longer works, new one does.
	oldResult, err := env.auth.Signin(context.Background(), "a@x.com", "Secret1")
	require.NoError(t, err)
	assert.True(t, oldResult.IsFailure())

	newResult, err := env.auth.Signin(context.Background(), "a@x.com", "NewSecret1")
	require.NoError(t, err)
	assert.False(t, newResult.IsFailure())
}

func TestValidationFailuresCarryCode(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "a@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.NotEmpty(t, body["reason"])
}

func TestErrorResponsesCountedWithMappedStatus(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, http.MethodGet, "/api/users/me", "Bearer not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.EqualValues(t, 1, env.metrics.RequestCount("/api/users/me", http.MethodGet, http.StatusUnauthorized))
	assert.Zero(t, env.metrics.RequestCount("/api/users/me", http.MethodGet, http.StatusOK))
	assert.EqualValues(t, 1, env.metrics.AuthFlowCount(observability.FlowGuard, observability.OutcomeRejected))
}

func TestAuthFlowsAreCounted(t *testing.T) {
	env := newTestEnv(t)

	env.signup(t, "a@x.com", "Secret1", "A")
	assert.EqualValues(t, 1, env.metrics.AuthFlowCount(observability.FlowSignup, observability.OutcomeAccepted))

	resp, _ := env.request(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "a@x.com", "password": "Wrong",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, 1, env.metrics.AuthFlowCount(observability.FlowSignin, observability.OutcomeRejected))
	assert.Zero(t, env.metrics.AuthFlowCount(observability.FlowSignin, observability.OutcomeAccepted))
}

func TestForgotPasswordThrottled(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "Secret1", "A")
	env.throttle.denied["a@x.com"] = true

	resp, body := env.request(t, http.MethodPost, "/api/auth/password/forgot", "", map[string]string{
		"email": "a@x.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["data"].(map[string]any)["detail"])

	// The throttled request must not have rotated the password.
	result, err := env.auth.Signin(context.Background(), "a@x.com", "Secret1")
	require.NoError(t, err)
	assert.False(t, result.IsFailure())
}
