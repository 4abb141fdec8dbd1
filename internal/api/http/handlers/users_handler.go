package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/accounts-service/internal/api/dto"
	"github.com/spec-kit/accounts-service/internal/auth"
	"github.com/spec-kit/accounts-service/internal/service"
	apperrors "github.com/spec-kit/accounts-service/pkg/util"
)

// UsersHandler exposes account read and admin management endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	return respond(c, h.users.CurrentUser(user))
}

// List handles GET /users for administrators.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	skip, _ := strconv.Atoi(c.Query("skip", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	result, err := h.users.List(c.UserContext(), skip, limit)
	if err != nil {
		return apperrors.MapError(err)
	}
	return respond(c, result)
}

// GetByID handles GET /users/:id.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	result, err := h.users.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return respond(c, result)
}

// Update handles PATCH /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.FullName == "" {
		return apperrors.NewValidationError("full_name required")
	}

	result, err := h.users.UpdateProfile(c.UserContext(), c.Params("id"), req.FullName)
	if err != nil {
		return apperrors.MapError(err)
	}
	return respond(c, result)
}

// Delete handles DELETE /users/:id (soft delete).
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	result, err := h.users.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return respond(c, result)
}
