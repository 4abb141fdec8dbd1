package dto

import "github.com/spec-kit/accounts-service/internal/domain"

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// SigninRequest payload for login.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest payload for profile updates.
type UpdateUserRequest struct {
	FullName string `json:"full_name"`
}

// ChangePasswordRequest payload for authenticated password changes.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ForgotPasswordRequest payload for password recovery.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// UserResponse is the read-only account view returned to clients. Salt and
// hash never leave the repository layer.
type UserResponse struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	FullName string            `json:"full_name"`
	Role     domain.UserRole   `json:"role"`
	Status   domain.UserStatus `json:"status"`
}

// UserAuthResponse extends UserResponse with a freshly issued token.
type UserAuthResponse struct {
	UserResponse
	Token string `json:"token"`
}

// NewUserResponse maps a domain user to its transport view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		Status:   user.Status,
	}
}

// NewUserAuthResponse maps a domain user plus token.
func NewUserAuthResponse(user *domain.User, token string) UserAuthResponse {
	return UserAuthResponse{UserResponse: NewUserResponse(user), Token: token}
}
