package response

import "storefront/internal/data/entity"

// AuthResponse is what a successful login hands to the session
type AuthResponse struct {
	Username string
	Role     entity.UserRole
}

func UserToAuthResponse(user *entity.User) *AuthResponse {
	return &AuthResponse{Username: user.Username, Role: user.Role}
}
