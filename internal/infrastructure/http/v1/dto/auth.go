package dto

import "bankreco/internal/infrastructure/backend"

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to backend credentials.
func (r LoginRequest) ToCredentials() backend.Credentials {
	return backend.Credentials{Username: r.Username, Password: r.Password}
}

// RefreshRequest carries the refresh token to exchange.
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ToRegistration converts to the backend payload.
func (r RegisterRequest) ToRegistration() backend.Registration {
	return backend.Registration{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// TokenResponse carries the backend token pair.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// FromTokens converts backend tokens.
func FromTokens(t backend.Tokens) TokenResponse {
	return TokenResponse{Access: t.Access, Refresh: t.Refresh}
}
