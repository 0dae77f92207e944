package account

import "time"

// RegisterRequest creates a local account.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64,username"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	DisplayName string `json:"display_name,omitempty" validate:"max=255"`
}

// LoginRequest is a local username and password login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SocialLoginRequest carries an access token obtained from Provider.
type SocialLoginRequest struct {
	Provider    string `json:"provider" validate:"required"`
	AccessToken string `json:"accessToken" validate:"required"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72,nefield=OldPassword"`
}

// Token is an issued bearer token.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
