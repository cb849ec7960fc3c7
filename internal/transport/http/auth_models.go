package http

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid credentials"`
}

// AckResponse is returned by endpoints that only acknowledge an action.
type AckResponse struct {
	Message string `json:"message" example:"check your email"`
}

// RegisterRequest carries the registration fields.
type RegisterRequest struct {
	Username        string `json:"username" example:"alice"`
	Email           string `json:"email" example:"alice@example.com"`
	Password        string `json:"password" example:"pw123456"`
	ConfirmPassword string `json:"confirm_password" example:"pw123456"`
}

// LoginRequest carries email login fields.
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"pw123456"`
}

// GoogleLoginRequest carries the Google ID token for login.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// ResendVerificationRequest names the account to re-mail.
type ResendVerificationRequest struct {
	Email string `json:"email" example:"alice@example.com"`
}

// PasswordResetRequest captures the payload for requesting a reset link.
type PasswordResetRequest struct {
	Email string `json:"email" example:"alice@example.com"`
}

// ResetPasswordRequest captures the payload for consuming a reset secret.
type ResetPasswordRequest struct {
	Secret          string `json:"secret" example:"6f1f0e..."`
	NewPassword     string `json:"new_password" example:"new12345"`
	ConfirmPassword string `json:"confirm_password" example:"new12345"`
}

// ChangePasswordRequest captures the payload for password rotation.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" example:"pw123456"`
	NewPassword     string `json:"new_password" example:"new12345"`
}
