package models

// LoginRequest accepts either plaintext credentials or an RSA envelope in Payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Payload  string `json:"payload"`
}

// Credentials is the decrypted content of a login envelope.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OTPVerifyRequest confirms an emailed code.
type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// OTPResendRequest asks for a fresh code.
type OTPResendRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePasswordRequest changes the password of a signed-in account.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// FCMTokenRequest registers the device push token.
type FCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// AuthResponse contains the account ID, token and basic profile.
type AuthResponse struct {
	ID           string `json:"id"`
	Token        string `json:"token"`
	Role         string `json:"role"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}
