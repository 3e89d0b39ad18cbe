package user

import (
	"context"
	"io"

	userRepo "homeserve/database/repository/user"
	"homeserve/models"
	"homeserve/services/auth"
	"homeserve/services/storage"
	"homeserve/utils"
)

// UserService defines business logic for client app accounts.
type UserService interface {
	// Registration
	Register(ctx context.Context, req models.UserRegistrationRequest) (*models.User, error)
	VerifyOTP(ctx context.Context, email, code string) (*models.AuthResponse, error)
	ResendOTP(ctx context.Context, email, purpose string) error

	// Authentication
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	LoginWithOTP(ctx context.Context, email, code string) (*models.AuthResponse, error)
	Logout(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	// TokenHash returns the stored hash of the active token, for middleware.
	TokenHash(ctx context.Context, userID string) (string, error)

	// Profile
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) (*models.AuthResponse, error)
	UpdateAvatar(ctx context.Context, userID string, file io.Reader) (*models.User, error)
	SetFCMToken(ctx context.Context, userID, token string) error
	DeleteUser(ctx context.Context, userID string) error

	// Admin
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

// AccountBookings closes the open bookings of an account being deleted.
type AccountBookings interface {
	CancelForAccount(ctx context.Context, role, accountID string) (int, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo    userRepo.UserRepository
	Auth    *auth.Authenticator
	Storage storage.StorageService
	// Bookings is optional; when set, deletion cancels open bookings first.
	Bookings AccountBookings
}

func NewUserService(repo userRepo.UserRepository, authenticator *auth.Authenticator, store storage.StorageService) *DefaultUserService {
	return &DefaultUserService{Repo: repo, Auth: authenticator, Storage: store}
}

func authResponse(u *models.User, token string) *models.AuthResponse {
	return &models.AuthResponse{
		ID:           u.ID,
		Token:        token,
		Role:         utils.RoleUser,
		Name:         u.Name,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		ProfileImage: u.ProfileImage,
	}
}
