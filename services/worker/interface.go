package worker

import (
	"context"
	"io"

	workerRepo "homeserve/database/repository/worker"
	"homeserve/models"
	"homeserve/services/auth"
	"homeserve/services/storage"
	"homeserve/utils"
)

// WorkerService defines business logic for worker app accounts and the
// public worker catalog.
type WorkerService interface {
	// Registration
	Register(ctx context.Context, req models.WorkerRegistrationRequest) (*models.Worker, error)
	VerifyOTP(ctx context.Context, email, code string) (*models.AuthResponse, error)
	ResendOTP(ctx context.Context, email, purpose string) error

	// Authentication
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	LoginWithOTP(ctx context.Context, email, code string) (*models.AuthResponse, error)
	Logout(ctx context.Context, workerID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	TokenHash(ctx context.Context, workerID string) (string, error)

	// Profile
	GetWorkerByID(ctx context.Context, workerID string) (*models.Worker, error)
	UpdateProfile(ctx context.Context, workerID string, req models.WorkerUpdateRequest) (*models.Worker, error)
	ChangePassword(ctx context.Context, workerID string, req models.ChangePasswordRequest) (*models.AuthResponse, error)
	UpdateAvatar(ctx context.Context, workerID string, file io.Reader) (*models.Worker, error)
	SetAvailability(ctx context.Context, workerID string, available bool) (*models.Worker, error)
	AddDocument(ctx context.Context, workerID, docType, mimeType string, file io.Reader) (*models.Document, error)
	SetFCMToken(ctx context.Context, workerID, token string) error
	DeleteWorker(ctx context.Context, workerID string) error

	// Catalog
	Search(ctx context.Context, criteria models.WorkerSearchCriteria) (*SearchResult, error)
	GetPublicWorker(ctx context.Context, workerID string) (*models.PublicWorker, error)

	// Admin
	GetAllWorkers(ctx context.Context) ([]models.Worker, error)
	SetVerified(ctx context.Context, workerID string, verified bool) (*models.Worker, error)
}

// SearchResult is one page of the catalog.
type SearchResult struct {
	Workers []models.PublicWorker `json:"workers"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
}

// AccountBookings closes the open bookings of an account being deleted.
type AccountBookings interface {
	CancelForAccount(ctx context.Context, role, accountID string) (int, error)
}

// DefaultWorkerService is the production implementation.
type DefaultWorkerService struct {
	Repo    workerRepo.WorkerRepository
	Auth    *auth.Authenticator
	Storage storage.StorageService
	// Bookings is optional; when set, deletion cancels open bookings first.
	Bookings AccountBookings
}

func NewWorkerService(repo workerRepo.WorkerRepository, authenticator *auth.Authenticator, store storage.StorageService) *DefaultWorkerService {
	return &DefaultWorkerService{Repo: repo, Auth: authenticator, Storage: store}
}

func authResponse(w *models.Worker, token string) *models.AuthResponse {
	return &models.AuthResponse{
		ID:           w.ID,
		Token:        token,
		Role:         utils.RoleWorker,
		Name:         w.Name,
		Email:        w.Email,
		PhoneNumber:  w.PhoneNumber,
		ProfileImage: w.ProfileImage,
	}
}
