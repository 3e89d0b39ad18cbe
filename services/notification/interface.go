package notification

import (
	"context"
	"fmt"

	userRepo "homeserve/database/repository/user"
	workerRepo "homeserve/database/repository/worker"
	"homeserve/utils"

	"go.uber.org/zap"
)

// Attachment is a file sent along with an email.
type Attachment struct {
	Filename string
	Data     []byte
}

// Email is one outgoing message. Body is HTML.
type Email struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// PushSender delivers a push message to one device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// NotificationService resolves accounts to device tokens and pushes to them.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	SendWorkerPushNotification(ctx context.Context, workerID, title, body string, data map[string]string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	users   userRepo.UserRepository
	workers workerRepo.WorkerRepository
	push    PushSender
}

func NewDefaultNotificationService(
	users userRepo.UserRepository,
	workers workerRepo.WorkerRepository,
	push PushSender,
) (*DefaultNotificationService, error) {
	if users == nil || workers == nil || push == nil {
		return nil, fmt.Errorf("notification service initialization error: repository or push sender is nil")
	}
	return &DefaultNotificationService{users: users, workers: workers, push: push}, nil
}

// SendUserPushNotification looks up a user's FCM token and sends a push.
// Accounts without a registered device are skipped.
func (s *DefaultNotificationService) SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		utils.GetLogger().Debug("user has no FCM token, skipping push", zap.String("userId", userID))
		return nil
	}
	return s.push.Send(ctx, u.FCMToken, title, body, withRole(data, utils.RoleUser))
}

func (s *DefaultNotificationService) SendWorkerPushNotification(ctx context.Context, workerID, title, body string, data map[string]string) error {
	w, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		return fmt.Errorf("SendWorkerPushNotification: could not find worker %s: %w", workerID, err)
	}
	if w.FCMToken == "" {
		utils.GetLogger().Debug("worker has no FCM token, skipping push", zap.String("workerId", workerID))
		return nil
	}
	return s.push.Send(ctx, w.FCMToken, title, body, withRole(data, utils.RoleWorker))
}

func withRole(data map[string]string, role string) map[string]string {
	out := make(map[string]string, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	if _, ok := out["role"]; !ok {
		out["role"] = role
	}
	return out
}
