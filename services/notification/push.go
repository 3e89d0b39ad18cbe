package notification

import (
	"context"
	"fmt"

	"homeserve/utils"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FCMSender pushes through Firebase Cloud Messaging.
type FCMSender struct {
	client  *messaging.Client
	breaker *gobreaker.CircuitBreaker
}

// NewFCMSender initializes the Firebase app from a service account file.
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	return &FCMSender{client: client, breaker: newBreaker("fcm")}, nil
}

func buildMessage(token, title, body string, data map[string]string) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}

func (s *FCMSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.Send(ctx, buildMessage(token, title, body, data))
	})
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	utils.GetLogger().Debug("push sent", zap.Any("messageId", res))
	return nil
}

// LogPushSender logs pushes when Firebase is not configured.
type LogPushSender struct{}

func (LogPushSender) Send(_ context.Context, _ string, title, body string, data map[string]string) error {
	utils.GetLogger().Info("push not sent, FCM disabled",
		zap.String("title", title),
		zap.String("body", body),
		zap.Any("data", data))
	return nil
}
