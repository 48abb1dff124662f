package notification

import (
	"context"
	"fmt"

	"bookfair/database/repository"
	"bookfair/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Sender delivers one reservation event to the vendor.
type Sender interface {
	Send(ctx context.Context, ev models.ReservationEvent) error
}

// LogSender writes events to the log instead of contacting the vendor.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, ev models.ReservationEvent) error {
	msg := Compose(ev)
	s.Logger.Info("Reservation notification",
		zap.String("eventID", ev.ID),
		zap.String("type", string(ev.Type)),
		zap.String("vendorID", ev.VendorID),
		zap.String("vendorEmail", ev.VendorEmail),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body))
	return nil
}

// MessagingClient is the part of the Firebase messaging client FCMSender uses.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender pushes events to the vendor's registered device.
type FCMSender struct {
	client  MessagingClient
	vendors repository.VendorRepository
	logger  *zap.Logger
}

func NewFCMSender(client MessagingClient, vendors repository.VendorRepository, logger *zap.Logger) *FCMSender {
	return &FCMSender{client: client, vendors: vendors, logger: logger}
}

// NewFCMClient initializes the Firebase app and returns its messaging client.
func NewFCMClient(ctx context.Context, credentialsFile string) (*messaging.Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	return client, nil
}

func (s *FCMSender) Send(ctx context.Context, ev models.ReservationEvent) error {
	vendor, err := s.vendors.GetByID(ctx, ev.VendorID)
	if err != nil {
		return fmt.Errorf("FCMSender: could not find vendor %s: %w", ev.VendorID, err)
	}
	if vendor.FCMToken == "" {
		// Nothing to push to; the event still counts as handled.
		s.logger.Debug("Vendor has no FCM token, skipping push", zap.String("vendorID", ev.VendorID))
		return nil
	}

	msg := Compose(ev)
	response, err := s.client.Send(ctx, &messaging.Message{
		Token: vendor.FCMToken,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "reservations",
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
	})
	if err != nil {
		return fmt.Errorf("FCMSender: failed to send FCM message: %w", err)
	}
	s.logger.Info("Push notification sent", zap.String("eventID", ev.ID), zap.String("response", response))
	return nil
}
