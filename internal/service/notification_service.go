package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/accounts-service/internal/config"
	"github.com/spec-kit/accounts-service/internal/events"
)

// NoticeMailer delivers informational account emails. Implemented by
// internal/mail; a nil mailer disables the email channel.
type NoticeMailer interface {
	SendAccountNotice(ctx context.Context, recipient, subject, body string) error
}

// NotificationService turns account lifecycle events into outbound
// notifications: an email to the account owner plus a webhook stub. Delivery
// failures are logged and never propagate into the flow that published the
// event.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	webhook    config.WebhookConfig
	mailer     NoticeMailer
}

// NewNotificationService creates the service and subscribes it to account
// events.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, webhook config.WebhookConfig, mailer NoticeMailer) *NotificationService {
	n := &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		webhook:    webhook,
		mailer:     mailer,
	}
	n.registerHandlers()
	return n
}

func (n *NotificationService) registerHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserSignedUp, n.handleUserSignedUp)
	n.dispatcher.Subscribe(events.EventUserDeactivated, n.handleUserDeactivated)
	n.dispatcher.Subscribe(events.EventPasswordReset, n.handlePasswordReset)
}

func (n *NotificationService) handleUserSignedUp(ctx context.Context, event events.Event) error {
	n.logger.Info("UserSignedUp", zap.String("user_id", event.UserID), zap.String("email", event.Email))
	n.sendNotice(ctx, event, "Welcome",
		"<html><body><p>Your account has been created.</p></body></html>")
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleUserDeactivated(ctx context.Context, event events.Event) error {
	n.logger.Info("UserDeactivated", zap.String("user_id", event.UserID))
	n.sendNotice(ctx, event, "Account Deactivated",
		"<html><body><p>Your account has been deactivated. Contact support if this was not expected.</p></body></html>")
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// handlePasswordReset skips the email channel: the reset flow already mailed
// the replacement password and a second email would add nothing.
func (n *NotificationService) handlePasswordReset(ctx context.Context, event events.Event) error {
	n.logger.Info("PasswordReset", zap.String("user_id", event.UserID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendNotice(ctx context.Context, event events.Event, subject, body string) {
	if n.mailer == nil || event.Email == "" {
		return
	}
	if err := n.mailer.SendAccountNotice(ctx, event.Email, subject, body); err != nil {
		n.logger.Error("account notice delivery failed",
			zap.String("user_id", event.UserID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.webhook.URL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.webhook.URL),
		zap.String("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
}
