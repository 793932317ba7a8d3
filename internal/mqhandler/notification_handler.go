package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"renovatrack/internal/mailer"
	"renovatrack/internal/mq"
	"renovatrack/pkg/metrics"
)

// NotificationHandler turns domain events into admin notification emails.
// A send failure is logged and reported upward as an error, but the consumer
// acks regardless: the primary write already succeeded and notifications are
// never retried.
type NotificationHandler struct {
	mail       mailer.Mailer
	adminEmail string
	logger     *zap.Logger
}

func NewNotificationHandler(mail mailer.Mailer, adminEmail string, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		mail:       mail,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

func (h *NotificationHandler) HandleLeadCaptured(ctx context.Context, raw json.RawMessage) error {
	var p mq.LeadCapturedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal lead.captured payload", zap.Error(err))
		return err
	}

	subject, html := mailer.LeadNotification(p)
	return h.send(ctx, subject, html, zap.Int64("lead_id", p.LeadID))
}

func (h *NotificationHandler) HandleEstimateRequested(ctx context.Context, raw json.RawMessage) error {
	var p mq.EstimateRequestedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal estimate.requested payload", zap.Error(err))
		return err
	}

	subject, html := mailer.EstimateNotification(p)
	return h.send(ctx, subject, html, zap.Int64("estimate_id", p.EstimateID))
}

func (h *NotificationHandler) HandleMessageReceived(ctx context.Context, raw json.RawMessage) error {
	var p mq.MessageReceivedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal message.received payload", zap.Error(err))
		return err
	}

	subject, html := mailer.MessageNotification(p)
	return h.send(ctx, subject, html, zap.Int64("message_id", p.MessageID))
}

func (h *NotificationHandler) send(ctx context.Context, subject, html string, field zap.Field) error {
	if err := h.mail.Send(ctx, mailer.Email{To: h.adminEmail, Subject: subject, HTML: html}); err != nil {
		metrics.IncrementEmailsSent("notification", "failed")
		h.logger.Error("Notification send failed", field, zap.Error(err))
		return err
	}
	metrics.IncrementEmailsSent("notification", "success")
	h.logger.Info("Notification sent", field, zap.String("subject", subject))
	return nil
}
