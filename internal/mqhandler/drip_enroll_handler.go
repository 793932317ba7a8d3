package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"renovatrack/internal/mq"
	"renovatrack/internal/service"
)

// DripEnrollHandler subscribes captured leads into the drip campaign.
type DripEnrollHandler struct {
	drip   *service.DripService
	logger *zap.Logger
}

func NewDripEnrollHandler(drip *service.DripService, logger *zap.Logger) *DripEnrollHandler {
	return &DripEnrollHandler{
		drip:   drip,
		logger: logger,
	}
}

func (h *DripEnrollHandler) HandleLeadCaptured(ctx context.Context, raw json.RawMessage) error {
	var p mq.LeadCapturedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal lead.captured payload", zap.Error(err))
		return err
	}

	firstName := firstWord(p.Name)
	sub, err := h.drip.Enroll(ctx, p.Email, firstName, p.Source)
	if err != nil {
		h.logger.Error("Drip enrolment failed",
			zap.Int64("lead_id", p.LeadID),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("Lead enrolled in drip campaign",
		zap.Int64("lead_id", p.LeadID),
		zap.Int64("subscriber_id", sub.ID),
	)
	return nil
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}
