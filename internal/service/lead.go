package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"renovatrack/internal/model"
	"renovatrack/internal/mq"
	"renovatrack/internal/repository"
	"renovatrack/pkg/metrics"
)

type LeadService struct {
	leads     repository.LeadRepository
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewLeadService(leads repository.LeadRepository, publisher mq.Publisher, logger *zap.Logger) *LeadService {
	return &LeadService{
		leads:     leads,
		publisher: publisher,
		logger:    logger,
	}
}

// Create writes the lead, then publishes lead.captured. A publish failure is
// logged and swallowed: the lead row is already committed and stays.
func (s *LeadService) Create(ctx context.Context, l *model.Lead) error {
	if l.Status == "" {
		l.Status = model.LeadNew
	}
	if err := s.leads.Insert(ctx, l); err != nil {
		return err
	}

	payload := mq.LeadCapturedPayload{
		LeadID:      l.ID,
		Name:        l.Name,
		Email:       l.Email,
		Phone:       l.Phone,
		ProjectType: l.ProjectType,
		Message:     l.Message,
		Source:      l.Source,
		CapturedAt:  time.Now(),
	}
	if err := s.publisher.Publish(mq.KeyLeadCaptured, payload); err != nil {
		metrics.IncrementEventsPublished(mq.KeyLeadCaptured, "failed")
		s.logger.Error("Failed to publish lead.captured",
			zap.Int64("lead_id", l.ID),
			zap.Error(err),
		)
	} else {
		metrics.IncrementEventsPublished(mq.KeyLeadCaptured, "success")
	}
	return nil
}

func (s *LeadService) List(ctx context.Context) ([]model.Lead, error) {
	return s.leads.List(ctx)
}

func (s *LeadService) UpdateStatus(ctx context.Context, id int64, status model.LeadStatus) error {
	switch status {
	case model.LeadNew, model.LeadContacted, model.LeadConverted, model.LeadClosed:
	default:
		return ErrInvalidStatus
	}
	return s.leads.UpdateStatus(ctx, id, status)
}

type EstimateService struct {
	estimates repository.EstimateRepository
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewEstimateService(estimates repository.EstimateRepository, publisher mq.Publisher, logger *zap.Logger) *EstimateService {
	return &EstimateService{
		estimates: estimates,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *EstimateService) Create(ctx context.Context, e *model.Estimate) error {
	if e.Status == "" {
		e.Status = "pending"
	}
	if err := s.estimates.Insert(ctx, e); err != nil {
		return err
	}

	payload := mq.EstimateRequestedPayload{
		EstimateID:  e.ID,
		Name:        e.Name,
		Email:       e.Email,
		ProjectType: e.ProjectType,
		BudgetRange: e.BudgetRange,
		Timeline:    e.Timeline,
		Description: e.Description,
		RequestedAt: time.Now(),
	}
	if err := s.publisher.Publish(mq.KeyEstimateRequested, payload); err != nil {
		metrics.IncrementEventsPublished(mq.KeyEstimateRequested, "failed")
		s.logger.Error("Failed to publish estimate.requested",
			zap.Int64("estimate_id", e.ID),
			zap.Error(err),
		)
	} else {
		metrics.IncrementEventsPublished(mq.KeyEstimateRequested, "success")
	}
	return nil
}

func (s *EstimateService) List(ctx context.Context) ([]model.Estimate, error) {
	return s.estimates.List(ctx)
}

func (s *EstimateService) UpdateStatus(ctx context.Context, id int64, status string) error {
	return s.estimates.UpdateStatus(ctx, id, status)
}

type MessageService struct {
	messages  repository.MessageRepository
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewMessageService(messages repository.MessageRepository, publisher mq.Publisher, logger *zap.Logger) *MessageService {
	return &MessageService{
		messages:  messages,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *MessageService) Create(ctx context.Context, m *model.Message) error {
	if err := s.messages.Insert(ctx, m); err != nil {
		return err
	}

	payload := mq.MessageReceivedPayload{
		MessageID:  m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Subject:    m.Subject,
		Body:       m.Body,
		ReceivedAt: time.Now(),
	}
	if err := s.publisher.Publish(mq.KeyMessageReceived, payload); err != nil {
		metrics.IncrementEventsPublished(mq.KeyMessageReceived, "failed")
		s.logger.Error("Failed to publish message.received",
			zap.Int64("message_id", m.ID),
			zap.Error(err),
		)
	} else {
		metrics.IncrementEventsPublished(mq.KeyMessageReceived, "success")
	}
	return nil
}

func (s *MessageService) List(ctx context.Context) ([]model.Message, error) {
	return s.messages.List(ctx)
}

func (s *MessageService) MarkRead(ctx context.Context, id int64) error {
	return s.messages.MarkRead(ctx, id)
}
