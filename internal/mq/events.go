package mq

import "time"

// Routing keys for domain events.
const (
	KeyLeadCaptured      = "lead.captured"
	KeyEstimateRequested = "estimate.requested"
	KeyMessageReceived   = "message.received"
)

type LeadCapturedPayload struct {
	LeadID      int64     `json:"lead_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ProjectType string    `json:"project_type"`
	Message     string    `json:"message"`
	Source      string    `json:"source"`
	CapturedAt  time.Time `json:"captured_at"`
}

type EstimateRequestedPayload struct {
	EstimateID  int64     `json:"estimate_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ProjectType string    `json:"project_type"`
	BudgetRange string    `json:"budget_range"`
	Timeline    string    `json:"timeline"`
	Description string    `json:"description"`
	RequestedAt time.Time `json:"requested_at"`
}

type MessageReceivedPayload struct {
	MessageID  int64     `json:"message_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}
