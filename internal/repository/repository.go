package repository

import (
	"context"
	"errors"
	"time"

	"renovatrack/internal/model"
)

// ErrNotFound is returned for lookups of rows that do not exist. Callers map
// it to a 404; an unknown magic-link token is this error, never anything that
// distinguishes "regenerated" from "never existed".
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate is returned on unique-constraint violations, e.g. a second
// campaign send for the same (subscriber, step).
var ErrDuplicate = errors.New("repository: duplicate")

type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	FindByToken(ctx context.Context, token string) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	// UpdateToken atomically replaces the access token; the old link is
	// invalid the instant this returns.
	UpdateToken(ctx context.Context, id int64, token string) error
}

type ProjectLogRepository interface {
	Insert(ctx context.Context, l *model.ProjectLog) error
	ListByProject(ctx context.Context, projectID int64) ([]model.ProjectLog, error)
}

type MilestoneRepository interface {
	Insert(ctx context.Context, m *model.Milestone) error
	FindByID(ctx context.Context, id int64) (*model.Milestone, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Milestone, error)
	Update(ctx context.Context, m *model.Milestone) error
}

type LeadRepository interface {
	Insert(ctx context.Context, l *model.Lead) error
	FindByID(ctx context.Context, id int64) (*model.Lead, error)
	List(ctx context.Context) ([]model.Lead, error)
	UpdateStatus(ctx context.Context, id int64, status model.LeadStatus) error
}

type EstimateRepository interface {
	Insert(ctx context.Context, e *model.Estimate) error
	List(ctx context.Context) ([]model.Estimate, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type MessageRepository interface {
	Insert(ctx context.Context, m *model.Message) error
	List(ctx context.Context) ([]model.Message, error)
	MarkRead(ctx context.Context, id int64) error
}

type TestimonialRepository interface {
	Insert(ctx context.Context, t *model.Testimonial) error
	// List returns all testimonials, or only published ones.
	List(ctx context.Context, publishedOnly bool) ([]model.Testimonial, error)
}

type SubscriberRepository interface {
	Insert(ctx context.Context, s *model.EmailSubscriber) error
	FindByID(ctx context.Context, id int64) (*model.EmailSubscriber, error)
	FindByEmail(ctx context.Context, email string) (*model.EmailSubscriber, error)
	List(ctx context.Context) ([]model.EmailSubscriber, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type DripJobRepository interface {
	Insert(ctx context.Context, j *model.DripJob) error
	// DueBefore returns pending jobs whose run time is at or before t.
	DueBefore(ctx context.Context, t time.Time) ([]model.DripJob, error)
	UpdateStatus(ctx context.Context, id int64, status model.DripJobStatus) error
	CancelPendingBySubscriber(ctx context.Context, subscriberID int64) error
}

type CampaignSendRepository interface {
	// Insert returns ErrDuplicate when a send for the same (subscriber, step)
	// is already recorded.
	Insert(ctx context.Context, s *model.EmailCampaignSend) error
	List(ctx context.Context) ([]model.EmailCampaignSend, error)
	ListBySubscriber(ctx context.Context, subscriberID int64) ([]model.EmailCampaignSend, error)
}

type UserRepository interface {
	Insert(ctx context.Context, u *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type ChatRepository interface {
	CreateSession(ctx context.Context, s *model.ChatSession) error
	FindSession(ctx context.Context, id int64) (*model.ChatSession, error)
	InsertMessage(ctx context.Context, m *model.ChatMessage) error
	ListMessages(ctx context.Context, sessionID int64) ([]model.ChatMessage, error)
}

// Store bundles every repository behind one value so main can pick a backend
// once, from configuration.
type Store struct {
	Projects      ProjectRepository
	ProjectLogs   ProjectLogRepository
	Milestones    MilestoneRepository
	Leads         LeadRepository
	Estimates     EstimateRepository
	Messages      MessageRepository
	Testimonials  TestimonialRepository
	Subscribers   SubscriberRepository
	DripJobs      DripJobRepository
	CampaignSends CampaignSendRepository
	Users         UserRepository
	Chat          ChatRepository
}
