package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"renovatrack/internal/repository"
)

// NewStore wires every repository to the same pool.
func NewStore(db *pgxpool.Pool) *repository.Store {
	return &repository.Store{
		Projects:      NewProjectRepository(db),
		ProjectLogs:   NewProjectLogRepository(db),
		Milestones:    NewMilestoneRepository(db),
		Leads:         NewLeadRepository(db),
		Estimates:     NewEstimateRepository(db),
		Messages:      NewMessageRepository(db),
		Testimonials:  NewTestimonialRepository(db),
		Subscribers:   NewSubscriberRepository(db),
		DripJobs:      NewDripJobRepository(db),
		CampaignSends: NewCampaignSendRepository(db),
		Users:         NewUserRepository(db),
		Chat:          NewChatRepository(db),
	}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	return err
}
