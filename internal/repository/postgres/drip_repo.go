package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"renovatrack/internal/model"
	"renovatrack/internal/repository"
)

type SubscriberRepository struct {
	db *pgxpool.Pool
}

func NewSubscriberRepository(db *pgxpool.Pool) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

func (r *SubscriberRepository) Insert(ctx context.Context, s *model.EmailSubscriber) error {
	query := `
        INSERT INTO email_subscribers (email, first_name, source, active, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING id, created_at
    `
	return mapErr(r.db.QueryRow(ctx, query, s.Email, s.FirstName, s.Source, s.Active).Scan(&s.ID, &s.CreatedAt))
}

func (r *SubscriberRepository) FindByID(ctx context.Context, id int64) (*model.EmailSubscriber, error) {
	query := `
        SELECT id, email, first_name, source, active, created_at
        FROM email_subscribers
        WHERE id = $1
    `
	var s model.EmailSubscriber
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Email, &s.FirstName, &s.Source, &s.Active, &s.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (r *SubscriberRepository) FindByEmail(ctx context.Context, email string) (*model.EmailSubscriber, error) {
	query := `
        SELECT id, email, first_name, source, active, created_at
        FROM email_subscribers
        WHERE email = $1
    `
	var s model.EmailSubscriber
	err := r.db.QueryRow(ctx, query, email).Scan(&s.ID, &s.Email, &s.FirstName, &s.Source, &s.Active, &s.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (r *SubscriberRepository) List(ctx context.Context) ([]model.EmailSubscriber, error) {
	query := `
        SELECT id, email, first_name, source, active, created_at
        FROM email_subscribers
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	subscribers := []model.EmailSubscriber{}
	for rows.Next() {
		var s model.EmailSubscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.FirstName, &s.Source, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, rows.Err()
}

func (r *SubscriberRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE email_subscribers SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type DripJobRepository struct {
	db *pgxpool.Pool
}

func NewDripJobRepository(db *pgxpool.Pool) *DripJobRepository {
	return &DripJobRepository{db: db}
}

func (r *DripJobRepository) Insert(ctx context.Context, j *model.DripJob) error {
	query := `
        INSERT INTO drip_jobs (subscriber_id, step, run_at, status, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING id, created_at
    `
	return mapErr(r.db.QueryRow(ctx, query, j.SubscriberID, j.Step, j.RunAt, j.Status).Scan(&j.ID, &j.CreatedAt))
}

func (r *DripJobRepository) DueBefore(ctx context.Context, t time.Time) ([]model.DripJob, error) {
	query := `
        SELECT id, subscriber_id, step, run_at, status, created_at
        FROM drip_jobs
        WHERE status = 'pending' AND run_at <= $1
        ORDER BY run_at ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, t)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	jobs := []model.DripJob{}
	for rows.Next() {
		var j model.DripJob
		if err := rows.Scan(&j.ID, &j.SubscriberID, &j.Step, &j.RunAt, &j.Status, &j.CreatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *DripJobRepository) UpdateStatus(ctx context.Context, id int64, status model.DripJobStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE drip_jobs SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DripJobRepository) CancelPendingBySubscriber(ctx context.Context, subscriberID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE drip_jobs SET status = 'canceled' WHERE subscriber_id = $1 AND status = 'pending'`,
		subscriberID,
	)
	return mapErr(err)
}

type CampaignSendRepository struct {
	db *pgxpool.Pool
}

func NewCampaignSendRepository(db *pgxpool.Pool) *CampaignSendRepository {
	return &CampaignSendRepository{db: db}
}

func (r *CampaignSendRepository) Insert(ctx context.Context, s *model.EmailCampaignSend) error {
	query := `
        INSERT INTO email_campaign_sends (subscriber_id, step, subject, sent_at, opened, clicked)
        VALUES ($1, $2, $3, NOW(), false, false)
        RETURNING id, sent_at
    `
	return mapErr(r.db.QueryRow(ctx, query, s.SubscriberID, s.Step, s.Subject).Scan(&s.ID, &s.SentAt))
}

func (r *CampaignSendRepository) List(ctx context.Context) ([]model.EmailCampaignSend, error) {
	return r.list(ctx, `
        SELECT id, subscriber_id, step, subject, sent_at, opened, clicked
        FROM email_campaign_sends
        ORDER BY sent_at DESC, id DESC
    `)
}

func (r *CampaignSendRepository) ListBySubscriber(ctx context.Context, subscriberID int64) ([]model.EmailCampaignSend, error) {
	return r.list(ctx, `
        SELECT id, subscriber_id, step, subject, sent_at, opened, clicked
        FROM email_campaign_sends
        WHERE subscriber_id = $1
        ORDER BY sent_at ASC, id ASC
    `, subscriberID)
}

func (r *CampaignSendRepository) list(ctx context.Context, query string, args ...any) ([]model.EmailCampaignSend, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	sends := []model.EmailCampaignSend{}
	for rows.Next() {
		var s model.EmailCampaignSend
		if err := rows.Scan(&s.ID, &s.SubscriberID, &s.Step, &s.Subject, &s.SentAt, &s.Opened, &s.Clicked); err != nil {
			return nil, err
		}
		sends = append(sends, s)
	}
	return sends, rows.Err()
}
