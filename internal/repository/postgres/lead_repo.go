package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"renovatrack/internal/model"
	"renovatrack/internal/repository"
)

type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Insert(ctx context.Context, l *model.Lead) error {
	query := `
        INSERT INTO leads (name, email, phone, project_type, message, status, source, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id, created_at
    `
	return mapErr(r.db.QueryRow(ctx, query,
		l.Name, l.Email, l.Phone, l.ProjectType, l.Message, l.Status, l.Source,
	).Scan(&l.ID, &l.CreatedAt))
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*model.Lead, error) {
	query := `
        SELECT id, name, email, phone, project_type, message, status, source, created_at
        FROM leads
        WHERE id = $1
    `
	var l model.Lead
	err := r.db.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.ProjectType, &l.Message, &l.Status, &l.Source, &l.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &l, nil
}

func (r *LeadRepository) List(ctx context.Context) ([]model.Lead, error) {
	query := `
        SELECT id, name, email, phone, project_type, message, status, source, created_at
        FROM leads
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	leads := []model.Lead{}
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.ProjectType, &l.Message, &l.Status, &l.Source, &l.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status model.LeadStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE leads SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type EstimateRepository struct {
	db *pgxpool.Pool
}

func NewEstimateRepository(db *pgxpool.Pool) *EstimateRepository {
	return &EstimateRepository{db: db}
}

func (r *EstimateRepository) Insert(ctx context.Context, e *model.Estimate) error {
	query := `
        INSERT INTO estimates (name, email, phone, project_type, budget_range, timeline, description, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING id, created_at
    `
	return mapErr(r.db.QueryRow(ctx, query,
		e.Name, e.Email, e.Phone, e.ProjectType, e.BudgetRange, e.Timeline, e.Description, e.Status,
	).Scan(&e.ID, &e.CreatedAt))
}

func (r *EstimateRepository) List(ctx context.Context) ([]model.Estimate, error) {
	query := `
        SELECT id, name, email, phone, project_type, budget_range, timeline, description, status, created_at
        FROM estimates
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	estimates := []model.Estimate{}
	for rows.Next() {
		var e model.Estimate
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.ProjectType, &e.BudgetRange, &e.Timeline, &e.Description, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		estimates = append(estimates, e)
	}
	return estimates, rows.Err()
}

func (r *EstimateRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE estimates SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Insert(ctx context.Context, m *model.Message) error {
	query := `
        INSERT INTO messages (name, email, phone, subject, body, read, created_at)
        VALUES ($1, $2, $3, $4, $5, false, NOW())
        RETURNING id, created_at
    `
	return mapErr(r.db.QueryRow(ctx, query, m.Name, m.Email, m.Phone, m.Subject, m.Body).Scan(&m.ID, &m.CreatedAt))
}

func (r *MessageRepository) List(ctx context.Context) ([]model.Message, error) {
	query := `
        SELECT id, name, email, phone, subject, body, read, created_at
        FROM messages
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE messages SET read = true WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type TestimonialRepository struct {
	db *pgxpool.Pool
}

func NewTestimonialRepository(db *pgxpool.Pool) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) Insert(ctx context.Context, t *model.Testimonial) error {
	query := `
        INSERT INTO testimonials (client_name, location, rating, text, project_type, published, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, created_at
    `
	return mapErr(r.db.QueryRow(ctx, query,
		t.ClientName, t.Location, t.Rating, t.Text, t.ProjectType, t.Published,
	).Scan(&t.ID, &t.CreatedAt))
}

func (r *TestimonialRepository) List(ctx context.Context, publishedOnly bool) ([]model.Testimonial, error) {
	query := `
        SELECT id, client_name, location, rating, text, project_type, published, created_at
        FROM testimonials
    `
	if publishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	testimonials := []model.Testimonial{}
	for rows.Next() {
		var t model.Testimonial
		if err := rows.Scan(&t.ID, &t.ClientName, &t.Location, &t.Rating, &t.Text, &t.ProjectType, &t.Published, &t.CreatedAt); err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}
