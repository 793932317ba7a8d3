package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"renovatrack/internal/model"
	"renovatrack/internal/repository"
)

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
        id, client_name, client_email, client_phone, project_type, status,
        budget, progress, manager, estimated_completion, tags, overdue,
        address, notes, access_token, created_at, completed_at
`

func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	query := `
        INSERT INTO projects (
            client_name, client_email, client_phone, project_type, status,
            budget, progress, manager, estimated_completion, tags, overdue,
            address, notes, access_token, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		p.ClientName, p.ClientEmail, p.ClientPhone, p.ProjectType, p.Status,
		p.Budget, p.Progress, p.Manager, p.EstimatedCompletion, p.Tags,
		p.Overdue, p.Address, p.Notes, p.AccessToken,
	).Scan(&p.ID, &p.CreatedAt)
	return mapErr(err)
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	query := `SELECT` + projectColumns + `FROM projects WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *ProjectRepository) FindByToken(ctx context.Context, token string) (*model.Project, error) {
	query := `SELECT` + projectColumns + `FROM projects WHERE access_token = $1`
	return r.scanOne(ctx, query, token)
}

func (r *ProjectRepository) scanOne(ctx context.Context, query string, arg any) (*model.Project, error) {
	var p model.Project
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.ClientName, &p.ClientEmail, &p.ClientPhone, &p.ProjectType,
		&p.Status, &p.Budget, &p.Progress, &p.Manager, &p.EstimatedCompletion,
		&p.Tags, &p.Overdue, &p.Address, &p.Notes, &p.AccessToken,
		&p.CreatedAt, &p.CompletedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	query := `SELECT` + projectColumns + `FROM projects ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		err := rows.Scan(
			&p.ID, &p.ClientName, &p.ClientEmail, &p.ClientPhone, &p.ProjectType,
			&p.Status, &p.Budget, &p.Progress, &p.Manager, &p.EstimatedCompletion,
			&p.Tags, &p.Overdue, &p.Address, &p.Notes, &p.AccessToken,
			&p.CreatedAt, &p.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `
        UPDATE projects
        SET client_name = $1, client_email = $2, client_phone = $3,
            project_type = $4, status = $5, budget = $6, progress = $7,
            manager = $8, estimated_completion = $9, tags = $10,
            overdue = $11, address = $12, notes = $13, completed_at = $14
        WHERE id = $15
    `
	tag, err := r.db.Exec(ctx, query,
		p.ClientName, p.ClientEmail, p.ClientPhone, p.ProjectType, p.Status,
		p.Budget, p.Progress, p.Manager, p.EstimatedCompletion, p.Tags,
		p.Overdue, p.Address, p.Notes, p.CompletedAt, p.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) UpdateToken(ctx context.Context, id int64, token string) error {
	tag, err := r.db.Exec(ctx, `UPDATE projects SET access_token = $1 WHERE id = $2`, token, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type ProjectLogRepository struct {
	db *pgxpool.Pool
}

func NewProjectLogRepository(db *pgxpool.Pool) *ProjectLogRepository {
	return &ProjectLogRepository{db: db}
}

func (r *ProjectLogRepository) Insert(ctx context.Context, l *model.ProjectLog) error {
	query := `
        INSERT INTO project_logs (project_id, action, details, actor, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING id, created_at
    `
	return mapErr(r.db.QueryRow(ctx, query, l.ProjectID, l.Action, l.Details, l.Actor).Scan(&l.ID, &l.CreatedAt))
}

func (r *ProjectLogRepository) ListByProject(ctx context.Context, projectID int64) ([]model.ProjectLog, error) {
	query := `
        SELECT id, project_id, action, details, actor, created_at
        FROM project_logs
        WHERE project_id = $1
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	logs := []model.ProjectLog{}
	for rows.Next() {
		var l model.ProjectLog
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Action, &l.Details, &l.Actor, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

type MilestoneRepository struct {
	db *pgxpool.Pool
}

func NewMilestoneRepository(db *pgxpool.Pool) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

func (r *MilestoneRepository) Insert(ctx context.Context, m *model.Milestone) error {
	query := `
        INSERT INTO milestones (project_id, title, description, status, sort_order, completed_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, created_at
    `
	return mapErr(r.db.QueryRow(ctx, query,
		m.ProjectID, m.Title, m.Description, m.Status, m.SortOrder, m.CompletedAt,
	).Scan(&m.ID, &m.CreatedAt))
}

func (r *MilestoneRepository) FindByID(ctx context.Context, id int64) (*model.Milestone, error) {
	query := `
        SELECT id, project_id, title, description, status, sort_order, completed_at, created_at
        FROM milestones
        WHERE id = $1
    `
	var m model.Milestone
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.Status, &m.SortOrder, &m.CompletedAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *MilestoneRepository) ListByProject(ctx context.Context, projectID int64) ([]model.Milestone, error) {
	query := `
        SELECT id, project_id, title, description, status, sort_order, completed_at, created_at
        FROM milestones
        WHERE project_id = $1
        ORDER BY sort_order ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	milestones := []model.Milestone{}
	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.Status, &m.SortOrder, &m.CompletedAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (r *MilestoneRepository) Update(ctx context.Context, m *model.Milestone) error {
	query := `
        UPDATE milestones
        SET title = $1, description = $2, status = $3, sort_order = $4, completed_at = $5
        WHERE id = $6
    `
	tag, err := r.db.Exec(ctx, query, m.Title, m.Description, m.Status, m.SortOrder, m.CompletedAt, m.ID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
