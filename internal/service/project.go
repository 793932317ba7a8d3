package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"renovatrack/internal/model"
	"renovatrack/internal/repository"
)

type ProjectService struct {
	projects   repository.ProjectRepository
	logs       repository.ProjectLogRepository
	milestones repository.MilestoneRepository
	logger     *zap.Logger
}

func NewProjectService(
	projects repository.ProjectRepository,
	logs repository.ProjectLogRepository,
	milestones repository.MilestoneRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		logs:       logs,
		milestones: milestones,
		logger:     logger,
	}
}

// Create mints the magic-link token and writes the project, then appends an
// audit entry. The two writes are independent; a crash in between leaves an
// un-audited project, which this system accepts.
func (s *ProjectService) Create(ctx context.Context, p *model.Project, actor string) error {
	if p.Status == "" {
		p.Status = model.ProjectConsultation
	}
	if !model.ValidProjectStatus(p.Status) {
		return ErrInvalidStatus
	}
	if p.Progress < 0 || p.Progress > 100 {
		return ErrInvalidProgress
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	p.AccessToken = MintToken()
	if err := s.projects.Create(ctx, p); err != nil {
		return err
	}

	s.appendLog(ctx, p.ID, "created", "project created", actor)
	s.logger.Info("Project created",
		zap.Int64("project_id", p.ID),
		zap.String("status", string(p.Status)),
	)
	return nil
}

// ResolveToken looks up the project owning a magic-link token. An unknown or
// stale token is repository.ErrNotFound, indistinguishable from a project
// that never existed.
func (s *ProjectService) ResolveToken(ctx context.Context, token string) (*model.Project, error) {
	return s.projects.FindByToken(ctx, token)
}

// RegenerateToken replaces the access token; the previously distributed link
// is invalid the instant this returns.
func (s *ProjectService) RegenerateToken(ctx context.Context, id int64, actor string) (*model.Project, error) {
	token := MintToken()
	if err := s.projects.UpdateToken(ctx, id, token); err != nil {
		return nil, err
	}

	s.appendLog(ctx, id, "link_regenerated", "magic link regenerated", actor)
	s.logger.Info("Magic link regenerated", zap.Int64("project_id", id))
	return s.projects.FindByID(ctx, id)
}

// UpdateStatus transitions the project. The completion timestamp is set on
// the first transition into completed only; repeating the transition leaves
// it untouched.
func (s *ProjectService) UpdateStatus(ctx context.Context, id int64, status model.ProjectStatus, actor string) (*model.Project, error) {
	if !model.ValidProjectStatus(status) {
		return nil, ErrInvalidStatus
	}

	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Status = status
	if status == model.ProjectCompleted && p.CompletedAt == nil {
		now := time.Now()
		p.CompletedAt = &now
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}

	s.appendLog(ctx, id, "status_changed", "status set to "+string(status), actor)
	return p, nil
}

func (s *ProjectService) UpdateProgress(ctx context.Context, id int64, progress int, actor string) (*model.Project, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidProgress
	}

	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Progress = progress
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}

	s.appendLog(ctx, id, "progress_updated", "progress updated", actor)
	return p, nil
}

// Update applies an admin edit to the mutable fields. Status and progress
// pass through the same invariants as the dedicated endpoints.
func (s *ProjectService) Update(ctx context.Context, p *model.Project, actor string) (*model.Project, error) {
	if !model.ValidProjectStatus(p.Status) {
		return nil, ErrInvalidStatus
	}
	if p.Progress < 0 || p.Progress > 100 {
		return nil, ErrInvalidProgress
	}

	current, err := s.projects.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	p.CompletedAt = current.CompletedAt
	if p.Status == model.ProjectCompleted && p.CompletedAt == nil {
		now := time.Now()
		p.CompletedAt = &now
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}

	s.appendLog(ctx, p.ID, "updated", "project updated", actor)
	return s.projects.FindByID(ctx, p.ID)
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*model.Project, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.projects.List(ctx)
}

func (s *ProjectService) Logs(ctx context.Context, projectID int64) ([]model.ProjectLog, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.logs.ListByProject(ctx, projectID)
}

func (s *ProjectService) CreateMilestone(ctx context.Context, m *model.Milestone) error {
	if _, err := s.projects.FindByID(ctx, m.ProjectID); err != nil {
		return err
	}
	if m.Status == "" {
		m.Status = model.MilestonePending
	}
	return s.milestones.Insert(ctx, m)
}

func (s *ProjectService) ListMilestones(ctx context.Context, projectID int64) ([]model.Milestone, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.milestones.ListByProject(ctx, projectID)
}

// UpdateMilestoneStatus mirrors the project rule: CompletedAt is set on the
// first completion only.
func (s *ProjectService) UpdateMilestoneStatus(ctx context.Context, id int64, status model.MilestoneStatus) (*model.Milestone, error) {
	switch status {
	case model.MilestonePending, model.MilestoneInProgress, model.MilestoneCompleted:
	default:
		return nil, ErrInvalidStatus
	}

	m, err := s.milestones.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.Status = status
	if status == model.MilestoneCompleted && m.CompletedAt == nil {
		now := time.Now()
		m.CompletedAt = &now
	}

	if err := s.milestones.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// appendLog is best-effort; audit failures never fail the mutation that
// triggered them.
func (s *ProjectService) appendLog(ctx context.Context, projectID int64, action, details, actor string) {
	l := &model.ProjectLog{
		ProjectID: projectID,
		Action:    action,
		Details:   details,
		Actor:     actor,
	}
	if err := s.logs.Insert(ctx, l); err != nil {
		s.logger.Error("Failed to write project log",
			zap.Int64("project_id", projectID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
