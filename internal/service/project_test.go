package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"renovatrack/internal/model"
	"renovatrack/internal/repository"
	"renovatrack/internal/repository/memory"
)

func newProjectService(t *testing.T) (*ProjectService, *repository.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewProjectService(store.Projects, store.ProjectLogs, store.Milestones, zap.NewNop())
	return svc, store
}

func createProject(t *testing.T, svc *ProjectService) *model.Project {
	t.Helper()
	p := &model.Project{
		ClientName:  "Dana Whitfield",
		ClientEmail: "dana@example.com",
		ProjectType: "kitchen",
	}
	if err := svc.Create(context.Background(), p, "admin:1"); err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func TestCreateMintsAccessToken(t *testing.T) {
	svc, _ := newProjectService(t)
	ctx := context.Background()

	first := createProject(t, svc)
	second := createProject(t, svc)

	if first.AccessToken == "" {
		t.Fatal("expected non-empty access token")
	}
	if first.AccessToken == second.AccessToken {
		t.Fatal("two projects share an access token")
	}
	if first.Status != model.ProjectConsultation {
		t.Fatalf("default status = %q, want consultation", first.Status)
	}

	got, err := svc.ResolveToken(ctx, first.AccessToken)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("token resolved to project %d, want %d", got.ID, first.ID)
	}
}

func TestRegenerateTokenInvalidatesOld(t *testing.T) {
	svc, _ := newProjectService(t)
	ctx := context.Background()

	p := createProject(t, svc)
	oldToken := p.AccessToken

	updated, err := svc.RegenerateToken(ctx, p.ID, "admin:1")
	if err != nil {
		t.Fatalf("regenerate token: %v", err)
	}
	if updated.AccessToken == oldToken {
		t.Fatal("regenerated token equals the old one")
	}
	if updated.ClientName != p.ClientName || updated.Status != p.Status {
		t.Fatal("regeneration changed unrelated fields")
	}

	if _, err := svc.ResolveToken(ctx, oldToken); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("old token resolve err = %v, want ErrNotFound", err)
	}
	if _, err := svc.ResolveToken(ctx, updated.AccessToken); err != nil {
		t.Fatalf("new token resolve err = %v", err)
	}
}

func TestRegenerateTokenUnknownProject(t *testing.T) {
	svc, _ := newProjectService(t)
	if _, err := svc.RegenerateToken(context.Background(), 999, "admin:1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCompletedAtSetExactlyOnce(t *testing.T) {
	svc, _ := newProjectService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	done, err := svc.UpdateStatus(ctx, p.ID, model.ProjectCompleted, "admin:1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.CompletedAt == nil {
		t.Fatal("CompletedAt not set on completion")
	}
	stamp := *done.CompletedAt

	// Away and back: the original completion time survives.
	if _, err := svc.UpdateStatus(ctx, p.ID, model.ProjectOnHold, "admin:1"); err != nil {
		t.Fatalf("on-hold: %v", err)
	}
	again, err := svc.UpdateStatus(ctx, p.ID, model.ProjectCompleted, "admin:1")
	if err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	if again.CompletedAt == nil || !again.CompletedAt.Equal(stamp) {
		t.Fatalf("CompletedAt changed on repeat completion: %v -> %v", stamp, again.CompletedAt)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	svc, _ := newProjectService(t)
	p := createProject(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), p.ID, "demolished", "admin:1"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateProgressBounds(t *testing.T) {
	svc, _ := newProjectService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	for _, bad := range []int{-1, 101} {
		if _, err := svc.UpdateProgress(ctx, p.ID, bad, "admin:1"); !errors.Is(err, ErrInvalidProgress) {
			t.Fatalf("progress %d: err = %v, want ErrInvalidProgress", bad, err)
		}
	}

	got, err := svc.UpdateProgress(ctx, p.ID, 100, "admin:1")
	if err != nil {
		t.Fatalf("progress 100: %v", err)
	}
	if got.Progress != 100 {
		t.Fatalf("progress = %d, want 100", got.Progress)
	}
}

func TestUpdatePreservesTokenAndCompletedAt(t *testing.T) {
	svc, _ := newProjectService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	if _, err := svc.UpdateStatus(ctx, p.ID, model.ProjectCompleted, "admin:1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	before, _ := svc.Get(ctx, p.ID)

	edit := *before
	edit.Notes = "final walkthrough done"
	updated, err := svc.Update(ctx, &edit, "admin:1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.AccessToken != before.AccessToken {
		t.Fatal("edit changed the access token")
	}
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(*before.CompletedAt) {
		t.Fatal("edit changed CompletedAt")
	}
	if updated.Notes != "final walkthrough done" {
		t.Fatalf("notes = %q", updated.Notes)
	}
}

func TestMutationsAppendLogs(t *testing.T) {
	svc, _ := newProjectService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	if _, err := svc.UpdateStatus(ctx, p.ID, model.ProjectInProgress, "admin:1"); err != nil {
		t.Fatalf("status: %v", err)
	}
	if _, err := svc.RegenerateToken(ctx, p.ID, "admin:1"); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	logs, err := svc.Logs(ctx, p.ID)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	actions := map[string]bool{}
	for _, l := range logs {
		actions[l.Action] = true
	}
	for _, want := range []string{"created", "status_changed", "link_regenerated"} {
		if !actions[want] {
			t.Fatalf("missing log action %q, got %v", want, actions)
		}
	}
}

func TestMilestoneCompletedAtOnce(t *testing.T) {
	svc, _ := newProjectService(t)
	ctx := context.Background()
	p := createProject(t, svc)

	m := &model.Milestone{ProjectID: p.ID, Title: "Demolition"}
	if err := svc.CreateMilestone(ctx, m); err != nil {
		t.Fatalf("create milestone: %v", err)
	}
	if m.Status != model.MilestonePending {
		t.Fatalf("default milestone status = %q", m.Status)
	}

	done, err := svc.UpdateMilestoneStatus(ctx, m.ID, model.MilestoneCompleted)
	if err != nil {
		t.Fatalf("complete milestone: %v", err)
	}
	if done.CompletedAt == nil {
		t.Fatal("milestone CompletedAt not set")
	}
	stamp := *done.CompletedAt

	again, err := svc.UpdateMilestoneStatus(ctx, m.ID, model.MilestoneCompleted)
	if err != nil {
		t.Fatalf("re-complete milestone: %v", err)
	}
	if !again.CompletedAt.Equal(stamp) {
		t.Fatal("milestone CompletedAt changed on repeat completion")
	}
}
