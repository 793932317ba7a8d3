package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"renovatrack/internal/mailer"
	"renovatrack/internal/model"
	"renovatrack/internal/repository"
	"renovatrack/internal/repository/memory"
)

// captureMailer records every send; fail makes Send error until cleared.
type captureMailer struct {
	mu   sync.Mutex
	sent []mailer.Email
	fail bool
}

func (m *captureMailer) Send(_ context.Context, e mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("provider unavailable")
	}
	m.sent = append(m.sent, e)
	return nil
}

func (m *captureMailer) sentTo(email string) []mailer.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []mailer.Email{}
	for _, e := range m.sent {
		if e.To == email {
			out = append(out, e)
		}
	}
	return out
}

func (m *captureMailer) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

type dripFixture struct {
	svc   *DripService
	store *repository.Store
	mail  *captureMailer
	now   time.Time
	mu    sync.Mutex
}

func newDripFixture(t *testing.T) *dripFixture {
	t.Helper()
	f := &dripFixture{
		store: memory.NewStore(),
		mail:  &captureMailer{},
		now:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewDripService(
		f.store.Subscribers, f.store.DripJobs, f.store.CampaignSends,
		f.mail, nil, zap.NewNop(),
		48*time.Hour, 120*time.Hour,
	)
	f.svc.SetClock(func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.now
	})
	return f
}

func (f *dripFixture) advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestEnrollSendsWelcomeImmediately(t *testing.T) {
	f := newDripFixture(t)
	ctx := context.Background()

	sub, err := f.svc.Enroll(ctx, "lee@example.com", "Lee", "contact_form")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if !sub.Active {
		t.Fatal("new subscriber not active")
	}

	got := f.mail.sentTo("lee@example.com")
	if len(got) != 1 {
		t.Fatalf("sends after enroll = %d, want 1 (welcome)", len(got))
	}

	sends, _ := f.store.CampaignSends.ListBySubscriber(ctx, sub.ID)
	if len(sends) != 1 || sends[0].Step != model.StepWelcome {
		t.Fatalf("recorded sends = %+v, want one welcome", sends)
	}
}

func TestEnrollTwiceIsIdempotent(t *testing.T) {
	f := newDripFixture(t)
	ctx := context.Background()

	first, err := f.svc.Enroll(ctx, "lee@example.com", "Lee", "contact_form")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	second, err := f.svc.Enroll(ctx, "lee@example.com", "Lee", "estimate_form")
	if err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("re-enroll created subscriber %d, want existing %d", second.ID, first.ID)
	}
	if got := f.mail.sentTo("lee@example.com"); len(got) != 1 {
		t.Fatalf("sends after re-enroll = %d, want 1", len(got))
	}

	subs, _ := f.store.Subscribers.List(ctx)
	if len(subs) != 1 {
		t.Fatalf("subscribers = %d, want 1", len(subs))
	}
}

func TestSweepFiresStepsOnSchedule(t *testing.T) {
	f := newDripFixture(t)
	ctx := context.Background()

	sub, err := f.svc.Enroll(ctx, "lee@example.com", "Lee", "contact_form")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	// Nothing else is due before the 48h mark.
	f.advance(47 * time.Hour)
	if err := f.svc.ProcessDue(ctx); err != nil {
		t.Fatalf("process due: %v", err)
	}
	if got := f.mail.sentTo("lee@example.com"); len(got) != 1 {
		t.Fatalf("sends before 48h = %d, want 1", len(got))
	}

	f.advance(2 * time.Hour) // t+49h
	if err := f.svc.ProcessDue(ctx); err != nil {
		t.Fatalf("process due: %v", err)
	}
	got := f.mail.sentTo("lee@example.com")
	if len(got) != 2 {
		t.Fatalf("sends after 49h = %d, want 2", len(got))
	}

	// A second sweep of the same window fires nothing.
	if err := f.svc.ProcessDue(ctx); err != nil {
		t.Fatalf("process due: %v", err)
	}
	if got := f.mail.sentTo("lee@example.com"); len(got) != 2 {
		t.Fatalf("repeat sweep produced duplicate send, total = %d", len(got))
	}

	f.advance(72 * time.Hour) // t+121h
	if err := f.svc.ProcessDue(ctx); err != nil {
		t.Fatalf("process due: %v", err)
	}
	sends, _ := f.store.CampaignSends.ListBySubscriber(ctx, sub.ID)
	if len(sends) != 3 {
		t.Fatalf("recorded sends = %d, want full 3-step sequence", len(sends))
	}
	steps := []model.DripStep{sends[0].Step, sends[1].Step, sends[2].Step}
	want := []model.DripStep{model.StepWelcome, model.StepDay2Portfolio, model.StepDay5Consultation}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("send order = %v, want %v", steps, want)
		}
	}
}

func TestCancelSkipsRemainingSteps(t *testing.T) {
	f := newDripFixture(t)
	ctx := context.Background()

	sub, err := f.svc.Enroll(ctx, "lee@example.com", "Lee", "contact_form")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := f.svc.Cancel(ctx, "lee@example.com"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	f.advance(200 * time.Hour)
	if err := f.svc.ProcessDue(ctx); err != nil {
		t.Fatalf("process due: %v", err)
	}

	sends, _ := f.store.CampaignSends.ListBySubscriber(ctx, sub.ID)
	if len(sends) != 1 || sends[0].Step != model.StepWelcome {
		t.Fatalf("sends after cancel = %+v, want welcome only", sends)
	}

	got, err := f.store.Subscribers.FindByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("find subscriber: %v", err)
	}
	if got.Active {
		t.Fatal("subscriber still active after cancel")
	}
}

func TestCancelUnknownEmail(t *testing.T) {
	f := newDripFixture(t)
	if err := f.svc.Cancel(context.Background(), "nobody@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFailedSendIsNotRetried(t *testing.T) {
	f := newDripFixture(t)
	ctx := context.Background()

	sub, err := f.svc.Enroll(ctx, "lee@example.com", "Lee", "contact_form")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	f.mail.setFail(true)
	f.advance(49 * time.Hour)
	if err := f.svc.ProcessDue(ctx); err != nil {
		t.Fatalf("process due: %v", err)
	}
	if sends, _ := f.store.CampaignSends.ListBySubscriber(ctx, sub.ID); len(sends) != 1 {
		t.Fatalf("failed send was recorded, sends = %d", len(sends))
	}

	// Provider recovers; the failed step stays failed, the later step fires.
	f.mail.setFail(false)
	if err := f.svc.ProcessDue(ctx); err != nil {
		t.Fatalf("process due: %v", err)
	}
	if got := f.mail.sentTo("lee@example.com"); len(got) != 1 {
		t.Fatalf("failed step was retried, sends = %d", len(got))
	}

	f.advance(72 * time.Hour)
	if err := f.svc.ProcessDue(ctx); err != nil {
		t.Fatalf("process due: %v", err)
	}
	sends, _ := f.store.CampaignSends.ListBySubscriber(ctx, sub.ID)
	var steps []model.DripStep
	for _, s := range sends {
		steps = append(steps, s.Step)
	}
	if len(sends) != 2 || steps[1] != model.StepDay5Consultation {
		t.Fatalf("sends = %v, want welcome then day5_consultation", steps)
	}
}
