package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"renovatrack/internal/mailer"
	"renovatrack/internal/model"
	"renovatrack/internal/repository"
	"renovatrack/pkg/metrics"
)

// DedupGuard is the cross-process once-only guard for drip firing. The redis
// deduper implements it; a nil guard means the storage uniqueness constraint
// alone decides.
type DedupGuard interface {
	AcquireOnce(ctx context.Context, scope string, id int64) bool
}

// DripService runs the 3-step drip sequence. Steps are persisted as drip_jobs
// rows with a run-at time, so pending sends survive restarts; the
// (subscriber, step) uniqueness on email_campaign_sends keeps firing
// idempotent no matter how many sweepers race.
type DripService struct {
	subscribers repository.SubscriberRepository
	jobs        repository.DripJobRepository
	sends       repository.CampaignSendRepository
	mail        mailer.Mailer
	guard       DedupGuard
	logger      *zap.Logger

	step2Delay time.Duration
	step3Delay time.Duration

	now func() time.Time
}

func NewDripService(
	subscribers repository.SubscriberRepository,
	jobs repository.DripJobRepository,
	sends repository.CampaignSendRepository,
	mail mailer.Mailer,
	guard DedupGuard,
	logger *zap.Logger,
	step2Delay, step3Delay time.Duration,
) *DripService {
	return &DripService{
		subscribers: subscribers,
		jobs:        jobs,
		sends:       sends,
		mail:        mail,
		guard:       guard,
		logger:      logger,
		step2Delay:  step2Delay,
		step3Delay:  step3Delay,
		now:         time.Now,
	}
}

// SetClock overrides the service's notion of now. Tests use it to advance
// time past the step delays.
func (s *DripService) SetClock(now func() time.Time) {
	s.now = now
}

// Enroll puts an email address into the drip funnel: one subscriber row and
// three jobs, with the welcome step processed synchronously. Enrolling an
// email that is already subscribed is a no-op, which is what makes repeated
// lead captures produce no duplicate sends.
func (s *DripService) Enroll(ctx context.Context, email, firstName, source string) (*model.EmailSubscriber, error) {
	if existing, err := s.subscribers.FindByEmail(ctx, email); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	sub := &model.EmailSubscriber{
		Email:     email,
		FirstName: firstName,
		Source:    source,
		Active:    true,
	}
	if err := s.subscribers.Insert(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.subscribers.FindByEmail(ctx, email)
		}
		return nil, err
	}

	now := s.now()
	steps := []struct {
		step  model.DripStep
		runAt time.Time
	}{
		{model.StepWelcome, now},
		{model.StepDay2Portfolio, now.Add(s.step2Delay)},
		{model.StepDay5Consultation, now.Add(s.step3Delay)},
	}

	var welcome *model.DripJob
	for _, st := range steps {
		job := &model.DripJob{
			SubscriberID: sub.ID,
			Step:         st.step,
			RunAt:        st.runAt,
			Status:       model.DripJobPending,
		}
		if err := s.jobs.Insert(ctx, job); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return nil, err
		}
		if st.step == model.StepWelcome {
			welcome = job
		}
	}

	// Welcome goes out at subscription time, best-effort. Note: no active
	// check here; only the delayed steps re-read the subscriber at fire time.
	if welcome != nil {
		s.processJob(ctx, *welcome)
	}

	s.logger.Info("Subscriber enrolled in drip campaign",
		zap.Int64("subscriber_id", sub.ID),
		zap.String("source", source),
	)
	return sub, nil
}

// ProcessDue fires every pending job whose run time has arrived. Failures
// are isolated per job.
func (s *DripService) ProcessDue(ctx context.Context) error {
	due, err := s.jobs.DueBefore(ctx, s.now())
	if err != nil {
		return err
	}
	for _, job := range due {
		s.processJob(ctx, job)
	}
	return nil
}

func (s *DripService) processJob(ctx context.Context, job model.DripJob) {
	step := string(job.Step)

	if s.guard != nil && !s.guard.AcquireOnce(ctx, "drip:"+step, job.SubscriberID) {
		metrics.IncrementDripJobsProcessed(step, "duplicate")
		return
	}

	sub, err := s.subscribers.FindByID(ctx, job.SubscriberID)
	if err != nil {
		s.logger.Error("Drip job subscriber lookup failed",
			zap.Int64("job_id", job.ID),
			zap.Error(err),
		)
		s.markJob(ctx, job.ID, model.DripJobFailed)
		metrics.IncrementDripJobsProcessed(step, "failed")
		return
	}

	// Delayed steps re-check the subscriber at fire time; an unsubscribe that
	// lands before the step fires wins.
	if job.Step != model.StepWelcome && !sub.Active {
		s.markJob(ctx, job.ID, model.DripJobSkipped)
		metrics.IncrementDripJobsProcessed(step, "skipped")
		return
	}

	subject, html, ok := mailer.DripTemplate(job.Step, sub.FirstName)
	if !ok {
		s.logger.Error("Unknown drip step", zap.String("step", step), zap.Int64("job_id", job.ID))
		s.markJob(ctx, job.ID, model.DripJobFailed)
		metrics.IncrementDripJobsProcessed(step, "failed")
		return
	}

	if err := s.mail.Send(ctx, mailer.Email{To: sub.Email, Subject: subject, HTML: html}); err != nil {
		// No retry; later steps are unaffected.
		s.logger.Error("Drip send failed",
			zap.Int64("subscriber_id", sub.ID),
			zap.String("step", step),
			zap.Error(err),
		)
		s.markJob(ctx, job.ID, model.DripJobFailed)
		metrics.IncrementEmailsSent("drip", "failed")
		metrics.IncrementDripJobsProcessed(step, "failed")
		return
	}
	metrics.IncrementEmailsSent("drip", "success")

	send := &model.EmailCampaignSend{
		SubscriberID: sub.ID,
		Step:         job.Step,
		Subject:      subject,
	}
	if err := s.sends.Insert(ctx, send); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.markJob(ctx, job.ID, model.DripJobDone)
			metrics.IncrementDripJobsProcessed(step, "duplicate")
			return
		}
		s.logger.Error("Failed to record campaign send",
			zap.Int64("subscriber_id", sub.ID),
			zap.String("step", step),
			zap.Error(err),
		)
	}

	s.markJob(ctx, job.ID, model.DripJobDone)
	metrics.IncrementDripJobsProcessed(step, "done")
}

// Cancel deactivates a subscriber and cancels every pending step. This is the
// explicit unsubscribe operation the durable queue makes possible.
func (s *DripService) Cancel(ctx context.Context, email string) error {
	sub, err := s.subscribers.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.subscribers.SetActive(ctx, sub.ID, false); err != nil {
		return err
	}
	if err := s.jobs.CancelPendingBySubscriber(ctx, sub.ID); err != nil {
		return err
	}
	s.logger.Info("Subscriber unsubscribed", zap.Int64("subscriber_id", sub.ID))
	return nil
}

func (s *DripService) ListSubscribers(ctx context.Context) ([]model.EmailSubscriber, error) {
	return s.subscribers.List(ctx)
}

func (s *DripService) ListSends(ctx context.Context) ([]model.EmailCampaignSend, error) {
	return s.sends.List(ctx)
}

func (s *DripService) markJob(ctx context.Context, id int64, status model.DripJobStatus) {
	if err := s.jobs.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error("Failed to update drip job status",
			zap.Int64("job_id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}
