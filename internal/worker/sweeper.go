package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"renovatrack/internal/service"
)

// Sweeper periodically fires due drip jobs. Because jobs are rows, a process
// restart resumes exactly where the previous run left off.
type Sweeper struct {
	drip     *service.DripService
	interval time.Duration
	logger   *zap.Logger
}

func NewSweeper(drip *service.DripService, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		drip:     drip,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is canceled. It sweeps once immediately so jobs that
// came due while the process was down go out right away.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Drip sweeper started", zap.Duration("interval", s.interval))

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Drip sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if err := s.drip.ProcessDue(ctx); err != nil {
		s.logger.Error("Drip sweep failed", zap.Error(err))
	}
}
