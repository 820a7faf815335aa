package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Reconciler repairs like-count drift against the authoritative like rows.
type Reconciler interface {
	ReconcileLikeCounts(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron  *cron.Cron
	likes Reconciler
	log   zerolog.Logger
}

func NewScheduler(likes Reconciler, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		likes: likes,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.likes == nil {
		return nil
	}

	// Nightly, off-peak.
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.runReconcile); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish, up to a bound.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repaired, err := s.likes.ReconcileLikeCounts(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("like count reconciliation failed")
		return
	}
	if repaired > 0 {
		s.log.Warn().Int64("repaired", repaired).Msg("like count drift repaired")
	}
}
