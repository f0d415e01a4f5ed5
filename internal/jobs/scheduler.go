package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const sweepTimeout = time.Minute

// SessionSweeper deletes sessions whose lifetime has passed.
type SessionSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Scheduler runs periodic maintenance. Expired sessions are already rejected
// and removed lazily on lookup; the sweep only reclaims rows nobody revisits.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	sweeper SessionSweeper
	log     zerolog.Logger
}

// NewScheduler accepts five-field cron specs, six-field specs with a leading
// seconds field, and descriptors such as "@hourly". An empty spec disables
// the sweep.
func NewScheduler(spec string, sweeper SessionSweeper, log zerolog.Logger) *Scheduler {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		spec:    spec,
		sweeper: sweeper,
		log:     log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start() error {
	if s.spec == "" || s.sweeper == nil {
		s.log.Debug().Msg("session sweep disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.sweepSessions); err != nil {
		return fmt.Errorf("schedule session sweep %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("session sweep scheduled")
	return nil
}

// Stop waits for a running sweep to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	removed, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	s.log.Info().Int64("removed", removed).Msg("expired sessions swept")
}
