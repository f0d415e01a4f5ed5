package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) SweepExpired(context.Context) (int64, error) {
	s.calls.Add(1)
	return 3, s.err
}

func TestStartWithoutSpecIsNoop(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler("", sweeper, zerolog.Nop())

	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
	require.NoError(t, s.Stop(context.Background()))
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler("every tuesday", &countingSweeper{}, zerolog.Nop())
	assert.ErrorContains(t, s.Start(), "schedule session sweep")
}

func TestStartAcceptsFiveAndSixFieldSpecs(t *testing.T) {
	for _, spec := range []string{"*/5 * * * *", "0 */5 * * * *", "@hourly"} {
		s := NewScheduler(spec, &countingSweeper{}, zerolog.Nop())
		require.NoError(t, s.Start(), spec)
		assert.Len(t, s.cron.Entries(), 1)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		require.NoError(t, s.Stop(ctx))
		cancel()
	}
}

func TestSweepSessions(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler("@every 1h", sweeper, zerolog.Nop())

	s.sweepSessions()
	sweeper.err = errors.New("db down")
	s.sweepSessions()

	assert.Equal(t, int32(2), sweeper.calls.Load())
}
