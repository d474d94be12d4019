// Package sweeper runs the background job that deletes expired sessions from
// stores that do not expire keys on their own.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const defaultInterval = 15 * time.Minute

// Purger is implemented by every session store.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Sweeper periodically calls PurgeExpired on a single goroutine.
type Sweeper struct {
	store    Purger
	interval time.Duration
	purged   prometheus.Counter
	log      zerolog.Logger

	wg sync.WaitGroup
}

// New creates a Sweeper. If interval <= 0, defaultInterval is used. purged
// may be nil.
func New(store Purger, interval time.Duration, purged prometheus.Counter, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		purged:   purged,
		log:      log,
	}
}

// Start launches the sweep loop. It stops when ctx is cancelled; Wait blocks
// until it has.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Wait blocks until the loop started by Start has returned.
func (s *Sweeper) Wait() {
	s.wg.Wait()
}

// Sweep performs one purge pass and returns how many sessions were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.store.PurgeExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return 0, err
	}
	if n > 0 {
		if s.purged != nil {
			s.purged.Add(float64(n))
		}
		s.log.Info().Int64("purged", n).Msg("expired sessions removed")
	}
	return n, nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}
