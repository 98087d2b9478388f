// Package sweeper reclaims inventory from temporary holds nobody confirmed.
// It complements the lazy expiry the service applies whenever a booking is
// touched, so abandoned holds come back even if nobody looks at them.
package sweeper

import (
	"context"
	"sync"
	"time"

	"eventstay/pkg/logger"
)

// Expirer is the part of the reservation service the sweeper drives.
type Expirer interface {
	SweepExpired(ctx context.Context, limit int) (int, error)
}

type Sweeper struct {
	expirer  Expirer
	interval time.Duration
	batch    int
	log      *logger.Logger

	stopCh   chan struct{}
	done     chan struct{}
	startOne sync.Once
	stopOne  sync.Once
}

func New(expirer Expirer, interval time.Duration, batch int, log *logger.Logger) *Sweeper {
	if batch <= 0 {
		batch = 100
	}
	return &Sweeper{
		expirer:  expirer,
		interval: interval,
		batch:    batch,
		log:      log,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop in the background until ctx is cancelled or
// Stop is called. Calling Start more than once has no effect.
func (s *Sweeper) Start(ctx context.Context) {
	s.startOne.Do(func() {
		go func() {
			defer close(s.done)
			s.run(ctx)
		}()
		s.log.Info("Expiry sweeper started", "interval", s.interval, "batch_size", s.batch)
	})
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		}
	}
}

// Stop ends the loop and waits for a pass in progress to finish.
func (s *Sweeper) Stop() {
	s.stopOne.Do(func() {
		close(s.stopCh)
	})
	s.startOne.Do(func() { close(s.done) })
	<-s.done
	s.log.Info("Expiry sweeper stopped")
}

// SweepOnce drains lapsed holds batch by batch and returns how many it
// expired. A pass never runs longer than one interval.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	total := 0
	for {
		n, err := s.expirer.SweepExpired(ctx, s.batch)
		total += n
		if err != nil {
			s.log.Error("Expiry sweep failed", "expired", total, "error", err)
			break
		}
		if n < s.batch || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		s.log.Info("Expired temporary holds released", "count", total)
	}
	return total
}
