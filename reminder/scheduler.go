package reminder

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/eduagenda/eduagenda/models"
	"github.com/eduagenda/eduagenda/utils"
)

// Store is the read-only slice of persistence the reminder engine depends on.
// Results are treated as eventually-consistent snapshots; no transactional
// guarantee is assumed across calls for one user.
type Store interface {
	FindUsers(ctx context.Context) ([]models.User, error)
	// FindPendingTodos returns not-done todos due before until (both windows in one query).
	FindPendingTodos(ctx context.Context, userID uint, until time.Time) ([]models.Todo, error)
	// FindPendingEvents returns not-completed events occurring before until.
	FindPendingEvents(ctx context.Context, userID uint, until time.Time) ([]models.Event, error)
}

// Sink delivers one rendered digest. Implementations perform at most their own
// retries; the scheduler never retries within a tick.
type Sink interface {
	Send(to, subject, text, html string) error
}

// Options tune the scheduler. Zero values fall back to the defaults below.
type Options struct {
	Interval     time.Duration // tick cadence, default time.Hour
	Workers      int           // bounded per-tick concurrency, default 8
	StoreTimeout time.Duration // per store call, default 10s
	SendTimeout  time.Duration // per sink call, default 20s
}

// Scheduler drives the periodic reminder batch. It has exactly two states,
// idle and running, guarded by an atomic flag: a tick that fires while the
// previous batch is still in flight is skipped and counted, never queued.
type Scheduler struct {
	store Store
	sink  Sink
	opts  Options

	running atomic.Bool
	skipped atomic.Int64

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New builds a stopped scheduler. Call Start to begin ticking.
func New(store Store, sink Sink, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 10 * time.Second
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 20 * time.Second
	}
	return &Scheduler{
		store: store,
		sink:  sink,
		opts:  opts,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start launches the ticking goroutine.
func (s *Scheduler) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case now := <-ticker.C:
				s.RunOnce(now)
			}
		}
	}()
}

// Stop signals shutdown and waits for any in-flight batch to finish its
// current work. Batches are never interrupted mid-send to avoid partial or
// duplicate deliveries.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// Running reports whether a batch is currently in flight.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// SkippedTicks returns how many triggers were dropped because a previous
// batch was still running.
func (s *Scheduler) SkippedTicks() int64 {
	return s.skipped.Load()
}

// RunOnce executes one tick against the supplied snapshot time. It is the
// ticker callback but is exported so boot code and tests can force a batch.
func (s *Scheduler) RunOnce(now time.Time) {
	if !s.running.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		if utils.Sugar != nil {
			utils.Sugar.Warnf("reminder: tick skipped, previous batch still running (skipped=%d)", s.skipped.Load())
		}
		return
	}
	defer s.running.Store(false)

	batch := uuid.NewString()
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.StoreTimeout)
	users, err := s.store.FindUsers(ctx)
	cancel()
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("reminder: batch %s aborted, user enumeration failed: %v", batch, err)
		}
		return
	}

	sem := make(chan struct{}, s.opts.Workers)
	var wg sync.WaitGroup
	var sent atomic.Int64
	for _, user := range users {
		user := user
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if s.processUser(user, now, batch) {
				sent.Add(1)
			}
		}()
	}
	wg.Wait()

	if utils.Sugar != nil {
		utils.Sugar.Infof("reminder: batch %s done users=%d sent=%d elapsed=%s",
			batch, len(users), sent.Load(), time.Since(start).Round(time.Millisecond))
	}
}

// processUser runs the classifier and formatter for one user and dispatches at
// most one mail. Failures are logged and isolated; they never abort the batch.
func (s *Scheduler) processUser(user models.User, now time.Time, batch string) bool {
	until := now.Add(DueSoonWindow)

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.StoreTimeout)
	defer cancel()

	todos, err := s.store.FindPendingTodos(ctx, user.ID, until)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("reminder: batch %s user %d todo query failed: %v", batch, user.ID, err)
		}
		return false
	}
	events, err := s.store.FindPendingEvents(ctx, user.ID, until)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("reminder: batch %s user %d event query failed: %v", batch, user.ID, err)
		}
		return false
	}

	digest := BuildDigest(todos, events, now)
	if digest.Empty() || user.Email == "" {
		return false
	}

	text, htmlBody := digest.Render()
	if text == "" {
		return false
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.sink.Send(user.Email, Subject, text, htmlBody) }()
	select {
	case err := <-errCh:
		if err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("reminder: batch %s delivery to user %d failed: %v", batch, user.ID, err)
			}
			return false
		}
	case <-time.After(s.opts.SendTimeout):
		if utils.Sugar != nil {
			utils.Sugar.Warnf("reminder: batch %s delivery to user %d timed out", batch, user.ID)
		}
		return false
	}
	return true
}
