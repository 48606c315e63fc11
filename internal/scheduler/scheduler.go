package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
	"github.com/NataKl/weather-API/internal/format"
)

// Sender is a minimal interface the scheduler needs to push an HTML message.
// telegram.Router implements it (method: SendMessage).
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// ConditionsSource fetches current conditions for a coordinate pair.
type ConditionsSource interface {
	CurrentByCoordinates(ctx context.Context, lat, lon float64) (domain.Conditions, error)
}

// Store is the subset of the user store the scheduler needs.
type Store interface {
	Snapshot() []domain.User
	Get(id int64) (domain.User, bool)
	Update(id int64, fn func(u *domain.User)) domain.User
	Persist(ctx context.Context) error
}

// RunStats summarizes one iteration.
type RunStats struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Checked    int       `json:"checked"`
	Alerted    int       `json:"alerted"`
	Failed     int       `json:"failed"`
	Throttled  int       `json:"throttled"`
}

// Scheduler evaluates subscribed users once per interval and pushes
// severe-weather alerts.
type Scheduler struct {
	store    Store
	source   ConditionsSource
	sender   Sender
	log      *zap.Logger
	interval time.Duration
	backoff  time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	lastRun *RunStats
}

// New creates a Scheduler. interval is both the loop cadence and the
// per-user throttle; backoff is the pause after a failed iteration.
func New(st Store, src ConditionsSource, sender Sender, log *zap.Logger, interval, backoff time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 2 * time.Hour
	}
	if backoff <= 0 {
		backoff = time.Minute
	}
	return &Scheduler{
		store:    st,
		source:   src,
		sender:   sender,
		log:      log,
		interval: interval,
		backoff:  backoff,
		now:      time.Now,
	}
}

// Run loops until ctx is canceled, then persists the store one last time.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
	defer s.finalPersist()

	wait := s.interval
	for {
		if !sleep(ctx, wait) {
			s.log.Info("scheduler stopping")
			return
		}
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("scheduler iteration failed", zap.Error(err), zap.Duration("backoff", s.backoff))
			wait = s.backoff
			continue
		}
		wait = s.interval
	}
}

// RunOnce performs one pass over all users. A panic inside the pass is
// returned as an error.
func (s *Scheduler) RunOnce(ctx context.Context) (stats RunStats, err error) {
	stats = RunStats{RunID: uuid.NewString(), StartedAt: s.now()}
	log := s.log.With(zap.String("run_id", stats.RunID))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in scheduler iteration: %v", r)
		}
		stats.FinishedAt = s.now()
		s.mu.Lock()
		st := stats
		s.lastRun = &st
		s.mu.Unlock()
	}()

	for _, snap := range s.store.Snapshot() {
		if ctx.Err() != nil {
			break
		}
		s.evaluate(ctx, log, snap.ID, &stats)
	}

	if perr := s.store.Persist(ctx); perr != nil {
		log.Error("persist after iteration", zap.Error(perr))
	}
	log.Info("scheduler iteration done",
		zap.Int("checked", stats.Checked),
		zap.Int("alerted", stats.Alerted),
		zap.Int("failed", stats.Failed),
		zap.Int("throttled", stats.Throttled),
	)
	return stats, nil
}

// evaluate handles one user. The record is re-read before the fetch and
// again before the push so that changes made meanwhile are honored.
func (s *Scheduler) evaluate(ctx context.Context, log *zap.Logger, id int64, stats *RunStats) {
	u, ok := s.store.Get(id)
	if !ok || !u.NotificationsEnabled || !u.HasLocation() {
		return
	}
	if u.NotifiedWithin(s.now(), s.interval) {
		stats.Throttled++
		return
	}
	stats.Checked++

	c, err := s.source.CurrentByCoordinates(ctx, u.Location.Lat, u.Location.Lon)
	switch {
	case err != nil:
		stats.Failed++
		log.Warn("conditions fetch failed", zap.Int64("userID", id), zap.Error(err))
	default:
		sev := domain.ClassifySeverity(c.Code)
		if !sev.Alert() {
			break
		}
		// The fetch may take a while; the user can switch off or move meanwhile.
		cur, ok := s.store.Get(id)
		if !ok || !cur.NotificationsEnabled || !cur.HasLocation() {
			log.Info("alert dropped, user no longer subscribed", zap.Int64("userID", id))
			break
		}
		if err := s.sender.SendMessage(id, format.Alert(sev, c, cur.Location.Name)); err != nil {
			log.Warn("alert delivery failed", zap.Int64("userID", id), zap.Error(err))
			break
		}
		stats.Alerted++
		log.Info("alert sent", zap.Int64("userID", id), zap.Stringer("severity", sev))
	}

	stamp := s.now()
	s.store.Update(id, func(u *domain.User) { u.LastNotifiedAt = &stamp })
}

// LastRun returns the stats of the most recent iteration, if any.
func (s *Scheduler) LastRun() (RunStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastRun == nil {
		return RunStats{}, false
	}
	return *s.lastRun, true
}

func (s *Scheduler) finalPersist() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.store.Persist(ctx); err != nil {
		s.log.Error("final persist failed", zap.Error(err))
	}
}

// sleep waits for d or until ctx is done; it reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
