package app

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

type flusher interface {
	Flush(ctx context.Context) error
}

// startFlush writes dirty user records every interval so that toggles and
// location changes are not lost between scheduler iterations.
func startFlush(st flusher, interval time.Duration, log *zap.Logger) (*gocron.Scheduler, error) {
	minutes := int(interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	_, err := s.Every(minutes).Minutes().WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := st.Flush(ctx); err != nil {
			log.Warn("store flush failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	s.StartAsync()
	return s, nil
}
