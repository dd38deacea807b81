package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// PeriodicJob runs fn every interval until its context is done.
type PeriodicJob struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
}

func NewPeriodicJob(name string, interval time.Duration, fn func(ctx context.Context) error) *PeriodicJob {
	return &PeriodicJob{
		name:     name,
		interval: interval,
		fn:       fn,
	}
}

func (j *PeriodicJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Info().Str("job", j.name).Dur("interval", j.interval).Msg("Starting periodic job")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.fn(ctx); err != nil {
				// Log error but continue
				log.Error().Err(err).Str("job", j.name).Msg("Periodic job failed")
			}
		}
	}
}
