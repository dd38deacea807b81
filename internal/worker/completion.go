package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	pkgworker "github.com/apper-apps/mediconnect-code/pkg/worker"
)

// Completer marks approved appointments whose time has passed as completed.
type Completer interface {
	CompletePast(ctx context.Context, now time.Time) (int, error)
}

// NewCompletionJob wraps c in a periodic job.
func NewCompletionJob(c Completer, interval time.Duration) *pkgworker.PeriodicJob {
	return pkgworker.NewPeriodicJob("appointment-completion", interval, func(ctx context.Context) error {
		n, err := c.CompletePast(ctx, time.Now())
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info().Int("count", n).Msg("Appointments completed")
		}
		return nil
	})
}
