package worker

// audit_cron.go
// Background goroutine that periodically starts scheduled audits whose date
// has passed.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// DueAuditStarter starts every scheduled audit that is due and reports how many
// were started.
type DueAuditStarter interface {
	StartDueAudits(ctx context.Context) (int, error)
}

// StartAuditCron ticks every interval until ctx is cancelled.
func StartAuditCron(ctx context.Context, starter DueAuditStarter, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("audit_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("audit_cron: shutting down")
				return
			case <-ticker.C:
				runAuditTick(ctx, starter)
			}
		}
	}()
}

func runAuditTick(ctx context.Context, starter DueAuditStarter) int {
	started, err := starter.StartDueAudits(ctx)
	if err != nil {
		log.Error().Err(err).Msg("audit_cron: failed to start due audits")
		return 0
	}
	if started > 0 {
		log.Info().Int("count", started).Msg("audit_cron: scheduled audits started")
	}
	return started
}
