package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StockScanner is run on every scheduler tick. *service.StockMonitor satisfies it.
type StockScanner interface {
	Scan(ctx context.Context) (int, error)
}

// scanTimeout bounds a single scheduled scan.
const scanTimeout = 2 * time.Minute

// StartScheduler registers the periodic low-stock scan and starts the cron
// runner. An empty schedule disables scanning and returns a nil *cron.Cron.
// Stop the returned runner on shutdown.
func StartScheduler(ctx context.Context, spec string, loc *time.Location, scanner StockScanner) (*cron.Cron, error) {
	if spec == "" {
		log.Info().Msg("scheduler: STOCK_SCAN_SCHEDULE empty, periodic stock scan disabled")
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, scanTimeout)
		defer cancel()
		n, err := scanner.Scan(runCtx)
		if err != nil {
			log.Error().Err(err).Msg("scheduler: stock scan failed")
			return
		}
		log.Info().Int("reported", n).Msg("scheduler: stock scan finished")
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info().Str("schedule", spec).Str("tz", loc.String()).Msg("scheduler: periodic stock scan enabled")
	return c, nil
}
