package comunicapje

import (
	"context"
	"errors"

	"github.com/jurisalerta/jurisalerta/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewScheduler registers the daily search on a cron schedule. A tick that
// overlaps an in-flight run is skipped via the searcher's run guard.
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, searcher *Searcher) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc(cfg.SearchSchedule, func() {
		report, err := searcher.RunDailySearches(context.Background())
		switch {
		case errors.Is(err, ErrAlreadyRunning):
			log.Sugar().Warnw("Scheduled search skipped, previous run still in flight")
		case err != nil:
			log.Sugar().Errorw("Scheduled search failed", "err", err)
		default:
			log.Sugar().Infow("Scheduled search finished", "run_id", report.RunID, "notified", report.Notified)
		}
	})
	if err != nil {
		log.Sugar().Panicf("invalid SEARCH_SCHEDULE %q: %v", cfg.SearchSchedule, err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			log.Sugar().Infow("Search scheduler started", "spec", cfg.SearchSchedule)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			<-c.Stop().Done()
			log.Sugar().Info("Search scheduler stopped")
			return nil
		},
	})

	return c
}
