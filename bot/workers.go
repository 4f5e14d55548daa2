package bot

import (
	"context"
	"fmt"
	"time"

	"botoclock/infrastructure/observability"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// refreshTimeout bounds one refresh pass so a stuck pass cannot pile up behind the limiter
const refreshTimeout = 9 * time.Minute

// StartClockRefreshWorker re-renders every clock on schedule (standard cron syntax).
// Returns a cleanup function that waits for a running pass to finish.
func (b *Bot) StartClockRefreshWorker(schedule string) (func(), error) {
	logger := cron.PrintfLogger(log.StandardLogger())
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := c.AddFunc(schedule, func() { b.runClockRefresh(ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	c.Start()
	log.WithField("schedule", schedule).Info("Clock refresh worker started")

	return func() {
		cancel()
		<-c.Stop().Done()
		log.Info("Clock refresh worker stopped")
	}, nil
}

func (b *Bot) runClockRefresh(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, refreshTimeout)
	defer cancel()

	metrics := observability.GetMetrics()
	defer metrics.MeasureRefresh()()

	summary, err := b.services.Refresh.RefreshAll(ctx)
	if err != nil {
		log.WithError(err).Error("Clock refresh failed")
		return
	}

	metrics.RecordRefreshEdits(observability.RefreshEdited, summary.Edited)
	metrics.RecordRefreshEdits(observability.RefreshSkipped, summary.Skipped)
	metrics.RecordRefreshEdits(observability.RefreshFailed, summary.Failed)

	log.WithFields(log.Fields{
		"edited":  summary.Edited,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
		"removed": summary.Removed,
	}).Info("Clock refresh pass finished")
}
