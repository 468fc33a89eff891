package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"webhook-consumer/internal/common/logging"
)

// StartResyncJob schedules periodic secret resync against the producer when
// RESYNC_SCHEDULE is set. A fresh deployment with an empty secret store heals
// itself on the first run. Returns nil when no schedule is configured.
func (app *App) StartResyncJob() (*cron.Cron, error) {
	if app.Config.ResyncSchedule == "" {
		return nil, nil
	}

	c := cron.New()

	_, err := c.AddFunc(app.Config.ResyncSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		report, err := app.Subscriptions.Resync(ctx)
		if err != nil {
			app.Logger.Error("Scheduled resync failed", err,
				logging.Field{Key: "restored", Value: report.Restored},
			)
			return
		}
		app.Logger.Info("Scheduled resync completed",
			logging.Field{Key: "restored", Value: report.Restored},
		)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	app.Logger.Info("Resync job scheduled",
		logging.Field{Key: "schedule", Value: app.Config.ResyncSchedule},
	)

	go func() {
		<-app.shutdownCh
		c.Stop()
	}()

	return c, nil
}
