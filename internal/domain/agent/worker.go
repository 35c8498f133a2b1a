package agent

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ExpiryWorker periodically deactivates agents whose activation window has
// passed, so stale codes stop validating without waiting for a read.
type ExpiryWorker struct {
	repo     Repository
	schedule string
	cron     *cron.Cron
}

// NewExpiryWorker creates the worker. schedule is a cron spec ("@hourly").
func NewExpiryWorker(repo Repository, schedule string) *ExpiryWorker {
	if schedule == "" {
		schedule = "@hourly"
	}
	return &ExpiryWorker{
		repo:     repo,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the sweep job and starts the scheduler
func (w *ExpiryWorker) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.sweep); err != nil {
		return err
	}

	log.Info().Str("schedule", w.schedule).Msg("Starting agent expiry worker")
	w.cron.Start()

	// Run once immediately on startup
	go w.sweep()
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (w *ExpiryWorker) Stop() {
	log.Info().Msg("Stopping agent expiry worker")
	<-w.cron.Stop().Done()
}

func (w *ExpiryWorker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.repo.ExpireAgents(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire agents")
		return
	}
	if count > 0 {
		log.Info().Int("count", count).Msg("Deactivated expired agents")
	}
}
