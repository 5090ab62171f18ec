package background

import (
	"context"
	"sync"
	"time"

	"stockbook/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// JobScheduler owns the periodic jobs: the hourly low-stock sweep and the
// daily ledger export. Jobs run in singleton mode so a slow run never
// overlaps the next one.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	lowStock   *jobs.LowStockService
	exporter   *jobs.LedgerExporter
	jobsByName map[string]gocron.Job
	mu         sync.RWMutex
}

func NewJobScheduler(lowStock *jobs.LowStockService, exporter *jobs.LedgerExporter) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		lowStock:   lowStock,
		exporter:   exporter,
		jobsByName: make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js, nil
}

func (js *JobScheduler) Start() {
	log.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	lowStockJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.lowStock.ScheduledCheck, context.Background()),
		gocron.WithName("low-stock-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create low stock job")
	} else {
		js.track("low-stock-sweep", lowStockJob)
	}

	if js.exporter != nil {
		exportJob, err := js.scheduler.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
			gocron.NewTask(js.exporter.ScheduledExport, context.Background()),
			gocron.WithName("ledger-export"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			log.Error().Err(err).Msg("failed to create ledger export job")
		} else {
			js.track("ledger-export", exportJob)
		}
	}

	log.Info().Int("jobs", len(js.jobsByName)).Msg("registered background jobs")
}

func (js *JobScheduler) track(name string, job gocron.Job) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.jobsByName[name] = job
}
