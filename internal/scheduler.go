package internal

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// NewScheduler runs the batch once, then re-runs it every interval so files
// added to the input directory are picked up. Runs never overlap: a sweep
// that is still going when the next one is due delays it.
func NewScheduler(opts BatchOptions, every time.Duration) (gocron.Scheduler, error) {
	if every <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", every)
	}

	if err := sweep(opts); err != nil {
		return nil, fmt.Errorf("initial run of job failed: %w", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(sweep, opts),
		gocron.WithName("blur-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	log.Printf("Watching %s every %s", opts.InDir, every)
	scheduler.Start()
	return scheduler, nil
}

func sweep(opts BatchOptions) error {
	errs, err := RunBatch(opts)
	if err != nil {
		return err
	}
	for _, err := range errs {
		log.Printf("Failed to blur: %v", err)
	}
	return nil
}
