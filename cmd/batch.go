package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/rm-hull/fastblur/internal"
)

func Batch(opts internal.BatchOptions) error {
	internal.ShowVersion()
	internal.UserInfo(opts.InDir, opts.OutDir)

	errs, err := internal.RunBatch(opts)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d files failed: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// Watch keeps re-running the batch every interval until interrupted.
func Watch(opts internal.BatchOptions, every time.Duration) error {
	internal.ShowVersion()
	internal.UserInfo(opts.InDir, opts.OutDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched, err := internal.NewScheduler(opts, every)
	if err != nil {
		return err
	}

	<-ctx.Done()
	log.Println("Shutting down scheduler")
	if err := sched.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	return nil
}
