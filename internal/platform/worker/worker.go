// Package worker runs all of goalwatch's periodic tasks on one cooperative
// loop. Tasks run sequentially, so CPU-bound text processing never overlaps
// with itself; only network waits interleave via their own contexts.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Task is one periodic unit of work. A failing task is logged and retried on
// its next due tick; it never stops the loop.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error

	lastRun time.Time
}

// Config configures the loop.
type Config struct {
	// Name identifies the loop for logging.
	Name string

	// Resolution is how often due tasks are checked. Defaults to one second.
	Resolution time.Duration

	// Tasks are run at their configured intervals, in slice order.
	Tasks []Task

	// Logger for the loop.
	Logger *zerolog.Logger
}

// Loop runs tasks until the context is canceled, returning the wrapped
// context error.
func Loop(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	resolution := cfg.Resolution
	if resolution <= 0 {
		resolution = time.Second
	}

	tasks := make([]Task, len(cfg.Tasks))
	copy(tasks, cfg.Tasks)

	logger.Info().Str("worker", cfg.Name).Int("tasks", len(tasks)).Msg("starting worker loop")

	defer logger.Info().Str("worker", cfg.Name).Msg("worker loop stopped")

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("worker loop %s: %w", cfg.Name, ctx.Err())
		default:
		}

		runDueTasks(ctx, tasks, logger)

		if err := Wait(ctx, resolution); err != nil {
			return err
		}
	}
}

// RunAll runs every task exactly once, in order, stopping at the first error.
// Used by the single-pass mode.
func RunAll(ctx context.Context, tasks []Task, logger *zerolog.Logger) error {
	for _, task := range tasks {
		logger.Debug().Str("task", task.Name).Msg("running task")

		if err := task.Run(ctx); err != nil {
			return fmt.Errorf("task %s: %w", task.Name, err)
		}
	}

	return nil
}

func runDueTasks(ctx context.Context, tasks []Task, logger *zerolog.Logger) {
	now := time.Now()

	for i := range tasks {
		task := &tasks[i]
		if task.Interval <= 0 || task.Run == nil {
			continue
		}

		if now.Sub(task.lastRun) < task.Interval {
			continue
		}

		func() {
			defer RecoverPanic(logger, task.Name)

			if err := task.Run(ctx); err != nil {
				logger.Error().Err(err).Str("task", task.Name).Msg("task error")
			}
		}()

		task.lastRun = now
	}
}

// Wait blocks until the duration elapses or the context is canceled.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}

// RecoverPanic recovers from panics and logs them.
// Use as: defer worker.RecoverPanic(logger, "operation name")
func RecoverPanic(logger *zerolog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error().
			Interface("panic", r).
			Str("operation", operation).
			Msg("recovered from panic")
	}
}
