package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoopRunsTasksAndStopsOnCancel(t *testing.T) {
	logger := zerolog.Nop()

	var ticks atomic.Int64

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- Loop(ctx, Config{
			Name:       "test",
			Resolution: 5 * time.Millisecond,
			Tasks: []Task{
				{
					Name:     "count",
					Interval: 5 * time.Millisecond,
					Run: func(context.Context) error {
						ticks.Add(1)
						return nil
					},
				},
			},
			Logger: &logger,
		})
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancel")
	}

	if ticks.Load() == 0 {
		t.Error("task never ran")
	}
}

func TestLoopSurvivesTaskErrorsAndPanics(t *testing.T) {
	logger := zerolog.Nop()

	var after atomic.Bool

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	_ = Loop(ctx, Config{
		Name:       "test",
		Resolution: 5 * time.Millisecond,
		Tasks: []Task{
			{
				Name:     "failing",
				Interval: 5 * time.Millisecond,
				Run: func(context.Context) error {
					return errors.New("boom")
				},
			},
			{
				Name:     "panicking",
				Interval: 5 * time.Millisecond,
				Run: func(context.Context) error {
					panic("boom")
				},
			},
			{
				Name:     "healthy",
				Interval: 5 * time.Millisecond,
				Run: func(context.Context) error {
					after.Store(true)
					return nil
				},
			},
		},
		Logger: &logger,
	})

	if !after.Load() {
		t.Error("healthy task starved by failing siblings")
	}
}

func TestRunAllStopsAtFirstError(t *testing.T) {
	logger := zerolog.Nop()

	var ran []string

	err := RunAll(context.Background(), []Task{
		{Name: "a", Run: func(context.Context) error { ran = append(ran, "a"); return nil }},
		{Name: "b", Run: func(context.Context) error { return errors.New("boom") }},
		{Name: "c", Run: func(context.Context) error { ran = append(ran, "c"); return nil }},
	}, &logger)

	if err == nil {
		t.Fatal("expected error")
	}

	if len(ran) != 1 || ran[0] != "a" {
		t.Errorf("ran = %v, want [a]", ran)
	}
}

func TestWaitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Wait(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
