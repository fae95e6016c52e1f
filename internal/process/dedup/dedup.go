// Package dedup decides whether a goal sighting is new or a repeat of one
// already accepted, using the canonical key plus a minute tolerance over the
// durable accepted-goal store.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/allybot/goalwatch/internal/core/domain"
	"github.com/allybot/goalwatch/internal/core/goal"
	"github.com/allybot/goalwatch/internal/core/textnorm"
)

const defaultWindow = 30 * time.Minute

// Repository is the slice of storage the arbiter needs.
type Repository interface {
	ListAcceptedByPair(ctx context.Context, pairKey, score string, since time.Time) ([]domain.AcceptedGoal, error)
	InsertAccepted(ctx context.Context, g domain.AcceptedGoal) (bool, error)
}

// Arbiter arbitrates duplicates across sources and retries.
type Arbiter struct {
	repo   Repository
	window time.Duration
	logger *zerolog.Logger
}

func New(repo Repository, window time.Duration, logger *zerolog.Logger) *Arbiter {
	if window <= 0 {
		window = defaultWindow
	}

	l := logger.With().Str("component", "dedup").Logger()

	return &Arbiter{repo: repo, window: window, logger: &l}
}

// IsDuplicate reports whether ev matches an accepted goal with the same
// team pair and score inside the acceptance window, within minute tolerance.
// It returns the matched key when duplicate. Entries older than the window
// never block: a repeated scoreline in a later match is a new goal.
func (a *Arbiter) IsDuplicate(ctx context.Context, ev *domain.GoalEvent, now time.Time) (bool, string, error) {
	key := goal.BuildKey(ev)
	if key == "" {
		return false, "", nil
	}

	minute, ok := textnorm.BaseMinute(ev.Minute)
	if !ok {
		return false, "", nil
	}

	pairKey := goal.PairKey(ev.TeamA, ev.TeamB)

	accepted, err := a.repo.ListAcceptedByPair(ctx, pairKey, ev.Score, now.Add(-a.window))
	if err != nil {
		return false, "", fmt.Errorf("list accepted goals: %w", err)
	}

	for _, g := range accepted {
		if SameMinute(minute, g.Minute) {
			a.logger.Debug().
				Str("key", key).
				Str("matched", g.Key).
				Msg("duplicate goal sighting")

			return true, g.Key, nil
		}
	}

	return false, "", nil
}

// Accept durably records ev before any notification is sent. The returned
// bool is false when another writer recorded the same key first; the caller
// must then treat the event as a duplicate and stay silent.
func (a *Arbiter) Accept(ctx context.Context, ev *domain.GoalEvent, sourceRef string, origin domain.Origin, now time.Time) (bool, error) {
	key := goal.BuildKey(ev)
	if key == "" {
		return false, nil
	}

	minute, _ := textnorm.BaseMinute(ev.Minute)

	inserted, err := a.repo.InsertAccepted(ctx, domain.AcceptedGoal{
		Key:        key,
		PairKey:    goal.PairKey(ev.TeamA, ev.TeamB),
		Score:      ev.Score,
		Minute:     minute,
		AcceptedAt: now,
		SourceRef:  sourceRef,
		Origin:     origin,
	})
	if err != nil {
		return false, fmt.Errorf("insert accepted goal: %w", err)
	}

	return inserted, nil
}

// SameMinute reports whether two reported minutes describe the same goal.
// Sources disagree by a minute or two; goals in first-half or second-half
// stoppage bunch at 45/46 and 89/90 respectively.
func SameMinute(a, b int) bool {
	if a > b {
		a, b = b, a
	}

	if b-a <= 2 {
		return true
	}

	if a == 89 && b == 90 {
		return true
	}

	if a == 45 && (b == 45 || b == 46) {
		return true
	}

	return false
}
