// Package fallback tracks goals seen only on the scoreboard feed and fires a
// single make-up notification when the primary source stays silent past the
// grace period.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/allybot/goalwatch/internal/core/domain"
	"github.com/allybot/goalwatch/internal/core/goal"
	"github.com/allybot/goalwatch/internal/core/textnorm"
	"github.com/allybot/goalwatch/internal/process/dedup"
)

const (
	defaultGrace = 3 * time.Minute

	// matchHorizon bounds coverage queries to the current match day. Wider
	// than the dedup window on purpose: a goal from earlier in the same match
	// must still count as covered.
	matchHorizon = 6 * time.Hour
)

// Store is the slice of storage the reconciler needs.
type Store interface {
	ListAcceptedByPair(ctx context.Context, pairKey, score string, since time.Time) ([]domain.AcceptedGoal, error)
	InsertAccepted(ctx context.Context, g domain.AcceptedGoal) (bool, error)
	InsertPending(ctx context.Context, p domain.PendingGoal) (bool, error)
	ListPending(ctx context.Context) ([]domain.PendingGoal, error)
	DeletePending(ctx context.Context, key string) error
}

// Notifier delivers the fallback notification.
type Notifier interface {
	NotifyFallback(ctx context.Context, p domain.PendingGoal) error
}

// Reconciler owns the pending-goal lifecycle.
type Reconciler struct {
	store    Store
	notifier Notifier
	grace    time.Duration
	logger   *zerolog.Logger
}

func New(store Store, notifier Notifier, grace time.Duration, logger *zerolog.Logger) *Reconciler {
	if grace <= 0 {
		grace = defaultGrace
	}

	l := logger.With().Str("component", "fallback").Logger()

	return &Reconciler{store: store, notifier: notifier, grace: grace, logger: &l}
}

// Observe seeds pending entries from a scoreboard snapshot. Goals the primary
// source already delivered are not seeded; re-observed goals keep their
// original detection time via the key conflict. A storage error on one goal
// never blocks its siblings; failures are logged and joined.
func (r *Reconciler) Observe(ctx context.Context, match domain.MatchSnapshot, now time.Time) error {
	if !match.Status.InPlay() {
		return nil
	}

	var errs []error

	for _, p := range GoalsFromSnapshot(match, now) {
		if err := r.observeGoal(ctx, p, now); err != nil {
			r.logger.Error().Err(err).Str("key", p.Key).Msg("failed to observe scoreboard goal")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Reconciler) observeGoal(ctx context.Context, p domain.PendingGoal, now time.Time) error {
	covered, err := r.covered(ctx, p, now)
	if err != nil {
		return err
	}

	if covered {
		return nil
	}

	inserted, err := r.store.InsertPending(ctx, p)
	if err != nil {
		return fmt.Errorf("insert pending goal: %w", err)
	}

	if inserted {
		r.logger.Info().
			Str("key", p.Key).
			Str("match", p.MatchID).
			Msg("scoreboard goal pending grace period")
	}

	return nil
}

// Reconcile advances every pending entry one step: drop it when the primary
// source has delivered, notify and promote it when the grace period has run
// out, leave it otherwise. An error on one entry never blocks its siblings;
// failures are logged and joined.
func (r *Reconciler) Reconcile(ctx context.Context, now time.Time) error {
	pending, err := r.store.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending goals: %w", err)
	}

	var errs []error

	for _, p := range pending {
		if err := r.reconcileEntry(ctx, p, now); err != nil {
			r.logger.Error().Err(err).Str("key", p.Key).Msg("failed to reconcile pending goal")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Reconciler) reconcileEntry(ctx context.Context, p domain.PendingGoal, now time.Time) error {
	covered, err := r.covered(ctx, p, now)
	if err != nil {
		return err
	}

	if covered {
		r.logger.Debug().Str("key", p.Key).Msg("pending goal covered by primary source")

		if err := r.store.DeletePending(ctx, p.Key); err != nil {
			return fmt.Errorf("delete pending goal: %w", err)
		}

		return nil
	}

	if now.Sub(p.DetectedAt) < r.grace {
		return nil
	}

	return r.promote(ctx, p, now)
}

// promote records the pending goal as accepted and, if this process won the
// insert, sends the one fallback notification. Acceptance lands before the
// send so a crash in between never repeats the notification.
func (r *Reconciler) promote(ctx context.Context, p domain.PendingGoal, now time.Time) error {
	inserted, err := r.store.InsertAccepted(ctx, domain.AcceptedGoal{
		Key:        p.Key,
		PairKey:    p.PairKey,
		Score:      p.Score,
		Minute:     p.Minute,
		AcceptedAt: now,
		SourceRef:  p.MatchID,
		Origin:     domain.OriginFallback,
	})
	if err != nil {
		return fmt.Errorf("promote pending goal: %w", err)
	}

	if inserted {
		r.logger.Info().Str("key", p.Key).Msg("grace period elapsed, sending fallback notification")

		if err := r.notifier.NotifyFallback(ctx, p); err != nil {
			// Acceptance already happened; the notification is lost, not retried.
			r.logger.Error().Err(err).Str("key", p.Key).Msg("fallback notification failed")
		}
	}

	if err := r.store.DeletePending(ctx, p.Key); err != nil {
		return fmt.Errorf("delete promoted pending goal: %w", err)
	}

	return nil
}

// covered reports whether an accepted goal with the same pair and score sits
// within minute tolerance of p.
func (r *Reconciler) covered(ctx context.Context, p domain.PendingGoal, now time.Time) (bool, error) {
	accepted, err := r.store.ListAcceptedByPair(ctx, p.PairKey, p.Score, now.Add(-matchHorizon))
	if err != nil {
		return false, fmt.Errorf("list accepted goals: %w", err)
	}

	for _, g := range accepted {
		if dedup.SameMinute(p.Minute, g.Minute) {
			return true, nil
		}
	}

	return false, nil
}

// GoalsFromSnapshot derives one keyed pending entry per scoring play by
// walking the ordered goals and accumulating the running score, so each entry
// carries the score as it stood right after that goal.
func GoalsFromSnapshot(match domain.MatchSnapshot, now time.Time) []domain.PendingGoal {
	var home, away int

	out := make([]domain.PendingGoal, 0, len(match.Goals))

	for _, g := range match.Goals {
		switch g.Team {
		case "home":
			home++
		case "away":
			away++
		default:
			continue
		}

		ev := &domain.GoalEvent{
			TeamA:  textnorm.TeamName(match.Home),
			TeamB:  textnorm.TeamName(match.Away),
			Score:  fmt.Sprintf("%d-%d", home, away),
			Minute: g.Minute,
			Scorer: textnorm.Player(g.Scorer),
		}

		key := goal.BuildKey(ev)
		if key == "" {
			continue
		}

		_, _, minute, err := goal.ParseKey(key)
		if err != nil {
			continue
		}

		out = append(out, domain.PendingGoal{
			Key:         key,
			PairKey:     goal.PairKey(ev.TeamA, ev.TeamB),
			Score:       ev.Score,
			Minute:      minute,
			DetectedAt:  now,
			MatchID:     match.ID,
			Home:        match.Home,
			Away:        match.Away,
			HomeScore:   home,
			AwayScore:   away,
			Scorer:      ev.Scorer,
			ScoringSide: g.Team,
		})
	}

	return out
}
