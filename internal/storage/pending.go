package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/allybot/goalwatch/internal/core/domain"
)

// InsertPending records a scoreboard goal waiting out the grace period. The
// key conflict keeps the original detection time when the same goal is
// observed again on a later poll.
func (db *DB) InsertPending(ctx context.Context, p domain.PendingGoal) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO pending_goals
			(key, pair_key, score, minute, detected_at, match_id, home, away, home_score, away_score, scorer, scoring_side)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (key) DO NOTHING`,
		p.Key, p.PairKey, p.Score, p.Minute, p.DetectedAt,
		p.MatchID, p.Home, p.Away, p.HomeScore, p.AwayScore, p.Scorer, p.ScoringSide,
	)
	if err != nil {
		return false, fmt.Errorf("insert pending goal: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListPending returns every pending goal, oldest first.
func (db *DB) ListPending(ctx context.Context) ([]domain.PendingGoal, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT key, pair_key, score, minute, detected_at, match_id, home, away, home_score, away_score, scorer, scoring_side
		FROM pending_goals
		ORDER BY detected_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending goals: %w", err)
	}
	defer rows.Close()

	var out []domain.PendingGoal

	for rows.Next() {
		var p domain.PendingGoal

		if err := rows.Scan(
			&p.Key, &p.PairKey, &p.Score, &p.Minute, &p.DetectedAt,
			&p.MatchID, &p.Home, &p.Away, &p.HomeScore, &p.AwayScore, &p.Scorer, &p.ScoringSide,
		); err != nil {
			return nil, fmt.Errorf("scan pending goal: %w", err)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending goals: %w", err)
	}

	return out, nil
}

// DeletePending removes one pending goal by key.
func (db *DB) DeletePending(ctx context.Context, key string) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM pending_goals WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete pending goal: %w", err)
	}

	return nil
}

// CountPending returns the number of pending goals, for the metrics gauge.
func (db *DB) CountPending(ctx context.Context) (int64, error) {
	var count int64

	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM pending_goals`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending goals: %w", err)
	}

	return count, nil
}

// DeletePendingBefore clears pending goals that outlived the retention
// horizon; matches abandoned mid-poll would otherwise pin rows forever.
func (db *DB) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM pending_goals WHERE detected_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old pending goals: %w", err)
	}

	return tag.RowsAffected(), nil
}
