package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/allybot/goalwatch/internal/core/domain"
)

// InsertAccepted records an accepted goal. The canonical key is the primary
// key; a conflict means another writer got there first and the caller must
// stay silent. Returns whether this call inserted the row.
func (db *DB) InsertAccepted(ctx context.Context, g domain.AcceptedGoal) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO accepted_goals (key, pair_key, score, minute, accepted_at, source_ref, origin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key) DO NOTHING`,
		g.Key, g.PairKey, g.Score, g.Minute, g.AcceptedAt, g.SourceRef, string(g.Origin),
	)
	if err != nil {
		return false, fmt.Errorf("insert accepted goal: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListAcceptedByPair returns accepted goals for a team pair and score
// accepted after the given instant, for minute-tolerance matching.
func (db *DB) ListAcceptedByPair(ctx context.Context, pairKey, score string, since time.Time) ([]domain.AcceptedGoal, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT key, pair_key, score, minute, accepted_at, source_ref, origin
		FROM accepted_goals
		WHERE pair_key = $1 AND score = $2 AND accepted_at > $3`,
		pairKey, score, since,
	)
	if err != nil {
		return nil, fmt.Errorf("list accepted goals: %w", err)
	}
	defer rows.Close()

	var out []domain.AcceptedGoal

	for rows.Next() {
		var (
			g      domain.AcceptedGoal
			origin string
		)

		if err := rows.Scan(&g.Key, &g.PairKey, &g.Score, &g.Minute, &g.AcceptedAt, &g.SourceRef, &origin); err != nil {
			return nil, fmt.Errorf("scan accepted goal: %w", err)
		}

		g.Origin = domain.Origin(origin)
		out = append(out, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accepted goals: %w", err)
	}

	return out, nil
}

// DeleteAcceptedBefore removes accepted goals older than the retention
// horizon and returns how many rows went away.
func (db *DB) DeleteAcceptedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM accepted_goals WHERE accepted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old accepted goals: %w", err)
	}

	return tag.RowsAffected(), nil
}
