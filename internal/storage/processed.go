package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/allybot/goalwatch/internal/core/domain"
)

// MarkProcessed records that a post URL was handled. Returns false when the
// URL was already marked, which makes the call double as the seen-check.
func (db *DB) MarkProcessed(ctx context.Context, post domain.Post, seenAt time.Time) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO processed_posts (url, seen_at)
		VALUES ($1, $2)
		ON CONFLICT (url) DO NOTHING`,
		post.Permalink, seenAt,
	)
	if err != nil {
		return false, fmt.Errorf("mark post processed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// IsProcessed reports whether a post URL was handled before.
func (db *DB) IsProcessed(ctx context.Context, post domain.Post) (bool, error) {
	var exists bool

	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM processed_posts WHERE url = $1)`,
		post.Permalink,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check post processed: %w", err)
	}

	return exists, nil
}

// DeleteProcessedBefore removes processed-post markers older than the
// retention horizon.
func (db *DB) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM processed_posts WHERE seen_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old processed posts: %w", err)
	}

	return tag.RowsAffected(), nil
}
