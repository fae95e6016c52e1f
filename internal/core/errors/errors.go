// Package errors defines sentinel errors shared across goalwatch packages.
//
// Callers wrap these with fmt.Errorf("...: %w", err) to add context and
// check them with errors.Is at decision points.
package errors

import "errors"

// Upstream feed errors.
var (
	// ErrStatusNotOK indicates an upstream HTTP response outside the 2xx range.
	ErrStatusNotOK = errors.New("http status not ok")

	// ErrFeedUnavailable indicates the subreddit feed could not be fetched or parsed.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrScoreboardUnavailable indicates the scoreboard feed could not be fetched or parsed.
	ErrScoreboardUnavailable = errors.New("scoreboard unavailable")
)

// Extraction errors.
var (
	// ErrMalformedKey indicates a stored key that does not split into pair, score and minute.
	ErrMalformedKey = errors.New("malformed canonical key")
)

// Delivery errors.
var (
	// ErrRateLimited indicates the webhook answered 429. The send is dropped,
	// not retried; the next detection cycle is the retry path.
	ErrRateLimited = errors.New("webhook rate limited")

	// ErrNoVideo indicates a clip URL whose MP4 could not be resolved within
	// the retry budget. Normal and non-fatal.
	ErrNoVideo = errors.New("no video resolved")

	// ErrUnsupportedHost indicates a clip URL outside the known host allowlist.
	ErrUnsupportedHost = errors.New("unsupported video host")
)
