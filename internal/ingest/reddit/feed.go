// Package reddit polls a subreddit's new-posts feed and turns entries into
// Post DTOs carrying the outbound clip link alongside the discussion page.
package reddit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/allybot/goalwatch/internal/core/domain"
	"github.com/allybot/goalwatch/internal/core/errors"
)

const headerUserAgent = "User-Agent"

// Feed fetches the subreddit RSS feed.
type Feed struct {
	url        string
	userAgent  string
	maxAge     time.Duration
	httpClient *http.Client
	parser     *gofeed.Parser
	logger     *zerolog.Logger
}

func NewFeed(url, userAgent string, maxAge, timeout time.Duration, logger *zerolog.Logger) *Feed {
	l := logger.With().Str("component", "reddit").Logger()

	return &Feed{
		url:        url,
		userAgent:  userAgent,
		maxAge:     maxAge,
		httpClient: &http.Client{Timeout: timeout},
		parser:     gofeed.NewParser(),
		logger:     &l,
	}
}

// FetchRecent returns posts no older than the max-age horizon, newest first.
// The feed is reverse-chronological, so iteration stops at the first stale
// entry.
func (f *Feed) FetchRecent(ctx context.Context) ([]domain.Post, error) {
	feed, err := f.fetch(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	var posts []domain.Post

	for _, item := range feed.Items {
		createdAt := itemTime(item)
		if createdAt.IsZero() {
			f.logger.Debug().Str("title", item.Title).Msg("skipping item without timestamp")
			continue
		}

		if now.Sub(createdAt) > f.maxAge {
			break
		}

		posts = append(posts, domain.Post{
			Title:     item.Title,
			URL:       outboundLink(item),
			Permalink: item.Link,
			CreatedAt: createdAt,
		})
	}

	return posts, nil
}

func (f *Feed) fetch(ctx context.Context) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}

	req.Header.Set(headerUserAgent, f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed status %d", errors.ErrStatusNotOK, resp.StatusCode)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrFeedUnavailable, err)
	}

	return feed, nil
}

// itemTime prefers the feed's own parsed timestamps and falls back to lenient
// parsing of the raw fields.
func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}

	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}

	for _, raw := range []string{item.Published, item.Updated} {
		if raw == "" {
			continue
		}

		if t, err := dateparse.ParseAny(raw); err == nil {
			return t
		}
	}

	return time.Time{}
}

// outboundLink digs the submitted URL out of the entry's content HTML. The
// feed renders it as an anchor labeled "[link]"; without one the discussion
// link is all there is.
func outboundLink(item *gofeed.Item) string {
	content := item.Content
	if content == "" {
		content = item.Description
	}

	if content != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err == nil {
			var href string

			doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
				if strings.TrimSpace(sel.Text()) == "[link]" {
					href, _ = sel.Attr("href")
					return false
				}

				return true
			})

			if href != "" {
				return href
			}
		}
	}

	return item.Link
}
