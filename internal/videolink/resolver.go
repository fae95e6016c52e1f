// Package videolink turns clip-host page URLs into direct MP4 links. Known
// CDN layouts are constructed straight away; everything else falls back to
// scraping the page for a video source element.
package videolink

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/allybot/goalwatch/internal/core/errors"
)

// hostFamilies maps base domains to their resolution strategy.
var (
	streamffDomains = []string{"streamff.co", "streamff.one", "streamff.com"}
	streaminDomains = []string{"streamin.one", "streamin.me", "streamin.pro", "streamin.live", "streamin.cc", "streamin.xyz", "streamin.fun"}
	dubzDomains     = []string{"dubz.link", "dubz.co"}
)

// Resolver resolves clip pages to MP4 links with a shared outbound limiter.
type Resolver struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

func NewResolver(timeout time.Duration, rps float64, logger *zerolog.Logger) *Resolver {
	if rps <= 0 {
		rps = 2
	}

	l := logger.With().Str("component", "videolink").Logger()

	return &Resolver{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     &l,
	}
}

// Supported reports whether the URL belongs to a known clip host.
func Supported(rawURL string) bool {
	base := BaseDomain(rawURL)

	for _, domains := range [][]string{streamffDomains, streaminDomains, dubzDomains} {
		for _, d := range domains {
			if base == d {
				return true
			}
		}
	}

	return false
}

// BaseDomain reduces a URL's host to its registrable two-label form:
// "https://www.streamin.one/v/abc" yields "streamin.one".
func BaseDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	parts := strings.Split(host, ".")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}

	return strings.Join(parts, ".")
}

// Resolve returns a validated MP4 URL for a supported clip page.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (string, error) {
	base := BaseDomain(pageURL)

	switch {
	case contains(streamffDomains, base):
		return r.resolveStreamff(ctx, pageURL)
	case contains(streaminDomains, base):
		return r.resolveStreamin(ctx, pageURL)
	case contains(dubzDomains, base):
		return r.resolveDubz(ctx, pageURL)
	default:
		return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedHost, base)
	}
}

// ResolveWithRetry retries Resolve with a fixed delay until the budget runs
// out. Clips appear on the CDN some time after the page goes up, so early
// misses are expected.
func (r *Resolver) ResolveWithRetry(ctx context.Context, pageURL string, attempts int, delay time.Duration) (string, error) {
	if !Supported(pageURL) {
		return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedHost, pageURL)
	}

	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		mp4, err := r.Resolve(ctx, pageURL)
		if err == nil {
			return mp4, nil
		}

		lastErr = err

		r.logger.Debug().
			Err(err).
			Str("url", pageURL).
			Int("attempt", attempt+1).
			Msg("video not resolvable yet")
	}

	return "", fmt.Errorf("%w after %d attempts: %v", errors.ErrNoVideo, attempts, lastErr)
}

func (r *Resolver) resolveStreamff(ctx context.Context, pageURL string) (string, error) {
	id := clipID(pageURL)
	if id == "" {
		return "", errors.ErrNoVideo
	}

	candidates := []string{
		"https://cdn.streamff.one/" + id + ".mp4",
		"https://ffedge.streamff.com/uploads/" + id + ".mp4",
	}

	for _, mp4 := range candidates {
		if r.validate(ctx, mp4) {
			return mp4, nil
		}
	}

	return r.scrapePage(ctx, pageURL)
}

func (r *Resolver) resolveStreamin(ctx context.Context, pageURL string) (string, error) {
	id := clipID(pageURL)
	if id == "" {
		return "", errors.ErrNoVideo
	}

	candidates := []string{
		"https://streamin.fun/uploads/" + id + ".mp4",
		"https://streamin.me/uploads/" + id + ".mp4",
	}

	for _, mp4 := range candidates {
		if r.validate(ctx, mp4) {
			return mp4, nil
		}
	}

	return r.scrapePage(ctx, pageURL)
}

func (r *Resolver) resolveDubz(ctx context.Context, pageURL string) (string, error) {
	id := clipID(pageURL)
	if id == "" {
		return "", errors.ErrNoVideo
	}

	mp4 := "https://cdn.squeelab.com/guest/videos/" + id + ".mp4"
	if r.validate(ctx, mp4) {
		return mp4, nil
	}

	return "", errors.ErrNoVideo
}

// scrapePage fetches the clip page and looks for a video source element.
func (r *Resolver) scrapePage(ctx context.Context, pageURL string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create page request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch clip page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: clip page status %d", errors.ErrStatusNotOK, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse clip page: %w", err)
	}

	src := findVideoSource(doc)
	if src == "" {
		return "", errors.ErrNoVideo
	}

	src = absolutize(pageURL, src)

	if !r.validate(ctx, src) {
		return "", errors.ErrNoVideo
	}

	return src, nil
}

func findVideoSource(doc *goquery.Document) string {
	for _, selector := range []string{"video source", "video"} {
		var src string

		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if v, ok := sel.Attr("src"); ok && v != "" {
				src = v
				return false
			}

			return true
		})

		if src != "" {
			// Players append a start-offset fragment that breaks direct playback.
			if i := strings.Index(src, "#t="); i >= 0 {
				src = src[:i]
			}

			return src
		}
	}

	return ""
}

// validate confirms the MP4 URL answers a HEAD request with a success status
// and a plausible content type.
func (r *Resolver) validate(ctx context.Context, mp4URL string) bool {
	if err := r.limiter.Wait(ctx); err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, mp4URL, nil)
	if err != nil {
		return false
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return true
	}

	for _, accepted := range []string{"video", "mp4", "octet-stream"} {
		if strings.Contains(contentType, accepted) {
			return true
		}
	}

	return false
}

// clipID is the last path segment, with the /v/ prefix form handled too.
func clipID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}

	segments := strings.Split(path, "/")

	return segments[len(segments)-1]
}

func absolutize(pageURL, src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}

	if strings.HasPrefix(src, "/") {
		if u, err := url.Parse(pageURL); err == nil {
			return u.Scheme + "://" + u.Host + src
		}
	}

	return src
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}

	return false
}
