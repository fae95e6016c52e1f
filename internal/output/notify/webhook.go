// Package notify posts goal notifications to a Discord-compatible webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/allybot/goalwatch/internal/core/domain"
	"github.com/allybot/goalwatch/internal/core/errors"
)

// Notifier delivers webhook payloads with a shared rate limiter. A 429 from
// the webhook is a dropped delivery, never a retry: the detection cycle that
// produced it will not repeat the key, and spamming the limiter makes the
// window worse.
type Notifier struct {
	webhookURL string
	username   string
	avatarURL  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

func NewNotifier(webhookURL, username, avatarURL string, timeout time.Duration, rps float64, logger *zerolog.Logger) *Notifier {
	if rps <= 0 {
		rps = 1
	}

	l := logger.With().Str("component", "notify").Logger()

	return &Notifier{
		webhookURL: webhookURL,
		username:   username,
		avatarURL:  avatarURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     &l,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool { return n.webhookURL != "" }

// Embed is a Discord-style rich embed.
type Embed struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	Color       int        `json:"color,omitempty"`
	Fields      []Field    `json:"fields,omitempty"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
	Timestamp   string     `json:"timestamp,omitempty"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type Thumbnail struct {
	URL string `json:"url"`
}

type webhookPayload struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Content   string  `json:"content,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
}

// NotifyGoal posts the primary-source goal embed.
func (n *Notifier) NotifyGoal(ctx context.Context, ev *domain.GoalEvent, team *domain.Team, post domain.Post) error {
	return n.send(ctx, webhookPayload{
		Username:  n.username,
		AvatarURL: n.avatarURL,
		Embeds:    []Embed{GoalEmbed(ev, team, post)},
	})
}

// NotifyClip posts the deferred MP4 link as a plain follow-up message.
func (n *Notifier) NotifyClip(ctx context.Context, mp4URL string) error {
	return n.send(ctx, webhookPayload{
		Username:  n.username,
		AvatarURL: n.avatarURL,
		Content:   mp4URL,
	})
}

// NotifyFallback posts the scoreboard-derived embed when the primary source
// stayed silent past the grace period.
func (n *Notifier) NotifyFallback(ctx context.Context, p domain.PendingGoal) error {
	return n.send(ctx, webhookPayload{
		Username:  n.username,
		AvatarURL: n.avatarURL,
		Embeds:    []Embed{FallbackEmbed(p, nil)},
	})
}

// NotifyFallbackWithTeam is NotifyFallback with roster branding attached.
func (n *Notifier) NotifyFallbackWithTeam(ctx context.Context, p domain.PendingGoal, team *domain.Team) error {
	return n.send(ctx, webhookPayload{
		Username:  n.username,
		AvatarURL: n.avatarURL,
		Embeds:    []Embed{FallbackEmbed(p, team)},
	})
}

func (n *Notifier) send(ctx context.Context, payload webhookPayload) error {
	if !n.Enabled() {
		return nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	deliveryID := uuid.NewString()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		n.logger.Warn().Str("delivery_id", deliveryID).Msg("webhook rate limited, dropping delivery")

		return errors.ErrRateLimited
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: webhook status %d", errors.ErrStatusNotOK, resp.StatusCode)
	}

	n.logger.Debug().Str("delivery_id", deliveryID).Msg("webhook delivery sent")

	return nil
}
