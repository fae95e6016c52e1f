// Package app wires goalwatch's components together and drives the polling
// loop.
package app

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/allybot/goalwatch/internal/core/domain"
	"github.com/allybot/goalwatch/internal/core/goal"
	"github.com/allybot/goalwatch/internal/core/teams"
	"github.com/allybot/goalwatch/internal/core/textnorm"
	"github.com/allybot/goalwatch/internal/ingest/espn"
	"github.com/allybot/goalwatch/internal/ingest/reddit"
	"github.com/allybot/goalwatch/internal/output/notify"
	"github.com/allybot/goalwatch/internal/platform/config"
	"github.com/allybot/goalwatch/internal/platform/observability"
	"github.com/allybot/goalwatch/internal/platform/worker"
	"github.com/allybot/goalwatch/internal/process/dedup"
	"github.com/allybot/goalwatch/internal/process/fallback"
	"github.com/allybot/goalwatch/internal/storage"
	"github.com/allybot/goalwatch/internal/videolink"
)

// App owns the wired component graph.
type App struct {
	cfg    *config.Config
	db     *storage.DB
	logger *zerolog.Logger

	resolver   *teams.Resolver
	arbiter    *dedup.Arbiter
	reconciler *fallback.Reconciler
	feed       *reddit.Feed
	scoreboard *espn.Client
	video      *videolink.Resolver
	notifier   *notify.Notifier

	excludedTerms []*regexp.Regexp
}

func New(cfg *config.Config, database *storage.DB, logger *zerolog.Logger) *App {
	a := &App{
		cfg:      cfg,
		db:       database,
		logger:   logger,
		resolver: teams.NewResolver(),
		feed:     reddit.NewFeed(cfg.FeedURL, cfg.FeedUserAgent, cfg.PostMaxAge, cfg.FeedTimeout, logger),
		scoreboard: espn.NewClient(
			cfg.ScoreboardURL, cfg.ScoreboardTimeout, logger,
		),
		video:    videolink.NewResolver(cfg.VideoTimeout, cfg.VideoRPS, logger),
		notifier: notify.NewNotifier(cfg.WebhookURL, cfg.WebhookUsername, cfg.WebhookAvatarURL, cfg.WebhookTimeout, cfg.WebhookRPS, logger),
	}

	a.arbiter = dedup.New(database, cfg.DedupWindow, logger)
	a.reconciler = fallback.New(database, &fallbackNotifier{app: a}, cfg.FallbackGrace, logger)

	for _, term := range cfg.ExcludedTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		a.excludedTerms = append(a.excludedTerms, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(term)+`\b`))
	}

	return a
}

// StartHealthServer serves healthz/readyz/metrics until the context ends.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.db, a.cfg.HealthPort, a.logger).Start(ctx)
}

// Run drives all periodic tasks on one cooperative loop. With once set, each
// task runs a single time and the process exits.
func (a *App) Run(ctx context.Context, once bool) error {
	tasks := []worker.Task{
		{Name: "poll-feed", Interval: a.cfg.FeedInterval, Run: a.pollFeed},
		{Name: "poll-scoreboard", Interval: a.cfg.ScoreboardInterval, Run: a.pollScoreboard},
		{Name: "reconcile", Interval: a.cfg.ReconcileInterval, Run: a.reconcile},
		{Name: "gc", Interval: a.cfg.GCInterval, Run: a.gc},
	}

	if once {
		return worker.RunAll(ctx, tasks, a.logger)
	}

	return worker.Loop(ctx, worker.Config{
		Name:   "goalwatch",
		Tasks:  tasks,
		Logger: a.logger,
	})
}

// pollFeed fetches recent posts and runs each through the detection pipeline.
// One bad post never aborts the batch.
func (a *App) pollFeed(ctx context.Context) error {
	started := time.Now()

	posts, err := a.feed.FetchRecent(ctx)
	if err != nil {
		return err
	}

	observability.FeedFetchDuration.WithLabelValues("reddit").Observe(time.Since(started).Seconds())

	for _, post := range posts {
		if err := a.processPost(ctx, post); err != nil {
			a.logger.Error().Err(err).Str("url", post.Permalink).Msg("failed to process post")
		}
	}

	return nil
}

func (a *App) processPost(ctx context.Context, post domain.Post) error {
	observability.PostsScanned.Inc()

	if a.hasExcludedTerm(post.Title) {
		return nil
	}

	team := a.resolver.Resolve(post.Title)
	if team == nil {
		return nil
	}

	// Goal clips are always outbound links to a known clip host; anything
	// else under a matching title is commentary, not a sighting.
	if !videolink.Supported(post.URL) {
		return nil
	}

	ev := goal.Extract(post.Title)
	if ev == nil {
		return nil
	}

	observability.GoalsDetected.WithLabelValues("primary").Inc()

	processed, err := a.db.IsProcessed(ctx, post)
	if err != nil {
		return err
	}

	if processed {
		return nil
	}

	key := goal.BuildKey(ev)
	if key == "" {
		// Goal-shaped but unkeyable: notify best-effort, deduped only by the
		// processed-post marker.
		a.logger.Warn().Str("title", post.Title).Msg("goal post without a usable key")
		a.deliverGoal(ctx, ev, team, post)

		return a.markProcessed(ctx, post)
	}

	now := time.Now()

	duplicate, matchedKey, err := a.arbiter.IsDuplicate(ctx, ev, now)
	if err != nil {
		return err
	}

	if duplicate {
		observability.DuplicatesDropped.WithLabelValues("minute_tolerance").Inc()
		a.logger.Info().Str("key", key).Str("matched", matchedKey).Msg("dropping duplicate sighting")

		return a.markProcessed(ctx, post)
	}

	inserted, err := a.arbiter.Accept(ctx, ev, post.Permalink, domain.OriginPrimary, now)
	if err != nil {
		return err
	}

	if !inserted {
		observability.DuplicatesDropped.WithLabelValues("insert_race").Inc()

		return a.markProcessed(ctx, post)
	}

	a.deliverGoal(ctx, ev, team, post)

	return a.markProcessed(ctx, post)
}

func (a *App) markProcessed(ctx context.Context, post domain.Post) error {
	_, err := a.db.MarkProcessed(ctx, post, time.Now())

	return err
}

// deliverGoal sends the embed and kicks off clip resolution in the
// background. Acceptance already happened; delivery failures are logged and
// never retried.
func (a *App) deliverGoal(ctx context.Context, ev *domain.GoalEvent, team *domain.Team, post domain.Post) {
	branding := a.scoringTeam(ev, team)

	if err := a.notifier.NotifyGoal(ctx, ev, branding, post); err != nil {
		observability.NotificationsSent.WithLabelValues("primary", "error").Inc()
		a.logger.Error().Err(err).Str("url", post.Permalink).Msg("goal notification failed")

		return
	}

	observability.NotificationsSent.WithLabelValues("primary", "ok").Inc()

	if videolink.Supported(post.URL) {
		go a.deliverClip(ctx, post.URL)
	}
}

func (a *App) deliverClip(ctx context.Context, pageURL string) {
	defer worker.RecoverPanic(a.logger, "deliver clip")

	mp4, err := a.video.ResolveWithRetry(ctx, pageURL, a.cfg.VideoRetries, a.cfg.VideoRetryDelay)
	if err != nil {
		observability.VideosResolved.WithLabelValues("miss").Inc()
		a.logger.Info().Err(err).Str("url", pageURL).Msg("clip did not resolve")

		return
	}

	observability.VideosResolved.WithLabelValues("ok").Inc()

	if err := a.notifier.NotifyClip(ctx, mp4); err != nil {
		a.logger.Error().Err(err).Str("mp4", mp4).Msg("clip notification failed")
	}
}

// scoringTeam prefers the side the brackets point at for embed branding and
// falls back to whichever roster team the title mentioned.
func (a *App) scoringTeam(ev *domain.GoalEvent, fallbackTeam *domain.Team) *domain.Team {
	var raw string

	switch ev.Side {
	case domain.SideLeft:
		raw = ev.RawTeamA
	case domain.SideRight:
		raw = ev.RawTeamB
	default:
		return fallbackTeam
	}

	if team := a.resolver.Resolve(raw); team != nil {
		return team
	}

	return fallbackTeam
}

func (a *App) pollScoreboard(ctx context.Context) error {
	started := time.Now()

	matches, err := a.scoreboard.FetchToday(ctx)
	if err != nil {
		return err
	}

	observability.FeedFetchDuration.WithLabelValues("scoreboard").Observe(time.Since(started).Seconds())

	now := time.Now()

	for _, match := range matches {
		if err := a.reconciler.Observe(ctx, match, now); err != nil {
			a.logger.Error().Err(err).Str("match", match.ID).Msg("failed to observe match")
		}
	}

	return nil
}

func (a *App) reconcile(ctx context.Context) error {
	if err := a.reconciler.Reconcile(ctx, time.Now()); err != nil {
		return err
	}

	pending, err := a.db.CountPending(ctx)
	if err != nil {
		return err
	}

	observability.PendingGoals.Set(float64(pending))

	return nil
}

// gc trims rows past the retention horizon. Retention is independent of the
// dedup window: stale rows stop influencing arbitration long before they are
// deleted.
func (a *App) gc(ctx context.Context) error {
	cutoff := time.Now().Add(-a.cfg.Retention)

	accepted, err := a.db.DeleteAcceptedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	pending, err := a.db.DeletePendingBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	processed, err := a.db.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if accepted+pending+processed > 0 {
		a.logger.Info().
			Int64("accepted", accepted).
			Int64("pending", pending).
			Int64("processed", processed).
			Msg("retention gc removed rows")
	}

	return nil
}

func (a *App) hasExcludedTerm(title string) bool {
	for _, re := range a.excludedTerms {
		if re.MatchString(title) {
			return true
		}
	}

	return false
}

// fallbackNotifier adapts the webhook notifier to the reconciler, attaching
// roster branding for the scoring side.
type fallbackNotifier struct {
	app *App
}

func (f *fallbackNotifier) NotifyFallback(ctx context.Context, p domain.PendingGoal) error {
	name := p.Home
	if p.ScoringSide == "away" {
		name = p.Away
	}

	team := f.app.resolver.ByCanonical(textnorm.TeamName(name))

	err := f.app.notifier.NotifyFallbackWithTeam(ctx, p, team)
	if err != nil {
		observability.NotificationsSent.WithLabelValues("fallback", "error").Inc()

		return err
	}

	observability.NotificationsSent.WithLabelValues("fallback", "ok").Inc()

	return nil
}
