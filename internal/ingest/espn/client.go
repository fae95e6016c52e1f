// Package espn fetches the day's Premier League scoreboard and maps it into
// MatchSnapshot values the fallback reconciler can consume.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/allybot/goalwatch/internal/core/domain"
	"github.com/allybot/goalwatch/internal/core/errors"
)

// DefaultBaseURL is the public scoreboard endpoint for the English top flight.
const DefaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports/soccer/eng.1/scoreboard"

// Client fetches and decodes the scoreboard.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	l := logger.With().Str("component", "espn").Logger()

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     &l,
	}
}

// Scoreboard wire types, reduced to the fields consumed here.
type scoreboardResponse struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string           `json:"id"`
	Status       scoreboardStatus `json:"status"`
	Competitions []scoreboardComp `json:"competitions"`
}

type scoreboardStatus struct {
	Period int `json:"period"`
	Type   struct {
		Name string `json:"name"`
	} `json:"type"`
}

type scoreboardComp struct {
	Competitors []scoreboardCompetitor `json:"competitors"`
	Details     []scoreboardDetail     `json:"details"`
}

type scoreboardCompetitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     struct {
		DisplayName string `json:"displayName"`
	} `json:"team"`
}

type scoreboardDetail struct {
	Type struct {
		Text string `json:"text"`
	} `json:"type"`
	Clock struct {
		DisplayValue string `json:"displayValue"`
	} `json:"clock"`
	Team struct {
		DisplayName string `json:"displayName"`
	} `json:"team"`
	AthletesInvolved []struct {
		DisplayName string `json:"displayName"`
	} `json:"athletesInvolved"`
}

// FetchToday returns every match on today's scoreboard.
func (c *Client) FetchToday(ctx context.Context) ([]domain.MatchSnapshot, error) {
	url := c.baseURL + "?dates=" + time.Now().UTC().Format("20060102")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create scoreboard request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: scoreboard status %d", errors.ErrStatusNotOK, resp.StatusCode)
	}

	var decoded scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrScoreboardUnavailable, err)
	}

	snapshots := make([]domain.MatchSnapshot, 0, len(decoded.Events))

	for _, event := range decoded.Events {
		snapshot, ok := c.mapEvent(event)
		if !ok {
			continue
		}

		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

func (c *Client) mapEvent(event scoreboardEvent) (domain.MatchSnapshot, bool) {
	if len(event.Competitions) == 0 {
		return domain.MatchSnapshot{}, false
	}

	comp := event.Competitions[0]

	snapshot := domain.MatchSnapshot{
		ID:     event.ID,
		Status: mapStatus(event.Status),
	}

	for _, competitor := range comp.Competitors {
		score, _ := strconv.Atoi(competitor.Score)

		if competitor.HomeAway == "home" {
			snapshot.Home = competitor.Team.DisplayName
			snapshot.HomeScore = score
		} else {
			snapshot.Away = competitor.Team.DisplayName
			snapshot.AwayScore = score
		}
	}

	if snapshot.Home == "" || snapshot.Away == "" {
		c.logger.Debug().Str("event", event.ID).Msg("skipping event without both competitors")
		return domain.MatchSnapshot{}, false
	}

	snapshot.Goals = mapGoals(comp.Details, snapshot.Home)

	return snapshot, true
}

// mapGoals filters the play-by-play details down to scoring plays in match
// order. Own goals are excluded: their titles on the social feed credit the
// wrong side and never reconcile cleanly.
func mapGoals(details []scoreboardDetail, home string) []domain.MatchGoal {
	var goals []domain.MatchGoal

	for _, detail := range details {
		kind := strings.ToLower(detail.Type.Text)
		if !strings.Contains(kind, "goal") || strings.Contains(kind, "own goal") {
			continue
		}

		side := "away"
		if detail.Team.DisplayName == home {
			side = "home"
		}

		scorer := ""
		if len(detail.AthletesInvolved) > 0 {
			scorer = detail.AthletesInvolved[0].DisplayName
		}

		// Stoppage-time clocks carry an inner apostrophe ("90'+2'"), so every
		// apostrophe goes, not just a trailing one.
		goals = append(goals, domain.MatchGoal{
			Minute: strings.TrimSpace(strings.ReplaceAll(detail.Clock.DisplayValue, "'", "")),
			Scorer: scorer,
			Team:   side,
		})
	}

	return goals
}

func mapStatus(status scoreboardStatus) domain.MatchStatus {
	switch status.Type.Name {
	case "STATUS_SCHEDULED":
		return domain.StatusScheduled
	case "STATUS_IN_PROGRESS":
		if status.Period >= 2 {
			return domain.StatusSecondHalf
		}

		return domain.StatusFirstHalf
	case "STATUS_HALFTIME":
		return domain.StatusHalftime
	case "STATUS_FULL_TIME", "STATUS_FINAL":
		return domain.StatusFullTime
	default:
		return domain.StatusUnknown
	}
}
