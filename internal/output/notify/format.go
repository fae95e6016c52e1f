package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/allybot/goalwatch/internal/core/domain"
)

// defaultColor is used when no roster team is attached to a notification.
const defaultColor = 0x2ECC71

// GoalEmbed builds the embed for a primary-source goal sighting. The title is
// the post title verbatim: it already reads like a scoreline and fans trust
// the phrasing they know.
func GoalEmbed(ev *domain.GoalEvent, team *domain.Team, post domain.Post) Embed {
	embed := Embed{
		Title:     post.Title,
		URL:       post.URL,
		Color:     defaultColor,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if team != nil {
		embed.Color = team.Color
		embed.Thumbnail = &Thumbnail{URL: team.Crest}
	}

	var lines []string

	if ev != nil && ev.Scorer != "" {
		lines = append(lines, fmt.Sprintf("Scorer: %s", titleCase(ev.Scorer)))
	}

	if ev != nil && ev.Minute != "" {
		lines = append(lines, fmt.Sprintf("Minute: %s'", ev.Minute))
	}

	if post.Permalink != "" && post.Permalink != post.URL {
		lines = append(lines, fmt.Sprintf("[Discussion](%s)", post.Permalink))
	}

	embed.Description = strings.Join(lines, "\n")

	return embed
}

// FallbackEmbed builds the embed for a scoreboard-derived goal.
func FallbackEmbed(p domain.PendingGoal, team *domain.Team) Embed {
	embed := Embed{
		Title:     fmt.Sprintf("GOAL: %s %d - %d %s", p.Home, p.HomeScore, p.AwayScore, p.Away),
		Color:     defaultColor,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if team != nil {
		embed.Color = team.Color
		embed.Thumbnail = &Thumbnail{URL: team.Crest}
	}

	var lines []string

	if p.Scorer != "" {
		lines = append(lines, fmt.Sprintf("Scorer: %s", titleCase(p.Scorer)))
	}

	if p.Minute > 0 {
		lines = append(lines, fmt.Sprintf("Minute: %d'", p.Minute))
	}

	embed.Description = strings.Join(lines, "\n")

	return embed
}

// titleCase uppercases the first letter of a normalized lowercase name.
func titleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
