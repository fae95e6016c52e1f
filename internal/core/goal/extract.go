// Package goal extracts structured goal events from post titles and builds
// the canonical identity key two sources must agree on.
package goal

import (
	"regexp"
	"strings"

	"github.com/allybot/goalwatch/internal/core/domain"
	"github.com/allybot/goalwatch/internal/core/textnorm"
)

var (
	// scoreRe matches the bracket-marked score after a goal, in either
	// orientation: "2 - [5]" or "[5] - 2".
	scoreRe = regexp.MustCompile(`(\d+)\s*-\s*\[(\d+)\]|\[(\d+)\]\s*-\s*(\d+)`)

	// minuteRe matches the minute marker, with optional injury time: "45+2'".
	minuteRe = regexp.MustCompile(`(\d{1,3}(?:\+\d{1,2})?)\s*'`)

	// scorerRe captures the hyphen-delimited segment before the minute marker.
	scorerRe = regexp.MustCompile(`-\s*([^-]+?)\s*\d{1,3}(?:\+\d{1,2})?\s*'`)

	// teamAfterRe captures the second team, up to the next hyphen.
	teamAfterRe = regexp.MustCompile(`^\s*([^-]+?)\s*-`)

	digitsRe = regexp.MustCompile(`\d+`)
)

// Extract parses a post title into a GoalEvent. It returns nil unless the
// title carries BOTH a bracket-marked score and a minute marker; everything
// else (match threads, highlights, half-time scores) is not a goal sighting.
//
// Example accepted title:
//
//	Liverpool 0 - [2] Tottenham - Heung-min Son 36'
func Extract(title string) *domain.GoalEvent {
	scoreLoc := scoreRe.FindStringSubmatchIndex(title)
	minute := minuteRe.FindStringSubmatch(title)

	if scoreLoc == nil || minute == nil {
		return nil
	}

	left := title[:scoreLoc[0]]
	right := title[scoreLoc[1]:]

	rawA := strings.TrimSpace(left)
	rawB, scorer := splitAfterScore(right)

	ev := &domain.GoalEvent{
		TeamA:    textnorm.TeamName(rawA),
		TeamB:    textnorm.TeamName(rawB),
		RawTeamA: rawA,
		RawTeamB: rawB,
		Score:    canonicalScore(title[scoreLoc[0]:scoreLoc[1]]),
		Minute:   minute[1],
		Scorer:   textnorm.Player(scorer),
		Side:     scoringSide(title[scoreLoc[0]:scoreLoc[1]]),
	}

	return ev
}

// splitAfterScore separates the post-score segment into the second team and
// the scorer. Titles without a scorer segment still yield the team.
func splitAfterScore(right string) (team, scorer string) {
	if m := teamAfterRe.FindStringSubmatch(right); m != nil {
		team = strings.TrimSpace(m[1])
	} else {
		// No scorer hyphen: the team runs up to the minute marker, if any.
		team = right
		if loc := minuteRe.FindStringIndex(team); loc != nil {
			team = team[:loc[0]]
		}

		return strings.TrimSpace(team), ""
	}

	if m := scorerRe.FindStringSubmatch(right); m != nil {
		scorer = strings.TrimSpace(m[1])
	}

	return team, scorer
}

// canonicalScore reduces a matched score pattern to digits-only "N-M",
// keeping the digits in source order.
func canonicalScore(matched string) string {
	digits := digitsRe.FindAllString(matched, -1)
	if len(digits) != 2 {
		return ""
	}

	return digits[0] + "-" + digits[1]
}

// scoringSide reports which side of the score carried the brackets. A title
// with brackets on both sides or neither is ambiguous.
func scoringSide(matched string) domain.Side {
	open := strings.Index(matched, "[")
	hyphen := strings.Index(matched, "-")

	if open < 0 || hyphen < 0 {
		return domain.SideUnknown
	}

	if open < hyphen {
		return domain.SideLeft
	}

	return domain.SideRight
}
