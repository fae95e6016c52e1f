// Package domain holds the plain data types passed between goalwatch
// components. Types here carry no behavior beyond trivial accessors so that
// every package can depend on them without cycles.
package domain

import "time"

// Team is one roster entry: the display name, the lowercase aliases it is
// known by in post titles, the 24-bit embed color and the crest image URL.
type Team struct {
	Name    string
	Aliases []string
	Color   int
	Crest   string
}

// Post is a single social-feed submission.
type Post struct {
	Title     string
	URL       string // outbound link (usually the clip host)
	Permalink string // discussion page
	CreatedAt time.Time
}

// Side says which half of the title carried the bracketed score.
type Side int

const (
	SideUnknown Side = iota
	SideLeft
	SideRight
)

// GoalEvent is a structured goal extracted from free text or derived from a
// scoreboard snapshot. TeamA/TeamB are normalized; RawTeamA/RawTeamB keep the
// original segments for team-roster resolution and display.
type GoalEvent struct {
	TeamA    string
	TeamB    string
	RawTeamA string
	RawTeamB string
	Score    string // digits-only "N-M" in source order, score after the goal
	Minute   string // as written, e.g. "45+2"
	Scorer   string // normalized surname, may be empty
	Side     Side
}

// Origin records which source produced an accepted notification.
type Origin string

const (
	OriginPrimary  Origin = "primary"
	OriginFallback Origin = "fallback"
)

// AcceptedGoal is a durably recorded goal sighting. Key is the canonical
// identity; PairKey, Score and Minute are denormalized for tolerance queries.
type AcceptedGoal struct {
	Key        string
	PairKey    string
	Score      string
	Minute     int
	AcceptedAt time.Time
	SourceRef  string
	Origin     Origin
}

// PendingGoal is a secondary-source sighting waiting out the grace period.
// The payload snapshot carries everything needed to notify without another
// upstream round trip.
type PendingGoal struct {
	Key         string
	PairKey     string
	Score       string
	Minute      int
	DetectedAt  time.Time
	MatchID     string
	Home        string
	Away        string
	HomeScore   int
	AwayScore   int
	Scorer      string
	ScoringSide string // "home" or "away", may be empty
}

// MatchStatus is the coarse state of a scoreboard match.
type MatchStatus string

const (
	StatusScheduled  MatchStatus = "scheduled"
	StatusFirstHalf  MatchStatus = "first-half"
	StatusHalftime   MatchStatus = "halftime"
	StatusSecondHalf MatchStatus = "second-half"
	StatusFullTime   MatchStatus = "fulltime"
	StatusUnknown    MatchStatus = "unknown"
)

// InPlay reports whether goals may still be scored in this state.
func (s MatchStatus) InPlay() bool {
	return s == StatusFirstHalf || s == StatusHalftime || s == StatusSecondHalf
}

// MatchGoal is one scoring play from the scoreboard feed, in match order.
type MatchGoal struct {
	Minute string
	Scorer string
	Team   string // "home" or "away"
}

// MatchSnapshot is the scoreboard view of one match at poll time.
type MatchSnapshot struct {
	ID        string
	Home      string
	Away      string
	HomeScore int
	AwayScore int
	Status    MatchStatus
	Goals     []MatchGoal
}
