package goal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/allybot/goalwatch/internal/core/domain"
	"github.com/allybot/goalwatch/internal/core/errors"
	"github.com/allybot/goalwatch/internal/core/textnorm"
)

const (
	pairSep = "|"
	keySep  = "#"
)

// PairKey joins the two normalized team names in sorted order, so the same
// fixture keys identically whichever side a source lists first.
func PairKey(teamA, teamB string) string {
	pair := []string{teamA, teamB}
	sort.Strings(pair)

	return pair[0] + pairSep + pair[1]
}

// BuildKey derives the canonical identity of a goal event:
//
//	sorted-team-pair # digits-only-score # base-minute
//
// e.g. "liverpool|tottenham#0-2#36". Scorer and scoring side are deliberately
// excluded: sources disagree on both for the same goal. Returns "" when any
// component is missing.
func BuildKey(ev *domain.GoalEvent) string {
	if ev == nil || ev.TeamA == "" || ev.TeamB == "" || ev.Score == "" {
		return ""
	}

	base, ok := textnorm.BaseMinute(ev.Minute)
	if !ok {
		return ""
	}

	return PairKey(ev.TeamA, ev.TeamB) + keySep + ev.Score + keySep + strconv.Itoa(base)
}

// ParseKey splits a canonical key back into its pair, score and minute.
// It splits from the right so separator characters inside the team segment
// cannot shift the fixed-arity tail.
func ParseKey(key string) (pairKey, score string, minute int, err error) {
	i := strings.LastIndex(key, keySep)
	if i < 0 {
		return "", "", 0, fmt.Errorf("parse key %q: %w", key, errors.ErrMalformedKey)
	}

	minute, convErr := strconv.Atoi(key[i+1:])
	if convErr != nil {
		return "", "", 0, fmt.Errorf("parse key minute %q: %w", key, errors.ErrMalformedKey)
	}

	rest := key[:i]

	j := strings.LastIndex(rest, keySep)
	if j < 0 {
		return "", "", 0, fmt.Errorf("parse key %q: %w", key, errors.ErrMalformedKey)
	}

	pairKey, score = rest[:j], rest[j+1:]
	if pairKey == "" || score == "" {
		return "", "", 0, fmt.Errorf("parse key %q: %w", key, errors.ErrMalformedKey)
	}

	return pairKey, score, minute, nil
}
