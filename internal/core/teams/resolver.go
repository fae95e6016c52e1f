// Package teams resolves free-text mentions of watched clubs against a fixed
// roster with aliases, and maps canonical roots back to roster entries for
// notification branding.
package teams

import (
	"regexp"
	"strings"

	"github.com/allybot/goalwatch/internal/core/domain"
	"github.com/allybot/goalwatch/internal/core/textnorm"
)

// shortAliasLen is the length at or below which an alias is too common a word
// to trust on its own when more than one club is mentioned.
const shortAliasLen = 6

type pattern struct {
	team     *domain.Team
	re       *regexp.Regexp
	fullName bool
	alias    string
}

type match struct {
	team     *domain.Team
	fullName bool
	index    int
	alias    string
}

// Resolver matches roster teams in free text.
type Resolver struct {
	patterns    []pattern
	byCanonical map[string]*domain.Team
}

// NewResolver compiles word-boundary patterns for every roster name and alias.
func NewResolver() *Resolver {
	roster := make([]domain.Team, len(Roster))
	copy(roster, Roster)

	r := &Resolver{byCanonical: make(map[string]*domain.Team, len(roster))}

	for i := range roster {
		team := &roster[i]
		r.byCanonical[textnorm.TeamName(team.Name)] = team

		names := append([]string{strings.ToLower(team.Name)}, team.Aliases...)
		for j, name := range names {
			r.patterns = append(r.patterns, pattern{
				team:     team,
				re:       regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`),
				fullName: j == 0,
				alias:    name,
			})
		}
	}

	return r
}

// Resolve returns the roster team mentioned in text, or nil.
//
// Full names beat aliases, earlier mentions beat later ones, and an alias of
// six characters or fewer is only trusted when it is the sole club mentioned.
// "Newcastle Jets" is a different club in a different league and never
// resolves to Newcastle United.
func (r *Resolver) Resolve(text string) *domain.Team {
	if text == "" {
		return nil
	}

	lowered := strings.ToLower(textnorm.StripDiacritics(text))
	jets := strings.Contains(lowered, "newcastle jets")

	var (
		matches []match
		seen    = map[*domain.Team]bool{}
	)

	for _, p := range r.patterns {
		if jets && p.team.Name == "Newcastle United" {
			continue
		}

		loc := p.re.FindStringIndex(lowered)
		if loc == nil {
			continue
		}

		matches = append(matches, match{team: p.team, fullName: p.fullName, index: loc[0], alias: p.alias})
		seen[p.team] = true
	}

	if len(matches) == 0 {
		return nil
	}

	if best := earliest(matches, func(m match) bool { return m.fullName }); best != nil {
		return best
	}

	// Alias-only resolution: a single mentioned club is unambiguous whatever
	// the alias; otherwise short aliases are too risky to pick between clubs.
	if len(seen) == 1 {
		return matches[0].team
	}

	return earliest(matches, func(m match) bool { return len(m.alias) > shortAliasLen })
}

// ByCanonical returns the roster team whose normalized name equals root.
func (r *Resolver) ByCanonical(root string) *domain.Team {
	return r.byCanonical[root]
}

func earliest(matches []match, keep func(match) bool) *domain.Team {
	var best *match

	for i := range matches {
		m := &matches[i]
		if !keep(*m) {
			continue
		}

		if best == nil || m.index < best.index {
			best = m
		}
	}

	if best == nil {
		return nil
	}

	return best.team
}
