// Package textnorm canonicalizes free-text player and team names so that
// differently phrased sightings of the same goal compare equal.
package textnorm

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// surnamePrefixes are particles that belong to a multi-word surname.
// When one is found, the surname starts there and runs to the end.
var surnamePrefixes = map[string]bool{
	"van": true,
	"de":  true,
	"den": true,
	"der": true,
	"dos": true,
	"el":  true,
	"al":  true,
}

// teamAliases maps known variants to a canonical root. Lookup runs before any
// suffix stripping so "manchester united" and "manchester city" stay distinct.
var teamAliases = map[string]string{
	"arsenal": "arsenal",
	"gunners": "arsenal",

	"aston villa": "aston villa",
	"villa":       "aston villa",
	"avfc":        "aston villa",

	"bournemouth":     "bournemouth",
	"afc bournemouth": "bournemouth",
	"cherries":        "bournemouth",

	"brentford": "brentford",
	"bees":      "brentford",

	"brighton":                  "brighton",
	"brighton & hove albion":    "brighton",
	"brighton and hove albion":  "brighton",
	"brighton hove albion":      "brighton",
	"seagulls":                  "brighton",

	"chelsea": "chelsea",
	"cfc":     "chelsea",

	"crystal palace": "crystal palace",
	"palace":         "crystal palace",
	"cpfc":           "crystal palace",
	"eagles":         "crystal palace",

	"everton": "everton",
	"toffees": "everton",
	"efc":     "everton",

	"fulham":    "fulham",
	"cottagers": "fulham",
	"ffc":       "fulham",

	"liverpool": "liverpool",
	"lfc":       "liverpool",

	"manchester city": "manchester city",
	"man city":        "manchester city",
	"mcfc":            "manchester city",

	"manchester united": "manchester united",
	"manchester utd":    "manchester united",
	"man united":        "manchester united",
	"man utd":           "manchester united",
	"mufc":              "manchester united",

	"newcastle":        "newcastle",
	"newcastle united": "newcastle",
	"newcastle utd":    "newcastle",
	"nufc":             "newcastle",
	"magpies":          "newcastle",

	"nottingham forest": "nottingham forest",
	"forest":            "nottingham forest",
	"nffc":              "nottingham forest",

	"tottenham":         "tottenham",
	"tottenham hotspur": "tottenham",
	"spurs":             "tottenham",
	"thfc":              "tottenham",

	"west ham":        "west ham",
	"west ham united": "west ham",
	"hammers":         "west ham",
	"whufc":           "west ham",

	"wolves":                  "wolves",
	"wolverhampton":           "wolves",
	"wolverhampton wanderers": "wolves",
	"wwfc":                    "wolves",
}

var (
	suffixRe     = regexp.MustCompile(`\s+(fc|football club|united|utd|hotspur|wanderers|albion|city|&|and)$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	minuteBaseRe = regexp.MustCompile(`^(\d{1,3})(?:\+\d{1,2})?$`)
)

// StripDiacritics decomposes the string and drops combining marks, so
// "Ødegaard" and "Odegaard" normalize the same way. The Scandinavian
// ø/Ø does not decompose and is mapped explicitly.
func StripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)

	var b strings.Builder

	b.Grow(len(decomposed))

	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}

		switch r {
		case 'ø':
			b.WriteRune('o')
		case 'Ø':
			b.WriteRune('O')
		case 'ł':
			b.WriteRune('l')
		case 'Ł':
			b.WriteRune('L')
		case 'ð':
			b.WriteRune('d')
		case 'þ':
			b.WriteString("th")
		case 'æ':
			b.WriteString("ae")
		case 'ß':
			b.WriteString("ss")
		default:
			b.WriteRune(r)
		}
	}

	return norm.NFC.String(b.String())
}

// Player reduces a scorer string to a lowercase, space-free surname so
// "G. Jesus", "Gabriel Jesus" and "Jesus" all compare equal. Multi-word
// surnames keep their particle: "Virgil van Dijk" becomes "vandijk".
func Player(raw string) string {
	s := strings.ToLower(StripDiacritics(strings.TrimSpace(raw)))
	if s == "" {
		return ""
	}

	// "g. jesus" -> "jesus"
	if idx := strings.Index(s, ". "); idx >= 0 {
		s = s[idx+2:]
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case '.', '\'', '’', '-':
			return -1
		}

		return r
	}, s)

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	surname := fields[len(fields)-1]

	for i, f := range fields {
		if surnamePrefixes[f] && i < len(fields)-1 {
			surname = strings.Join(fields[i:], "")
			break
		}
	}

	return surname
}

// TeamName reduces a team string to its canonical lowercase root. The alias
// table is consulted before any stripping; unknown names fall back to
// leading-article and club-suffix removal.
func TeamName(raw string) string {
	s := strings.ToLower(StripDiacritics(strings.TrimSpace(raw)))
	s = whitespaceRe.ReplaceAllString(s, " ")

	if s == "" {
		return ""
	}

	if canonical, ok := teamAliases[s]; ok {
		return canonical
	}

	s = strings.TrimPrefix(s, "the ")
	if canonical, ok := teamAliases[s]; ok {
		return canonical
	}

	for {
		stripped := suffixRe.ReplaceAllString(s, "")
		if stripped == s {
			break
		}

		s = stripped
		if canonical, ok := teamAliases[s]; ok {
			return canonical
		}
	}

	return s
}

// BaseMinute parses the integer base of a minute string, discarding any
// injury-time addition: "45+2" yields 45.
func BaseMinute(minute string) (int, bool) {
	m := minuteBaseRe.FindStringSubmatch(strings.TrimSpace(minute))
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}

	return n, true
}
