package goal

import (
	"errors"
	"testing"

	coreerrors "github.com/allybot/goalwatch/internal/core/errors"
)

func TestBuildKeyParaphrases(t *testing.T) {
	// The same goal phrased three different ways must key identically.
	titles := []string{
		"Liverpool 0 - [2] Tottenham - Heung-min Son 36'",
		"Liverpool 0 - [2] Tottenham Hotspur - Son 36'",
		"Liverpool 0 - [2] Spurs - H. Son 36'",
	}

	want := "liverpool|tottenham#0-2#36"

	for _, title := range titles {
		ev := Extract(title)
		if ev == nil {
			t.Fatalf("Extract(%q) = nil", title)
		}

		if got := BuildKey(ev); got != want {
			t.Errorf("BuildKey(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestBuildKeySortsTeamPair(t *testing.T) {
	a := Extract("Tottenham [2] - 0 Liverpool - Son 36'")
	b := Extract("Liverpool 0 - [2] Tottenham - Son 36'")

	if a == nil || b == nil {
		t.Fatal("expected events")
	}

	// Same pair segment either way round; the score keeps source order.
	pairA, _, _, err := ParseKey(BuildKey(a))
	if err != nil {
		t.Fatal(err)
	}

	pairB, _, _, err := ParseKey(BuildKey(b))
	if err != nil {
		t.Fatal(err)
	}

	if pairA != pairB {
		t.Errorf("pair segments differ: %q vs %q", pairA, pairB)
	}
}

func TestBuildKeyInjuryTimeUsesBaseMinute(t *testing.T) {
	ev := Extract("Arsenal [3] - 1 Fulham - Saka 90+4'")
	if ev == nil {
		t.Fatal("expected event")
	}

	_, _, minute, err := ParseKey(BuildKey(ev))
	if err != nil {
		t.Fatal(err)
	}

	if minute != 90 {
		t.Errorf("minute = %d, want 90", minute)
	}
}

func TestBracketsAffectOnlyTheSideHint(t *testing.T) {
	left := Extract("Arsenal [1] - 0 Chelsea - Saka 23'")
	right := Extract("Arsenal 1 - [0] Chelsea - Jackson 23'")

	if left == nil || right == nil {
		t.Fatal("expected events")
	}

	if BuildKey(left) != BuildKey(right) {
		t.Errorf("keys differ: %q vs %q", BuildKey(left), BuildKey(right))
	}

	if left.Side == right.Side {
		t.Error("side hints should differ")
	}
}

func TestBuildKeyDifferentMinutesDiffer(t *testing.T) {
	a := BuildKey(Extract("Arsenal [1] - 0 Chelsea - Saka 36'"))
	b := BuildKey(Extract("Arsenal [1] - 0 Chelsea - Saka 41'"))

	if a == "" || b == "" {
		t.Fatal("expected keys")
	}

	if a == b {
		t.Errorf("keys should differ: %q", a)
	}
}

func TestBuildKeyMissingComponents(t *testing.T) {
	if got := BuildKey(nil); got != "" {
		t.Errorf("BuildKey(nil) = %q", got)
	}

	ev := Extract("Liverpool 0 - [2] Tottenham - Son 36'")
	ev.TeamB = ""

	if got := BuildKey(ev); got != "" {
		t.Errorf("BuildKey without teamB = %q", got)
	}
}

func TestParseKey(t *testing.T) {
	pair, score, minute, err := ParseKey("liverpool|tottenham#0-2#36")
	if err != nil {
		t.Fatal(err)
	}

	if pair != "liverpool|tottenham" || score != "0-2" || minute != 36 {
		t.Errorf("got (%q, %q, %d)", pair, score, minute)
	}
}

func TestParseKeyMalformed(t *testing.T) {
	for _, key := range []string{"", "nosep", "a#b", "pair#score#notanumber"} {
		if _, _, _, err := ParseKey(key); !errors.Is(err, coreerrors.ErrMalformedKey) {
			t.Errorf("ParseKey(%q) err = %v, want ErrMalformedKey", key, err)
		}
	}
}

func TestPairKey(t *testing.T) {
	if PairKey("tottenham", "liverpool") != PairKey("liverpool", "tottenham") {
		t.Error("pair key should be order independent")
	}
}
