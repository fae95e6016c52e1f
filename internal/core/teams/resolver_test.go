package teams

import "testing"

func TestResolve(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name  string
		title string
		want  string // expected team name, "" for nil
	}{
		{"full name", "Arsenal [2] - 1 Chelsea - Saka 67'", "Arsenal"},
		{"alias", "Spurs are winning the derby", "Tottenham"},
		{"long alias over later club", "Wolverhampton Wanderers 0 - [1] Burnley", "Wolves"},
		{"earliest full name wins", "Liverpool 1 - [2] Everton - Calvert-Lewin 55'", "Liverpool"},
		{"newcastle jets excluded", "Newcastle Jets 2 - 0 Sydney FC", ""},
		{"newcastle proper resolves", "Newcastle United [1] - 0 Everton - Isak 12'", "Newcastle United"},
		{"short alias alone ok", "What a goal from Palace tonight", "Crystal Palace"},
		{"short alias among other clubs rejected", "Villa and palace fans clash", ""},
		{"no partial word match", "Evertonians celebrate", ""},
		{"case insensitive", "CHELSEA score again", "Chelsea"},
		{"unknown club", "Barcelona 3 - [1] Girona", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.title)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("Resolve(%q) = %q, want nil", tt.title, got.Name)
				}

				return
			}

			if got == nil {
				t.Fatalf("Resolve(%q) = nil, want %q", tt.title, tt.want)
			}

			if got.Name != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.title, got.Name, tt.want)
			}
		})
	}
}

func TestResolveShortAliasAmbiguity(t *testing.T) {
	r := NewResolver()

	// A short alias loses to a full name elsewhere in the title.
	got := r.Resolve("Forest fans watching Chelsea tonight")
	if got == nil || got.Name != "Chelsea" {
		t.Fatalf("got %v, want Chelsea", got)
	}
}

func TestByCanonical(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		root string
		want string
	}{
		{"tottenham", "Tottenham"},
		{"manchester united", "Manchester United"},
		{"manchester city", "Manchester City"},
		{"newcastle", "Newcastle United"},
		{"wolves", "Wolves"},
		{"nowhere", ""},
	}

	for _, tt := range tests {
		got := r.ByCanonical(tt.root)
		if tt.want == "" {
			if got != nil {
				t.Errorf("ByCanonical(%q) = %q, want nil", tt.root, got.Name)
			}

			continue
		}

		if got == nil || got.Name != tt.want {
			t.Errorf("ByCanonical(%q) = %v, want %q", tt.root, got, tt.want)
		}
	}
}
