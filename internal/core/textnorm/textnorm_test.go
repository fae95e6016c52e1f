package textnorm

import "testing"

func TestPlayer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain surname", "Saka", "saka"},
		{"full name", "Bukayo Saka", "saka"},
		{"abbreviated first name", "G. Jesus", "jesus"},
		{"diacritics", "Martin Ødegaard", "odegaard"},
		{"accented", "Darwin Núñez", "nunez"},
		{"particle surname", "Virgil van Dijk", "vandijk"},
		{"abbreviated particle surname", "V. van Dijk", "vandijk"},
		{"double particle", "Denzel van der Sar", "vandersar"},
		{"hyphenated", "Emerson Palmieri-Santos", "palmierisantos"},
		{"apostrophe", "Amad N'Diaye", "ndiaye"},
		{"multi word no particle", "Alexis Mac Allister", "allister"},
		{"abbreviated multi word", "A. Mac Allister", "allister"},
		{"uppercase", "HAALAND", "haaland"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Player(tt.in); got != tt.want {
				t.Errorf("Player(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTeamName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"canonical", "Liverpool", "liverpool"},
		{"suffix fc", "Liverpool FC", "liverpool"},
		{"alias nickname", "Spurs", "tottenham"},
		{"full hotspur", "Tottenham Hotspur", "tottenham"},
		{"leading article", "The Gunners", "arsenal"},
		{"man united stays united", "Manchester United", "manchester united"},
		{"man utd alias", "Man Utd", "manchester united"},
		{"man city stays city", "Manchester City", "manchester city"},
		{"brighton long form", "Brighton & Hove Albion", "brighton"},
		{"wolves long form", "Wolverhampton Wanderers", "wolves"},
		{"newcastle united", "Newcastle United", "newcastle"},
		{"west ham united", "West Ham United", "west ham"},
		{"unknown with suffix", "Leeds United", "leeds"},
		{"unknown multi suffix", "Leicester City FC", "leicester"},
		{"unknown untouched", "Real Madrid", "real madrid"},
		{"extra whitespace", "  Crystal   Palace  ", "crystal palace"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TeamName(tt.in); got != tt.want {
				t.Errorf("TeamName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBaseMinute(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"36", 36, true},
		{"45+2", 45, true},
		{"90+11", 90, true},
		{" 7 ", 7, true},
		{"", 0, false},
		{"abc", 0, false},
		{"45+", 0, false},
		{"+2", 0, false},
	}

	for _, tt := range tests {
		got, ok := BaseMinute(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("BaseMinute(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ødegaard", "Odegaard"},
		{"Núñez", "Nunez"},
		{"Szoboszlai", "Szoboszlai"},
		{"Kudus Mohammed", "Kudus Mohammed"},
		{"Müller", "Muller"},
	}

	for _, tt := range tests {
		if got := StripDiacritics(tt.in); got != tt.want {
			t.Errorf("StripDiacritics(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
