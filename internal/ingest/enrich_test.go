package ingest

import (
	"strings"
	"testing"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		name  string
		title string
		text  string
		want  string
	}{
		{"sports keywords", "Team beats rivals in championship match", "", "sports"},
		{"finance keywords", "Stock market closes higher", "investment banks rally", "finance"},
		{"music keywords", "New album tops the chart", "", "music"},
		{"no keywords default", "Something happened somewhere", "", "lifestyle"},
		{"case insensitive", "CRICKET FINAL TONIGHT", "", "sports"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := categorize(tc.title, tc.text); got != tc.want {
				t.Errorf("categorize(%q, %q) = %q, want %q", tc.title, tc.text, got, tc.want)
			}
		})
	}
}

func TestCategorizeTieBreaksByOrder(t *testing.T) {
	// One sports keyword and one finance keyword: sports comes first in the
	// category order, so it must win every time.
	for i := 0; i < 10; i++ {
		if got := categorize("team money", ""); got != "sports" {
			t.Fatalf("tie resolved to %q, want sports", got)
		}
	}
}

func TestEnsureSummaryReusesGoodDescription(t *testing.T) {
	desc := strings.Repeat("A solid feed description. ", 4) // ~100 chars
	got := ensureSummary("title", desc, "content body", "ABC")
	if !strings.HasPrefix(got, "A solid feed description.") {
		t.Errorf("usable description must be reused, got %q", got)
	}
	if len(got) > 300 {
		t.Errorf("reused description capped at 300 chars, got %d", len(got))
	}
}

func TestEnsureSummaryExtractsFromContent(t *testing.T) {
	content := "First sentence here. Second sentence follows. Third one. Fourth one. Fifth."
	got := ensureSummary("title", "", content, "ABC")
	if got != "First sentence here. Second sentence follows." {
		t.Errorf("summary = %q, want the first two sentences", got)
	}
}

func TestEnsureSummaryFallsBackToTitle(t *testing.T) {
	got := ensureSummary("Big headline", "", "", "ABC News")
	if got != "Big headline - ABC News" {
		t.Errorf("summary = %q, want title-source fallback", got)
	}
}

func TestEnsureSummaryShortDescriptionFallsThrough(t *testing.T) {
	// A too-short description is not reused as-is.
	got := ensureSummary("Headline", "tiny", "", "SBS")
	if got != "Headline - SBS" {
		t.Errorf("summary = %q, want fallback for a tiny description", got)
	}
}

func TestTruncateRuneSafe(t *testing.T) {
	s := strings.Repeat("é", 10)
	got := truncate(s, 5)
	if got != strings.Repeat("é", 5) {
		t.Errorf("truncate must cut on rune boundaries, got %q", got)
	}
	if truncate("short", 100) != "short" {
		t.Errorf("strings under the cap pass through")
	}
}
