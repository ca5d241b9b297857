package report

import (
	"strings"
	"testing"
	"time"

	"newsdesk/internal/model"
)

func TestRender(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	highlights := []model.Highlight{
		{
			Title:         "Breaking major alert",
			Summary:       "Something big happened.",
			Category:      "finance",
			PriorityScore: 110,
			Frequency:     2,
			Sources:       []string{"ABC", "SBS"},
			IsBreaking:    true,
		},
		{
			Title:         "Quiet story",
			Summary:       "Nothing much.",
			Category:      "lifestyle",
			PriorityScore: 10,
			Frequency:     1,
			Sources:       []string{"ABC"},
		},
	}

	out, err := Render("Morning Digest", highlights, now)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	for _, want := range []string{
		"# Morning Digest",
		"2024-05-01 09:30",
		"🔴 Breaking major alert",
		"reported by 2 sources",
		"ABC, SBS",
		"## Quiet story",
		"reported by 1 source)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "🔴 Quiet story") {
		t.Errorf("non-breaking highlight must not carry the breaking marker")
	}
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render("Empty Digest", nil, time.Now())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(out, "# Empty Digest") {
		t.Errorf("header must render without items:\n%s", out)
	}
}
