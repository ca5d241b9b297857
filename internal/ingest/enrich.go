package ingest

import "strings"

// categoryVocab drives keyword categorization for feeds that do not declare
// a category. Order matters for tie-breaking.
var categoryOrder = []string{"sports", "lifestyle", "music", "finance"}

var categoryVocab = map[string][]string{
	"sports": {"sport", "game", "match", "player", "team", "championship",
		"league", "football", "cricket", "rugby", "tennis", "olympics"},
	"lifestyle": {"lifestyle", "health", "wellness", "food", "travel",
		"fashion", "beauty", "home", "garden", "recipe", "diet"},
	"music": {"music", "song", "album", "artist", "concert", "festival",
		"band", "singer", "musician", "chart", "billboard"},
	"finance": {"finance", "business", "economy", "stock", "market",
		"investment", "bank", "money", "financial", "trading", "dollar", "currency"},
}

const defaultCategory = "lifestyle"

// categorize assigns the category whose keywords hit the text most often.
// Zero hits fall back to the default category; ties resolve by the fixed
// category order so the result is reproducible.
func categorize(title, text string) string {
	haystack := strings.ToLower(title + " " + text)

	best := defaultCategory
	bestScore := 0
	for _, cat := range categoryOrder {
		score := 0
		for _, kw := range categoryVocab[cat] {
			if strings.Contains(haystack, kw) {
				score++
			}
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}
	return best
}

// ensureSummary guarantees items carry a usable summary without calling the
// generation provider: a reasonable feed description is trimmed and reused,
// otherwise the first sentences of the content are extracted.
func ensureSummary(title, summary, content, source string) string {
	summary = strings.TrimSpace(summary)
	if len(summary) > 50 && len(summary) < 500 {
		return truncate(summary, 300)
	}
	if summary == "" {
		summary = extractSummary(content)
	}
	if len(summary) < 20 {
		summary = title + " - " + source
	}
	return truncate(summary, 500)
}

func extractSummary(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	sentences := strings.Split(content, ".")
	if len(sentences) > 3 {
		return strings.TrimSpace(strings.Join(sentences[:2], ".")) + "."
	}
	return truncate(content, 200)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
