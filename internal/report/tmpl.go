// Package report renders highlight sets and run reports as markdown for the
// CLI surface.
package report

import (
	"bytes"
	_ "embed"
	"text/template"
	"time"

	"newsdesk/internal/model"
)

type Item struct {
	Title      string
	Summary    string
	Category   string
	Score      float64
	Frequency  int
	Sources    []string
	IsBreaking bool
}

type Data struct {
	Title    string
	Datetime string
	Items    []Item
}

//go:embed digest.tmpl
var digestTpl string

var compiled = template.Must(template.New("digest").Parse(digestTpl))

// Render produces a markdown digest of the given highlights.
func Render(title string, highlights []model.Highlight, now time.Time) (string, error) {
	data := Data{
		Title:    title,
		Datetime: now.UTC().Format("2006-01-02 15:04"),
		Items:    make([]Item, 0, len(highlights)),
	}
	for _, h := range highlights {
		data.Items = append(data.Items, Item{
			Title:      h.Title,
			Summary:    h.Summary,
			Category:   h.Category,
			Score:      h.PriorityScore,
			Frequency:  h.Frequency,
			Sources:    h.Sources,
			IsBreaking: h.IsBreaking,
		})
	}

	var buf bytes.Buffer
	if err := compiled.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
