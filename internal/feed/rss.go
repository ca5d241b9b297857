// Package feed pulls raw news items from configured RSS sources.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsdesk/internal/model"
)

// Source supplies raw items for one category. An unreachable source returns
// an error; the pipeline isolates it and continues with the others.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.RawItem, error)
}

// RSSSource fetches and parses one RSS 2.0 feed.
type RSSSource struct {
	name     string
	url      string
	category string
	client   *http.Client
}

func NewRSS(name, url, category string) *RSSSource {
	return &RSSSource{
		name:     name,
		url:      url,
		category: category,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *RSSSource) Name() string { return s.name }

// rssDoc mirrors the subset of RSS 2.0 fields we care about.
type rssDoc struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Content     string `xml:"encoded"` // content:encoded
	Author      string `xml:"author"`
	Creator     string `xml:"creator"` // dc:creator
	PubDate     string `xml:"pubDate"`
}

// Fetch downloads the feed and converts its entries to RawItems. Description
// HTML is stripped to plain text.
func (s *RSSSource) Fetch(ctx context.Context) ([]model.RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "newsdesk/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", s.name, resp.StatusCode)
	}

	var doc rssDoc
	dec := xml.NewDecoder(resp.Body)
	dec.Strict = false
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.name, err)
	}

	items := make([]model.RawItem, 0, len(doc.Channel.Items))
	for _, entry := range doc.Channel.Items {
		link := strings.TrimSpace(entry.Link)
		if link == "" {
			continue
		}
		author := strings.TrimSpace(entry.Creator)
		if author == "" {
			author = strings.TrimSpace(entry.Author)
		}
		items = append(items, model.RawItem{
			Title:       strings.TrimSpace(entry.Title),
			Summary:     stripHTML(entry.Description),
			Content:     stripHTML(entry.Content),
			Author:      author,
			Source:      s.name,
			Link:        link,
			Category:    s.category,
			PublishedAt: parsePubDate(entry.PubDate),
		})
	}
	return items, nil
}

// stripHTML reduces feed HTML fragments to readable text.
func stripHTML(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || !strings.Contains(fragment, "<") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
