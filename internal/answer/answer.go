// Package answer orchestrates question answering over ingested news items:
// retrieve relevant items, prompt the generation model under a hard deadline,
// and degrade to templated answers when the model is slow, broken, or absent.
//
// Every question produces a response and one chat-log entry; the only error
// Ask can return is a persistence failure.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdesk/internal/ai"
	"newsdesk/internal/embedding"
	"newsdesk/internal/model"
	"newsdesk/internal/retrieval"
)

const (
	systemPrompt = "You are a helpful news assistant. Answer questions based on the provided news articles. Be concise and informative. If the information isn't in the context, say so."

	// NoInfoAnswer is returned when retrieval finds nothing; the generator is
	// never called in that case.
	NoInfoAnswer = "I don't have enough information to answer that question. Please try asking about recent news highlights."
)

// ItemSource supplies the candidate corpus for a question.
type ItemSource interface {
	RecentItems(ctx context.Context, category string, limit int) ([]model.Item, error)
}

// ChatLogger appends one entry per answered question.
type ChatLogger interface {
	AppendChatLog(ctx context.Context, entry model.ChatLogEntry) error
}

// Response is what every question gets back, regardless of how the answer
// was produced.
type Response struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	ItemIDs []int64  `json:"item_ids"`
}

// Orchestrator wires retrieval, generation, and logging.
type Orchestrator struct {
	Items     ItemSource
	Retriever retrieval.Retriever
	Fallback  retrieval.Retriever // used when the primary retriever loses its embedding provider
	Generator ai.Generator        // may be nil; degrades to the templated answer
	Log       ChatLogger

	Timeout         time.Duration // hard deadline on generation
	MaxTokens       int
	MaxContextItems int // N items embedded into the prompt, capped at 5
	RecentLimit     int // corpus size pulled from storage
	TopK            int
}

// Ask answers a question. The returned error is non-nil only when the
// persistence collaborator fails; every degradation path still yields a
// populated Response.
func (o *Orchestrator) Ask(ctx context.Context, question string) (Response, error) {
	corpus, err := o.Items.RecentItems(ctx, categoryHint(question), o.recentLimit())
	if err != nil {
		return Response{}, fmt.Errorf("load items: %w", err)
	}

	hits, err := o.retrieve(ctx, question, corpus)
	if err != nil {
		return Response{}, err
	}

	var resp Response
	if len(hits) == 0 {
		resp = Response{Answer: NoInfoAnswer, Sources: []string{}, ItemIDs: []int64{}}
	} else {
		resp = o.generate(ctx, question, hits)
	}

	if o.Log != nil {
		entry := model.ChatLogEntry{
			Question:  question,
			Answer:    resp.Answer,
			ItemIDs:   resp.ItemIDs,
			CreatedAt: time.Now().UTC(),
		}
		if err := o.Log.AppendChatLog(ctx, entry); err != nil {
			return resp, fmt.Errorf("append chat log: %w", err)
		}
	}
	return resp, nil
}

func (o *Orchestrator) retrieve(ctx context.Context, question string, corpus []model.Item) ([]model.Item, error) {
	topK := o.TopK
	if topK <= 0 {
		topK = 5
	}
	hits, err := o.Retriever.Rank(ctx, question, corpus, topK)
	if err == nil {
		return hits, nil
	}
	if errors.Is(err, embedding.ErrUnavailable) && o.Fallback != nil {
		slog.Warn("answer: embedding unavailable, using keyword retrieval", "err", err)
		return o.Fallback.Rank(ctx, question, corpus, topK)
	}
	// A retriever without an external provider cannot fail; treat anything
	// else as empty context rather than surfacing an error to the user.
	slog.Error("answer: retrieval error", "err", err)
	return nil, nil
}

// generate runs the model call off the critical path so the deadline can
// produce a fallback answer without waiting on a late result; the late result
// is discarded.
func (o *Orchestrator) generate(ctx context.Context, question string, hits []model.Item) Response {
	resp := Response{
		Sources: distinctSources(hits),
		ItemIDs: itemIDs(hits),
	}

	if o.Generator == nil {
		resp.Answer = templatedAnswer(hits)
		return resp
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	genCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		answer string
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		out, err := o.Generator.Generate(genCtx, systemPrompt, o.userPrompt(question, hits), o.MaxTokens)
		ch <- result{answer: out, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil || strings.TrimSpace(r.answer) == "" {
			slog.Error("answer: generation failed, using templated answer", "err", r.err)
			resp.Answer = templatedAnswer(hits)
			return resp
		}
		resp.Answer = r.answer
		return resp
	case <-genCtx.Done():
		slog.Warn("answer: generation deadline exceeded, using templated answer", "timeout", timeout)
		resp.Answer = templatedAnswer(hits)
		return resp
	}
}

func (o *Orchestrator) userPrompt(question string, hits []model.Item) string {
	n := o.MaxContextItems
	if n <= 0 || n > 5 {
		n = 5
	}
	if n > len(hits) {
		n = len(hits)
	}

	b := &strings.Builder{}
	b.WriteString("Context from recent news articles:\n\n")
	for i := 0; i < n; i++ {
		it := hits[i]
		fmt.Fprintf(b, "Article %d:\nTitle: %s\nSummary: %s\nSource: %s\n\n", i+1, it.Title, it.Summary, it.Source)
	}
	fmt.Fprintf(b, "Question: %s\n\nAnswer based on the context above:", question)
	return b.String()
}

// templatedAnswer concatenates the top two retrieved titles. Used for every
// generation failure mode.
func templatedAnswer(hits []model.Item) string {
	titles := make([]string, 0, 2)
	for i := 0; i < len(hits) && i < 2; i++ {
		titles = append(titles, hits[i].Title)
	}
	return fmt.Sprintf("Based on the recent news, here are some relevant stories: %s.", strings.Join(titles, "; "))
}

// categoryHint maps obvious category words in the question to a stored
// category, narrowing the corpus before retrieval.
func categoryHint(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "sport"):
		return "sports"
	case strings.Contains(q, "finance"), strings.Contains(q, "business"), strings.Contains(q, "economic"):
		return "finance"
	case strings.Contains(q, "music"):
		return "music"
	case strings.Contains(q, "lifestyle"):
		return "lifestyle"
	}
	return ""
}

func (o *Orchestrator) recentLimit() int {
	if o.RecentLimit <= 0 {
		return 20
	}
	return o.RecentLimit
}

func distinctSources(hits []model.Item) []string {
	seen := make(map[string]struct{}, len(hits))
	out := make([]string, 0, len(hits))
	for _, it := range hits {
		if _, ok := seen[it.Source]; ok {
			continue
		}
		seen[it.Source] = struct{}{}
		out = append(out, it.Source)
	}
	return out
}

func itemIDs(hits []model.Item) []int64 {
	ids := make([]int64, len(hits))
	for i, it := range hits {
		ids[i] = it.ID
	}
	return ids
}
