// Package rag searches the knowledge base and formats matches for reply generation.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/utils"
)

const (
	maxKeywords    = 3
	minKeywordLen  = 3
	previewLength  = 300
	entrySeparator = "\n\n---\n\n"
	defaultLimit   = 3
)

// KnowledgeRepo runs the filtered substring search over persisted knowledge.
type KnowledgeRepo interface {
	Search(ctx context.Context, query types.KnowledgeQuery) ([]types.KnowledgeEntry, error)
}

// Retriever performs keyword retrieval over the knowledge base.
type Retriever struct {
	repo  KnowledgeRepo
	limit int
}

// NewRetriever returns a Retriever that yields at most limit entries per search.
func NewRetriever(repo KnowledgeRepo, limit int) *Retriever {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Retriever{repo: repo, limit: limit}
}

// Search returns a formatted block of the entries relevant to query. The value is empty when
// nothing matches or the search fails; failures are reported through Err and never propagated.
func (r *Retriever) Search(ctx context.Context, query, language, platformID string) types.Enrichment[string] {
	keywords := Keywords(query)
	if len(keywords) == 0 {
		return types.Enrichment[string]{}
	}

	entries, err := r.repo.Search(ctx, types.KnowledgeQuery{
		Keywords:   keywords,
		Language:   language,
		PlatformID: platformID,
		Limit:      r.limit,
	})
	if err != nil {
		slog.Warn("knowledge search failed", "keywords", keywords, "platform_id", platformID, "error", err)
		return types.Enrichment[string]{Err: fmt.Errorf("failed to search knowledge: %w", err)}
	}
	if len(entries) > r.limit {
		entries = entries[:r.limit]
	}
	return types.Enrichment[string]{Value: Format(entries)}
}

// Keywords extracts up to three distinct lower-cased alphabetic tokens longer than two characters.
func Keywords(query string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	keywords := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{}, maxKeywords)
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < minKeywordLen {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// Format renders entries as "**title** (type):\n<preview>" blocks separated by a rule.
func Format(entries []types.KnowledgeEntry) string {
	if len(entries) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, fmt.Sprintf("**%s** (%s):\n%s", e.Title, e.ContentType, Preview(e.Content)))
	}
	return strings.Join(blocks, entrySeparator)
}

// Preview truncates content to 300 characters, marking the cut with "...".
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	return utils.Truncate(content, previewLength) + "..."
}
