package learning

import (
	"context"
	"fmt"
	"strings"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

const (
	similarityWeight   = 0.7
	matchSuccessWeight = 0.3
	matchThreshold     = 0.5
	matchCandidates    = 10
)

// Match is the best stored pattern for a query.
type Match struct {
	Pattern  string
	Category types.Intent
	Score    float64
}

// Matcher finds previously successful patterns similar to a new query.
type Matcher struct {
	patterns PatternRepo
}

// NewMatcher creates a Matcher.
func NewMatcher(patterns PatternRepo) *Matcher {
	return &Matcher{patterns: patterns}
}

// BestMatch scores the scope's most successful patterns against query and returns the best one
// when its score exceeds 0.5.
func (m *Matcher) BestMatch(ctx context.Context, query, platformID, language string) (Match, bool, error) {
	candidates, err := m.patterns.TopPatterns(ctx, platformID, language, matchCandidates)
	if err != nil {
		return Match{}, false, fmt.Errorf("failed to load query patterns: %w", err)
	}
	best, ok := bestMatch(strings.ToLower(strings.TrimSpace(query)), candidates)
	if !ok || best.Score <= matchThreshold {
		return Match{}, false, nil
	}
	return best, true, nil
}

func bestMatch(query string, candidates []types.QueryPattern) (Match, bool) {
	var (
		best  Match
		found bool
	)
	for _, p := range candidates {
		score := similarityWeight*Jaccard(query, p.Pattern) + matchSuccessWeight*p.SuccessRate()
		if !found || score > best.Score {
			best = Match{Pattern: p.Pattern, Category: p.Category, Score: score}
			found = true
		}
	}
	return best, found
}

// Jaccard returns the Jaccard similarity of the whitespace-separated word sets of a and b.
func Jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)

	union := len(setA)
	intersection := 0
	for w := range setB {
		if _, ok := setA[w]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
