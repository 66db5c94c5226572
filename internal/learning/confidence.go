package learning

import "github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"

const (
	ratingWeight  = 0.7
	usageWeight   = 0.3
	usageSaturate = 5
)

// ComputeConfidence scores an insight in [0,1] from the rating that produced it and the updated
// statistics of its query pattern. The weighted rating and usage score is scaled by the pattern's
// success rate; a pattern with no uses leaves the score unscaled.
//
// With the default 0.7 threshold a 5-star rating qualifies on its own, while a 4-star rating needs
// a pattern that has been answered helpfully at least three times.
func ComputeConfidence(rating int, pattern types.QueryPattern) float64 {
	score := ratingWeight * float64(clampInt(rating, 0, 5)) / 5

	uses := clampInt(pattern.TotalUses, 0, usageSaturate)
	score += usageWeight * float64(uses) / usageSaturate

	if pattern.TotalUses > 0 {
		score *= pattern.SuccessRate()
	}
	return clamp(score, 0, 1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
