package classifier

import (
	"math"

	"github.com/costwise/costwise/internal/model"
)

// weightedKeywordScore scores each category by its weighted keyword hits and
// returns the winner with a confidence. Ties favor SERVICE. A text with no
// keyword hits yields SERVICE at 0.5.
func weightedKeywordScore(text string) (model.Category, float64) {
	best := model.CategoryService
	bestScore := 0.0
	total := 0.0

	// SERVICE is evaluated first so a tied score keeps it as the default.
	order := []model.Category{
		model.CategoryService,
		model.CategoryAuthentication,
		model.CategoryMarketing,
		model.CategoryUtility,
	}

	for _, cat := range order {
		score := float64(countKeywords(text, cat)) * scoreWeights[cat]
		total += score
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}

	if total == 0 {
		return model.CategoryService, 0.5
	}

	confidence := math.Min(bestScore/total+0.3, 0.9)
	return best, confidence
}
