package recommend

import (
	"math"
	"math/rand"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

// FallbackCount is the number of rule-based picks.
const FallbackCount = 3

// priceSimilarityRatio bounds |candidate - viewed| relative to the viewed price.
const priceSimilarityRatio = 0.5

// Shuffler permutes n elements in place through swap. rand.Shuffle satisfies it.
type Shuffler func(n int, swap func(i, j int))

// fallbackCandidates picks up to FallbackCount products. Category matches and
// price-similar products come first; the rest of the catalog only fills the
// remaining slots, so any catalog with another product yields a result.
// The catalog must already exclude the viewed product.
func fallbackCandidates(viewed domain.Product, catalog []domain.Product, shuffle Shuffler) []domain.Product {
	// Indices give set semantics over catalog entries rather than ids.
	seen := make(map[int]bool, len(catalog))
	var matched, filler []int

	for i, p := range catalog {
		if sameCategory(viewed, p) {
			seen[i] = true
			matched = append(matched, i)
		}
	}
	for i, p := range catalog {
		if !seen[i] && similarPrice(viewed, p) {
			seen[i] = true
			matched = append(matched, i)
		}
	}
	for i := range catalog {
		if !seen[i] {
			filler = append(filler, i)
		}
	}

	shuffle(len(matched), func(i, j int) { matched[i], matched[j] = matched[j], matched[i] })
	shuffle(len(filler), func(i, j int) { filler[i], filler[j] = filler[j], filler[i] })

	picked := make([]domain.Product, 0, FallbackCount)
	ids := make(map[domain.ProductID]bool, FallbackCount)
	for _, idx := range append(matched, filler...) {
		p := catalog[idx]
		if p.ID.IsZero() || ids[p.ID] {
			continue
		}
		ids[p.ID] = true
		picked = append(picked, p)
		if len(picked) == FallbackCount {
			break
		}
	}
	return picked
}

func sameCategory(viewed, candidate domain.Product) bool {
	return candidate.Category != "" && candidate.Category == viewed.Category
}

func similarPrice(viewed, candidate domain.Product) bool {
	if !viewed.Price.Valid || !candidate.Price.Valid {
		return false
	}
	return math.Abs(candidate.Price.Amount-viewed.Price.Amount) < priceSimilarityRatio*viewed.Price.Amount
}

// defaultShuffler uses the global source, which is safe for concurrent use.
func defaultShuffler() Shuffler {
	return rand.Shuffle
}
