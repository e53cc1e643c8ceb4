package summarizer

import (
	"cmp"
	"math"
	"slices"

	"github.com/rotisserie/eris"

	"docsum/internal/domain"
)

// Count is the number of sentences kept from total at the given ratio,
// floor(total × ratio). Ratio 0 keeps nothing.
func Count(total int, ratio float64) (int, error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return 0, eris.Wrapf(domain.ErrInvalidRatio, "got %v", ratio)
	}
	if total <= 0 {
		return 0, nil
	}
	// 1e-9 absorbs representation error, e.g. 10 × 0.3 = 2.9999999999999996
	return int(math.Floor(float64(total)*ratio + 1e-9)), nil
}

// Select returns the indices of the count highest scores in ascending order.
// Equal scores go to the lower index.
func Select(scores []float64, count int) []int {
	if count <= 0 || len(scores) == 0 {
		return nil
	}
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	if count < len(idx) {
		slices.SortStableFunc(idx, func(a, b int) int {
			return cmp.Compare(scores[b], scores[a])
		})
		idx = idx[:count]
		slices.Sort(idx)
	}
	return idx
}
