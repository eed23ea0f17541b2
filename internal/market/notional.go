package market

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rickgao/binance-spread/internal/model"
)

// DefaultDepthLevels is how many levels per side count toward notional value.
const DefaultDepthLevels = 200

// SideNotional sorts levels by price descending, keeps the first n, and sums
// price × quantity. The input slice is not modified.
func SideNotional(levels []model.PriceLevel, n int) float64 {
	if n <= 0 {
		n = DefaultDepthLevels
	}

	sorted := slices.Clone(levels)
	slices.SortStableFunc(sorted, func(a, b model.PriceLevel) int {
		return b.Price.Cmp(a.Price)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	sum := decimal.Zero
	for _, l := range sorted {
		sum = sum.Add(l.Notional())
	}
	return sum.InexactFloat64()
}

// AddNotional stores the notional value of both sides of ob into dst under
// "{symbol}_bids" and "{symbol}_asks".
func AddNotional(dst model.NotionalMap, ob model.Orderbook, n int) {
	for _, side := range model.Sides {
		dst[model.NotionalKey(ob.Symbol, side)] = SideNotional(ob.Levels(side), n)
	}
}
