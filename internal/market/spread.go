package market

import (
	"errors"
	"fmt"
	"math"

	"github.com/rickgao/binance-spread/internal/model"
)

// ErrKeyMismatch is returned by Delta when a symbol from the first snapshot is
// missing from the second, i.e. the top set changed between snapshots.
var ErrKeyMismatch = errors.New("spread snapshot key mismatch")

// Spread returns ask - bid. Inverted books yield a negative spread.
func Spread(bt model.BookTicker) float64 {
	return bt.AskPrice.Sub(bt.BidPrice).InexactFloat64()
}

// Delta returns |old[k] - new[k]| for every key of old. Keys present only in
// next are ignored.
func Delta(old, next model.SpreadMap) (model.DeltaMap, error) {
	delta := make(model.DeltaMap, len(old))
	for symbol, prev := range old {
		cur, ok := next[symbol]
		if !ok {
			return nil, fmt.Errorf("%w: %s absent from second snapshot", ErrKeyMismatch, symbol)
		}
		delta[symbol] = math.Abs(prev - cur)
	}
	return delta, nil
}
