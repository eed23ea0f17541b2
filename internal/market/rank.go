package market

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/rickgao/binance-spread/internal/model"
)

// DefaultTopN is the number of symbols kept by TopSymbols.
const DefaultTopN = 5

// ErrUnknownField is returned when no ticker row carries the ranking field.
var ErrUnknownField = errors.New("unknown ticker field")

// MatchMode selects how the asset filter is applied to symbols.
type MatchMode string

const (
	MatchContains MatchMode = "contains" // asset appears anywhere in the symbol
	MatchSuffix   MatchMode = "suffix"   // symbol ends with asset (quote asset)
)

// Matches reports whether symbol passes the asset filter.
func (m MatchMode) Matches(symbol, asset string) bool {
	if m == MatchSuffix {
		return strings.HasSuffix(symbol, asset)
	}
	return strings.Contains(symbol, asset)
}

// Valid reports whether m is a known mode.
func (m MatchMode) Valid() bool {
	return m == MatchContains || m == MatchSuffix
}

// Coerce converts a raw JSON value to a number. JSON numbers and numeric
// strings convert; everything else (null, bools, objects, junk strings, NaN)
// reports ok=false.
func Coerce(raw json.RawMessage) (value float64, ok bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}

	switch x := v.(type) {
	case float64:
		value = x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		value = f
	default:
		return 0, false
	}

	if math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

// TopSymbols filters rows by asset, coerces field, and returns the n rows with
// the highest value. The sort is stable and descending; rows whose value could
// not be coerced are kept but sort after every valid row.
func TopSymbols(rows []model.TickerRow, asset, field string, n int, mode MatchMode) ([]model.RankedSymbol, error) {
	if n <= 0 {
		n = DefaultTopN
	}

	seen := false
	ranked := make([]model.RankedSymbol, 0, len(rows))
	for _, row := range rows {
		raw, ok := row.Fields[field]
		if ok {
			seen = true
		}
		if !mode.Matches(row.Symbol, asset) {
			continue
		}

		value, valid := Coerce(raw)
		ranked = append(ranked, model.RankedSymbol{
			Symbol: row.Symbol,
			Value:  value,
			Valid:  valid,
		})
	}

	if len(rows) > 0 && !seen {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	slices.SortStableFunc(ranked, compareDesc)

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// compareDesc orders valid values high to low, invalid values last.
func compareDesc(a, b model.RankedSymbol) int {
	switch {
	case a.Valid && !b.Valid:
		return -1
	case !a.Valid && b.Valid:
		return 1
	case !a.Valid && !b.Valid:
		return 0
	case a.Value > b.Value:
		return -1
	case a.Value < b.Value:
		return 1
	}
	return 0
}

// Symbols returns the symbol column of a ranking.
func Symbols(ranked []model.RankedSymbol) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Symbol
	}
	return out
}
