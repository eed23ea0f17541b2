// Package report renders the exporter's results as human-readable tables.
package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"sync"
	"text/tabwriter"

	"github.com/rickgao/binance-spread/internal/model"
)

// Printer writes report tables to an io.Writer.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// TopSymbols prints a ranking.
func (p *Printer) TopSymbols(asset, field string, ranked []model.RankedSymbol) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "\n Top Symbols for %s by %s\n", asset, field)

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\tsymbol\t%s\t\n", field)
	for i, r := range ranked {
		value := "NaN"
		if r.Valid {
			value = strconv.FormatFloat(r.Value, 'f', -1, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t\n", i, r.Symbol, value)
	}
	return tw.Flush()
}

// The map reports below print rows in the order of keys, which callers pass
// in ranking order. Values missing from keys follow, sorted.

// Notional prints notional values keyed "{symbol}_{side}".
func (p *Printer) Notional(asset, field string, keys []string, values model.NotionalMap) error {
	return p.floats(fmt.Sprintf("Total Notional value of %s by %s", asset, field), keys, values)
}

// Spread prints a spread snapshot.
func (p *Printer) Spread(asset, field string, keys []string, values model.SpreadMap) error {
	return p.floats(fmt.Sprintf("Price Spread for %s by %s", asset, field), keys, values)
}

// Delta prints absolute spread deltas.
func (p *Printer) Delta(asset string, keys []string, values model.DeltaMap) error {
	return p.floats(fmt.Sprintf("Absolute Delta for %s", asset), keys, values)
}

func (p *Printer) floats(title string, keys []string, values map[string]float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "\n %s\n", title)

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, k := range rowOrder(keys, values) {
		fmt.Fprintf(tw, "%s\t%s\n", k, strconv.FormatFloat(values[k], 'f', -1, 64))
	}
	return tw.Flush()
}

func rowOrder(keys []string, values map[string]float64) []string {
	order := make([]string, 0, len(values))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := values[k]; ok && !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(values)) {
		if !seen[k] {
			order = append(order, k)
		}
	}
	return order
}
