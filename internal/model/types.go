package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Ticker Types
// -----------------------------------------------------------------------------

// TickerRow is one row of the 24-hour ticker statistics.
type TickerRow struct {
	Symbol string                     // Exchange symbol (e.g., "BTCUSDT")
	Fields map[string]json.RawMessage // Every other field, undecoded (volume, count, ...)
}

// RankedSymbol is a symbol paired with the numeric value it was ranked by.
type RankedSymbol struct {
	Symbol string  // Exchange symbol
	Value  float64 // Coerced field value, 0 when !Valid
	Valid  bool    // false when the raw value could not be coerced to a number
}

// -----------------------------------------------------------------------------
// Orderbook Types
// -----------------------------------------------------------------------------

// Side names an orderbook side. Its string form is used in notional keys.
type Side string

const (
	SideBids Side = "bids"
	SideAsks Side = "asks"
)

// Sides lists orderbook sides in the order they are aggregated.
var Sides = []Side{SideBids, SideAsks}

// PriceLevel represents a single price level in an orderbook.
type PriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Notional returns price × quantity.
func (l PriceLevel) Notional() decimal.Decimal {
	return l.Price.Mul(l.Quantity)
}

// Orderbook is a depth snapshot for one symbol.
type Orderbook struct {
	Symbol string
	Bids   []PriceLevel
	Asks   []PriceLevel
}

// Levels returns the levels for the given side.
func (o *Orderbook) Levels(side Side) []PriceLevel {
	if side == SideBids {
		return o.Bids
	}
	return o.Asks
}

// BookTicker is the best bid/ask for one symbol.
type BookTicker struct {
	Symbol   string
	BidPrice decimal.Decimal
	AskPrice decimal.Decimal
}

// -----------------------------------------------------------------------------
// Aggregates
// -----------------------------------------------------------------------------

// NotionalMap maps "{symbol}_{side}" to the summed notional value of that side.
type NotionalMap map[string]float64

// NotionalKey builds the NotionalMap key for a symbol and side.
func NotionalKey(symbol string, side Side) string {
	return symbol + "_" + string(side)
}

// SpreadMap maps symbol to ask - bid.
type SpreadMap map[string]float64

// DeltaMap maps symbol to |old spread - new spread|.
type DeltaMap map[string]float64

// DeltaCycle is the outcome of one SpreadDelta computation.
type DeltaCycle struct {
	ID      uuid.UUID // Cycle identifier, shared by logs and the live feed
	Asset   string    // Asset filter
	Field   string    // Ranking field
	TakenAt time.Time // When the second snapshot completed
	Deltas  DeltaMap
}
