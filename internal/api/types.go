package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// TickerResponse from GET /v3/ticker/24hr (no symbol), one object per symbol.
// Only "symbol" is interpreted; other fields stay raw so any of them can be
// used for ranking.
type TickerResponse []map[string]json.RawMessage

// DepthResponse from GET /v3/depth
type DepthResponse struct {
	LastUpdateID int64 `json:"lastUpdateId"`

	// Levels as [price, quantity] pairs, usually quoted decimal strings
	Bids [][]decimal.Decimal `json:"bids"`
	Asks [][]decimal.Decimal `json:"asks"`
}

// BookTickerResponse from GET /v3/ticker/bookTicker?symbol=
type BookTickerResponse struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	BidQty   string `json:"bidQty"`
	AskPrice string `json:"askPrice"`
	AskQty   string `json:"askQty"`
}
