package api

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rickgao/binance-spread/internal/model"
)

// ToModel converts a TickerResponse to ticker rows. Every row must carry a
// string "symbol".
func (t TickerResponse) ToModel() ([]model.TickerRow, error) {
	rows := make([]model.TickerRow, 0, len(t))
	for i, raw := range t {
		symRaw, ok := raw["symbol"]
		if !ok {
			return nil, fmt.Errorf("%w: ticker row %d has no symbol", ErrMalformedResponse, i)
		}

		var symbol string
		if err := json.Unmarshal(symRaw, &symbol); err != nil {
			return nil, fmt.Errorf("%w: ticker row %d symbol: %w", ErrMalformedResponse, i, err)
		}

		fields := make(map[string]json.RawMessage, len(raw)-1)
		for k, v := range raw {
			if k != "symbol" {
				fields[k] = v
			}
		}

		rows = append(rows, model.TickerRow{Symbol: symbol, Fields: fields})
	}
	return rows, nil
}

// ToOrderbook converts a DepthResponse to model.Orderbook. Both sides must be
// present and every level must hold a price and a quantity.
func (d *DepthResponse) ToOrderbook(symbol string) (model.Orderbook, error) {
	if d.Bids == nil || d.Asks == nil {
		return model.Orderbook{}, fmt.Errorf("%w: depth missing bids or asks", ErrMalformedResponse)
	}

	bids, err := toLevels(d.Bids, model.SideBids)
	if err != nil {
		return model.Orderbook{}, err
	}
	asks, err := toLevels(d.Asks, model.SideAsks)
	if err != nil {
		return model.Orderbook{}, err
	}

	return model.Orderbook{
		Symbol: symbol,
		Bids:   bids,
		Asks:   asks,
	}, nil
}

func toLevels(raw [][]decimal.Decimal, side model.Side) ([]model.PriceLevel, error) {
	levels := make([]model.PriceLevel, 0, len(raw))
	for i, level := range raw {
		if len(level) < 2 {
			return nil, fmt.Errorf("%w: %s level %d has %d values", ErrMalformedResponse, side, i, len(level))
		}
		levels = append(levels, model.PriceLevel{
			Price:    level[0],
			Quantity: level[1],
		})
	}
	return levels, nil
}

// ToModel converts a BookTickerResponse to model.BookTicker.
func (b *BookTickerResponse) ToModel(symbol string) (model.BookTicker, error) {
	bid, err := decimal.NewFromString(b.BidPrice)
	if err != nil {
		return model.BookTicker{}, fmt.Errorf("%w: bidPrice %q: %w", ErrMalformedResponse, b.BidPrice, err)
	}
	ask, err := decimal.NewFromString(b.AskPrice)
	if err != nil {
		return model.BookTicker{}, fmt.Errorf("%w: askPrice %q: %w", ErrMalformedResponse, b.AskPrice, err)
	}

	if b.Symbol != "" {
		symbol = b.Symbol
	}

	return model.BookTicker{
		Symbol:   symbol,
		BidPrice: bid,
		AskPrice: ask,
	}, nil
}
