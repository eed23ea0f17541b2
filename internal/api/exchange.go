package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rickgao/binance-spread/internal/model"
)

// Ping checks that the API answers GET /v3/ping with 200.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodGet, "/v3/ping", nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// GetTickers fetches 24-hour statistics for every symbol.
func (c *Client) GetTickers(ctx context.Context) ([]model.TickerRow, error) {
	var resp TickerResponse
	if err := c.get(ctx, "/v3/ticker/24hr", nil, &resp); err != nil {
		return nil, fmt.Errorf("get tickers: %w", err)
	}

	rows, err := resp.ToModel()
	if err != nil {
		return nil, fmt.Errorf("get tickers: %w", err)
	}
	return rows, nil
}

// GetOrderbook fetches up to limit levels per side of a symbol's orderbook.
func (c *Client) GetOrderbook(ctx context.Context, symbol string, limit int) (model.Orderbook, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp DepthResponse
	if err := c.get(ctx, "/v3/depth", query, &resp); err != nil {
		return model.Orderbook{}, fmt.Errorf("get depth %s: %w", symbol, err)
	}

	ob, err := resp.ToOrderbook(symbol)
	if err != nil {
		return model.Orderbook{}, fmt.Errorf("get depth %s: %w", symbol, err)
	}
	return ob, nil
}

// GetBookTicker fetches the best bid and ask for a symbol.
func (c *Client) GetBookTicker(ctx context.Context, symbol string) (model.BookTicker, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	var resp BookTickerResponse
	if err := c.get(ctx, "/v3/ticker/bookTicker", query, &resp); err != nil {
		return model.BookTicker{}, fmt.Errorf("get book ticker %s: %w", symbol, err)
	}

	bt, err := resp.ToModel(symbol)
	if err != nil {
		return model.BookTicker{}, fmt.Errorf("get book ticker %s: %w", symbol, err)
	}
	return bt, nil
}
