// Package model defines shared data types used across the spread exporter.
//
// Conventions:
//   - Prices and quantities: shopspring decimals while parsing, float64 once aggregated
//   - Map keys: exchange symbols (e.g. "BTCUSDT"), or "{symbol}_{side}" for notional values
//   - Nothing here is persisted; every value is rebuilt on each call
package model
