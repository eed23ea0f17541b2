// Package api provides the Binance spot REST client for public market data.
//
// REST endpoint:
//   - Production: https://api.binance.com/api
//
// Endpoints used: /v3/ping, /v3/ticker/24hr, /v3/depth, /v3/ticker/bookTicker.
// None of them require an API key.
package api
