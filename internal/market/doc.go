// Package market holds the pure computations behind the exporter's reports:
// ranking ticker rows, summing orderbook notional, and spread deltas.
//
// Nothing here performs I/O, so every function is deterministic for a given input.
package market
