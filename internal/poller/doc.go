// Package poller implements the polling client behind the exporter.
//
// The Poller:
//   - Checks the exchange is reachable before anything else runs
//   - Ranks symbols from the 24h ticker and derives notional value and spreads
//   - Takes two spread snapshots a window apart and publishes their absolute
//     difference per symbol to a gauge
//   - Repeats the delta cycle until its context is cancelled
//
// Requests are issued one at a time; any error aborts the current operation.
package poller
