// Package metrics provides the Prometheus registry exposed for scraping.
//
// Key metrics:
//   - absolute_delta_value{symbol}: most recent |spread(t) - spread(t-window)|
//
// The registry is an explicit object handed to the poller; nothing registers
// with the prometheus default registry.
package metrics
