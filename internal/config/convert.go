package config

import (
	"github.com/rickgao/binance-spread/internal/market"
	"github.com/rickgao/binance-spread/internal/poller"
)

// PollerConfig converts the poller section to poller.Config.
func (c *ExporterConfig) PollerConfig() poller.Config {
	return poller.Config{
		TopN:        c.Poller.TopN,
		DepthLimit:  c.Poller.DepthLimit,
		DepthLevels: c.Poller.DepthLevels,
		DeltaWindow: c.Poller.DeltaWindow,
		Match:       market.MatchMode(c.Poller.Match),
	}
}

// DeltaQuery is the query the delta loop runs with.
func (c *ExporterConfig) DeltaQuery() poller.Query {
	return poller.Query{
		Asset:  c.Delta.Asset,
		Field:  c.Delta.Field,
		Output: !c.Delta.Quiet,
	}
}

// Query converts a report to a poller query.
func (r ReportConfig) Query() poller.Query {
	return poller.Query{Asset: r.Asset, Field: r.Field, Output: true}
}
