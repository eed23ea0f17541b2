package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL      = "https://api.binance.com/api"
	DefaultAPITimeout   = 30 * time.Second
	DefaultRetryBackoff = 1 * time.Second
	DefaultTopN         = 5
	DefaultDepthLimit   = 500
	DefaultDepthLevels  = 200
	DefaultDeltaWindow  = 10 * time.Second
	DefaultMatch        = "contains"
	DefaultDeltaAsset   = "USDT"
	DefaultDeltaField   = "count"
	DefaultServerPort   = 8080
	DefaultMetricsPath  = "/metrics"
	DefaultHealthPath   = "/health"
	DefaultFeedPath     = "/ws"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"

	MaxRetries = 10
)

// DefaultReports are printed once at startup when no reports are configured.
func DefaultReports() []ReportConfig {
	return []ReportConfig{
		{Kind: "top_symbols", Asset: "BTC", Field: "volume"},
		{Kind: "top_symbols", Asset: "USDT", Field: "count"},
		{Kind: "notional", Asset: "BTC", Field: "volume"},
		{Kind: "spread", Asset: "USDT", Field: "count"},
	}
}

func (c *ExporterConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	// Poller defaults
	if c.Poller.TopN == 0 {
		c.Poller.TopN = DefaultTopN
	}
	if c.Poller.DepthLimit == 0 {
		c.Poller.DepthLimit = DefaultDepthLimit
	}
	if c.Poller.DepthLevels == 0 {
		c.Poller.DepthLevels = DefaultDepthLevels
	}
	if c.Poller.DeltaWindow == 0 {
		c.Poller.DeltaWindow = DefaultDeltaWindow
	}
	if c.Poller.Match == "" {
		c.Poller.Match = DefaultMatch
	}

	if c.Reports == nil {
		c.Reports = DefaultReports()
	}

	// Delta loop defaults
	if c.Delta.Asset == "" {
		c.Delta.Asset = DefaultDeltaAsset
	}
	if c.Delta.Field == "" {
		c.Delta.Field = DefaultDeltaField
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}
	if c.Server.HealthPath == "" {
		c.Server.HealthPath = DefaultHealthPath
	}
	if c.Server.FeedPath == "" {
		c.Server.FeedPath = DefaultFeedPath
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
