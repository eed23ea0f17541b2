package config

import "time"

// ExporterConfig is the root configuration for the spread exporter.
type ExporterConfig struct {
	API     APIConfig      `yaml:"api"`
	Poller  PollerConfig   `yaml:"poller"`
	Reports []ReportConfig `yaml:"reports"` // nil = default startup reports, [] = none
	Delta   DeltaConfig    `yaml:"delta"`
	Server  ServerConfig   `yaml:"server"`
	Log     LogConfig      `yaml:"log"`
}

// APIConfig holds Binance REST settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`       // 0 = default
	MaxRetries   int           `yaml:"max_retries"`   // 0 = fail fast
	RetryBackoff time.Duration `yaml:"retry_backoff"` // 0 = default
}

// PollerConfig holds ranking and aggregation settings.
type PollerConfig struct {
	TopN        int           `yaml:"top_n"`
	DepthLimit  int           `yaml:"depth_limit"`
	DepthLevels int           `yaml:"depth_levels"`
	DeltaWindow time.Duration `yaml:"delta_window"` // 0 = default
	Match       string        `yaml:"match"`        // "contains" or "suffix"
}

// ReportConfig is a report printed once at startup.
type ReportConfig struct {
	Kind  string `yaml:"kind"` // top_symbols, notional, spread
	Asset string `yaml:"asset"`
	Field string `yaml:"field"`
}

// DeltaConfig selects the symbols the delta loop tracks.
type DeltaConfig struct {
	Asset string `yaml:"asset"`
	Field string `yaml:"field"`
	Quiet bool   `yaml:"quiet"` // don't print each cycle
}

// ServerConfig holds the metrics/health/feed HTTP server settings.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPath string `yaml:"metrics_path"`
	HealthPath  string `yaml:"health_path"`
	FeedPath    string `yaml:"feed_path"`
	FeedDisable bool   `yaml:"feed_disable"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
