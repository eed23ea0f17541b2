package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rickgao/binance-spread/internal/market"
	"github.com/rickgao/binance-spread/internal/poller"
)

// Validate checks that all required fields are set and values are valid.
func (c *ExporterConfig) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must be >= 0")
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > MaxRetries {
		return fmt.Errorf("api.max_retries must be between 0 and %d", MaxRetries)
	}
	if c.API.RetryBackoff <= 0 {
		return errors.New("api.retry_backoff must be > 0")
	}

	if c.Poller.TopN < 1 {
		return errors.New("poller.top_n must be >= 1")
	}
	if c.Poller.DepthLimit < 1 {
		return errors.New("poller.depth_limit must be >= 1")
	}
	if c.Poller.DepthLevels < 1 {
		return errors.New("poller.depth_levels must be >= 1")
	}
	if c.Poller.DeltaWindow <= 0 {
		return errors.New("poller.delta_window must be > 0")
	}
	if !market.MatchMode(c.Poller.Match).Valid() {
		return fmt.Errorf("poller.match must be contains or suffix, got %q", c.Poller.Match)
	}

	for i, r := range c.Reports {
		kind := poller.ReportKind(r.Kind)
		if !kind.Valid() || kind == poller.ReportDelta {
			return fmt.Errorf("reports[%d].kind must be top_symbols, notional or spread, got %q", i, r.Kind)
		}
		if r.Field == "" {
			return fmt.Errorf("reports[%d].field is required", i)
		}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	for name, path := range map[string]string{
		"server.metrics_path": c.Server.MetricsPath,
		"server.health_path":  c.Server.HealthPath,
		"server.feed_path":    c.Server.FeedPath,
	} {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("%s must start with /, got %q", name, path)
		}
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return level, nil
}
