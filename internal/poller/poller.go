package poller

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/binance-spread/internal/api"
	"github.com/rickgao/binance-spread/internal/market"
	"github.com/rickgao/binance-spread/internal/model"
	"github.com/rickgao/binance-spread/internal/report"
)

// Exchange is the subset of the REST client the poller needs.
type Exchange interface {
	Ping(ctx context.Context) error
	GetTickers(ctx context.Context) ([]model.TickerRow, error)
	GetOrderbook(ctx context.Context, symbol string, limit int) (model.Orderbook, error)
	GetBookTicker(ctx context.Context, symbol string) (model.BookTicker, error)
}

// DeltaPublisher receives every computed spread delta.
type DeltaPublisher interface {
	Set(symbol string, value float64)
}

// CycleHandler receives each completed delta cycle.
type CycleHandler interface {
	Publish(cycle model.DeltaCycle)
}

// Reporter renders results when a Query asks for output. keys lists the
// map keys in ranking order.
type Reporter interface {
	TopSymbols(asset, field string, ranked []model.RankedSymbol) error
	Notional(asset, field string, keys []string, values model.NotionalMap) error
	Spread(asset, field string, keys []string, values model.SpreadMap) error
	Delta(asset string, keys []string, values model.DeltaMap) error
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Query selects the symbols an operation works on.
type Query struct {
	Asset  string // Substring (or suffix) the symbol must contain
	Field  string // 24h ticker field to rank by (e.g. "volume", "count")
	Output bool   // Print the result through the Reporter
}

// Config holds poller configuration.
type Config struct {
	TopN        int              // Symbols kept by TopSymbols (default: 5)
	DepthLimit  int              // Orderbook levels requested per symbol (default: 500)
	DepthLevels int              // Levels per side counted toward notional (default: 200)
	DeltaWindow time.Duration    // Pause between spread snapshots (default: 10s)
	Match       market.MatchMode // Asset filter mode (default: contains)
}

// DefaultConfig returns the exporter's standard settings.
func DefaultConfig() Config {
	return Config{
		TopN:        market.DefaultTopN,
		DepthLimit:  500,
		DepthLevels: market.DefaultDepthLevels,
		DeltaWindow: 10 * time.Second,
		Match:       market.MatchContains,
	}
}

// Status summarizes delta cycles completed so far.
type Status struct {
	Cycles    int64
	LastCycle time.Time // zero before the first cycle
}

// Poller fetches market data and derives spread statistics.
type Poller struct {
	cfg      Config
	exchange Exchange
	gauge    DeltaPublisher
	logger   *slog.Logger

	sleep    Sleeper
	reporter Reporter
	handlers []CycleHandler

	cycles    atomic.Int64
	lastCycle atomic.Int64 // unix nanos
}

// Option configures a Poller.
type Option func(*Poller)

// WithSleeper replaces the wait between spread snapshots.
func WithSleeper(s Sleeper) Option {
	return func(p *Poller) {
		p.sleep = s
	}
}

// WithReporter sets where Query.Output results are printed.
func WithReporter(r Reporter) Option {
	return func(p *Poller) {
		p.reporter = r
	}
}

// WithCycleHandler adds a receiver for completed delta cycles.
func WithCycleHandler(h CycleHandler) Option {
	return func(p *Poller) {
		p.handlers = append(p.handlers, h)
	}
}

// New creates a new Poller.
func New(cfg Config, exchange Exchange, gauge DeltaPublisher, logger *slog.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Poller{
		cfg:      cfg,
		exchange: exchange,
		gauge:    gauge,
		logger:   logger,
		sleep:    sleepContext,
		reporter: report.NewPrinter(os.Stdout),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HealthCheck verifies the exchange answers its ping endpoint.
func (p *Poller) HealthCheck(ctx context.Context) error {
	if err := p.exchange.Ping(ctx); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	p.logger.Info("exchange reachable")
	return nil
}

// TopSymbols returns up to cfg.TopN symbols matching q.Asset, ranked by q.Field.
func (p *Poller) TopSymbols(ctx context.Context, q Query) ([]model.RankedSymbol, error) {
	rows, err := p.exchange.GetTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("top symbols: %w", err)
	}

	ranked, err := market.TopSymbols(rows, q.Asset, q.Field, p.cfg.TopN, p.cfg.Match)
	if err != nil {
		return nil, fmt.Errorf("top symbols: %w: %w", api.ErrMalformedResponse, err)
	}

	p.logger.Debug("ranked symbols",
		"asset", q.Asset,
		"field", q.Field,
		"rows", len(rows),
		"symbols", market.Symbols(ranked),
	)

	if q.Output {
		if err := p.reporter.TopSymbols(q.Asset, q.Field, ranked); err != nil {
			return nil, fmt.Errorf("print top symbols: %w", err)
		}
	}
	return ranked, nil
}

// NotionalValue sums price × quantity over the top cfg.DepthLevels levels of
// each side of every top symbol's orderbook.
func (p *Poller) NotionalValue(ctx context.Context, q Query) (model.NotionalMap, error) {
	ranked, err := p.TopSymbols(ctx, q.quiet())
	if err != nil {
		return nil, err
	}

	notional := make(model.NotionalMap, 2*len(ranked))
	keys := make([]string, 0, 2*len(ranked))
	for _, r := range ranked {
		ob, err := p.exchange.GetOrderbook(ctx, r.Symbol, p.cfg.DepthLimit)
		if err != nil {
			return nil, fmt.Errorf("notional value: %w", err)
		}
		market.AddNotional(notional, ob, p.cfg.DepthLevels)
		for _, side := range model.Sides {
			keys = append(keys, model.NotionalKey(r.Symbol, side))
		}
	}

	if q.Output {
		if err := p.reporter.Notional(q.Asset, q.Field, keys, notional); err != nil {
			return nil, fmt.Errorf("print notional: %w", err)
		}
	}
	return notional, nil
}

// PriceSpread returns ask - bid for every top symbol.
func (p *Poller) PriceSpread(ctx context.Context, q Query) (model.SpreadMap, error) {
	symbols, spreads, err := p.spreadSnapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	if q.Output {
		if err := p.reporter.Spread(q.Asset, q.Field, symbols, spreads); err != nil {
			return nil, fmt.Errorf("print spread: %w", err)
		}
	}
	return spreads, nil
}

// spreadSnapshot returns the top symbols in ranking order and their spreads.
func (p *Poller) spreadSnapshot(ctx context.Context, q Query) ([]string, model.SpreadMap, error) {
	ranked, err := p.TopSymbols(ctx, q.quiet())
	if err != nil {
		return nil, nil, err
	}

	spreads := make(model.SpreadMap, len(ranked))
	for _, r := range ranked {
		bt, err := p.exchange.GetBookTicker(ctx, r.Symbol)
		if err != nil {
			return nil, nil, fmt.Errorf("price spread: %w", err)
		}
		spreads[r.Symbol] = market.Spread(bt)
	}
	return market.Symbols(ranked), spreads, nil
}

// SpreadDelta takes two spread snapshots cfg.DeltaWindow apart, publishes
// |old - new| per symbol to the gauge, and hands the cycle to every handler.
// If the top set changes between snapshots nothing is published and the
// error matches market.ErrKeyMismatch.
func (p *Poller) SpreadDelta(ctx context.Context, q Query) (model.DeltaMap, error) {
	cycleID := uuid.New()
	start := time.Now()
	logger := p.logger.With("cycle_id", cycleID.String())

	symbols, old, err := p.spreadSnapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := p.sleep(ctx, p.cfg.DeltaWindow); err != nil {
		return nil, err
	}

	_, next, err := p.spreadSnapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	delta, err := market.Delta(old, next)
	if err != nil {
		return nil, fmt.Errorf("spread delta: %w", err)
	}

	for symbol, v := range delta {
		p.gauge.Set(symbol, v)
	}

	now := time.Now()
	p.cycles.Add(1)
	p.lastCycle.Store(now.UnixNano())

	cycle := model.DeltaCycle{
		ID:      cycleID,
		Asset:   q.Asset,
		Field:   q.Field,
		TakenAt: now,
		Deltas:  delta,
	}
	for _, h := range p.handlers {
		h.Publish(cycle)
	}

	logger.Info("delta cycle complete",
		"asset", q.Asset,
		"field", q.Field,
		"symbols", len(delta),
		"duration", time.Since(start),
	)

	if q.Output {
		if err := p.reporter.Delta(q.Asset, symbols, delta); err != nil {
			return nil, fmt.Errorf("print delta: %w", err)
		}
	}
	return delta, nil
}

// Status returns the number of completed delta cycles and when the last one ended.
func (p *Poller) Status() Status {
	s := Status{Cycles: p.cycles.Load()}
	if ns := p.lastCycle.Load(); ns != 0 {
		s.LastCycle = time.Unix(0, ns)
	}
	return s
}

// quiet returns q with output suppressed, for nested calls.
func (q Query) quiet() Query {
	q.Output = false
	return q
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
