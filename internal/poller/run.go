package poller

import (
	"context"
	"errors"
	"fmt"
)

// ReportKind names a one-shot report.
type ReportKind string

const (
	ReportTopSymbols ReportKind = "top_symbols"
	ReportNotional   ReportKind = "notional"
	ReportSpread     ReportKind = "spread"
	ReportDelta      ReportKind = "delta"
)

// ErrUnknownReport is returned by Report for an unrecognised kind.
var ErrUnknownReport = errors.New("unknown report kind")

// Valid reports whether k names a known report.
func (k ReportKind) Valid() bool {
	switch k {
	case ReportTopSymbols, ReportNotional, ReportSpread, ReportDelta:
		return true
	}
	return false
}

// Report runs the operation named by kind once with output enabled.
func (p *Poller) Report(ctx context.Context, kind ReportKind, q Query) error {
	q.Output = true

	var err error
	switch kind {
	case ReportTopSymbols:
		_, err = p.TopSymbols(ctx, q)
	case ReportNotional:
		_, err = p.NotionalValue(ctx, q)
	case ReportSpread:
		_, err = p.PriceSpread(ctx, q)
	case ReportDelta:
		_, err = p.SpreadDelta(ctx, q)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownReport, kind)
	}
	return err
}

// RunOnce performs a single delta cycle.
func (p *Poller) RunOnce(ctx context.Context, q Query) error {
	_, err := p.SpreadDelta(ctx, q)
	return err
}

// Run repeats delta cycles back to back until ctx is cancelled or a cycle
// fails. It returns ctx.Err() on cancellation and the cycle error otherwise.
func (p *Poller) Run(ctx context.Context, q Query) error {
	p.logger.Info("spread delta loop started",
		"asset", q.Asset,
		"field", q.Field,
		"window", p.cfg.DeltaWindow,
	)

	for {
		if err := ctx.Err(); err != nil {
			p.logger.Info("spread delta loop stopped", "cycles", p.cycles.Load())
			return err
		}

		if err := p.RunOnce(ctx, q); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("spread delta loop stopped", "cycles", p.cycles.Load())
				return ctx.Err()
			}
			return err
		}
	}
}
