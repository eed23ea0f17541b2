package poller

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rickgao/binance-spread/internal/api"
	"github.com/rickgao/binance-spread/internal/market"
)

func TestPoller_Report(t *testing.T) {
	_, client := newFakeBinance(t)
	reporter := &fakeReporter{}
	p := New(DefaultConfig(), client, &fakeGauge{}, nil, WithReporter(reporter))
	ctx := context.Background()

	reports := []struct {
		kind  ReportKind
		query Query
	}{
		{ReportTopSymbols, Query{Asset: "BTC", Field: "volume"}},
		{ReportTopSymbols, Query{Asset: "USDT", Field: "count"}},
		{ReportNotional, Query{Asset: "BTC", Field: "volume"}},
		{ReportSpread, Query{Asset: "USDT", Field: "count"}},
	}
	for _, r := range reports {
		if err := p.Report(ctx, r.kind, r.query); err != nil {
			t.Fatalf("Report(%s) failed: %v", r.kind, err)
		}
	}

	want := []string{"top:BTC:volume", "top:USDT:count", "notional:BTC:volume", "spread:USDT:count"}
	if fmt.Sprint(reporter.calls) != fmt.Sprint(want) {
		t.Errorf("reports = %v, want %v", reporter.calls, want)
	}

	if err := p.Report(ctx, "bogus", Query{}); !errors.Is(err, ErrUnknownReport) {
		t.Errorf("err = %v, want ErrUnknownReport", err)
	}
}

func TestReportKindValid(t *testing.T) {
	for _, k := range []ReportKind{ReportTopSymbols, ReportNotional, ReportSpread, ReportDelta} {
		if !k.Valid() {
			t.Errorf("%q.Valid() = false, want true", k)
		}
	}
	if ReportKind("volume").Valid() {
		t.Error(`"volume".Valid() = true, want false`)
	}
}

func TestPoller_RunOnce(t *testing.T) {
	_, client := newFakeBinance(t)
	gauge := &fakeGauge{}
	p := newTestPoller(client, gauge, WithSleeper((&recordingSleeper{}).sleep))

	if err := p.RunOnce(context.Background(), Query{Asset: "USDT", Field: "count"}); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if gauge.sets != 3 {
		t.Errorf("gauge sets = %d, want 3", gauge.sets)
	}
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	_, client := newFakeBinance(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sleeper := &recordingSleeper{}
	sleeper.onSleep = func() {
		// Let two full cycles finish, cancel during the third wait.
		if len(sleeper.durations) == 3 {
			cancel()
		}
	}

	p := newTestPoller(client, &fakeGauge{}, WithSleeper(sleeper.sleep))

	err := p.Run(ctx, Query{Asset: "USDT", Field: "count"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if got := p.Status().Cycles; got != 2 {
		t.Errorf("Cycles = %d, want 2", got)
	}
}

func TestPoller_RunStopsOnError(t *testing.T) {
	f, client := newFakeBinance(t)
	f.tickers = func(call int) string {
		if call <= 3 {
			return threeTickers
		}
		return `[{"symbol":"XRPUSDT","count":5}]`
	}

	p := newTestPoller(client, &fakeGauge{}, WithSleeper((&recordingSleeper{}).sleep))

	err := p.Run(context.Background(), Query{Asset: "USDT", Field: "count"})
	if !errors.Is(err, market.ErrKeyMismatch) {
		t.Errorf("err = %v, want ErrKeyMismatch", err)
	}
	if got := p.Status().Cycles; got != 1 {
		t.Errorf("Cycles = %d, want 1", got)
	}
}

func TestPoller_RunCancelledBeforeStart(t *testing.T) {
	f, client := newFakeBinance(t)
	p := newTestPoller(client, &fakeGauge{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Run(ctx, Query{Asset: "USDT", Field: "count"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tickerCalls != 0 {
		t.Errorf("tickerCalls = %d, want 0", f.tickerCalls)
	}
}

func TestPoller_RunMalformedBookTicker(t *testing.T) {
	f, client := newFakeBinance(t)
	f.tickers = func(int) string { return threeTickers }
	f.bookTicker = func(string, int) string { return `{"code":-1003,"msg":"Too many requests."}` }

	p := newTestPoller(client, &fakeGauge{}, WithSleeper((&recordingSleeper{}).sleep))

	err := p.Run(context.Background(), Query{Asset: "USDT", Field: "count"})
	if !errors.Is(err, api.ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}
