package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rickgao/binance-spread/internal/model"
)

func TestPrinterTopSymbols(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	err := p.TopSymbols("USDT", "volume", []model.RankedSymbol{
		{Symbol: "LTCUSDT", Value: 200, Valid: true},
		{Symbol: "BADUSDT"},
	})
	if err != nil {
		t.Fatalf("TopSymbols: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Top Symbols for USDT by volume", "LTCUSDT", "200", "NaN"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinterMaps(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Notional("BTC", "volume", []string{"X_bids", "X_asks"}, model.NotionalMap{"X_bids": 298, "X_asks": 203})
	p.Spread("USDT", "count", []string{"X"}, model.SpreadMap{"X": 0.1})
	p.Delta("USDT", []string{"X"}, model.DeltaMap{"X": 0.2})

	out := buf.String()
	for _, want := range []string{
		"Total Notional value of BTC by volume",
		"Price Spread for USDT by count",
		"Absolute Delta for USDT",
		"X_bids",
		"298",
		"0.2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "X_bids") > strings.Index(out, "X_asks") {
		t.Errorf("X_bids should precede X_asks:\n%s", out)
	}
}

func TestPrinterRankOrder(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"ranking order", []string{"LTCUSDT", "BTCUSDT", "ETHUSDT"}, []string{"LTCUSDT", "BTCUSDT", "ETHUSDT"}},
		{"unlisted keys sorted last", []string{"LTCUSDT"}, []string{"LTCUSDT", "BTCUSDT", "ETHUSDT"}},
		{"unknown and repeated keys ignored", []string{"ETHUSDT", "XRPUSDT", "ETHUSDT"}, []string{"ETHUSDT", "BTCUSDT", "LTCUSDT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf)

			values := model.SpreadMap{"BTCUSDT": 0.01, "ETHUSDT": 0.02, "LTCUSDT": 0.03}
			if err := p.Spread("USDT", "volume", tt.keys, values); err != nil {
				t.Fatalf("Spread: %v", err)
			}

			var got []string
			for _, line := range strings.Split(buf.String(), "\n") {
				if fields := strings.Fields(line); len(fields) == 2 {
					got = append(got, fields[0])
				}
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("rows = %v, want %v", got, tt.want)
			}
		})
	}
}
