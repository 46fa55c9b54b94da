package service

import (
	"fmt"
	"math"
	"testing"
	"time"

	"PolyFluid/internal/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func normalizeJSON(t *testing.T, raw string) []model.Market {
	t.Helper()
	return NewNormalizer(quietLogger()).Normalize(mustEvents(raw), Cutoff(testNow))
}

func TestNormalizeSingleOutcomeEndToEnd(t *testing.T) {
	end := testNow.Add(72 * time.Hour).Format(time.RFC3339)
	raw := fmt.Sprintf(`[{"id":"e1","title":"Will it rain?","slug":"rain","closed":false,"endDate":%q,
		"volume":"1000","liquidity":250.5,"volume24hr":100,
		"markets":[{"id":"m1","outcomePrices":"[\"0.7\",\"0.3\"]","clobTokenIds":"[\"111\",\"222\"]"}]}]`, end)
	markets := normalizeJSON(t, raw)
	if len(markets) != 1 {
		t.Fatalf("got %d markets, want 1", len(markets))
	}
	m := markets[0]
	single, ok := m.Variant.(model.SingleOutcome)
	if !ok {
		t.Fatalf("variant = %T", m.Variant)
	}
	if single.YesPrice != 0.7 || math.Abs(single.NoPrice-0.3) > 1e-12 {
		t.Errorf("prices = %v/%v", single.YesPrice, single.NoPrice)
	}
	if single.YesPrice+single.NoPrice != 1.0 {
		t.Errorf("yes+no = %v", single.YesPrice+single.NoPrice)
	}
	if single.TokenID != "111" {
		t.Errorf("token = %q", single.TokenID)
	}
	if m.Volume != 1000 || m.Liquidity != 250.5 || m.Slug != "rain" {
		t.Errorf("market = %+v", m)
	}
	if m.Change24h != 10 {
		t.Errorf("change24h = %v, want 10", m.Change24h)
	}
}

func TestNormalizeFilters(t *testing.T) {
	future := testNow.Add(48 * time.Hour).Format(time.RFC3339)
	soon := testNow.Add(23 * time.Hour).Format(time.RFC3339)
	atCutoff := Cutoff(testNow).Format(time.RFC3339)
	mk := `[{"id":"m","outcomePrices":["0.4","0.6"]}]`
	tests := []struct {
		name string
		ev   string
	}{
		{"no markets", fmt.Sprintf(`{"id":"1","endDate":%q,"markets":[]}`, future)},
		{"markets missing", fmt.Sprintf(`{"id":"1","endDate":%q}`, future)},
		{"closed", fmt.Sprintf(`{"id":"1","closed":true,"endDate":%q,"markets":%s}`, future, mk)},
		{"archived", fmt.Sprintf(`{"id":"1","archived":true,"endDate":%q,"markets":%s}`, future, mk)},
		{"not accepting orders", fmt.Sprintf(`{"id":"1","endDate":%q,"markets":[{"acceptingOrders":false}]}`, future)},
		{"ends within a day", fmt.Sprintf(`{"id":"1","endDate":%q,"markets":%s}`, soon, mk)},
		{"ends exactly at cutoff", fmt.Sprintf(`{"id":"1","endDate":%q,"markets":%s}`, atCutoff, mk)},
		{"unparsable end date", fmt.Sprintf(`{"id":"1","endDate":"soon","markets":%s}`, mk)},
		{"no end date", fmt.Sprintf(`{"id":"1","markets":%s}`, mk)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeJSON(t, "["+tt.ev+"]"); len(got) != 0 {
				t.Errorf("expected event to be dropped, got %+v", got)
			}
		})
	}
}

func TestNormalizeEndDateFallsBackToFirstMarket(t *testing.T) {
	end := testNow.Add(72 * time.Hour).Format("2006-01-02")
	raw := fmt.Sprintf(`[{"id":"1","markets":[{"endDate":%q,"outcomePrices":"[\"0.2\",\"0.8\"]"}]}]`, end)
	markets := normalizeJSON(t, raw)
	if len(markets) != 1 {
		t.Fatalf("got %d markets", len(markets))
	}
	want := testNow.Add(72 * time.Hour).Truncate(24 * time.Hour).Add(24*time.Hour - time.Second).Format(time.RFC3339)
	if markets[0].EndDate != want {
		t.Errorf("endDate = %s, want %s", markets[0].EndDate, want)
	}
}

func TestNormalizeSentinelPrices(t *testing.T) {
	end := testNow.Add(72 * time.Hour).Format(time.RFC3339)
	for _, prices := range []string{`"[\"0\",\"1\"]"`, `"[\"0.0\",\"1\"]"`, `""`, `"[]"`, `"garbage"`, `["1.5","0"]`, `["NaN","0"]`, `null`} {
		t.Run(prices, func(t *testing.T) {
			raw := fmt.Sprintf(`[{"id":"1","endDate":%q,"markets":[{"outcomePrices":%s}]}]`, end, prices)
			markets := normalizeJSON(t, raw)
			if len(markets) != 1 {
				t.Fatalf("got %d markets", len(markets))
			}
			single := markets[0].Variant.(model.SingleOutcome)
			if single.YesPrice != 0.5 || single.NoPrice != 0.5 {
				t.Errorf("prices = %v/%v, want 0.5/0.5", single.YesPrice, single.NoPrice)
			}
		})
	}
}

func TestNormalizeMultiOutcome(t *testing.T) {
	end := testNow.Add(30 * 24 * time.Hour).Format(time.RFC3339)
	raw := fmt.Sprintf(`[{"id":"ev","title":"Who wins the election?","endDate":%q,"volume":1000,"volume24hr":10,"markets":[
		{"id":"a","groupItemTitle":"Alice","outcomePrices":"[\"0.62\",\"0.38\"]","clobTokenIds":"[\"ta\",\"ta-no\"]"},
		{"id":"b","groupItemTitle":"Bob","outcomePrices":"[\"0\",\"1\"]","clobTokenIds":["tb"]},
		{"id":"c","groupItemTitle":"Carol","closed":true,"outcomePrices":"[\"0.1\",\"0.9\"]"},
		{"id":"d","question":"Dave?","outcomePrices":["0.2","0.8"],"clobTokenIds":"td1, td2"}
	]}]`, end)
	markets := normalizeJSON(t, raw)
	if len(markets) != 1 {
		t.Fatalf("got %d markets", len(markets))
	}
	m := markets[0]
	multi, ok := m.Variant.(model.MultiOutcome)
	if !ok {
		t.Fatalf("variant = %T", m.Variant)
	}
	want := []model.Outcome{
		{Title: "Alice", Price: 0.62, TokenID: "ta", MarketID: "a"},
		{Title: "Bob", Price: 0.01, TokenID: "tb", MarketID: "b"},
		{Title: "Dave?", Price: 0.2, TokenID: "td1", MarketID: "d"},
	}
	if len(multi.Outcomes) != len(want) {
		t.Fatalf("outcomes = %+v", multi.Outcomes)
	}
	for i := range want {
		if multi.Outcomes[i] != want[i] {
			t.Errorf("outcome %d = %+v, want %+v", i, multi.Outcomes[i], want[i])
		}
	}
	if m.Category != "Politics" {
		t.Errorf("category = %s", m.Category)
	}
	if m.Change24h != 1 {
		t.Errorf("change24h = %v, want 1", m.Change24h)
	}
}

func TestNormalizeMultiOutcomeAllClosedDropped(t *testing.T) {
	end := testNow.Add(30 * 24 * time.Hour).Format(time.RFC3339)
	raw := fmt.Sprintf(`[{"id":"ev","endDate":%q,"markets":[{"closed":true},{"closed":true},{"closed":true}]}]`, end)
	if got := normalizeJSON(t, raw); len(got) != 0 {
		t.Errorf("expected drop, got %+v", got)
	}
}

func TestNormalizeKeepsOnlyFutureMarkets(t *testing.T) {
	var raw string
	for i := -3; i <= 5; i++ {
		end := testNow.Add(time.Duration(i) * 12 * time.Hour).Format(time.RFC3339)
		if raw != "" {
			raw += ","
		}
		raw += fmt.Sprintf(`{"id":"%d","endDate":%q,"markets":[{"outcomePrices":["0.5","0.5"]}]}`, i, end)
	}
	cutoff := Cutoff(testNow)
	markets := normalizeJSON(t, "["+raw+"]")
	if len(markets) != 3 {
		t.Errorf("kept %d markets, want 3", len(markets))
	}
	for _, m := range markets {
		end, err := time.Parse(time.RFC3339, m.EndDate)
		if err != nil {
			t.Fatalf("endDate %q: %v", m.EndDate, err)
		}
		if !end.After(cutoff) {
			t.Errorf("market %s ends %s, not after cutoff %s", m.ID, end, cutoff)
		}
	}
}

func TestParseEndDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2030-01-02", time.Date(2030, 1, 2, 23, 59, 59, 0, time.UTC)},
		{"2030-01-02T10:00:00Z", time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)},
		{"2030-01-02T10:00:00.123Z", time.Date(2030, 1, 2, 10, 0, 0, 123000000, time.UTC)},
		{"2030-01-02T12:00:00+02:00", time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)},
		{"2030-01-02T10:00:00", time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)},
		{"2030-01-02 10:00:00+00", time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseEndDate(tt.in)
		if err != nil {
			t.Errorf("ParseEndDate(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseEndDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "tomorrow", "2030-13-01", "01/02/2030"} {
		if _, err := ParseEndDate(bad); err == nil {
			t.Errorf("ParseEndDate(%q) should fail", bad)
		}
	}
}

func TestEstimateChange24h(t *testing.T) {
	tests := []struct {
		vol24, vol, lead, want float64
	}{
		{0, 0, 0.7, 0},
		{100, 0, 0.7, 0},
		{50, 1000, 0.7, 5},
		{50, 1000, 0.3, -5},
		{50, 1000, 0.5, 5},
		{900, 1000, 0.9, 15},
		{900, 1000, 0.1, -15},
		{1, 30, 0.6, 3.33},
	}
	for _, tt := range tests {
		if got := EstimateChange24h(tt.vol24, tt.vol, tt.lead); got != tt.want {
			t.Errorf("EstimateChange24h(%v, %v, %v) = %v, want %v", tt.vol24, tt.vol, tt.lead, got, tt.want)
		}
	}
}
