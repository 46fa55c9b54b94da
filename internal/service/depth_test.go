package service

import (
	"testing"

	"PolyFluid/internal/model"
	"PolyFluid/internal/utils/jsonx"
)

func lvl(p, s float64) model.RawLevel {
	return model.RawLevel{Price: jsonx.Number(p), Size: jsonx.Number(s)}
}

func checkSide(t *testing.T, side string, levels []model.OrderbookLevel, descending bool) {
	t.Helper()
	var sum float64
	for i, l := range levels {
		if l.Price <= 0 || l.Size <= 0 {
			t.Errorf("%s[%d] invalid level %+v", side, i, l)
		}
		sum += l.Size
		if l.Total != sum {
			t.Errorf("%s[%d] total = %v, want %v", side, i, l.Total, sum)
		}
		if i == 0 {
			continue
		}
		prev := levels[i-1].Price
		if descending && l.Price > prev || !descending && l.Price < prev {
			t.Errorf("%s[%d] breaks ordering: %v after %v", side, i, l.Price, prev)
		}
	}
}

func TestAdaptOrderbook(t *testing.T) {
	raw := &model.RawOrderBook{
		Bids: []model.RawLevel{lvl(0.5, 10), lvl(0.49, 0), lvl(0.48, 5), lvl(0.6, 1), lvl(-1, 3), lvl(0.47, 2)},
		Asks: []model.RawLevel{lvl(0.52, 4), lvl(0.51, 9), lvl(0.53, 6), lvl(1.2, 1), lvl(0.55, 1)},
	}
	book := AdaptOrderbook(raw)

	wantBids := []model.OrderbookLevel{{Price: 0.5, Size: 10, Total: 10}, {Price: 0.48, Size: 5, Total: 15}, {Price: 0.47, Size: 2, Total: 17}}
	wantAsks := []model.OrderbookLevel{{Price: 0.52, Size: 4, Total: 4}, {Price: 0.53, Size: 6, Total: 10}, {Price: 0.55, Size: 1, Total: 11}}
	if len(book.Bids) != len(wantBids) || len(book.Asks) != len(wantAsks) {
		t.Fatalf("book = %+v", book)
	}
	for i := range wantBids {
		if book.Bids[i] != wantBids[i] {
			t.Errorf("bid %d = %+v, want %+v", i, book.Bids[i], wantBids[i])
		}
	}
	for i := range wantAsks {
		if book.Asks[i] != wantAsks[i] {
			t.Errorf("ask %d = %+v, want %+v", i, book.Asks[i], wantAsks[i])
		}
	}
	checkSide(t, "bids", book.Bids, true)
	checkSide(t, "asks", book.Asks, false)
}

func TestAdaptOrderbookTopTenOnly(t *testing.T) {
	var bids []model.RawLevel
	for i := 0; i < 15; i++ {
		bids = append(bids, lvl(0.9-float64(i)*0.01, 1))
	}
	book := AdaptOrderbook(&model.RawOrderBook{Bids: bids})
	if len(book.Bids) != 10 {
		t.Errorf("bids = %d, want 10", len(book.Bids))
	}
	if book.Bids[9].Total != 10 {
		t.Errorf("last total = %v", book.Bids[9].Total)
	}
	if book.Asks == nil || len(book.Asks) != 0 {
		t.Errorf("asks should be empty but present: %#v", book.Asks)
	}
}

func TestAdaptOrderbookNil(t *testing.T) {
	book := AdaptOrderbook(nil)
	if book.Bids == nil || book.Asks == nil {
		t.Error("nil book should still produce empty sides")
	}
}

func TestAdaptChart(t *testing.T) {
	raw := []model.RawPricePoint{
		{T: 1700000000, P: 0.4},
		{T: 0, P: 0.5},
		{T: 1700000600, P: 0},
		{T: 1700001200, P: 1.01},
		{T: -5, P: 0.2},
		{T: 1700001800, P: 1},
		{T: 1699999999, P: 0.35},
	}
	points := AdaptChart(raw)
	want := []int64{1700000000, 1700001800, 1699999999}
	if len(points) != len(want) {
		t.Fatalf("points = %+v", points)
	}
	for i, p := range points {
		if p.Timestamp != want[i] {
			t.Errorf("point %d timestamp = %d, want %d", i, p.Timestamp, want[i])
		}
		if p.Date != p.Timestamp*1000 {
			t.Errorf("point %d date = %d", i, p.Date)
		}
		if p.Price < 0 || p.Price > 1 {
			t.Errorf("point %d price = %v", i, p.Price)
		}
	}
}
