package service

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"PolyFluid/internal/errs"
	"PolyFluid/internal/model"
	"PolyFluid/internal/utils/jsonx"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func mustEvents(raw string) []model.RawEvent {
	var list []jsonx.Object
	if err := jsonx.Decode([]byte(raw), &list); err != nil {
		panic(err)
	}
	out := make([]model.RawEvent, len(list))
	for i, o := range list {
		out[i] = o
	}
	return out
}

type fakeSource struct {
	mu          sync.Mutex
	events      []model.RawEvent
	eventsErr   error
	byEvent     map[string]model.RawEvent
	byMarket    map[string]model.RawMarket
	book        *model.RawOrderBook
	bookErr     error
	history     []model.RawPricePoint
	historyErr  error
	gotLimit    int
	gotFidelity int
	gotInterval string
}

func (f *fakeSource) FetchEvents(_ context.Context, limit, _ int) ([]model.RawEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotLimit = limit
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events, nil
}

func (f *fakeSource) FetchEvent(_ context.Context, id string) (model.RawEvent, error) {
	if ev, ok := f.byEvent[id]; ok {
		return ev, nil
	}
	return nil, errs.New(errs.KindNotFound, "not found")
}

func (f *fakeSource) FetchMarket(_ context.Context, id string) (model.RawMarket, error) {
	if m, ok := f.byMarket[id]; ok {
		return m, nil
	}
	return nil, errs.New(errs.KindNotFound, "not found")
}

func (f *fakeSource) FetchOrderBook(_ context.Context, _ string) (*model.RawOrderBook, error) {
	return f.book, f.bookErr
}

func (f *fakeSource) FetchPriceHistory(_ context.Context, _, interval string, fidelity int) ([]model.RawPricePoint, error) {
	f.gotInterval, f.gotFidelity = interval, fidelity
	return f.history, f.historyErr
}

type fakeLLM struct {
	text   string
	err    error
	prompt string
}

func (f *fakeLLM) Complete(_ context.Context, _, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

type fakeChain struct {
	balance     uint64
	balanceErr  error
	transferErr error
	sig         string
	transfers   []uint64
	balanceHits int
}

func (f *fakeChain) PayerAddress() string { return "payer" }

func (f *fakeChain) Balance(context.Context) (uint64, error) {
	f.balanceHits++
	return f.balance, f.balanceErr
}

func (f *fakeChain) Transfer(_ context.Context, _ string, lamports uint64) (string, error) {
	f.transfers = append(f.transfers, lamports)
	if f.transferErr != nil {
		return "", f.transferErr
	}
	return f.sig, nil
}

func (f *fakeChain) ValidateAddress(address string) error {
	if address == "bad" {
		return errs.New(errs.KindInvalidInput, "bad address")
	}
	return nil
}
