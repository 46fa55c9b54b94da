package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"PolyFluid/internal/errs"
)

func TestToLamports(t *testing.T) {
	tests := []struct {
		in   float64
		want uint64
	}{
		{1, 1_000_000_000},
		{1.5, 1_500_000_000},
		{0.1, 100_000_000},
		{0.000000001, 1},
		{0.0000000019, 1},
		{2.123456789, 2_123_456_789},
	}
	for _, tt := range tests {
		got, err := ToLamports(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ToLamports(%v) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []float64{0, -1, 1e-10, math.NaN(), math.Inf(1), 1e12} {
		if _, err := ToLamports(bad); !errs.Is(err, errs.KindInvalidInput) {
			t.Errorf("ToLamports(%v) err = %v", bad, err)
		}
	}
}

func TestRefundInsufficientBalance(t *testing.T) {
	chain := &fakeChain{balance: 500_000_000}
	_, err := NewRefundService(chain, quietLogger()).Refund(context.Background(), "p1", "wallet", 1)
	if !errs.Is(err, errs.KindInsufficientBalance) {
		t.Fatalf("err = %v", err)
	}
	if errs.HTTPStatus(errs.KindOf(err)) != 400 || !strings.Contains(errs.PublicMessage(err), "insufficient balance") {
		t.Errorf("status/message = %d %q", errs.HTTPStatus(errs.KindOf(err)), errs.PublicMessage(err))
	}
	if len(chain.transfers) != 0 {
		t.Errorf("no transfer expected, got %v", chain.transfers)
	}
}

func TestRefundSuccess(t *testing.T) {
	chain := &fakeChain{balance: 5_000_000_000, sig: "sig123"}
	res, err := NewRefundService(chain, quietLogger()).Refund(context.Background(), "p1", "wallet", 1.25)
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if !res.Success || res.Signature != "sig123" || res.Amount != 1.25 {
		t.Errorf("result = %+v", res)
	}
	if len(chain.transfers) != 1 || chain.transfers[0] != 1_250_000_000 {
		t.Errorf("transfers = %v", chain.transfers)
	}
}

func TestRefundLogsPayingWallet(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	chain := &fakeChain{balance: 5_000_000_000, sig: "sig-log"}
	if _, err := NewRefundService(chain, logger).Refund(context.Background(), "p9", "wallet", 0.5); err != nil {
		t.Fatalf("Refund: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"from":"payer"`, `"position_id":"p9"`, `"signature":"sig-log"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
}

func TestRefundExactBalanceAllowed(t *testing.T) {
	chain := &fakeChain{balance: 1_000_000_000, sig: "s"}
	if _, err := NewRefundService(chain, quietLogger()).Refund(context.Background(), "p1", "wallet", 1); err != nil {
		t.Fatalf("Refund: %v", err)
	}
}

func TestRefundChainFailureIsSanitized(t *testing.T) {
	chain := &fakeChain{balance: 5_000_000_000, transferErr: errors.New("rpc: node says 5xSecretish")}
	_, err := NewRefundService(chain, quietLogger()).Refund(context.Background(), "p1", "wallet", 1)
	if !errs.Is(err, errs.KindChain) {
		t.Fatalf("err = %v", err)
	}
	if msg := errs.PublicMessage(err); strings.Contains(msg, "Secretish") || msg != "failed to close position" {
		t.Errorf("public message = %q", msg)
	}

	chain = &fakeChain{balanceErr: errors.New("rpc down")}
	if _, err := NewRefundService(chain, quietLogger()).Refund(context.Background(), "p1", "wallet", 1); !errs.Is(err, errs.KindChain) {
		t.Errorf("balance failure err = %v", err)
	}
}

func TestRefundValidation(t *testing.T) {
	chain := &fakeChain{balance: 5_000_000_000}
	s := NewRefundService(chain, quietLogger())
	cases := []struct {
		wallet string
		amount float64
	}{
		{"", 1},
		{"bad", 1},
		{"wallet", 0},
		{"wallet", -2},
	}
	for _, c := range cases {
		if _, err := s.Refund(context.Background(), "p1", c.wallet, c.amount); !errs.Is(err, errs.KindInvalidInput) {
			t.Errorf("Refund(%q, %v) err = %v", c.wallet, c.amount, err)
		}
	}
	if chain.balanceHits != 0 || len(chain.transfers) != 0 {
		t.Errorf("invalid input must not reach the chain: balance=%d transfers=%v", chain.balanceHits, chain.transfers)
	}

	if _, err := NewRefundService(nil, quietLogger()).Refund(context.Background(), "p1", "wallet", 1); !errs.Is(err, errs.KindChain) {
		t.Errorf("unconfigured err = %v", err)
	}
}
