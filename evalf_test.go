package gruntz_test

import (
	"errors"
	"testing"

	"github.com/njchilds90/gruntz"
	"github.com/shopspring/decimal"
)

func decimalTolerance() decimal.Decimal { return decimal.New(1, -20) }

func TestEvalf_Rational(t *testing.T) {
	d, err := gruntz.Evalf(gruntz.F(1, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "0.5" {
		t.Errorf("want 0.5, got %s", d)
	}
}

func TestEvalf_IntegerPower(t *testing.T) {
	d, err := gruntz.Evalf(gruntz.PowOf(gruntz.N(2), gruntz.N(10)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "1024" {
		t.Errorf("want 1024, got %s", d)
	}
}

func TestEvalf_ExpIsPositive(t *testing.T) {
	// exp(1) - 2 > 0, exp(1) - 3 < 0
	lo, err := gruntz.Evalf(gruntz.SubOf(gruntz.ExpOf(gruntz.N(1)), gruntz.N(2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lo.Sign() != 1 {
		t.Errorf("exp(1) - 2 should be positive, got %s", lo)
	}
	hi, err := gruntz.Evalf(gruntz.SubOf(gruntz.ExpOf(gruntz.N(1)), gruntz.N(3)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hi.Sign() != -1 {
		t.Errorf("exp(1) - 3 should be negative, got %s", hi)
	}
}

func TestEvalf_LogExpRoundTrip(t *testing.T) {
	// log(exp(2)) folds symbolically, so force the numeric path through a
	// half-integer power.
	d, err := gruntz.Evalf(gruntz.PowOf(gruntz.N(4), gruntz.F(1, 2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff, _ := gruntz.Evalf(gruntz.N(2))
	if d.Sub(diff).Abs().Cmp(decimalTolerance()) > 0 {
		t.Errorf("4^(1/2) should be close to 2, got %s", d)
	}
}

func TestEvalf_SymbolFails(t *testing.T) {
	_, err := gruntz.Evalf(gruntz.AddOf(gruntz.S("x"), gruntz.N(1)))
	if !errors.Is(err, gruntz.ErrUnsupported) {
		t.Errorf("want ErrUnsupported, got %v", err)
	}
}

func TestEvalf_LogOfNegativeFails(t *testing.T) {
	_, err := gruntz.Evalf(gruntz.LogOf(gruntz.N(-1)))
	if !errors.Is(err, gruntz.ErrUnsupported) {
		t.Errorf("want ErrUnsupported, got %v", err)
	}
}
