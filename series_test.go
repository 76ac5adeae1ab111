package gruntz_test

import (
	"errors"
	"testing"

	"github.com/njchilds90/gruntz"
)

// ============================================================
// OSeries
// ============================================================

func TestOSeries_Geometric(t *testing.T) {
	w := gruntz.S("w")
	e := gruntz.PowOf(gruntz.AddOf(gruntz.N(1), gruntz.NegOf(w)), gruntz.N(-1))
	s, err := gruntz.OSeries(e, w, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.String() != "w + w^2 + w^3 + w^4 + 1" {
		t.Errorf("1/(1-w) expansion wrong, got %s", s)
	}
}

func TestOSeries_Sin(t *testing.T) {
	w := gruntz.S("w")
	s, err := gruntz.OSeries(gruntz.SinOf(w), w, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.String() != "w" {
		t.Errorf("sin(w) to order 2 should be w, got %s", s)
	}
}

func TestOSeries_Cos(t *testing.T) {
	w := gruntz.S("w")
	s, err := gruntz.OSeries(gruntz.CosOf(w), w, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.String() != "-1/2*w^2 + 1" {
		t.Errorf("cos(w) to order 2 wrong, got %s", s)
	}
}

func TestOSeries_ProductsCancelExactly(t *testing.T) {
	w := gruntz.S("w")
	// w^-1 * w has to fold to 1 through the series layer, or negative
	// powers would poison every rewrite.
	e := gruntz.MulOf(gruntz.PowOf(w, gruntz.N(-1)), w)
	s, err := gruntz.OSeries(e, w, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.String() != "1" {
		t.Errorf("want 1, got %s", s)
	}
}

func TestOSeries_PoleInExp(t *testing.T) {
	w := gruntz.S("w")
	_, err := gruntz.OSeries(gruntz.ExpOf(gruntz.PowOf(w, gruntz.N(-1))), w, 2)
	var pole *gruntz.PoleError
	if !errors.As(err, &pole) {
		t.Fatalf("want *PoleError, got %v", err)
	}
}

func TestOSeries_PoleInTaylorArgument(t *testing.T) {
	w := gruntz.S("w")
	_, err := gruntz.OSeries(gruntz.SinOf(gruntz.PowOf(w, gruntz.N(-1))), w, 2)
	var pole *gruntz.PoleError
	if !errors.As(err, &pole) {
		t.Fatalf("want *PoleError, got %v", err)
	}
}

// ============================================================
// LeadTerm
// ============================================================

func TestLeadTerm_Log1p(t *testing.T) {
	w := gruntz.S("w")
	s, err := gruntz.OSeries(gruntz.LogOf(gruntz.AddOf(gruntz.N(1), w)), w, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c0, e0, err := gruntz.LeadTerm(s, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c0.String() != "1" || e0.String() != "1" {
		t.Errorf("log(1+w) ~ w, got %s*w^%s", c0, e0)
	}
}

func TestLeadTerm_PicksMinimalExponent(t *testing.T) {
	w := gruntz.S("w")
	e := gruntz.AddOf(
		gruntz.MulOf(gruntz.N(5), gruntz.PowOf(w, gruntz.N(2))),
		gruntz.MulOf(gruntz.N(3), gruntz.PowOf(w, gruntz.N(-1))),
		gruntz.N(7),
	)
	c0, e0, err := gruntz.LeadTerm(e, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c0.String() != "3" || e0.String() != "-1" {
		t.Errorf("want 3*w^-1, got %s*w^%s", c0, e0)
	}
}

func TestLeadTerm_KeepsLogInCoefficient(t *testing.T) {
	w := gruntz.S("w")
	e := gruntz.MulOf(gruntz.LogOf(w), w)
	c0, e0, err := gruntz.LeadTerm(e, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c0.String() != "log(w)" || e0.String() != "1" {
		t.Errorf("want log(w)*w^1, got %s*w^%s", c0, e0)
	}
}

func TestLeadTerm_Zero(t *testing.T) {
	w := gruntz.S("w")
	c0, e0, err := gruntz.LeadTerm(gruntz.N(0), w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c0.String() != "0" || e0.String() != "0" {
		t.Errorf("lead term of 0 should be (0, 0), got (%s, %s)", c0, e0)
	}
}

// ============================================================
// Public Series API
// ============================================================

func TestSeries_Exp(t *testing.T) {
	x := gruntz.S("x")
	s, err := gruntz.Series(gruntz.ExpOf(x), x, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.String() != "O(x^2) + x + 1" {
		t.Errorf("exp(x) series wrong, got %s", s)
	}
}

func TestSeries_SubsRetargetsOTerm(t *testing.T) {
	x, y := gruntz.S("x"), gruntz.S("y")
	s, err := gruntz.Series(gruntz.ExpOf(x), x, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Subs(x, y).String(); got != "O(y^2) + y + 1" {
		t.Errorf("want 'O(y^2) + y + 1', got %s", got)
	}
}

func TestSeries_Log1p(t *testing.T) {
	x := gruntz.S("x")
	s, err := gruntz.Series(gruntz.LogOf(gruntz.AddOf(gruntz.N(1), x)), x, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.String() != "-1/2*x^2 + O(x^3) + x" {
		t.Errorf("log(1+x) series wrong, got %s", s)
	}
}
