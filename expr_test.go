package gruntz_test

import (
	"testing"

	"github.com/njchilds90/gruntz"
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := gruntz.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_RationalNormalizes(t *testing.T) {
	n := gruntz.F(2, 6)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	result := gruntz.N(5).Diff(gruntz.S("x"))
	if result.String() != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", result.String())
	}
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_String(t *testing.T) {
	x := gruntz.S("x")
	if x.String() != "x" {
		t.Errorf("want x, got %s", x.String())
	}
}

func TestSym_DummyNeverEqualsUserSymbol(t *testing.T) {
	w := gruntz.Dummy("w")
	if w.Equal(gruntz.S("w")) {
		t.Errorf("a dummy must not equal a user symbol of the same name")
	}
	if !w.Equal(w) {
		t.Errorf("a dummy must equal itself")
	}
	if w.Equal(gruntz.Dummy("w")) {
		t.Errorf("two dummies with the same name must stay distinct")
	}
}

// ============================================================
// Add tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	expr := gruntz.AddOf(gruntz.S("x"), gruntz.N(3))
	if expr.String() != "x + 3" {
		t.Errorf("want 'x + 3', got %s", expr.String())
	}
}

func TestAdd_LikeTermsBeyondSymbols(t *testing.T) {
	x := gruntz.S("x")
	expr := gruntz.AddOf(gruntz.MulOf(gruntz.N(2), gruntz.ExpOf(x)), gruntz.ExpOf(x))
	if expr.String() != "3*exp(x)" {
		t.Errorf("want '3*exp(x)', got %s", expr.String())
	}
}

func TestAdd_CancelsOpposites(t *testing.T) {
	x := gruntz.S("x")
	expr := gruntz.AddOf(gruntz.ExpOf(x), gruntz.MulOf(gruntz.N(-1), gruntz.ExpOf(x)))
	if expr.String() != "0" {
		t.Errorf("want 0, got %s", expr.String())
	}
}

// ============================================================
// Mul tests
// ============================================================

func TestMul_MergesSameBasePowers(t *testing.T) {
	x := gruntz.S("x")
	if got := gruntz.MulOf(x, gruntz.PowOf(x, gruntz.N(-1))).String(); got != "1" {
		t.Errorf("x*x^-1 should fold to 1, got %s", got)
	}
	if got := gruntz.MulOf(gruntz.PowOf(x, gruntz.N(2)), x).String(); got != "x^3" {
		t.Errorf("x^2*x should fold to x^3, got %s", got)
	}
}

func TestMul_MergesExponentials(t *testing.T) {
	x := gruntz.S("x")
	got := gruntz.MulOf(gruntz.ExpOf(x), gruntz.ExpOf(gruntz.NegOf(x))).String()
	if got != "1" {
		t.Errorf("exp(x)*exp(-x) should fold to 1, got %s", got)
	}
}

func TestMul_DivisionForm(t *testing.T) {
	x := gruntz.S("x")
	got := gruntz.DivOf(gruntz.ExpOf(x), x).String()
	if got != "exp(x)*x^-1" {
		t.Errorf("want 'exp(x)*x^-1', got %s", got)
	}
}

// ============================================================
// Pow and exp/log identities
// ============================================================

func TestPow_OfExpFolds(t *testing.T) {
	x := gruntz.S("x")
	got := gruntz.PowOf(gruntz.ExpOf(x), gruntz.N(-1)).String()
	if got != "exp(-1*x)" {
		t.Errorf("want 'exp(-1*x)', got %s", got)
	}
}

func TestLog_Identities(t *testing.T) {
	x := gruntz.S("x")
	if got := gruntz.LogOf(gruntz.ExpOf(x)).String(); got != "x" {
		t.Errorf("log(exp(x)) should fold to x, got %s", got)
	}
	if got := gruntz.ExpOf(gruntz.LogOf(x)).String(); got != "x" {
		t.Errorf("exp(log(x)) should fold to x, got %s", got)
	}
	if got := gruntz.LogOf(gruntz.PowOf(x, gruntz.N(3))).String(); got != "3*log(x)" {
		t.Errorf("log(x^3) should fold to 3*log(x), got %s", got)
	}
	if got := gruntz.LogOf(gruntz.MulOf(gruntz.N(2), x)).String(); got != "log(2) + log(x)" {
		t.Errorf("log(2*x) should split, got %s", got)
	}
}

// ============================================================
// Infinity
// ============================================================

func TestInf_AbsorbsFiniteTerms(t *testing.T) {
	if got := gruntz.AddOf(gruntz.PosInf, gruntz.N(5)).String(); got != "oo" {
		t.Errorf("oo + 5 should be oo, got %s", got)
	}
	if got := gruntz.MulOf(gruntz.N(-2), gruntz.PosInf).String(); got != "-oo" {
		t.Errorf("-2*oo should be -oo, got %s", got)
	}
}

func TestInf_IndeterminateSumStaysUnevaluated(t *testing.T) {
	got := gruntz.AddOf(gruntz.PosInf, gruntz.NegInf).String()
	if got != "oo + -oo" {
		t.Errorf("oo + -oo must not fold, got %s", got)
	}
}

// ============================================================
// Subs, Equal, Expand, Diff
// ============================================================

func TestSubs_Subexpression(t *testing.T) {
	x := gruntz.S("x")
	e := gruntz.AddOf(gruntz.ExpOf(x), x)
	got := e.Subs(gruntz.ExpOf(x), gruntz.S("y")).String()
	if got != "x + y" {
		t.Errorf("want 'x + y', got %s", got)
	}
}

func TestSubs_Recanonicalizes(t *testing.T) {
	x := gruntz.S("x")
	got := gruntz.AddOf(x, gruntz.N(1)).Subs(x, gruntz.N(2)).String()
	if got != "3" {
		t.Errorf("want 3, got %s", got)
	}
}

func TestEqual_AcrossConstructionOrder(t *testing.T) {
	x := gruntz.S("x")
	a := gruntz.AddOf(x, gruntz.N(1), x)
	b := gruntz.AddOf(gruntz.MulOf(gruntz.N(2), x), gruntz.N(1))
	if !a.Equal(b) {
		t.Errorf("%s and %s should be equal", a, b)
	}
	if a.Equal(gruntz.AddOf(x, gruntz.N(1))) {
		t.Errorf("%s should not equal x + 1", a)
	}
}

func TestExpand_DifferenceOfSquares(t *testing.T) {
	x := gruntz.S("x")
	e := gruntz.MulOf(gruntz.AddOf(x, gruntz.N(1)), gruntz.AddOf(x, gruntz.N(-1)))
	if got := gruntz.Expand(e).String(); got != "x^2 + -1" {
		t.Errorf("want 'x^2 + -1', got %s", got)
	}
}

func TestExpand_LeavesAtomicPowersAlone(t *testing.T) {
	x := gruntz.S("x")
	if got := gruntz.Expand(gruntz.PowOf(x, gruntz.N(2))).String(); got != "x^2" {
		t.Errorf("Expand(x^2) should stay x^2, got %s", got)
	}
	e := gruntz.MulOf(gruntz.PowOf(x, gruntz.N(2)), gruntz.ExpOf(gruntz.NegOf(x)))
	if got := gruntz.Expand(e).String(); got != "exp(-1*x)*x^2" {
		t.Errorf("Expand(x^2*exp(-x)) should stay put, got %s", got)
	}
}

func TestExpand_BinomialSquare(t *testing.T) {
	x := gruntz.S("x")
	e := gruntz.PowOf(gruntz.AddOf(x, gruntz.N(1)), gruntz.N(2))
	if got := gruntz.Expand(e).String(); got != "2*x + x^2 + 1" {
		t.Errorf("want '2*x + x^2 + 1', got %s", got)
	}
}

func TestDiff_Basics(t *testing.T) {
	x := gruntz.S("x")
	if got := gruntz.PowOf(x, gruntz.N(2)).Diff(x).String(); got != "2*x" {
		t.Errorf("d/dx(x^2) should be 2*x, got %s", got)
	}
	if got := gruntz.ExpOf(x).Diff(x).String(); got != "exp(x)" {
		t.Errorf("d/dx(exp(x)) should be exp(x), got %s", got)
	}
	if got := gruntz.LogOf(x).Diff(x).String(); got != "x^-1" {
		t.Errorf("d/dx(log(x)) should be x^-1, got %s", got)
	}
}

func TestHas(t *testing.T) {
	x := gruntz.S("x")
	e := gruntz.ExpOf(gruntz.MulOf(x, gruntz.LogOf(x)))
	if !gruntz.Has(e, x) {
		t.Errorf("%s should contain x", e)
	}
	if gruntz.Has(e, gruntz.S("y")) {
		t.Errorf("%s should not contain y", e)
	}
}
