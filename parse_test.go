package gruntz_test

import (
	"testing"

	"github.com/njchilds90/gruntz"
)

func TestParse_Arithmetic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2*x + 3", "2*x + 3"},
		{"x - x", "0"},
		{"x**2/2", "1/2*x^2"},
		{"(1 + 1/x)^x", "(x^-1 + 1)^x"},
		{"-x^2", "-1*x^2"},
		{"3.5", "7/2"},
		{"oo", "oo"},
		{"-oo", "-oo"},
	}
	for _, c := range cases {
		e, err := gruntz.Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", c.in, err)
		}
		if e.String() != c.want {
			t.Errorf("Parse(%q): want %s, got %s", c.in, c.want, e)
		}
	}
}

func TestParse_FunctionsCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"log(exp(x))", "x"},
		{"exp(-x)", "exp(-1*x)"},
		{"sqrt(x)", "x^(1/2)"},
		{"ln(x)", "log(x)"},
		{"sin(0)", "0"},
	}
	for _, c := range cases {
		e, err := gruntz.Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", c.in, err)
		}
		if e.String() != c.want {
			t.Errorf("Parse(%q): want %s, got %s", c.in, c.want, e)
		}
	}
}

func TestParse_PowerIsRightAssociative(t *testing.T) {
	a, err := gruntz.Parse("2^3^2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2^(3^2) = 512, not (2^3)^2 = 64
	if a.String() != "512" {
		t.Errorf("want 512, got %s", a)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "2 +", "(x", "x )", "sin(x", "@"} {
		if _, err := gruntz.Parse(in); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestParse_RoundTripsThroughLimit(t *testing.T) {
	e, err := gruntz.Parse("x*exp(-x)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := gruntz.Limit(e, gruntz.S("x"), gruntz.PosInf, "+")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.String() != "0" {
		t.Errorf("want 0, got %s", res)
	}
}
