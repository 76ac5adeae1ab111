package gruntz

import (
	"math"

	"github.com/shopspring/decimal"
)

// evalfPrec is the working precision (decimal digits) of the numeric
// backend. The sign oracle only needs enough digits to separate a nonzero
// constant from zero.
const evalfPrec = 32

// Evalf evaluates a constant expression numerically. It returns
// ErrUnsupported (wrapped) when e contains a free symbol or a node with no
// numeric interpretation.
func Evalf(e Expr) (decimal.Decimal, error) {
	switch v := e.(type) {
	case *Num:
		num := decimal.NewFromBigInt(v.val.Num(), 0)
		den := decimal.NewFromBigInt(v.val.Denom(), 0)
		return num.DivRound(den, evalfPrec), nil
	case *Sym:
		return decimal.Zero, unsupportedf("cannot evaluate symbol %s", v.name)
	case *Add:
		sum := decimal.Zero
		for _, t := range v.terms {
			d, err := Evalf(t)
			if err != nil {
				return decimal.Zero, err
			}
			sum = sum.Add(d)
		}
		return sum, nil
	case *Mul:
		prod := decimal.NewFromInt(1)
		for _, f := range v.factors {
			d, err := Evalf(f)
			if err != nil {
				return decimal.Zero, err
			}
			prod = prod.Mul(d)
		}
		return prod, nil
	case *Pow:
		return evalfPow(v)
	case *Func:
		return evalfFunc(v)
	case *Inf:
		return decimal.Zero, unsupportedf("cannot evaluate %s numerically", v)
	}
	return decimal.Zero, unsupportedf("cannot evaluate %s numerically", e)
}

func evalfPow(p *Pow) (decimal.Decimal, error) {
	base, err := Evalf(p.base)
	if err != nil {
		return decimal.Zero, err
	}
	if n, ok := p.exp.(*Num); ok && n.IsInteger() && n.val.Num().IsInt64() {
		e := n.val.Num().Int64()
		if e > -1000 && e < 1000 {
			return decIntPow(base, e)
		}
	}
	exp, err := Evalf(p.exp)
	if err != nil {
		return decimal.Zero, err
	}
	// b^q = exp(q*ln b), defined here for positive bases only.
	if base.Sign() <= 0 {
		return decimal.Zero, unsupportedf("cannot evaluate %s numerically", p)
	}
	lnb, err := base.Ln(evalfPrec)
	if err != nil {
		return decimal.Zero, unsupportedf("cannot evaluate %s numerically", p)
	}
	return exp.Mul(lnb).ExpTaylor(evalfPrec)
}

func decIntPow(base decimal.Decimal, e int64) (decimal.Decimal, error) {
	neg := e < 0
	if neg {
		e = -e
	}
	result := decimal.NewFromInt(1)
	for i := int64(0); i < e; i++ {
		result = result.Mul(base)
	}
	if neg {
		if result.Sign() == 0 {
			return decimal.Zero, unsupportedf("division by zero in numeric power")
		}
		return decimal.NewFromInt(1).DivRound(result, evalfPrec), nil
	}
	return result.Round(evalfPrec), nil
}

func evalfFunc(f *Func) (decimal.Decimal, error) {
	arg, err := Evalf(f.arg)
	if err != nil {
		return decimal.Zero, err
	}
	switch f.name {
	case "exp":
		return arg.ExpTaylor(evalfPrec)
	case "log":
		if arg.Sign() <= 0 {
			return decimal.Zero, unsupportedf("cannot evaluate %s numerically", f)
		}
		return arg.Ln(evalfPrec)
	case "sin", "cos", "tan", "sinh", "cosh", "tanh", "atan":
		// Trigonometric values never feed exponent comparisons, so float64
		// precision is enough here.
		x, _ := arg.Float64()
		var y float64
		switch f.name {
		case "sin":
			y = math.Sin(x)
		case "cos":
			y = math.Cos(x)
		case "tan":
			y = math.Tan(x)
		case "sinh":
			y = math.Sinh(x)
		case "cosh":
			y = math.Cosh(x)
		case "tanh":
			y = math.Tanh(x)
		case "atan":
			y = math.Atan(x)
		}
		if math.IsInf(y, 0) || math.IsNaN(y) {
			return decimal.Zero, unsupportedf("cannot evaluate %s numerically", f)
		}
		return decimal.NewFromFloat(y), nil
	}
	return decimal.Zero, unsupportedf("cannot evaluate %s numerically", f)
}
