// Package gruntz is a small computer-algebra core built around an
// asymptotic limit engine (the Gruntz algorithm).
//
// Expressions are immutable trees; constructors canonicalize eagerly
// (constant folding, flattening, like-term collection, exp/log rules), and
// every transformation returns a new tree. Equality is decided by a cached
// 128-bit content hash with an exact structural comparison behind it.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat)
//   - Deterministic simplification and stable output
//   - Embeddable in Go services and CLI tools
package gruntz

import (
	"math/big"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	String() string
	// Subs replaces every subexpression equal to old with new and returns
	// the rebuilt (re-canonicalized) tree.
	Subs(old, new Expr) Expr
	Diff(x *Sym) Expr
	Equal(other Expr) bool
	digest() h128
}

// equalExpr is the one place equality is decided: digests first, exact
// structural comparison whenever the digests match.
func equalExpr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.digest() != b.digest() {
		return false
	}
	return structEqual(a, b)
}

func structEqual(a, b Expr) bool {
	switch x := a.(type) {
	case *Num:
		y, ok := b.(*Num)
		return ok && x.val.Cmp(y.val) == 0
	case *Sym:
		y, ok := b.(*Sym)
		return ok && x.name == y.name && x.dummy == y.dummy && x.id == y.id
	case *Add:
		y, ok := b.(*Add)
		if !ok || len(x.terms) != len(y.terms) {
			return false
		}
		for i := range x.terms {
			if !structEqual(x.terms[i], y.terms[i]) {
				return false
			}
		}
		return true
	case *Mul:
		y, ok := b.(*Mul)
		if !ok || len(x.factors) != len(y.factors) {
			return false
		}
		for i := range x.factors {
			if !structEqual(x.factors[i], y.factors[i]) {
				return false
			}
		}
		return true
	case *Pow:
		y, ok := b.(*Pow)
		return ok && structEqual(x.base, y.base) && structEqual(x.exp, y.exp)
	case *Func:
		y, ok := b.(*Func)
		return ok && x.name == y.name && structEqual(x.arg, y.arg)
	case *Inf:
		y, ok := b.(*Inf)
		return ok && x.sign == y.sign
	case *BigO:
		y, ok := b.(*BigO)
		return ok && structEqual(x.expr, y.expr) && structEqual(x.x, y.x)
	case *LimitExpr:
		y, ok := b.(*LimitExpr)
		return ok && structEqual(x.e, y.e) && structEqual(x.z, y.z) &&
			structEqual(x.z0, y.z0) && x.dir == y.dir
	}
	return false
}

// Has reports whether sub occurs anywhere inside e.
func Has(e, sub Expr) bool {
	if equalExpr(e, sub) {
		return true
	}
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			if Has(t, sub) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if Has(f, sub) {
				return true
			}
		}
	case *Pow:
		return Has(v.base, sub) || Has(v.exp, sub)
	case *Func:
		return Has(v.arg, sub)
	case *BigO:
		return Has(v.expr, sub) || Has(v.x, sub)
	case *LimitExpr:
		return Has(v.e, sub) || Has(v.z, sub) || Has(v.z0, sub)
	}
	return false
}

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct {
	val *big.Rat
	h   h128
	hok bool
}

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("gruntz: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}
func NFloat(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }

func (n *Num) IsZero() bool     { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool      { return n.val.Cmp(ratOne) == 0 }
func (n *Num) IsNegOne() bool   { return n.val.Cmp(ratNegOne) == 0 }
func (n *Num) IsInteger() bool  { return n.val.IsInt() }
func (n *Num) IsPositive() bool { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool { return n.val.Sign() < 0 }
func (n *Num) Sign() int        { return n.val.Sign() }
func (n *Num) Rat() *big.Rat    { return new(big.Rat).Set(n.val) }

var (
	ratOne    = new(big.Rat).SetInt64(1)
	ratNegOne = new(big.Rat).SetInt64(-1)
)

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) Subs(old, new Expr) Expr {
	if equalExpr(n, old) {
		return new
	}
	return n
}

func (n *Num) Diff(*Sym) Expr { return N(0) }

func (n *Num) Equal(other Expr) bool { return equalExpr(n, other) }

func (n *Num) digest() h128 {
	if !n.hok {
		n.h = hashNode('n', []byte(n.val.RatString()))
		n.hok = true
	}
	return n.h
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numSub(a, b *Num) *Num { return &Num{val: new(big.Rat).Sub(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("gruntz: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}
func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }
func numCmp(a, b *Num) int  { return a.val.Cmp(b.val) }

// ============================================================
// Sym — symbolic variable
// ============================================================

// A Sym is an atomic variable. Dummy symbols carry a unique id so a dummy
// never compares equal to a user symbol of the same name; the engine uses
// them to avoid name capture during substitution.
type Sym struct {
	name  string
	dummy bool
	id    string
	h     h128
	hok   bool
}

func S(name string) *Sym { return &Sym{name: name} }

func Dummy(name string) *Sym {
	return &Sym{name: name, dummy: true, id: uuid.NewString()}
}

func (s *Sym) Name() string    { return s.name }
func (s *Sym) IsDummy() bool   { return s.dummy }
func (s *Sym) String() string  { return s.name }

func (s *Sym) Subs(old, new Expr) Expr {
	if equalExpr(s, old) {
		return new
	}
	return s
}

func (s *Sym) Diff(x *Sym) Expr {
	if equalExpr(s, x) {
		return N(1)
	}
	return N(0)
}

func (s *Sym) Equal(other Expr) bool { return equalExpr(s, other) }

func (s *Sym) digest() h128 {
	if !s.hok {
		tag := byte('s')
		payload := s.name
		if s.dummy {
			payload += "\x00" + s.id
		}
		s.h = hashNode(tag, []byte(payload))
		s.hok = true
	}
	return s.h
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct {
	terms []Expr
	h     h128
	hok   bool
}

func AddOf(terms ...Expr) Expr { return addOf(terms) }

func addOf(terms []Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if inner, ok := t.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	// Signed infinities absorb every finite term; a mixed-sign sum is
	// indeterminate and stays unevaluated.
	infSign := 0
	mixed := false
	for _, t := range flat {
		if iv, ok := t.(*Inf); ok {
			if infSign != 0 && infSign != iv.sign {
				mixed = true
			}
			infSign = iv.sign
		}
	}
	if mixed {
		return &Add{terms: flat}
	}
	if infSign != 0 {
		return Infinity(infSign)
	}

	// Collect like terms keyed by the content hash of the non-numeric part.
	type group struct {
		coeff *Num
		rest  Expr
	}
	numAccum := N(0)
	groups := map[h128]*group{}
	order := []h128{}
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, n)
			continue
		}
		coeff, rest := splitCoeff(t)
		k := rest.digest()
		g, seen := groups[k]
		if !seen {
			g = &group{coeff: N(0), rest: rest}
			groups[k] = g
			order = append(order, k)
		}
		g.coeff = numAdd(g.coeff, coeff)
	}

	result := make([]Expr, 0, len(order)+1)
	for _, k := range order {
		g := groups[k]
		switch {
		case g.coeff.IsZero():
		case g.coeff.IsOne():
			result = append(result, g.rest)
		default:
			result = append(result, MulOf(g.coeff, g.rest))
		}
	}
	sortByString(result)
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

// splitCoeff separates a canonical term into its numeric coefficient and
// the remaining factor.
func splitCoeff(t Expr) (*Num, Expr) {
	if m, ok := t.(*Mul); ok && len(m.factors) >= 2 {
		if c, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return c, rest[0]
			}
			return c, &Mul{factors: rest}
		}
	}
	return N(1), t
}

func sortByString(es []Expr) {
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(es))
	for i, e := range es {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		es[i] = ks[i].e
	}
}

func (a *Add) Terms() []Expr { return a.terms }

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func (a *Add) Subs(old, new Expr) Expr {
	if equalExpr(a, old) {
		return new
	}
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Subs(old, new)
	}
	return addOf(terms)
}

func (a *Add) Diff(x *Sym) Expr {
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Diff(x)
	}
	return addOf(terms)
}

func (a *Add) Equal(other Expr) bool { return equalExpr(a, other) }

func (a *Add) digest() h128 {
	if !a.hok {
		a.h = hashNode('a', nil, childDigests(a.terms)...)
		a.hok = true
	}
	return a.h
}

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct {
	factors []Expr
	h       h128
	hok     bool
}

func MulOf(factors ...Expr) Expr { return mulOf(factors) }

func mulOf(factors []Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if inner, ok := f.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, f)
		}
	}

	coeff := N(1)
	infSign := 0
	expArgs := []Expr{}
	type pgroup struct {
		base Expr
		exps []Expr
	}
	groups := map[h128]*pgroup{}
	order := []h128{}
	addPow := func(base, exp Expr) {
		k := base.digest()
		g, seen := groups[k]
		if !seen {
			g = &pgroup{base: base}
			groups[k] = g
			order = append(order, k)
		}
		g.exps = append(g.exps, exp)
	}

	for _, f := range flat {
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Inf:
			if infSign == 0 {
				infSign = v.sign
			} else {
				infSign *= v.sign
			}
		case *Pow:
			addPow(v.base, v.exp)
		case *Func:
			if v.name == "exp" {
				expArgs = append(expArgs, v.arg)
			} else {
				addPow(v, N(1))
			}
		default:
			addPow(f, N(1))
		}
	}

	if infSign != 0 {
		// 0*oo and x*oo stay unevaluated; a purely numeric multiple folds.
		if coeff.IsZero() || len(order) > 0 || len(expArgs) > 0 {
			return &Mul{factors: flat}
		}
		return Infinity(infSign * coeff.Sign())
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := []Expr{}
	appendFactor := func(e Expr) {
		if n, ok := e.(*Num); ok {
			coeff = numMul(coeff, n)
			return
		}
		others = append(others, e)
	}
	for _, k := range order {
		g := groups[k]
		var exp Expr
		if len(g.exps) == 1 {
			exp = g.exps[0]
		} else {
			exp = addOf(g.exps)
		}
		appendFactor(PowOf(g.base, exp))
	}
	if len(expArgs) > 0 {
		var arg Expr
		if len(expArgs) == 1 {
			arg = expArgs[0]
		} else {
			arg = addOf(expArgs)
		}
		appendFactor(ExpOf(arg))
	}

	if len(others) == 0 {
		return coeff
	}
	sortByString(others)
	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

func (m *Mul) Factors() []Expr { return m.factors }

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

func (m *Mul) Subs(old, new Expr) Expr {
	if equalExpr(m, old) {
		return new
	}
	factors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		factors[i] = f.Subs(old, new)
	}
	return mulOf(factors)
}

func (m *Mul) Diff(x *Sym) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(x)
		rest := make([]Expr, 0, len(m.factors))
		rest = append(rest, dfi)
		for j, fj := range m.factors {
			if j != i {
				rest = append(rest, fj)
			}
		}
		terms[i] = mulOf(rest)
	}
	return addOf(terms)
}

func (m *Mul) Equal(other Expr) bool { return equalExpr(m, other) }

func (m *Mul) digest() h128 {
	if !m.hok {
		m.h = hashNode('m', nil, childDigests(m.factors)...)
		m.hok = true
	}
	return m.h
}

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct {
	base, exp Expr
	h         h128
	hok       bool
}

func PowOf(base, exp Expr) Expr {
	if en, ok := exp.(*Num); ok {
		if en.IsZero() {
			return N(1)
		}
		if en.IsOne() {
			return base
		}
	}
	if bn, ok := base.(*Num); ok {
		if bn.IsZero() {
			// 0^negative and 0^symbolic stay unevaluated; the series layer
			// recognizes them as poles.
			if en, ok2 := exp.(*Num); ok2 && en.IsPositive() {
				return N(0)
			}
			return &Pow{base: base, exp: exp}
		}
		if bn.IsOne() {
			return N(1)
		}
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			e := en.val.Num().Int64()
			if e >= -20 && e <= 20 {
				return numIntPow(bn, e)
			}
		}
	}
	if inner, ok := base.(*Pow); ok {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	if f, ok := base.(*Func); ok && f.name == "exp" {
		return ExpOf(MulOf(f.arg, exp))
	}
	if iv, ok := base.(*Inf); ok && iv.sign > 0 {
		if en, ok2 := exp.(*Num); ok2 {
			if en.IsPositive() {
				return PosInf
			}
			if en.IsNegative() {
				return N(0)
			}
		}
	}
	return &Pow{base: base, exp: exp}
}

func numIntPow(b *Num, e int64) *Num {
	neg := e < 0
	if neg {
		e = -e
	}
	result := N(1)
	for i := int64(0); i < e; i++ {
		result = numMul(result, b)
	}
	if neg {
		return numRecip(result)
	}
	return result
}

func (p *Pow) Base() Expr { return p.base }
func (p *Pow) Exp() Expr  { return p.exp }

func (p *Pow) String() string {
	baseStr := p.base.String()
	switch p.base.(type) {
	case *Add, *Mul, *Pow, *Num:
		if n, ok := p.base.(*Num); !ok || !n.IsInteger() || n.IsNegative() {
			baseStr = "(" + baseStr + ")"
		}
	}
	expStr := p.exp.String()
	switch p.exp.(type) {
	case *Add, *Mul:
		expStr = "(" + expStr + ")"
	case *Num:
		if n := p.exp.(*Num); !n.IsInteger() {
			expStr = "(" + expStr + ")"
		}
	}
	return baseStr + "^" + expStr
}

func (p *Pow) Subs(old, new Expr) Expr {
	if equalExpr(p, old) {
		return new
	}
	return PowOf(p.base.Subs(old, new), p.exp.Subs(old, new))
}

func (p *Pow) Diff(x *Sym) Expr {
	du := p.base.Diff(x)
	dv := p.exp.Diff(x)
	if _, ok := p.exp.(*Num); ok {
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	if _, ok := p.base.(*Num); ok {
		return MulOf(PowOf(p.base, p.exp), LogOf(p.base), dv)
	}
	logTerm := MulOf(dv, LogOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Equal(other Expr) bool { return equalExpr(p, other) }

func (p *Pow) digest() h128 {
	if !p.hok {
		p.h = hashNode('p', nil, p.base.digest(), p.exp.digest())
		p.hok = true
	}
	return p.h
}

// ============================================================
// Func — named one-argument function applications
// ============================================================

// Func is a one-argument function application. exp and log are first-class:
// their constructors apply the canonical identities, and the limit engine
// treats them specially when classifying growth rates. Other names
// participate only through their argument.
type Func struct {
	name string
	arg  Expr
	h    h128
	hok  bool
}

func FuncOf(name string, arg Expr) Expr {
	switch name {
	case "exp":
		return ExpOf(arg)
	case "log", "ln":
		return LogOf(arg)
	}
	if n, ok := arg.(*Num); ok {
		if folded, ok2 := foldNumeric(name, n); ok2 {
			return folded
		}
	}
	return &Func{name: name, arg: arg}
}

func ExpOf(arg Expr) Expr {
	if n, ok := arg.(*Num); ok && n.IsZero() {
		return N(1)
	}
	if f, ok := arg.(*Func); ok && f.name == "log" {
		return f.arg
	}
	if iv, ok := arg.(*Inf); ok {
		if iv.sign > 0 {
			return PosInf
		}
		return N(0)
	}
	return &Func{name: "exp", arg: arg}
}

func LogOf(arg Expr) Expr {
	switch v := arg.(type) {
	case *Num:
		if v.IsOne() {
			return N(0)
		}
	case *Func:
		if v.name == "exp" {
			return v.arg
		}
	case *Mul:
		// log(a*b) = log a + log b; only safe when no factor carries an
		// ambiguous sign through a negative coefficient.
		if c, ok := v.factors[0].(*Num); !ok || c.IsPositive() {
			terms := make([]Expr, len(v.factors))
			for i, f := range v.factors {
				terms[i] = LogOf(f)
			}
			return addOf(terms)
		}
	case *Pow:
		return MulOf(v.exp, LogOf(v.base))
	case *Inf:
		if v.sign > 0 {
			return PosInf
		}
	}
	return &Func{name: "log", arg: arg}
}

func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func SinOf(arg Expr) Expr  { return FuncOf("sin", arg) }
func CosOf(arg Expr) Expr  { return FuncOf("cos", arg) }

func foldNumeric(name string, n *Num) (Expr, bool) {
	if n.IsZero() {
		switch name {
		case "sin", "tan", "sinh", "tanh", "atan", "asin":
			return N(0), true
		case "cos", "cosh":
			return N(1), true
		}
	}
	return nil, false
}

func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) Subs(old, new Expr) Expr {
	if equalExpr(f, old) {
		return new
	}
	return FuncOf(f.name, f.arg.Subs(old, new))
}

func (f *Func) Diff(x *Sym) Expr {
	du := f.arg.Diff(x)
	var outer Expr
	switch f.name {
	case "exp":
		outer = ExpOf(f.arg)
	case "log":
		outer = PowOf(f.arg, N(-1))
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(FuncOf("tan", f.arg), N(2)))
	case "sinh":
		outer = FuncOf("cosh", f.arg)
	case "cosh":
		outer = FuncOf("sinh", f.arg)
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	default:
		outer = &Func{name: "D[" + f.name + "]", arg: f.arg}
	}
	return MulOf(outer, du)
}

func (f *Func) Equal(other Expr) bool { return equalExpr(f, other) }

func (f *Func) digest() h128 {
	if !f.hok {
		f.h = hashNode('f', []byte(f.name), f.arg.digest())
		f.hok = true
	}
	return f.h
}

// ============================================================
// Inf — signed infinity
// ============================================================

type Inf struct {
	sign int
	h    h128
	hok  bool
}

var (
	PosInf = &Inf{sign: 1}
	NegInf = &Inf{sign: -1}
)

// Infinity returns the signed infinity for sign = +1 or -1.
func Infinity(sign int) *Inf {
	if sign < 0 {
		return NegInf
	}
	return PosInf
}

func (i *Inf) Sign() int { return i.sign }

func (i *Inf) String() string {
	if i.sign < 0 {
		return "-oo"
	}
	return "oo"
}

func (i *Inf) Subs(old, new Expr) Expr {
	if equalExpr(i, old) {
		return new
	}
	return i
}

func (i *Inf) Diff(*Sym) Expr { return N(0) }

func (i *Inf) Equal(other Expr) bool { return equalExpr(i, other) }

func (i *Inf) digest() h128 {
	if !i.hok {
		i.h = hashNode('i', []byte{byte('0' + i.sign + 1)})
		i.hok = true
	}
	return i.h
}

func isInf(e Expr) bool {
	_, ok := e.(*Inf)
	return ok
}

func isZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

// ============================================================
// BigO — formal truncation-error marker
// ============================================================

// BigO marks the truncation error of a series: O(expr) as x -> 0.
type BigO struct {
	expr Expr
	x    *Sym
	h    h128
	hok  bool
}

func OTerm(expr Expr, x *Sym) *BigO { return &BigO{expr: expr, x: x} }

func (o *BigO) Expr() Expr    { return o.expr }
func (o *BigO) Var() *Sym     { return o.x }
func (o *BigO) String() string { return "O(" + o.expr.String() + ")" }

func (o *BigO) Subs(old, new Expr) Expr {
	if equalExpr(o, old) {
		return new
	}
	x := o.x
	if ns, ok := new.(*Sym); ok && equalExpr(o.x, old) {
		x = ns
	}
	return &BigO{expr: o.expr.Subs(old, new), x: x}
}

func (o *BigO) Diff(*Sym) Expr { return N(0) }

func (o *BigO) Equal(other Expr) bool { return equalExpr(o, other) }

func (o *BigO) digest() h128 {
	if !o.hok {
		o.h = hashNode('o', nil, o.expr.digest(), o.x.digest())
		o.hok = true
	}
	return o.h
}

// ============================================================
// Convenience helpers
// ============================================================

func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }
func NegOf(a Expr) Expr    { return MulOf(N(-1), a) }
func SubOf(a, b Expr) Expr { return AddOf(a, NegOf(b)) }

// Sub substitutes value for the named user symbol.
func Sub(e Expr, name string, value Expr) Expr { return e.Subs(S(name), value) }

// Diff differentiates e with respect to x.
func Diff(e Expr, x *Sym) Expr { return e.Diff(x) }

// ============================================================
// Expand — distribute products over sums
// ============================================================

func Expand(e Expr) Expr { return expandExpr(e) }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		result := expandExpr(v.factors[0])
		for _, f := range v.factors[1:] {
			result = expandProduct(result, expandExpr(f))
		}
		return result
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = expandExpr(t)
		}
		return addOf(terms)
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			if e64 := n.val.Num().Int64(); e64 >= 2 && e64 <= 10 {
				if _, isAdd := base.(*Add); isAdd {
					result := base
					for i := int64(1); i < e64; i++ {
						result = expandProduct(result, base)
					}
					return result
				}
			}
		}
		return PowOf(base, expandExpr(v.exp))
	case *Func:
		return FuncOf(v.name, expandExpr(v.arg))
	}
	return e
}

// expandProduct multiplies two already-expanded expressions, distributing
// over sums. Products of non-sums go straight through the constructor and
// are not revisited.
func expandProduct(a, b Expr) Expr {
	if s, ok := a.(*Add); ok {
		terms := make([]Expr, len(s.terms))
		for i, t := range s.terms {
			terms[i] = expandProduct(t, b)
		}
		return addOf(terms)
	}
	if s, ok := b.(*Add); ok {
		terms := make([]Expr, len(s.terms))
		for i, t := range s.terms {
			terms[i] = expandProduct(a, t)
		}
		return addOf(terms)
	}
	return MulOf(a, b)
}

// FreeSymbols returns the set of user symbols occurring in e, keyed by name.
func FreeSymbols(e Expr) map[string]*Sym {
	out := map[string]*Sym{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]*Sym) {
	switch v := e.(type) {
	case *Sym:
		if !v.dummy {
			out[v.name] = v
		}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	case *BigO:
		collectSymbols(v.expr, out)
	case *LimitExpr:
		collectSymbols(v.e, out)
		collectSymbols(v.z0, out)
	}
}
