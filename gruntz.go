package gruntz

// The Gruntz algorithm for limits at infinity.
//
// Expressions are compared by growth rate: f < g when log|f|/log|g| tends
// to 0, f = g when the ratio is finite nonzero, f > g when it is infinite.
// The most-rapidly-varying (mrv) subexpressions of e are rewritten in terms
// of a single small parameter w -> 0+, the truncated series of the result
// is read off, and the sign of the leading exponent decides the limit. A
// zero leading exponent recurses on the leading coefficient, which lives in
// a strictly lower comparability class, so the recursion descends.
//
// Every recursive entry point spends from an explicit fuel budget; a
// runaway recursion surfaces as ErrExhausted instead of a blown stack.

import "sort"

// defaultBudget is the fuel an Engine with a zero Budget gets. Generous:
// ordinary limits use a few hundred steps, counting the auxiliary limits
// spawned by compare and the rewrite constants.
const defaultBudget = 5000

// Engine computes limits with a configurable recursion budget.
type Engine struct {
	// Budget is the total number of recursive steps allowed per call.
	// Zero means defaultBudget.
	Budget int
}

func (g Engine) newLimiter() *limiter {
	b := g.Budget
	if b <= 0 {
		b = defaultBudget
	}
	return &limiter{fuel: b}
}

// Limitinf computes the limit of e as x -> +oo.
func (g Engine) Limitinf(e Expr, x *Sym) (Expr, error) {
	return g.newLimiter().limitinf(e, x)
}

// Limit computes the limit of e as z -> z0 from direction dir ("+" or "-";
// dir is ignored when z0 is infinite).
func (g Engine) Limit(e Expr, z *Sym, z0 Expr, dir string) (Expr, error) {
	return g.newLimiter().limit(e, z, z0, dir)
}

// Compare classifies the growth of a against b as x -> +oo, returning "<",
// "=" or ">".
func (g Engine) Compare(a, b Expr, x *Sym) (string, error) {
	return g.newLimiter().compare(a, b, x)
}

// Mrv returns the most-rapidly-varying subexpressions of e, in insertion
// order.
func (g Engine) Mrv(e Expr, x *Sym) ([]Expr, error) {
	s, err := g.newLimiter().mrv(e, x)
	if err != nil {
		return nil, err
	}
	out := make([]Expr, len(s.items))
	copy(out, s.items)
	return out, nil
}

// SignAtInf returns the eventual sign of e as x -> +oo: +1, -1, or 0 when
// e is identically zero.
func (g Engine) SignAtInf(e Expr, x *Sym) (int, error) {
	return g.newLimiter().signAtInf(e, x)
}

// Package-level wrappers with the default budget.

func Limitinf(e Expr, x *Sym) (Expr, error) { return Engine{}.Limitinf(e, x) }

func Limit(e Expr, z *Sym, z0 Expr, dir string) (Expr, error) {
	return Engine{}.Limit(e, z, z0, dir)
}

func Compare(a, b Expr, x *Sym) (string, error) { return Engine{}.Compare(a, b, x) }

func Mrv(e Expr, x *Sym) ([]Expr, error) { return Engine{}.Mrv(e, x) }

func SignAtInf(e Expr, x *Sym) (int, error) { return Engine{}.SignAtInf(e, x) }

// ============================================================
// limiter — one computation, one budget
// ============================================================

type limiter struct {
	fuel int
}

func (lm *limiter) spend() error {
	lm.fuel--
	if lm.fuel < 0 {
		return ErrExhausted
	}
	return nil
}

// ============================================================
// mrv sets
// ============================================================

// mrvSet is an insertion-ordered set of expressions, deduplicated by
// content hash. Order stability keeps the whole algorithm deterministic.
type mrvSet struct {
	items []Expr
	seen  map[h128]bool
}

func newMrvSet(items ...Expr) *mrvSet {
	s := &mrvSet{seen: map[h128]bool{}}
	for _, e := range items {
		s.add(e)
	}
	return s
}

func (s *mrvSet) add(e Expr) {
	k := e.digest()
	if s.seen[k] {
		return
	}
	s.seen[k] = true
	s.items = append(s.items, e)
}

func (s *mrvSet) has(e Expr) bool { return s.seen[e.digest()] }

func (s *mrvSet) empty() bool { return len(s.items) == 0 }

func (s *mrvSet) intersects(o *mrvSet) bool {
	for _, e := range s.items {
		if o.has(e) {
			return true
		}
	}
	return false
}

func (s *mrvSet) union(o *mrvSet) *mrvSet {
	u := newMrvSet(s.items...)
	for _, e := range o.items {
		u.add(e)
	}
	return u
}

func (s *mrvSet) subs(old, new Expr) *mrvSet {
	u := newMrvSet()
	for _, e := range s.items {
		u.add(e.Subs(old, new))
	}
	return u
}

// ============================================================
// Normalization
// ============================================================

// powToExp rewrites every power whose exponent depends on x into exp form,
// b^q -> exp(q*log b), so the mrv machinery only ever meets exponentials.
func powToExp(e Expr, x *Sym) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = powToExp(t, x)
		}
		return addOf(terms)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = powToExp(f, x)
		}
		return mulOf(factors)
	case *Pow:
		b := powToExp(v.base, x)
		q := powToExp(v.exp, x)
		if Has(q, x) {
			return ExpOf(MulOf(q, LogOf(b)))
		}
		return PowOf(b, q)
	case *Func:
		return FuncOf(v.name, powToExp(v.arg, x))
	}
	return e
}

// ============================================================
// compare / mrv / mrvMax
// ============================================================

func (lm *limiter) compare(a, b Expr, x *Sym) (string, error) {
	if err := lm.spend(); err != nil {
		return "", err
	}
	c, err := lm.limitinf(DivOf(LogOf(a), LogOf(b)), x)
	if err != nil {
		return "", err
	}
	if isZero(c) {
		return "<", nil
	}
	if isInf(c) {
		return ">", nil
	}
	return "=", nil
}

func (lm *limiter) mrv(e Expr, x *Sym) (*mrvSet, error) {
	if err := lm.spend(); err != nil {
		return nil, err
	}
	if !Has(e, x) {
		return newMrvSet(), nil
	}
	if equalExpr(e, x) {
		return newMrvSet(x), nil
	}
	switch v := e.(type) {
	case *Add:
		return lm.mrvOfAll(v.terms, x)
	case *Mul:
		return lm.mrvOfAll(v.factors, x)
	case *Pow:
		if Has(v.exp, x) {
			return lm.mrv(ExpOf(MulOf(v.exp, LogOf(v.base))), x)
		}
		return lm.mrv(v.base, x)
	case *Func:
		if v.name == "exp" {
			if equalExpr(v.arg, x) {
				return newMrvSet(v), nil
			}
			al, err := lm.limitinf(v.arg, x)
			if err != nil {
				return nil, err
			}
			if isInf(al) {
				inner, err := lm.mrv(v.arg, x)
				if err != nil {
					return nil, err
				}
				return lm.mrvMax(newMrvSet(v), inner, x)
			}
			return lm.mrv(v.arg, x)
		}
		return lm.mrv(v.arg, x)
	}
	return nil, unsupportedf("cannot classify the growth of %s", e)
}

func (lm *limiter) mrvOfAll(parts []Expr, x *Sym) (*mrvSet, error) {
	acc := newMrvSet()
	for _, p := range parts {
		m, err := lm.mrv(p, x)
		if err != nil {
			return nil, err
		}
		acc, err = lm.mrvMax(acc, m, x)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (lm *limiter) mrvMax(f, g *mrvSet, x *Sym) (*mrvSet, error) {
	if f.empty() {
		return g, nil
	}
	if g.empty() {
		return f, nil
	}
	if f.intersects(g) {
		return f.union(g), nil
	}
	// Bare x is the lowest comparability class an mrv set can carry.
	if f.has(x) {
		return g, nil
	}
	if g.has(x) {
		return f, nil
	}
	c, err := lm.compare(f.items[0], g.items[0], x)
	if err != nil {
		return nil, err
	}
	switch c {
	case ">":
		return f, nil
	case "<":
		return g, nil
	}
	return f.union(g), nil
}

// ============================================================
// Sign oracle
// ============================================================

func (lm *limiter) signAtInf(e Expr, x *Sym) (int, error) {
	if err := lm.spend(); err != nil {
		return 0, err
	}
	switch v := e.(type) {
	case *Num:
		return v.Sign(), nil
	case *Inf:
		return v.sign, nil
	}
	if !Has(e, x) {
		d, err := Evalf(e)
		if err != nil {
			return 0, unsupportedf("cannot determine the sign of %s", e)
		}
		return d.Sign(), nil
	}
	if equalExpr(e, x) {
		return 1, nil
	}
	switch v := e.(type) {
	case *Mul:
		s := 1
		for _, f := range v.factors {
			fs, err := lm.signAtInf(f, x)
			if err != nil {
				return 0, err
			}
			if fs == 0 {
				return 0, nil
			}
			s *= fs
		}
		return s, nil
	case *Func:
		switch v.name {
		case "exp":
			return 1, nil
		case "log":
			return lm.signAtInf(SubOf(v.arg, N(1)), x)
		}
	case *Pow:
		bs, err := lm.signAtInf(v.base, x)
		if err == nil {
			if bs == 1 {
				return 1, nil
			}
			if bs == -1 {
				if q, ok := v.exp.(*Num); ok && q.IsInteger() {
					if q.val.Num().Bit(0) == 0 {
						return 1, nil
					}
					return -1, nil
				}
			}
		}
	}
	// Eventual sign of a sum is the sign of its leading behavior.
	c0, _, err := lm.mrvLeadTerm(e, x, nil)
	if err != nil {
		return 0, err
	}
	if equalExpr(c0, e) {
		return 0, unsupportedf("cannot determine the sign of %s", e)
	}
	return lm.signAtInf(c0, x)
}

// ============================================================
// rewrite and mrvLeadTerm
// ============================================================

// rewrite expresses e in terms of w -> 0+. Every member of omega is an
// exponential in the same comparability class; the one with the smallest
// own mrv set plays the role of w (inverted when its argument grows to
// +oo, so that w always tends to zero). Returns the rewritten expression
// and the expression log(w) stands for.
func (lm *limiter) rewrite(e Expr, omega *mrvSet, x, w *Sym) (Expr, Expr, error) {
	if omega.empty() {
		return nil, nil, invariantf(e, "rewrite with an empty mrv set")
	}
	members := make([]*Func, 0, len(omega.items))
	sizes := make(map[h128]int, len(omega.items))
	for _, m := range omega.items {
		f, ok := m.(*Func)
		if !ok || f.name != "exp" {
			return nil, nil, invariantf(m, "non-exponential in an mrv set")
		}
		own, err := lm.mrv(f, x)
		if err != nil {
			return nil, nil, err
		}
		sizes[f.digest()] = len(own.items)
		members = append(members, f)
	}
	sort.SliceStable(members, func(i, j int) bool {
		return sizes[members[i].digest()] > sizes[members[j].digest()]
	})
	g := members[len(members)-1]

	sig, err := lm.signAtInf(g.arg, x)
	if err != nil {
		return nil, nil, err
	}
	if sig == 0 {
		return nil, nil, invariantf(g, "mrv exponential with a vanishing argument")
	}
	wsub := Expr(w)
	if sig == 1 {
		wsub = PowOf(w, N(-1))
	}

	res := e
	for _, f := range members {
		c, err := lm.limitinf(DivOf(f.arg, g.arg), x)
		if err != nil {
			return nil, nil, err
		}
		if isInf(c) || isZero(c) {
			return nil, nil, invariantf(f, "mrv member outside the class of %s", g)
		}
		res = substituteExp(res, f.arg, c, g.arg, wsub)
	}

	logw := g.arg
	if sig == 1 {
		logw = NegOf(g.arg)
	}
	return res, logw, nil
}

// substituteExp rewrites every exponential whose argument is a rational
// multiple k of arg, using exp(B) = exp(B - k*c*garg) * w^(k*c). Matching
// by ratio instead of node identity matters because canonicalization folds
// exp(A)^k into exp(k*A), so a lifted mrv member rarely reappears verbatim.
func substituteExp(e Expr, arg, c, garg, wsub Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = substituteExp(t, arg, c, garg, wsub)
		}
		return addOf(terms)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = substituteExp(f, arg, c, garg, wsub)
		}
		return mulOf(factors)
	case *Pow:
		return PowOf(
			substituteExp(v.base, arg, c, garg, wsub),
			substituteExp(v.exp, arg, c, garg, wsub),
		)
	case *Func:
		if v.name == "exp" {
			if k, ok := ratioNum(v.arg, arg); ok {
				kc := MulOf(k, c)
				return MulOf(
					ExpOf(Expand(SubOf(v.arg, MulOf(kc, garg)))),
					PowOf(wsub, kc),
				)
			}
		}
		return FuncOf(v.name, substituteExp(v.arg, arg, c, garg, wsub))
	}
	return e
}

// ratioNum reports whether a/b folds to a nonzero rational constant.
func ratioNum(a, b Expr) (*Num, bool) {
	if n, ok := DivOf(a, b).(*Num); ok && !n.IsZero() {
		return n, true
	}
	return nil, false
}

// mrvLeadTerm returns (c0, e0) such that e behaves like c0*w^e0 for the
// mrv-derived parameter w -> 0+. When omega is nil it is computed from e;
// when x itself is most rapidly varying, the whole problem is lifted
// through x -> exp(x) (and the result lowered through x -> log(x)), which
// keeps the lifted omega instead of reclassifying the lifted expression.
// Carried members that no longer occur in e are dropped first; when none
// survive, omega is recomputed from e.
func (lm *limiter) mrvLeadTerm(e Expr, x *Sym, omega *mrvSet) (Expr, Expr, error) {
	if err := lm.spend(); err != nil {
		return nil, nil, err
	}
	if !Has(e, x) {
		return e, N(0), nil
	}
	if omega == nil {
		var err error
		omega, err = lm.mrv(e, x)
		if err != nil {
			return nil, nil, err
		}
	} else {
		kept := newMrvSet()
		for _, m := range omega.items {
			if Has(e, m) {
				kept.add(m)
			}
		}
		omega = kept
		if omega.empty() {
			var err error
			omega, err = lm.mrv(e, x)
			if err != nil {
				return nil, nil, err
			}
		}
	}
	if omega.empty() {
		return nil, nil, invariantf(e, "expression depends on %s but has no mrv set", x)
	}
	if omega.has(x) {
		up := ExpOf(x)
		c0, e0, err := lm.mrvLeadTerm(e.Subs(x, up), x, omega.subs(x, up))
		if err != nil {
			return nil, nil, err
		}
		down := LogOf(x)
		return c0.Subs(x, down), e0.Subs(x, down), nil
	}

	w := Dummy("w")
	f, logw, err := lm.rewrite(e, omega, x, w)
	if err != nil {
		return nil, nil, err
	}
	ser, err := OSeries(Expand(f), w, seriesOrder)
	if err != nil {
		return nil, nil, err
	}
	ser = ser.Subs(LogOf(w), logw)
	return LeadTerm(ser, w)
}

// ============================================================
// limitinf and limit
// ============================================================

func (lm *limiter) limitinf(e Expr, x *Sym) (Expr, error) {
	if err := lm.spend(); err != nil {
		return nil, err
	}
	if !Has(e, x) {
		return e, nil
	}
	e = powToExp(e, x)
	c0, e0, err := lm.mrvLeadTerm(e, x, nil)
	if err != nil {
		return nil, err
	}
	if isZero(c0) {
		return nil, invariantf(e, "zero leading coefficient for a nonzero expression")
	}
	sig, err := lm.signAtInf(e0, x)
	if err != nil {
		return nil, err
	}
	switch sig {
	case 1:
		return N(0), nil
	case -1:
		cs, err := lm.signAtInf(c0, x)
		if err != nil {
			return nil, err
		}
		if cs == 0 {
			return nil, invariantf(c0, "vanishing sign for a leading coefficient")
		}
		return Infinity(cs), nil
	}
	return lm.limitinf(c0, x)
}

func (lm *limiter) limit(e Expr, z *Sym, z0 Expr, dir string) (Expr, error) {
	if inf, ok := z0.(*Inf); ok {
		if inf.sign > 0 {
			return lm.limitinf(e, z)
		}
		return lm.limitinf(e.Subs(z, NegOf(z)), z)
	}
	switch dir {
	case "+", "":
		e = e.Subs(z, AddOf(z0, PowOf(z, N(-1))))
	case "-":
		e = e.Subs(z, SubOf(z0, PowOf(z, N(-1))))
	default:
		return nil, unsupportedf("unknown direction %q", dir)
	}
	return lm.limitinf(e, z)
}

// ============================================================
// LimitExpr — lazy limit node
// ============================================================

// LimitExpr is an unevaluated limit. Building one never computes anything;
// Doit runs the algorithm and either returns the value or the error the
// evaluation hit. The node can sit inside larger expressions.
type LimitExpr struct {
	e   Expr
	z   *Sym
	z0  Expr
	dir string
	h   h128
	hok bool
}

// NewLimit builds the unevaluated limit of e as z -> z0 from dir.
func NewLimit(e Expr, z *Sym, z0 Expr, dir string) *LimitExpr {
	if dir != "+" && dir != "-" && dir != "" {
		panic("gruntz: direction must be \"+\", \"-\" or empty")
	}
	return &LimitExpr{e: e, z: z, z0: z0, dir: dir}
}

// Doit evaluates the limit with the default budget.
func (l *LimitExpr) Doit() (Expr, error) { return Engine{}.Limit(l.e, l.z, l.z0, l.dir) }

// DoitWith evaluates the limit with the given engine.
func (l *LimitExpr) DoitWith(g Engine) (Expr, error) { return g.Limit(l.e, l.z, l.z0, l.dir) }

func (l *LimitExpr) String() string {
	s := "Limit(" + l.e.String() + ", " + l.z.String() + " -> " + l.z0.String()
	if l.dir != "" && !isInf(l.z0) {
		s += ", " + l.dir
	}
	return s + ")"
}

func (l *LimitExpr) Subs(old, new Expr) Expr {
	if equalExpr(l, old) {
		return new
	}
	if equalExpr(old, l.z) {
		// The limit variable is bound; only the endpoint can change.
		return NewLimit(l.e, l.z, l.z0.Subs(old, new), l.dir)
	}
	return NewLimit(l.e.Subs(old, new), l.z, l.z0.Subs(old, new), l.dir)
}

func (l *LimitExpr) Diff(*Sym) Expr {
	panic("gruntz: cannot differentiate an unevaluated limit")
}

func (l *LimitExpr) Equal(other Expr) bool { return equalExpr(l, other) }

func (l *LimitExpr) digest() h128 {
	if !l.hok {
		l.h = hashNode('L', []byte(l.dir), l.e.digest(), l.z.digest(), l.z0.digest())
		l.hok = true
	}
	return l.h
}
