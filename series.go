package gruntz

// Series expansion around w = 0.
//
// OSeries is structural: sums expand termwise, products multiply exactly
// (no intermediate truncation, so cancellations between factors survive),
// and powers and logarithms recenter around the leading term of their base.
// exp splits off its finite part at w = 0 and Taylor-expands the rest.
//
// Exponents of w need not be integers: the rewrite step of the limit engine
// produces w^c with arbitrary constant c, so the "series" here are really
// finite sums of c*w^e terms ordered by exact or numeric exponent
// comparison.

// seriesOrder is the expansion order the limit engine requests. Two terms
// are always enough to read off a leading behavior; deeper orders are only
// reached through recursion on the leading coefficient.
const seriesOrder = 2

// OSeries expands e around w = 0, truncated at order n. The result is a
// finite sum of terms c*w^e with w-free coefficients, except that log(w)
// may survive inside coefficients. A *PoleError is returned when a
// subexpression is singular at w = 0.
func OSeries(e Expr, w *Sym, n int) (Expr, error) {
	if !Has(e, w) {
		return e, nil
	}
	switch v := e.(type) {
	case *Sym:
		return v, nil
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			s, err := OSeries(t, w, n)
			if err != nil {
				return nil, err
			}
			terms[i] = s
		}
		return addOf(terms), nil
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			s, err := OSeries(f, w, n)
			if err != nil {
				return nil, err
			}
			factors[i] = s
		}
		return Expand(mulOf(factors)), nil
	case *Pow:
		return powSeries(v, w, n)
	case *Func:
		return funcSeries(v, w, n)
	}
	return nil, unsupportedf("cannot expand %s in a series", e)
}

func powSeries(p *Pow, w *Sym, n int) (Expr, error) {
	if Has(p.exp, w) {
		// b^q with q depending on w: push through exp so the exp rules apply.
		return funcSeries(&Func{name: "exp", arg: MulOf(p.exp, LogOf(p.base))}, w, n)
	}
	bs, err := OSeries(p.base, w, n)
	if err != nil {
		return nil, err
	}
	if isZero(bs) {
		if q, ok := p.exp.(*Num); ok && q.IsPositive() {
			return N(0), nil
		}
		return nil, &PoleError{Expr: p, Point: N(0)}
	}
	if q, ok := p.exp.(*Num); ok && q.IsInteger() && q.IsPositive() {
		if e64 := q.val.Num().Int64(); e64 <= 10 {
			result := bs
			for i := int64(1); i < e64; i++ {
				result = Expand(MulOf(result, bs))
			}
			return result, nil
		}
	}

	// General exponent: factor the leading term out of the base,
	//   bs = c0*w^e0*(1+Phi),  ord(Phi) > 0
	// and expand (1+Phi)^q binomially.
	c0, e0, err := LeadTerm(bs, w)
	if err != nil {
		return nil, err
	}
	if isZero(c0) {
		return nil, &PoleError{Expr: p, Point: N(0)}
	}
	phi := SubOf(Expand(MulOf(bs, PowOf(c0, N(-1)), PowOf(w, NegOf(e0)))), N(1))
	head := MulOf(PowOf(c0, p.exp), PowOf(w, MulOf(e0, p.exp)))
	sum := Expr(N(1))
	phiPow := Expr(N(1))
	for k := 1; k <= n+2; k++ {
		phiPow = Expand(MulOf(phiPow, phi))
		if isZero(phiPow) {
			break
		}
		sum = AddOf(sum, MulOf(binomCoeff(p.exp, k), phiPow))
	}
	return Expand(MulOf(head, sum)), nil
}

// binomCoeff is the generalized binomial coefficient q*(q-1)*...*(q-k+1)/k!.
func binomCoeff(q Expr, k int) Expr {
	num := Expr(N(1))
	fact := N(1)
	for i := 0; i < k; i++ {
		num = MulOf(num, AddOf(q, N(int64(-i))))
		fact = numMul(fact, N(int64(i+1)))
	}
	return MulOf(num, numRecip(fact))
}

func funcSeries(f *Func, w *Sym, n int) (Expr, error) {
	switch f.name {
	case "exp":
		return expSeries(f, w, n)
	case "log":
		return logSeries(f, w, n)
	}
	return taylorSeries(f, w, n)
}

// expSeries writes exp(a) = w^c * exp(a0) * exp(a - a0 - c*log w) where a0
// is the finite part of the argument at w = 0 and c the numeric coefficient
// of log(w) there. The last factor tends to 1 and Taylor-expands.
func expSeries(f *Func, w *Sym, n int) (Expr, error) {
	as, err := OSeries(f.arg, w, n)
	if err != nil {
		return nil, err
	}
	l := Dummy("l")
	shielded := Expand(as).Subs(LogOf(w), l)
	a0 := shielded.Subs(w, N(0))
	if hasPole(a0) {
		return nil, &PoleError{Expr: f, Point: N(0)}
	}

	// Split a0 into c*l + rest; exp(c*log w) is the w^c prefactor.
	c := N(0)
	rest := []Expr{}
	for _, t := range addTerms(a0) {
		coeff, base := splitCoeff(t)
		if equalExpr(base, l) {
			c = numAdd(c, coeff)
			continue
		}
		if Has(t, l) {
			return nil, unsupportedf("cannot expand %s in a series", f)
		}
		rest = append(rest, t)
	}
	a0rest := addOf(rest)

	diff := Expand(SubOf(shielded, a0))
	tail := Expr(N(1))
	dPow := Expr(N(1))
	fact := N(1)
	for k := 1; k <= n+2; k++ {
		dPow = Expand(MulOf(dPow, diff))
		if isZero(dPow) {
			break
		}
		fact = numMul(fact, N(int64(k)))
		tail = AddOf(tail, MulOf(numRecip(fact), dPow))
	}

	out := MulOf(PowOf(w, c), ExpOf(a0rest), tail)
	return Expand(out).Subs(l, LogOf(w)), nil
}

// logSeries writes log(a) = log(c0) + e0*log(w) + log(1+Phi) with
// a = c0*w^e0*(1+Phi), and Taylor-expands log(1+Phi).
func logSeries(f *Func, w *Sym, n int) (Expr, error) {
	as, err := OSeries(f.arg, w, n)
	if err != nil {
		return nil, err
	}
	c0, e0, err := LeadTerm(as, w)
	if err != nil {
		return nil, err
	}
	if isZero(c0) {
		return nil, &PoleError{Expr: f, Point: N(0)}
	}
	phi := SubOf(Expand(MulOf(as, PowOf(c0, N(-1)), PowOf(w, NegOf(e0)))), N(1))
	tail := Expr(N(0))
	phiPow := Expr(N(1))
	for k := 1; k <= n+2; k++ {
		phiPow = Expand(MulOf(phiPow, phi))
		if isZero(phiPow) {
			break
		}
		sign := N(1)
		if k%2 == 0 {
			sign = N(-1)
		}
		tail = AddOf(tail, MulOf(sign, F(1, int64(k)), phiPow))
	}
	return AddOf(LogOf(c0), MulOf(e0, LogOf(w)), tail), nil
}

// taylorSeries expands a generic function around the finite value of its
// argument at w = 0, using symbolic derivatives.
func taylorSeries(f *Func, w *Sym, n int) (Expr, error) {
	as, err := OSeries(f.arg, w, n)
	if err != nil {
		return nil, err
	}
	if Has(as, LogOf(w)) {
		return nil, unsupportedf("cannot expand %s in a series", f)
	}
	a0 := as.Subs(w, N(0))
	if hasPole(a0) {
		return nil, &PoleError{Expr: f, Point: N(0)}
	}

	t := Dummy("t")
	deriv := Expr(FuncOf(f.name, t))
	diff := Expand(SubOf(as, a0))
	out := Expr(deriv.Subs(t, a0))
	dPow := Expr(N(1))
	fact := N(1)
	for k := 1; k <= n; k++ {
		deriv = deriv.Diff(t)
		if hasDerivMarker(deriv) {
			return nil, unsupportedf("no derivative rule for %s", f.name)
		}
		dPow = Expand(MulOf(dPow, diff))
		if isZero(dPow) {
			break
		}
		fact = numMul(fact, N(int64(k)))
		out = AddOf(out, MulOf(numRecip(fact), deriv.Subs(t, a0), dPow))
	}
	return Expand(out), nil
}

func hasDerivMarker(e Expr) bool {
	switch v := e.(type) {
	case *Func:
		if len(v.name) > 2 && v.name[:2] == "D[" {
			return true
		}
		return hasDerivMarker(v.arg)
	case *Add:
		for _, t := range v.terms {
			if hasDerivMarker(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if hasDerivMarker(f) {
				return true
			}
		}
	case *Pow:
		return hasDerivMarker(v.base) || hasDerivMarker(v.exp)
	}
	return false
}

// hasPole reports whether e contains an unevaluated singular node, which is
// how 0^negative and log(0) survive substitution of the expansion point.
func hasPole(e Expr) bool {
	switch v := e.(type) {
	case *Pow:
		if b, ok := v.base.(*Num); ok && b.IsZero() {
			return true
		}
		return hasPole(v.base) || hasPole(v.exp)
	case *Func:
		if v.name == "log" {
			if a, ok := v.arg.(*Num); ok && a.IsZero() {
				return true
			}
		}
		return hasPole(v.arg)
	case *Add:
		for _, t := range v.terms {
			if hasPole(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if hasPole(f) {
				return true
			}
		}
	case *Inf:
		return true
	}
	return false
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	if isZero(e) {
		return nil
	}
	return []Expr{e}
}

// ============================================================
// Leading term extraction
// ============================================================

// LeadTerm returns the coefficient and exponent of the minimal-order term
// of e viewed as a sum of c*w^e terms. log(w) is shielded behind a dummy
// during extraction so it lands in the coefficient, never the exponent.
// Equal-exponent coefficients are summed, so the returned coefficient can
// be zero only when e itself is zero.
func LeadTerm(e Expr, w *Sym) (c0, e0 Expr, err error) {
	if isZero(e) {
		return N(0), N(0), nil
	}
	l := Dummy("l")
	s := Expand(e).Subs(LogOf(w), l)

	type bucket struct {
		exp    Expr
		coeffs []Expr
	}
	buckets := []bucket{}
	for _, t := range addTerms(s) {
		coeff, exp, terr := splitWTerm(t, w, l)
		if terr != nil {
			return nil, nil, terr
		}
		placed := false
		for i := range buckets {
			cmp, cerr := cmpConst(exp, buckets[i].exp)
			if cerr != nil {
				return nil, nil, cerr
			}
			if cmp == 0 {
				buckets[i].coeffs = append(buckets[i].coeffs, coeff)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{exp: exp, coeffs: []Expr{coeff}})
		}
	}
	var bestC, bestE Expr
	for i := range buckets {
		c := addOf(buckets[i].coeffs)
		if isZero(c) {
			continue
		}
		if bestC == nil {
			bestC, bestE = c, buckets[i].exp
			continue
		}
		cmp, cerr := cmpConst(buckets[i].exp, bestE)
		if cerr != nil {
			return nil, nil, cerr
		}
		if cmp < 0 {
			bestC, bestE = c, buckets[i].exp
		}
	}
	if bestC == nil {
		return N(0), N(0), nil
	}
	return bestC.Subs(l, LogOf(w)), bestE, nil
}

// splitWTerm factors a single canonical term into a w-free coefficient and
// the total exponent of w.
func splitWTerm(term Expr, w, l *Sym) (coeff, exp Expr, err error) {
	factors := []Expr{term}
	if m, ok := term.(*Mul); ok {
		factors = m.factors
	}
	coeffs := []Expr{}
	exps := []Expr{}
	for _, f := range factors {
		switch v := f.(type) {
		case *Sym:
			if equalExpr(v, w) {
				exps = append(exps, N(1))
				continue
			}
		case *Pow:
			if equalExpr(v.base, w) {
				if Has(v.exp, w) || Has(v.exp, l) {
					return nil, nil, unsupportedf("exponent of %s depends on the expansion variable", term)
				}
				exps = append(exps, v.exp)
				continue
			}
		}
		if Has(f, w) {
			return nil, nil, unsupportedf("cannot read a power of the expansion variable from %s", term)
		}
		coeffs = append(coeffs, f)
	}
	if len(coeffs) == 0 {
		coeff = N(1)
	} else {
		coeff = mulOf(coeffs)
	}
	if len(exps) == 0 {
		exp = N(0)
	} else {
		exp = addOf(exps)
	}
	return coeff, exp, nil
}

// cmpConst orders two constant expressions, exactly for rationals and
// numerically otherwise.
func cmpConst(a, b Expr) (int, error) {
	an, aok := a.(*Num)
	bn, bok := b.(*Num)
	if aok && bok {
		return numCmp(an, bn), nil
	}
	d, err := Evalf(SubOf(a, b))
	if err != nil {
		return 0, unsupportedf("cannot order exponents %s and %s", a, b)
	}
	return d.Sign(), nil
}

// ============================================================
// Public series API
// ============================================================

// Series expands e around x = 0 up to (excluding) order n and attaches an
// O(x^n) marker.
func Series(e Expr, x *Sym, n int) (Expr, error) {
	s, err := OSeries(e, x, n)
	if err != nil {
		return nil, err
	}
	kept := []Expr{}
	l := Dummy("l")
	for _, t := range addTerms(Expand(s).Subs(LogOf(x), l)) {
		_, exp, terr := splitWTerm(t, x, l)
		if terr != nil {
			return nil, terr
		}
		cmp, cerr := cmpConst(exp, N(int64(n)))
		if cerr != nil {
			return nil, cerr
		}
		if cmp < 0 {
			kept = append(kept, t)
		}
	}
	body := addOf(kept).Subs(l, LogOf(x))
	return AddOf(body, OTerm(PowOf(x, N(int64(n))), x)), nil
}
