package lang

import "math"

// Simplify rewrites a tree bottom-up: children first, then the local rules of
// the parent. Every rule only fires on already simplified children, so
// Simplify(Simplify(n)) renders identically to Simplify(n).
//
// Rules: constant folding, identity elements (+0, *1, ^1, ^0), absorbing zero,
// like terms (c1*e + c2*e), equal factors merged into squares, constants
// moved to the left of products and negative coefficients turned into
// subtraction. Function calls are never
// folded, so ln(10) stays symbolic.
func Simplify(node Node) Node {
	switch n := node.(type) {
	case *NumberLit, *VarRef:
		return n

	case *BinaryExpr:
		l, r := Simplify(n.Left), Simplify(n.Right)
		switch n.Op {
		case TOKEN_PLUS:
			return mkAdd(l, r)
		case TOKEN_MINUS:
			return mkSub(l, r)
		case TOKEN_STAR:
			return mkMul(l, r)
		case TOKEN_SLASH:
			return mkDiv(l, r)
		}
		return &BinaryExpr{Op: n.Op, Left: l, Right: r}

	case *PowExpr:
		return mkPow(Simplify(n.Base), Simplify(n.Exp))

	case *FuncCall:
		return mkCall(n.Name, Simplify(n.Arg))

	default:
		return node
	}
}

// numValue returns the value of an unnamed numeric literal.
func numValue(n Node) (float64, bool) {
	lit, ok := n.(*NumberLit)
	if !ok || lit.Name != "" {
		return 0, false
	}
	return lit.Value, true
}

func isNum(n Node, v float64) bool {
	c, ok := numValue(n)
	return ok && c == v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// sameText compares two trees by their rendered form.
func sameText(a, b Node) bool {
	return Format(a) == Format(b)
}

// coefficient splits c*e into (c, e); any other non-constant node is 1*node.
func coefficient(n Node) (float64, Node) {
	if b, ok := n.(*BinaryExpr); ok && b.Op == TOKEN_STAR {
		if c, ok := numValue(b.Left); ok {
			return c, b.Right
		}
	}
	return 1, n
}

// negativeTerm reports whether n is a negative literal or a product with a
// negative leading coefficient, returning its absolute form.
func negativeTerm(n Node) (Node, bool) {
	if c, ok := numValue(n); ok && c < 0 {
		return num(-c), true
	}
	if b, ok := n.(*BinaryExpr); ok && b.Op == TOKEN_STAR {
		if c, ok := numValue(b.Left); ok && c < 0 {
			return mkMul(num(-c), b.Right), true
		}
	}
	return nil, false
}

func mkAdd(l, r Node) Node {
	lv, lok := numValue(l)
	rv, rok := numValue(r)
	switch {
	case lok && rok:
		return num(lv + rv)
	case lok && lv == 0:
		return r
	case rok && rv == 0:
		return l
	}
	if !lok && !rok {
		lc, le := coefficient(l)
		rc, re := coefficient(r)
		if sameText(le, re) {
			return mkMul(num(lc+rc), le)
		}
	}
	if abs, ok := negativeTerm(r); ok {
		return mkSub(l, abs)
	}
	return add(l, r)
}

func mkSub(l, r Node) Node {
	lv, lok := numValue(l)
	rv, rok := numValue(r)
	switch {
	case lok && rok:
		return num(lv - rv)
	case rok && rv == 0:
		return l
	case lok && lv == 0:
		return mkMul(num(-1), r)
	}
	if !lok && !rok {
		lc, le := coefficient(l)
		rc, re := coefficient(r)
		if sameText(le, re) {
			return mkMul(num(lc-rc), le)
		}
	}
	if abs, ok := negativeTerm(r); ok {
		return mkAdd(l, abs)
	}
	return sub(l, r)
}

func mkMul(l, r Node) Node {
	lv, lok := numValue(l)
	rv, rok := numValue(r)
	switch {
	case lok && rok:
		return num(lv * rv)
	case (lok && lv == 0) || (rok && rv == 0):
		return num(0)
	case lok && lv == 1:
		return r
	case rok && rv == 1:
		return l
	case rok:
		return mkMul(r, l)
	}

	if lok {
		if b, ok := r.(*BinaryExpr); ok {
			if c, ok := numValue(b.Left); ok {
				switch b.Op {
				case TOKEN_STAR:
					// c1*(c2*e) -> (c1*c2)*e
					return mkMul(num(lv*c), b.Right)
				case TOKEN_SLASH:
					// c1*(c2/e) -> (c1*c2)/e
					return mkDiv(num(lv*c), b.Right)
				}
			}
			// c1*((c2/e)*f) -> ((c1*c2)/e)*f
			if q, ok := b.Left.(*BinaryExpr); ok && b.Op == TOKEN_STAR && q.Op == TOKEN_SLASH {
				if c, ok := numValue(q.Left); ok {
					return mkMul(mkDiv(num(lv*c), q.Right), b.Right)
				}
			}
		}
		return mul(l, r)
	}

	// Pull leading coefficients of either factor to the front.
	if c, e := coefficient(l); c != 1 {
		return mkMul(num(c), mkMul(e, r))
	}
	if c, e := coefficient(r); c != 1 {
		return mkMul(num(c), mkMul(l, e))
	}
	if sameText(l, r) {
		return mkPow(l, num(2))
	}
	// e*(e*f) and e*(f*e) -> e^2*f
	if b, ok := r.(*BinaryExpr); ok && b.Op == TOKEN_STAR {
		switch {
		case sameText(l, b.Left):
			return mkMul(mkPow(l, num(2)), b.Right)
		case sameText(l, b.Right):
			return mkMul(mkPow(l, num(2)), b.Left)
		}
	}
	return mul(l, r)
}

func mkDiv(l, r Node) Node {
	lv, lok := numValue(l)
	rv, rok := numValue(r)
	switch {
	case lok && lv == 0 && !(rok && rv == 0):
		return num(0)
	case rok && rv == 1:
		return l
	case rok && rv == -1:
		return mkMul(num(-1), l)
	case lok && rok && rv != 0 && finite(lv/rv):
		return num(lv / rv)
	case !lok && !rok && sameText(l, r):
		return num(1)
	}
	return div(l, r)
}

func mkPow(base, exp Node) Node {
	bv, bok := numValue(base)
	ev, eok := numValue(exp)
	switch {
	case eok && ev == 0:
		return num(1)
	case eok && ev == 1:
		return base
	case bok && bv == 1:
		return num(1)
	case bok && eok:
		if v := math.Pow(bv, ev); finite(v) {
			return num(v)
		}
	}
	return pow(base, exp)
}

func mkCall(name string, arg Node) Node {
	if lit, ok := arg.(*NumberLit); ok {
		switch {
		case name == "ln" && lit.Name == "e":
			return num(1)
		case name == "log" && lit.Name == "" && lit.Value == 10:
			return num(1)
		}
	}
	return call(name, arg)
}
