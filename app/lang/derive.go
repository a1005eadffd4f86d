package lang

import (
	"fmt"
	"strings"
)

// Derive returns the unsimplified derivative of node with respect to x.
// It panics on node types outside the closed AST; Differentiate recovers.
func Derive(node Node) Node {
	switch n := node.(type) {
	case *NumberLit:
		return num(0)

	case *VarRef:
		return num(1)

	case *BinaryExpr:
		f, g := n.Left, n.Right
		switch n.Op {
		case TOKEN_PLUS:
			return add(Derive(f), Derive(g))
		case TOKEN_MINUS:
			return sub(Derive(f), Derive(g))
		case TOKEN_STAR:
			// f'g + fg'
			return add(mul(Derive(f), g), mul(f, Derive(g)))
		case TOKEN_SLASH:
			// (f'g - fg') / g^2
			return div(sub(mul(Derive(f), g), mul(f, Derive(g))), pow(g, num(2)))
		}
		panic(fmt.Sprintf("derive: unknown operator %d", n.Op))

	case *PowExpr:
		return derivePow(n)

	case *FuncCall:
		return mul(deriveOuter(n.Name, n.Arg), Derive(n.Arg))

	default:
		panic(fmt.Sprintf("derive: unknown node %T", node))
	}
}

func derivePow(n *PowExpr) Node {
	base, exp := n.Base, n.Exp
	switch {
	case IsConstant(exp):
		// n * base^(n-1) * base'
		return mul(mul(exp, pow(base, sub(exp, num(1)))), Derive(base))
	case IsConstant(base):
		// base^exp * ln(base) * exp'
		return mul(mul(pow(base, exp), call("ln", base)), Derive(exp))
	default:
		// f^g * (g' ln f + g f'/f)
		return mul(pow(base, exp), add(
			mul(Derive(exp), call("ln", base)),
			div(mul(exp, Derive(base)), base),
		))
	}
}

// deriveOuter returns F'(u) for a named function F.
func deriveOuter(name string, u Node) Node {
	switch name {
	case "sin":
		return call("cos", u)
	case "cos":
		return mul(num(-1), call("sin", u))
	case "tan":
		return pow(call("sec", u), num(2))
	case "csc":
		return mul(num(-1), mul(call("csc", u), call("cot", u)))
	case "sec":
		return mul(call("sec", u), call("tan", u))
	case "cot":
		return mul(num(-1), pow(call("csc", u), num(2)))
	case "asin":
		return div(num(1), call("sqrt", sub(num(1), pow(u, num(2)))))
	case "acos":
		return div(num(-1), call("sqrt", sub(num(1), pow(u, num(2)))))
	case "atan":
		return div(num(1), add(num(1), pow(u, num(2))))
	case "ln":
		return div(num(1), u)
	case "log":
		return div(num(1), mul(u, call("ln", num(10))))
	case "sqrt":
		return div(num(1), mul(num(2), call("sqrt", u)))
	case "exp":
		return call("exp", u)
	case "abs":
		return div(u, call("abs", u))
	}
	panic("derive: unknown function " + name)
}

// Differentiate returns the simplified first derivative of raw as infix text.
// It never fails: on any problem it returns "d/dx[raw]".
func Differentiate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "0"
	}
	d, ok := deriveN(raw, 1)
	if !ok {
		return "d/dx[" + raw + "]"
	}
	return Format(d)
}

// DifferentiateTwice returns the simplified second derivative of raw.
func DifferentiateTwice(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "0"
	}
	d, ok := deriveN(raw, 2)
	if !ok {
		return "d/dx[d/dx[" + raw + "]]"
	}
	return Format(d)
}

// DerivativeTree parses raw and returns its n-th simplified derivative.
func DerivativeTree(raw string, order int) (Node, error) {
	ev, err := Compile(raw)
	if err != nil {
		return nil, err
	}
	return deriveTree(ev.Root(), order)
}

func deriveTree(root Node, order int) (node Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			node, err = nil, fmt.Errorf("differentiate: %v", r)
		}
	}()
	node = root
	for i := 0; i < order; i++ {
		node = Simplify(Derive(node))
	}
	return node, nil
}

func deriveN(raw string, order int) (Node, bool) {
	node, err := DerivativeTree(raw, order)
	return node, err == nil
}
