package analysis

import (
	"math"

	"inflexpoint/app/lang"
)

// shape holds the cues used to pick explanatory messages. These are
// best-effort hints about the form of the expression, not a classification
// anyone should rely on.
type shape struct {
	functions   map[string]bool
	hasVar      bool
	varDivisor  bool // x appears in a denominator
	fracPower   bool // a power with a non-integer constant exponent
	negPower    bool // x raised to a negative constant
	varExponent bool // an exponent depending on x
}

func shapeOf(root lang.Node) shape {
	s := shape{functions: map[string]bool{}}
	lang.Walk(root, func(n lang.Node) {
		switch n := n.(type) {
		case *lang.VarRef:
			s.hasVar = true
		case *lang.FuncCall:
			s.functions[n.Name] = true
		case *lang.BinaryExpr:
			if n.Op == lang.TOKEN_SLASH && !lang.IsConstant(n.Right) {
				s.varDivisor = true
			}
		case *lang.PowExpr:
			if !lang.IsConstant(n.Exp) {
				s.varExponent = true
				return
			}
			v, err := lang.Eval(n.Exp, 0)
			if err != nil || lang.IsConstant(n.Base) {
				return
			}
			if v != math.Trunc(v) {
				s.fracPower = true
			}
			if v < 0 {
				s.negPower = true
			}
		}
	})
	return s
}

func (s shape) any(names ...string) bool {
	for _, n := range names {
		if s.functions[n] {
			return true
		}
	}
	return false
}

// describeShape appends the messages implied by the form of the expression.
func describeShape(res *Result, root lang.Node) {
	s := shapeOf(root)

	switch {
	case s.any("sin", "cos", "sec", "csc"):
		res.AddMessage("Trigonometric function: the pattern repeats with period 2π.")
	case s.any("tan", "cot"):
		res.AddMessage("Trigonometric function: the pattern repeats with period π.")
	}
	if s.any("tan", "sec", "csc", "cot") {
		res.AddMessage("tan, sec, csc and cot have vertical asymptotes where their denominator vanishes.")
	}
	if s.any("asin", "acos") {
		res.AddMessage("Restricted domain: asin and acos are only defined for arguments in [-1, 1].")
	}
	if s.any("ln", "log") {
		res.AddMessage("Restricted domain: logarithms are only defined for positive arguments.")
	}
	if s.any("sqrt") || s.fracPower {
		res.AddMessage("Irrational function: even roots are only defined for non-negative radicands.")
	}
	if s.varDivisor || s.negPower {
		res.AddMessage("Rational function: vertical asymptotes may appear where the denominator is zero.")
	}
	if s.any("exp") || s.varExponent {
		res.AddMessage("Exponential function: defined for every real x and never crosses its horizontal asymptote.")
	}
	if s.any("abs") {
		res.AddMessage("Absolute value: corners where the argument changes sign have no derivative.")
	}
	if s.hasVar && len(s.functions) == 0 && !s.varDivisor && !s.fracPower && !s.negPower && !s.varExponent {
		res.AddMessage("Polynomial function: defined and continuous for every real x.")
	}
}

// describeSingularities appends one message per singular point and gap.
func describeSingularities(res *Result) {
	for _, s := range res.Singularities {
		switch s.Kind {
		case Asymptote:
			res.AddMessage("Vertical asymptote near x = %s.", formatCoord(s.X))
		default:
			res.AddMessage("Indeterminate point near x = %s.", formatCoord(s.X))
		}
	}
	for _, g := range res.DomainGaps {
		res.AddMessage("The function is undefined on [%s, %s].", formatCoord(g.Start), formatCoord(g.End))
	}
}
