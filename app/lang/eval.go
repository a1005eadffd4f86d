package lang

import (
	"math"
	"strings"
)

// functions maps every known function name to its numeric implementation.
// log is the base-10 logarithm and ln the natural one.
var functions = map[string]func(float64) float64{
	"sqrt": math.Sqrt,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"csc":  func(v float64) float64 { return 1 / math.Sin(v) },
	"sec":  func(v float64) float64 { return 1 / math.Cos(v) },
	"cot":  func(v float64) float64 { return math.Cos(v) / math.Sin(v) },
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"log":  math.Log10,
	"ln":   math.Log,
	"abs":  math.Abs,
	"exp":  math.Exp,
}

// IsFunction reports whether name is a known function.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

// Eval evaluates an AST node at x. Domain violations are not errors: they
// propagate as NaN or ±Inf following IEEE-754.
func Eval(node Node, x float64) (float64, error) {
	if node == nil {
		return 0, &ExprError{Msg: "empty expression", Pos: -1}
	}

	switch n := node.(type) {
	case *NumberLit:
		return n.Value, nil

	case *VarRef:
		return x, nil

	case *BinaryExpr:
		left, err := Eval(n.Left, x)
		if err != nil {
			return 0, err
		}
		right, err := Eval(n.Right, x)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case TOKEN_PLUS:
			return left + right, nil
		case TOKEN_MINUS:
			return left - right, nil
		case TOKEN_STAR:
			return left * right, nil
		case TOKEN_SLASH:
			return left / right, nil
		default:
			return 0, &ExprError{Msg: "unknown operator", Pos: -1}
		}

	case *PowExpr:
		base, err := Eval(n.Base, x)
		if err != nil {
			return 0, err
		}
		exp, err := Eval(n.Exp, x)
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil

	case *FuncCall:
		fn, ok := functions[n.Name]
		if !ok {
			return 0, &ExprError{Msg: "unknown function: " + n.Name, Pos: -1}
		}
		arg, err := Eval(n.Arg, x)
		if err != nil {
			return 0, err
		}
		return fn(arg), nil

	default:
		return 0, &ExprError{Msg: "unknown node type", Pos: -1}
	}
}

// Evaluator evaluates one expression at arbitrary points. It is immutable and
// safe for concurrent use.
type Evaluator struct {
	expr string
	root Node
}

// NewEvaluator parses an already normalized expression.
func NewEvaluator(expr string) (*Evaluator, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, &ExprError{Msg: "expression cannot be empty", Pos: -1}
	}
	root, err := ParseString(expr)
	if err != nil {
		return nil, err
	}
	return &Evaluator{expr: expr, root: root}, nil
}

// Compile normalizes and validates raw user input and returns its evaluator.
func Compile(raw string) (*Evaluator, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return NewEvaluator(Normalize(raw))
}

// Evaluate returns f(x).
func (e *Evaluator) Evaluate(x float64) (float64, error) {
	return Eval(e.root, x)
}

// At returns f(x), or NaN when evaluation fails.
func (e *Evaluator) At(x float64) float64 {
	v, err := Eval(e.root, x)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Expression returns the normalized expression text.
func (e *Evaluator) Expression() string { return e.expr }

// Root returns the parsed tree.
func (e *Evaluator) Root() Node { return e.root }

// Evaluate compiles raw and evaluates it at x.
func Evaluate(raw string, x float64) (float64, error) {
	ev, err := Compile(raw)
	if err != nil {
		return 0, err
	}
	return ev.Evaluate(x)
}
