package lang

import (
	"math"
	"strconv"
	"strings"
)

// Binding strength of rendered nodes, loosest first.
const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

// isNegation reports whether n is the (-1)*e form used for unary minus.
func isNegation(n Node) (Node, bool) {
	if b, ok := n.(*BinaryExpr); ok && b.Op == TOKEN_STAR && isNum(b.Left, -1) {
		return b.Right, true
	}
	return nil, false
}

func precedence(node Node) int {
	switch n := node.(type) {
	case *NumberLit:
		if n.Name == "" && n.Value < 0 {
			return precUnary
		}
		return precAtom
	case *BinaryExpr:
		if _, ok := isNegation(n); ok {
			return precUnary
		}
		if n.Op == TOKEN_PLUS || n.Op == TOKEN_MINUS {
			return precSum
		}
		return precProduct
	case *PowExpr:
		return precPower
	default:
		return precAtom
	}
}

// FormatNumber renders a float the way expressions print it: integers without
// a fraction, everything else with at most six decimals.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		if v == 0 {
			return "0"
		}
		return strconv.FormatInt(int64(v), 10)
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "0" || s == "-0" {
		// Too small for six decimals; keep every digit rather than print zero.
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return s
}

// Format renders a tree as compact infix text that parses back to an
// equivalent tree: no spaces and only the parentheses precedence requires.
func Format(node Node) string {
	var b strings.Builder
	writeText(&b, node)
	return b.String()
}

func writeText(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *NumberLit:
		if n.Name != "" {
			b.WriteString(n.Name)
			return
		}
		b.WriteString(FormatNumber(n.Value))

	case *VarRef:
		b.WriteByte('x')

	case *BinaryExpr:
		if operand, ok := isNegation(n); ok {
			b.WriteByte('-')
			writeOperand(b, operand, precedence(operand) <= precSum || strings.HasPrefix(Format(operand), "-"))
			return
		}
		var op byte
		leftParens, rightParens := false, false
		lp, rp := precedence(n.Left), precedence(n.Right)
		switch n.Op {
		case TOKEN_PLUS:
			op = '+'
		case TOKEN_MINUS:
			op = '-'
			rightParens = rp <= precSum
		case TOKEN_STAR:
			op = '*'
			leftParens = lp < precProduct
			rightParens = rp < precProduct
		case TOKEN_SLASH:
			op = '/'
			leftParens = lp < precProduct
			rightParens = rp <= precProduct
		}
		writeOperand(b, n.Left, leftParens)
		b.WriteByte(op)
		if !rightParens && strings.HasPrefix(Format(n.Right), "-") {
			rightParens = true
		}
		writeOperand(b, n.Right, rightParens)

	case *PowExpr:
		writeOperand(b, n.Base, precedence(n.Base) < precAtom)
		b.WriteByte('^')
		writeOperand(b, n.Exp, precedence(n.Exp) < precAtom)

	case *FuncCall:
		b.WriteString(n.Name)
		b.WriteByte('(')
		writeText(b, n.Arg)
		b.WriteByte(')')
	}
}

func writeOperand(b *strings.Builder, node Node, parens bool) {
	if parens {
		b.WriteByte('(')
	}
	writeText(b, node)
	if parens {
		b.WriteByte(')')
	}
}

var latexFunctions = map[string]string{
	"sin":  `\sin`,
	"cos":  `\cos`,
	"tan":  `\tan`,
	"csc":  `\csc`,
	"sec":  `\sec`,
	"cot":  `\cot`,
	"asin": `\arcsin`,
	"acos": `\arccos`,
	"atan": `\arctan`,
	"ln":   `\ln`,
	"log":  `\log`,
}

func isTrig(name string) bool {
	switch name {
	case "sin", "cos", "tan", "csc", "sec", "cot":
		return true
	}
	return false
}

// FormatLatex renders a tree as LaTeX: fractions, braces for exponents,
// \sqrt, |...| for abs, and juxtaposition between a coefficient and the
// symbol it multiplies.
func FormatLatex(node Node) string {
	switch n := node.(type) {
	case *NumberLit:
		switch n.Name {
		case "pi":
			return `\pi`
		case "":
			return FormatNumber(n.Value)
		}
		return n.Name

	case *VarRef:
		return "x"

	case *BinaryExpr:
		if operand, ok := isNegation(n); ok {
			return "-" + latexOperand(operand, precedence(operand) <= precSum)
		}
		lp, rp := precedence(n.Left), precedence(n.Right)
		right := FormatLatex(n.Right)
		switch n.Op {
		case TOKEN_PLUS:
			return FormatLatex(n.Left) + " + " + latexWrap(right, strings.HasPrefix(right, "-"))
		case TOKEN_MINUS:
			return FormatLatex(n.Left) + " - " + latexWrap(right, rp <= precSum || strings.HasPrefix(right, "-"))
		case TOKEN_SLASH:
			return `\frac{` + FormatLatex(n.Left) + "}{" + right + "}"
		}
		left := latexOperand(n.Left, lp < precProduct)
		right = latexWrap(right, rp < precProduct || strings.HasPrefix(right, "-"))
		if lit, ok := n.Left.(*NumberLit); ok && startsWithSymbol(right) {
			if lit.Name != "" {
				return left + " " + right
			}
			return left + right
		}
		return left + ` \cdot ` + right

	case *PowExpr:
		exp := FormatLatex(n.Exp)
		if fc, ok := n.Base.(*FuncCall); ok && isTrig(fc.Name) {
			return latexFunctions[fc.Name] + "^{" + exp + `}\left(` + FormatLatex(fc.Arg) + `\right)`
		}
		parens := precedence(n.Base) < precAtom
		if fc, ok := n.Base.(*FuncCall); ok && (fc.Name == "exp" || fc.Name == "sqrt") {
			parens = true
		}
		return latexOperand(n.Base, parens) + "^{" + exp + "}"

	case *FuncCall:
		arg := FormatLatex(n.Arg)
		switch n.Name {
		case "sqrt":
			return `\sqrt{` + arg + "}"
		case "abs":
			return `\left|` + arg + `\right|`
		case "exp":
			return "e^{" + arg + "}"
		}
		return latexFunctions[n.Name] + `\left(` + arg + `\right)`
	}
	return ""
}

func latexOperand(node Node, parens bool) string {
	return latexWrap(FormatLatex(node), parens)
}

func latexWrap(s string, parens bool) string {
	if parens {
		return `\left(` + s + `\right)`
	}
	return s
}

// startsWithSymbol reports whether rendered LaTeX begins with a letter or a
// command, i.e. something a coefficient can be written next to.
func startsWithSymbol(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '\\' || (c >= 'a' && c <= 'z')
}

// ToDisplayForm renders raw user input as LaTeX. Input that does not parse is
// returned unchanged.
func ToDisplayForm(raw string) string {
	ev, err := Compile(raw)
	if err != nil {
		return raw
	}
	return FormatLatex(ev.Root())
}
