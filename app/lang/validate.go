package lang

import "strings"

// Validate checks the lexical shape of raw user input before any parsing or
// numeric work: allowed characters, balanced parentheses and operator
// placement. Unknown function names are reported later by the parser.
func Validate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return &ExprError{Msg: "expression cannot be empty", Pos: -1}
	}
	expr := Normalize(raw)
	if expr == "" {
		return &ExprError{Msg: "expression cannot be empty", Pos: -1}
	}

	for i, r := range expr {
		if r > 0x7f || !isAllowed(byte(r)) {
			return errorf(i, "character not allowed: %q at position %d", r, i)
		}
	}

	if err := validateParentheses(expr); err != nil {
		return err
	}
	return validateOperators(expr)
}

func isAllowed(ch byte) bool {
	if isDigit(ch) || (ch >= 'a' && ch <= 'z') {
		return true
	}
	return strings.IndexByte(".+-*/^()", ch) >= 0
}

func validateParentheses(expr string) error {
	balance := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			balance++
		case ')':
			balance--
		}
		if balance < 0 {
			return errorf(i, "closing parenthesis without opening at position %d", i)
		}
	}
	if balance > 0 {
		return errorf(len(expr), "missing %d closing parenthes%s", balance, plural(balance, "is", "es"))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func isBinaryOperator(ch byte) bool {
	return ch == '+' || ch == '-' || ch == '*' || ch == '/' || ch == '^'
}

// isInfixOnly reports operators that can never start an operand.
func isInfixOnly(ch byte) bool {
	return ch == '*' || ch == '/' || ch == '^'
}

func isSign(ch byte) bool {
	return ch == '+' || ch == '-'
}

func validateOperators(expr string) error {
	if isInfixOnly(expr[0]) {
		return errorf(0, "expression cannot start with operator '%c'", expr[0])
	}
	for i := 0; i+1 < len(expr); i++ {
		cur, next := expr[i], expr[i+1]
		switch {
		case isBinaryOperator(cur) && isInfixOnly(next), isSign(cur) && isSign(next):
			return errorf(i, "invalid consecutive operators: '%c%c' at position %d", cur, next, i)
		case cur == '(' && (isInfixOnly(next) || next == ')'):
			return errorf(i, "invalid '%c%c' at position %d", cur, next, i)
		case isBinaryOperator(cur) && next == ')':
			return errorf(i, "operator '%c' before ')' at position %d", cur, i)
		}
	}
	if last := expr[len(expr)-1]; isBinaryOperator(last) {
		return errorf(len(expr)-1, "expression cannot end with operator: '%c'", last)
	}
	return nil
}
