package lang

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliases rewrites localized function names to canonical ones. Order matters:
// strings.Replacer tries the pairs in argument order at each position, so the
// longer aliases must come first.
var aliases = strings.NewReplacer(
	"arcsen", "asin",
	"arcsin", "asin",
	"arccos", "acos",
	"arctan", "atan",
	"arctg", "atan",
	"cosec", "csc",
	"cotg", "cot",
	"raiz", "sqrt",
	"ctg", "cot",
	"sen", "sin",
	"tg", "tan",
)

// Placeholders are upper-case letters, which cannot survive lower-casing of
// the input, so they never collide with user text.
var placeholderNames = []struct {
	name        string
	placeholder byte
	constant    bool
}{
	{"sqrt", 'A', false},
	{"asin", 'B', false},
	{"acos", 'C', false},
	{"atan", 'D', false},
	{"sin", 'F', false},
	{"cos", 'G', false},
	{"tan", 'H', false},
	{"csc", 'I', false},
	{"sec", 'J', false},
	{"cot", 'K', false},
	{"log", 'L', false},
	{"abs", 'M', false},
	{"exp", 'N', false},
	{"ln", 'O', false},
	{"pi", 'P', true},
	{"e", 'Q', true},
}

var (
	toPlaceholders   *strings.Replacer
	fromPlaceholders *strings.Replacer
)

func init() {
	var to, from []string
	for _, p := range placeholderNames {
		to = append(to, p.name, string(p.placeholder))
		from = append(from, string(p.placeholder), p.name)
	}
	toPlaceholders = strings.NewReplacer(to...)
	fromPlaceholders = strings.NewReplacer(from...)
}

var superscripts = map[rune]byte{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
}

// Normalize canonicalizes raw user input: lower-case, no whitespace, no
// accents, canonical function names and explicit multiplication. It never
// fails and Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := replaceSymbols(raw)
	s = cases.Lower(language.Und).String(s)
	if stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s); err == nil {
		s = stripped
	}
	s = strings.Join(strings.Fields(s), "")
	s = aliases.Replace(s)
	s = toPlaceholders.Replace(s)
	s = insertMultiplication(s)
	return fromPlaceholders.Replace(s)
}

// replaceSymbols maps typographic symbols onto the ASCII grammar.
func replaceSymbols(raw string) string {
	var b strings.Builder
	rs := []rune(raw)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '⁻' || superscripts[r] != 0:
			b.WriteByte('^')
			if r == '⁻' {
				b.WriteByte('-')
				i++
			}
			for ; i < len(rs) && superscripts[rs[i]] != 0; i++ {
				b.WriteByte(superscripts[rs[i]])
			}
			i--
		case r == '−' || r == '–':
			b.WriteByte('-')
		case r == '×' || r == '·' || r == '⋅':
			b.WriteByte('*')
		case r == '÷':
			b.WriteByte('/')
		case r == 'π':
			b.WriteString("pi")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

type charClass int

const (
	classOther charClass = iota
	classDigit
	classVar
	classOpen
	classClose
	classFunc
	classConst
)

func classify(ch byte) charClass {
	switch {
	case isDigit(ch) || ch == '.':
		return classDigit
	case ch == 'x':
		return classVar
	case ch == '(':
		return classOpen
	case ch == ')':
		return classClose
	case ch >= 'A' && ch <= 'Z':
		for _, p := range placeholderNames {
			if p.placeholder == ch {
				if p.constant {
					return classConst
				}
				return classFunc
			}
		}
	}
	return classOther
}

// insertMultiplication adds '*' wherever two operands are juxtaposed, e.g.
// 2x, x(x+1), (x)(x), 2sin(x), pi x.
func insertMultiplication(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if i+1 == len(s) {
			break
		}
		left, right := classify(s[i]), classify(s[i+1])
		operandFollows := right == classVar || right == classOpen || right == classFunc || right == classConst
		switch left {
		case classDigit:
			if operandFollows {
				b.WriteByte('*')
			}
		case classClose, classVar, classConst:
			if operandFollows || right == classDigit {
				b.WriteByte('*')
			}
		}
	}
	return b.String()
}
