package lang

import "unicode/utf8"

// Lex tokenizes a normalized expression into a slice of tokens.
// Characters outside the grammar become TOKEN_ILLEGAL so the parser can
// report them with their position.
func Lex(input string) []Token {
	var tokens []Token
	i := 0
	for i < len(input) {
		ch := input[i]

		// Skip whitespace
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			i++
			continue
		}

		switch ch {
		case '+':
			tokens = append(tokens, Token{Type: TOKEN_PLUS, Literal: "+", Pos: i})
			i++
		case '-':
			tokens = append(tokens, Token{Type: TOKEN_MINUS, Literal: "-", Pos: i})
			i++
		case '*':
			tokens = append(tokens, Token{Type: TOKEN_STAR, Literal: "*", Pos: i})
			i++
		case '/':
			tokens = append(tokens, Token{Type: TOKEN_SLASH, Literal: "/", Pos: i})
			i++
		case '^':
			tokens = append(tokens, Token{Type: TOKEN_CARET, Literal: "^", Pos: i})
			i++
		case '(':
			tokens = append(tokens, Token{Type: TOKEN_LPAREN, Literal: "(", Pos: i})
			i++
		case ')':
			tokens = append(tokens, Token{Type: TOKEN_RPAREN, Literal: ")", Pos: i})
			i++
		default:
			if isDigit(ch) || ch == '.' {
				// Greedy over digits and dots; "1.2.3" is rejected by the parser.
				start := i
				for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
					i++
				}
				tokens = append(tokens, Token{Type: TOKEN_NUMBER, Literal: input[start:i], Pos: start})
			} else if isWordStart(ch) {
				start := i
				for i < len(input) && isWordStart(input[i]) {
					i++
				}
				tokens = append(tokens, Token{Type: TOKEN_WORD, Literal: input[start:i], Pos: start})
			} else {
				_, size := utf8.DecodeRuneInString(input[i:])
				tokens = append(tokens, Token{Type: TOKEN_ILLEGAL, Literal: input[i : i+size], Pos: i})
				i += size
			}
		}
	}
	tokens = append(tokens, Token{Type: TOKEN_EOF, Literal: "", Pos: i})
	return tokens
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isWordStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
