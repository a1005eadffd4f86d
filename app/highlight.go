package main

import (
	"strings"

	"github.com/fatih/color"

	"inflexpoint/app/lang"
)

// TokenKind represents the category of a syntax token.
type TokenKind int

const (
	TokenPlain TokenKind = iota
	TokenFunction
	TokenConstant
	TokenNumber
	TokenComment
	TokenOperator
	TokenVariable
	TokenParen
	TokenIllegal
)

// Token is a span of text with a syntax category.
type Token struct {
	Text string
	Kind TokenKind
}

// tokenColors maps token kinds to terminal colors.
var tokenColors = map[TokenKind]*color.Color{
	TokenPlain:    color.New(color.Reset),
	TokenFunction: color.New(color.FgBlue),
	TokenConstant: color.New(color.FgMagenta),
	TokenNumber:   color.New(color.FgGreen),
	TokenComment:  color.New(color.FgHiBlack),
	TokenOperator: color.New(color.Reset),
	TokenVariable: color.New(color.FgCyan),
	TokenParen:    color.New(color.FgYellow),
	TokenIllegal:  color.New(color.FgRed, color.Underline),
}

// TokenColor returns the color for a token kind.
func TokenColor(kind TokenKind) *color.Color {
	if c, ok := tokenColors[kind]; ok {
		return c
	}
	return tokenColors[TokenPlain]
}

// langTokenToHighlight maps a lang.TokenType to a highlight TokenKind.
func langTokenToHighlight(t lang.Token) TokenKind {
	if t.IsOperator() {
		return TokenOperator
	}
	switch t.Type {
	case lang.TOKEN_NUMBER:
		return TokenNumber
	case lang.TOKEN_WORD:
		switch {
		case lang.IsFunction(strings.ToLower(t.Literal)):
			return TokenFunction
		case t.Literal == "pi" || t.Literal == "e":
			return TokenConstant
		case t.Literal == "x" || t.Literal == "X":
			return TokenVariable
		}
		return TokenPlain
	case lang.TOKEN_LPAREN, lang.TOKEN_RPAREN:
		return TokenParen
	case lang.TOKEN_ILLEGAL:
		return TokenIllegal
	default:
		return TokenPlain
	}
}

// Tokenize splits a line into highlighted tokens using the lang lexer.
// Whitespace between tokens is kept so the tokens concatenate back to line.
func Tokenize(line string) []Token {
	if line == "" {
		return nil
	}
	if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, ";") {
		return []Token{{Text: line, Kind: TokenComment}}
	}

	langTokens := lang.Lex(line)
	var result []Token
	lastEnd := 0

	for _, lt := range langTokens {
		if lt.Type == lang.TOKEN_EOF {
			break
		}

		// Add any whitespace/gap before this token
		if lt.Pos > lastEnd {
			result = append(result, Token{Text: line[lastEnd:lt.Pos], Kind: TokenPlain})
		}

		result = append(result, Token{Text: lt.Literal, Kind: langTokenToHighlight(lt)})
		lastEnd = lt.Pos + len(lt.Literal)
	}

	// Any trailing text
	if lastEnd < len(line) {
		result = append(result, Token{Text: line[lastEnd:], Kind: TokenPlain})
	}

	return result
}

// Highlight returns line with terminal colors applied per token.
func Highlight(line string) string {
	var b strings.Builder
	for _, tok := range Tokenize(line) {
		if tok.Kind == TokenPlain || tok.Kind == TokenOperator {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(TokenColor(tok.Kind).Sprint(tok.Text))
	}
	return b.String()
}
