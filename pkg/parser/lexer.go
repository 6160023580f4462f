// Package parser provides error-tolerant lexical analysis of SQLite text:
// tokenization, statement splitting, and table-reference extraction.
//
// Nothing in this package validates SQL. The input is usually an incomplete
// statement mid-edit, so every function degrades gracefully instead of
// failing: an unterminated string lexes as a string running to the end of
// the buffer, a half-typed FROM clause yields whatever table references are
// already recognizable, and so on.
package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/leaplite/pkg/token"
)

// Lexer tokenizes SQLite text.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Tokenize returns all tokens in the input, including whitespace and
// comment tokens. Offsets in the result cover the input exactly: the End of
// each token equals the Start of the next.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for l.ch != 0 {
		tokens = append(tokens, l.next())
	}
	return tokens
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = end of input
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// next scans one token. Callers must check l.ch != 0 first.
func (l *Lexer) next() token.Token {
	start := l.pos

	switch {
	case isSpace(l.ch):
		for isSpace(l.ch) {
			l.readChar()
		}
		return l.emit(token.Whitespace, start)

	case l.ch == '-' && l.peekChar() == '-':
		// Line comment, up to but not including the newline.
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		return l.emit(token.Comment, start)

	case l.ch == '/' && l.peekChar() == '*':
		l.readChar()
		l.readChar()
		for l.ch != 0 {
			if l.ch == '*' && l.peekChar() == '/' {
				l.readChar()
				l.readChar()
				break
			}
			l.readChar()
		}
		return l.emit(token.Comment, start)

	case l.ch == '\'':
		l.readQuoted('\'')
		return l.emit(token.String, start)

	case l.ch == '"':
		l.readQuoted('"')
		return l.emit(token.QuotedIdent, start)

	case l.ch == '`':
		l.readQuoted('`')
		return l.emit(token.QuotedIdent, start)

	case l.ch == '[':
		// [name] quoting; closes on the first ], no doubling rule.
		l.readChar()
		for l.ch != ']' && l.ch != 0 {
			l.readChar()
		}
		if l.ch == ']' {
			l.readChar()
		}
		return l.emit(token.QuotedIdent, start)

	case isLetter(l.ch) || l.ch == '_':
		for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' {
			l.readChar()
		}
		text := l.input[start:l.pos]
		return token.Token{Kind: token.Lookup(text), Text: text, Start: start, End: l.pos}

	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		l.readNumber()
		return l.emit(token.Number, start)

	default:
		l.readOperator()
		return l.emit(token.Punct, start)
	}
}

// emit builds a token for the input range [start, l.pos).
func (l *Lexer) emit(kind token.Kind, start int) token.Token {
	return token.Token{
		Kind:  kind,
		Text:  l.input[start:l.pos],
		Start: start,
		End:   l.pos,
	}
}

// readQuoted consumes a quoted region delimited by q, including both
// delimiters. A doubled delimiter inside the region is an escape. An
// unterminated region runs to the end of the input.
func (l *Lexer) readQuoted(q byte) {
	l.readChar() // opening quote
	for l.ch != 0 {
		if l.ch == q {
			if l.peekChar() == q {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // closing quote
			return
		}
		l.readChar()
	}
}

// readNumber consumes a numeric literal: integer, decimal (including the
// leading-dot form), scientific, or 0x hex.
func (l *Lexer) readNumber() {
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return
	}

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
}

// readOperator consumes one operator or punctuation sequence, folding the
// multi-byte SQLite operators (<=, <>, <<, >=, >>, !=, ==, ||, ->, ->>)
// into a single token.
func (l *Lexer) readOperator() {
	switch l.ch {
	case '<':
		l.readChar()
		if l.ch == '=' || l.ch == '>' || l.ch == '<' {
			l.readChar()
		}
	case '>':
		l.readChar()
		if l.ch == '=' || l.ch == '>' {
			l.readChar()
		}
	case '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
		}
	case '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
		}
	case '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
		}
	case '-':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			if l.ch == '>' {
				l.readChar()
			}
		}
	default:
		l.readChar()
	}
}

// isSpace returns true for the whitespace bytes SQLite skips.
func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// isLetter returns true if ch can start an identifier. Bytes above ASCII
// are treated as letters so multi-byte identifiers lex as one token.
func isLetter(ch byte) bool {
	return ch >= utf8.RuneSelf || unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a decimal digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isHexDigit returns true if ch is a hexadecimal digit.
func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
