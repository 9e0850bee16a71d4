// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lexer turns source text into a stream of tokens.
package lexer

import (
	"strings"

	"github.com/pkg/errors"
)

// Lexer scans one source buffer. The zero value is not usable; use New.
type Lexer struct {
	path string
	src  string
	off  int
	pos  Pos
}

// New returns a lexer over src. path is used in token locations only.
func New(path, src string) *Lexer {
	return &Lexer{
		path: path,
		src:  src,
		pos:  Pos{Line: 1, Col: 1},
	}
}

// Line returns the content of a 1-based source line, for diagnostics.
func (l *Lexer) Line(n int) string {
	lines := strings.Split(l.src, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// Path returns the path the lexer was created with.
func (l *Lexer) Path() string {
	return l.path
}

func (l *Lexer) peek() byte {
	if l.off >= len(l.src) {
		return 0
	}
	return l.src[l.off]
}

func (l *Lexer) peek2() byte {
	if l.off+1 >= len(l.src) {
		return 0
	}
	return l.src[l.off+1]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.off]
	l.off++
	if ch == '\n' {
		l.pos.Line++
		l.pos.Col = 1
	} else {
		l.pos.Col++
	}
	return ch
}

func (l *Lexer) skipSpaceAndComments() {
	for l.off < len(l.src) {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.advance()
		case ch == '/' && l.peek2() == '/':
			for l.off < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peek2() == '*':
			l.advance()
			l.advance()
			for l.off < len(l.src) {
				if l.peek() == '*' && l.peek2() == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

func isLetter(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// GetToken scans and returns the next token. After the end of input it
// returns EOI tokens forever.
func (l *Lexer) GetToken() Token {
	l.skipSpaceAndComments()

	start := l.pos
	startOff := l.off
	loc := func() Loc {
		return Loc{Path: l.path, From: start, To: l.pos}
	}
	mk := func(kind TokenKind) Token {
		return Token{
			Kind: kind,
			Text: l.src[startOff:l.off],
			Loc:  loc(),
		}
	}

	if l.off >= len(l.src) {
		return Token{Kind: EOI, Loc: loc()}
	}

	ch := l.peek()
	switch {
	case isLetter(ch):
		for l.off < len(l.src) && (isLetter(l.peek()) || isDigit(l.peek())) {
			l.advance()
		}
		text := l.src[startOff:l.off]
		if kw, ok := keywords[text]; ok {
			return mk(kw)
		}
		return mk(IDENTIFIER)
	case isDigit(ch):
		return l.scanNumber(start, startOff)
	case ch == '\'':
		return l.scanChar(start, startOff)
	case ch == '"':
		return l.scanString(start, startOff)
	}

	l.advance()
	switch ch {
	case '+':
		switch l.peek() {
		case '+':
			l.advance()
			return mk(PLUS2)
		case '=':
			l.advance()
			return mk(PLUS_EQUAL)
		}
		return mk(PLUS)
	case '-':
		switch l.peek() {
		case '-':
			l.advance()
			return mk(MINUS2)
		case '=':
			l.advance()
			return mk(MINUS_EQUAL)
		case '>':
			l.advance()
			return mk(ARROW)
		}
		return mk(MINUS)
	case '*':
		if l.peek() == '=' {
			l.advance()
			return mk(ASTERISK_EQUAL)
		}
		return mk(ASTERISK)
	case '/':
		if l.peek() == '=' {
			l.advance()
			return mk(SLASH_EQUAL)
		}
		return mk(SLASH)
	case '%':
		if l.peek() == '=' {
			l.advance()
			return mk(PERCENT_EQUAL)
		}
		return mk(PERCENT)
	case '=':
		if l.peek() == '=' {
			l.advance()
			return mk(EQUAL2)
		}
		return mk(EQUAL)
	case '!':
		if l.peek() == '=' {
			l.advance()
			return mk(NOT_EQUAL)
		}
		return mk(NOT)
	case '<':
		if l.peek() == '=' {
			l.advance()
			return mk(LESS_EQUAL)
		}
		return mk(LESS)
	case '>':
		if l.peek() == '=' {
			l.advance()
			return mk(GREATER_EQUAL)
		}
		return mk(GREATER)
	case '&':
		if l.peek() == '&' {
			l.advance()
			return mk(AND2)
		}
		return mk(AND)
	case '|':
		if l.peek() == '|' {
			l.advance()
			return mk(OR2)
		}
		return mk(BAD)
	case '?':
		return mk(QUERY)
	case '.':
		return mk(DOT)
	case ',':
		return mk(COMMA)
	case ';':
		return mk(SEMICOLON)
	case ':':
		return mk(COLON)
	case '(':
		return mk(LPAREN)
	case ')':
		return mk(RPAREN)
	case '[':
		return mk(LBRACKET)
	case ']':
		return mk(RBRACKET)
	case '{':
		return mk(LBRACE)
	case '}':
		return mk(RBRACE)
	}
	return mk(BAD)
}

func (l *Lexer) scanNumber(start Pos, startOff int) Token {
	kind := DECIMAL_LITERAL
	digits := isDigit
	if l.peek() == '0' {
		l.advance()
		switch l.peek() {
		case 'x', 'X':
			l.advance()
			kind = HEXADECIMAL_LITERAL
			digits = isHexDigit
			startOff = l.off
		case 'b', 'B':
			l.advance()
			kind = BINARY_LITERAL
			startOff = l.off
		default:
			if isDigit(l.peek()) {
				kind = OCTAL_LITERAL
			}
		}
	}
	for l.off < len(l.src) && digits(l.peek()) {
		l.advance()
	}
	return Token{
		Kind: kind,
		Text: l.src[startOff:l.off],
		Loc:  Loc{Path: l.path, From: start, To: l.pos},
	}
}

func unescape(ch byte) (byte, error) {
	switch ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\', '\'', '"':
		return ch, nil
	default:
		return 0, errors.Errorf("unknown escape sequence \\%c", ch)
	}
}

func (l *Lexer) scanChar(start Pos, startOff int) Token {
	l.advance() // opening quote
	var val byte
	switch {
	case l.off >= len(l.src):
		// truncated literal, fall through to the BAD token below
	case l.peek() == '\\':
		l.advance()
		if l.off < len(l.src) {
			val, _ = unescape(l.peek())
			l.advance()
		}
	default:
		val = l.advance()
	}
	kind := CHARACTER_LITERAL
	if l.off < len(l.src) && l.peek() == '\'' {
		l.advance()
	} else {
		kind = BAD
	}
	return Token{
		Kind:      kind,
		Text:      l.src[startOff:l.off],
		Processed: string(val),
		Loc:       Loc{Path: l.path, From: start, To: l.pos},
	}
}

func (l *Lexer) scanString(start Pos, startOff int) Token {
	l.advance() // opening quote
	var sb strings.Builder
	kind := BAD
	for l.off < len(l.src) {
		ch := l.advance()
		if ch == '"' {
			kind = STRING_LITERAL
			break
		}
		if ch == '\\' && l.off < len(l.src) {
			esc, _ := unescape(l.peek())
			l.advance()
			sb.WriteByte(esc)
			continue
		}
		sb.WriteByte(ch)
	}
	return Token{
		Kind:      kind,
		Text:      l.src[startOff:l.off],
		Processed: sb.String(),
		Loc:       Loc{Path: l.path, From: start, To: l.pos},
	}
}
