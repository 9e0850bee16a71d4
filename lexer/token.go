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

package lexer

// TokenKind enumerates the tokens of the language.
type TokenKind int

// Token kinds. EOI terminates every token stream.
const (
	BAD TokenKind = iota
	EOI
	IDENTIFIER
	DECIMAL_LITERAL
	HEXADECIMAL_LITERAL
	OCTAL_LITERAL
	BINARY_LITERAL
	CHARACTER_LITERAL
	STRING_LITERAL

	// keywords
	FN
	LOCAL
	RETURN
	IF
	ELSE
	WHILE
	FOR
	STRUCT
	ENUM
	CONST
	NULLPTR
	SIZEOF
	ARRAY
	OF
	VOID
	BOOL
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64

	// punctuation
	PLUS
	PLUS2
	PLUS_EQUAL
	MINUS
	MINUS2
	MINUS_EQUAL
	ARROW
	ASTERISK
	ASTERISK_EQUAL
	SLASH
	SLASH_EQUAL
	PERCENT
	PERCENT_EQUAL
	EQUAL
	EQUAL2
	NOT
	NOT_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	AND
	AND2
	OR2
	QUERY
	DOT
	COMMA
	SEMICOLON
	COLON
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
)

// Token is one lexical token. Text is the raw spelling; Processed carries
// decoded payloads such as the value of a character literal.
type Token struct {
	Kind      TokenKind
	Text      string
	Processed string
	Loc       Loc
}

var tokenName = map[TokenKind]string{
	BAD:                 "bad token",
	EOI:                 "end of input",
	IDENTIFIER:          "identifier",
	DECIMAL_LITERAL:     "decimal literal",
	HEXADECIMAL_LITERAL: "hexadecimal literal",
	OCTAL_LITERAL:       "octal literal",
	BINARY_LITERAL:      "binary literal",
	CHARACTER_LITERAL:   "character literal",
	STRING_LITERAL:      "string literal",
	FN:                  "fn",
	LOCAL:               "local",
	RETURN:              "return",
	IF:                  "if",
	ELSE:                "else",
	WHILE:               "while",
	FOR:                 "for",
	STRUCT:              "struct",
	ENUM:                "enum",
	CONST:               "const",
	NULLPTR:             "nullptr",
	SIZEOF:              "sizeof",
	ARRAY:               "array",
	OF:                  "of",
	VOID:                "void",
	BOOL:                "bool",
	U8:                  "u8",
	U16:                 "u16",
	U32:                 "u32",
	U64:                 "u64",
	I8:                  "i8",
	I16:                 "i16",
	I32:                 "i32",
	I64:                 "i64",
	PLUS:                "+",
	PLUS2:               "++",
	PLUS_EQUAL:          "+=",
	MINUS:               "-",
	MINUS2:              "--",
	MINUS_EQUAL:         "-=",
	ARROW:               "->",
	ASTERISK:            "*",
	ASTERISK_EQUAL:      "*=",
	SLASH:               "/",
	SLASH_EQUAL:         "/=",
	PERCENT:             "%",
	PERCENT_EQUAL:       "%=",
	EQUAL:               "=",
	EQUAL2:              "==",
	NOT:                 "!",
	NOT_EQUAL:           "!=",
	LESS:                "<",
	LESS_EQUAL:          "<=",
	GREATER:             ">",
	GREATER_EQUAL:       ">=",
	AND:                 "&",
	AND2:                "&&",
	OR2:                 "||",
	QUERY:               "?",
	DOT:                 ".",
	COMMA:               ",",
	SEMICOLON:           ";",
	COLON:               ":",
	LPAREN:              "(",
	RPAREN:              ")",
	LBRACKET:            "[",
	RBRACKET:            "]",
	LBRACE:              "{",
	RBRACE:              "}",
}

var keywords = map[string]TokenKind{
	"fn":      FN,
	"local":   LOCAL,
	"return":  RETURN,
	"if":      IF,
	"else":    ELSE,
	"while":   WHILE,
	"for":     FOR,
	"struct":  STRUCT,
	"enum":    ENUM,
	"const":   CONST,
	"nullptr": NULLPTR,
	"sizeof":  SIZEOF,
	"array":   ARRAY,
	"of":      OF,
	"void":    VOID,
	"bool":    BOOL,
	"u8":      U8,
	"u16":     U16,
	"u32":     U32,
	"u64":     U64,
	"i8":      I8,
	"i16":     I16,
	"i32":     I32,
	"i64":     I64,
}

// String returns the user-visible spelling of the token kind.
func (k TokenKind) String() string {
	if s, ok := tokenName[k]; ok {
		return s
	}
	return "unknown token"
}

// Radix returns the radix of an integer literal kind, or 0 for other kinds.
func (k TokenKind) Radix() int {
	switch k {
	case DECIMAL_LITERAL:
		return 10
	case HEXADECIMAL_LITERAL:
		return 16
	case OCTAL_LITERAL:
		return 8
	case BINARY_LITERAL:
		return 2
	default:
		return 0
	}
}
