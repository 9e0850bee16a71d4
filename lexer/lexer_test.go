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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func kinds(src string) []TokenKind {
	l := New("test.abc", src)
	var ks []TokenKind
	for {
		tok := l.GetToken()
		ks = append(ks, tok.Kind)
		if tok.Kind == EOI {
			return ks
		}
	}
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		src  string
		want []TokenKind
	}{
		{
			src:  "fn main(): i32 { return 0; }",
			want: []TokenKind{FN, IDENTIFIER, LPAREN, RPAREN, COLON, I32, LBRACE, RETURN, DECIMAL_LITERAL, SEMICOLON, RBRACE, EOI},
		},
		{
			src:  "local x: u16 = 0x1f;",
			want: []TokenKind{LOCAL, IDENTIFIER, COLON, U16, EQUAL, HEXADECIMAL_LITERAL, SEMICOLON, EOI},
		},
		{
			src:  "a += b && c || !d;",
			want: []TokenKind{IDENTIFIER, PLUS_EQUAL, IDENTIFIER, AND2, IDENTIFIER, OR2, NOT, IDENTIFIER, SEMICOLON, EOI},
		},
		{
			src:  "p->next.prev[i]",
			want: []TokenKind{IDENTIFIER, ARROW, IDENTIFIER, DOT, IDENTIFIER, LBRACKET, IDENTIFIER, RBRACKET, EOI},
		},
		{
			src:  "x++ <= --y != z",
			want: []TokenKind{IDENTIFIER, PLUS2, LESS_EQUAL, MINUS2, IDENTIFIER, NOT_EQUAL, IDENTIFIER, EOI},
		},
		{
			src:  "017 0b101 42",
			want: []TokenKind{OCTAL_LITERAL, BINARY_LITERAL, DECIMAL_LITERAL, EOI},
		},
		{
			src:  "// comment\nx /* more */ y",
			want: []TokenKind{IDENTIFIER, IDENTIFIER, EOI},
		},
	}
	for _, test := range tests {
		got := kinds(test.src)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("kinds(%q) mismatch (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestLiteralText(t *testing.T) {
	l := New("test.abc", "0x1F 017 0b11 9")
	for _, want := range []struct {
		kind TokenKind
		text string
	}{
		{HEXADECIMAL_LITERAL, "1F"},
		{OCTAL_LITERAL, "017"},
		{BINARY_LITERAL, "11"},
		{DECIMAL_LITERAL, "9"},
	} {
		tok := l.GetToken()
		if tok.Kind != want.kind || tok.Text != want.text {
			t.Errorf("GetToken() = %v %q, want %v %q", tok.Kind, tok.Text, want.kind, want.text)
		}
	}
}

func TestCharLiteral(t *testing.T) {
	l := New("test.abc", `'a' '\n' '\0'`)
	for _, want := range []byte{'a', '\n', 0} {
		tok := l.GetToken()
		if tok.Kind != CHARACTER_LITERAL {
			t.Fatalf("GetToken() kind = %v, want CHARACTER_LITERAL", tok.Kind)
		}
		if len(tok.Processed) != 1 || tok.Processed[0] != want {
			t.Errorf("Processed = %q, want %q", tok.Processed, string(want))
		}
	}
}

func TestTruncatedCharLiteral(t *testing.T) {
	for _, src := range []string{"'", `'\`, "'a", `'\n`} {
		l := New("test.abc", src)
		if tok := l.GetToken(); tok.Kind != BAD {
			t.Errorf("GetToken(%q) = %v, want BAD", src, tok.Kind)
		}
		if tok := l.GetToken(); tok.Kind != EOI {
			t.Errorf("token after truncated literal %q = %v, want EOI", src, tok.Kind)
		}
	}
}

func TestLocations(t *testing.T) {
	l := New("test.abc", "x\n  yy")
	tok := l.GetToken()
	if tok.Loc.From.Line != 1 || tok.Loc.From.Col != 1 {
		t.Errorf("x location = %v, want 1.1", tok.Loc.From)
	}
	tok = l.GetToken()
	if tok.Loc.From.Line != 2 || tok.Loc.From.Col != 3 {
		t.Errorf("yy location = %v, want 2.3", tok.Loc.From)
	}
	if tok.Loc.To.Col != 5 {
		t.Errorf("yy end column = %d, want 5", tok.Loc.To.Col)
	}
}

func TestEOIForever(t *testing.T) {
	l := New("test.abc", "")
	for i := 0; i < 3; i++ {
		if tok := l.GetToken(); tok.Kind != EOI {
			t.Fatalf("GetToken() #%d = %v, want EOI", i, tok.Kind)
		}
	}
}
