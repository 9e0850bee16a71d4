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

package parser

import (
	"github.com/abc-lang/abc/base/intern"
	"github.com/abc-lang/abc/diag"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/symtab"
	"github.com/abc-lang/abc/types"
)

// type = [ "const" ] ( integer keyword | "void" | "bool"
//	| "->" type | "array" "[" [ constant ] "]" "of" type
//	| "fn" "(" [ ":" type { "," ":" type } [ "," "..." ] ] ")" [ ":" type ]
//	| named type ) .
func (p *Parser) parseType() *types.Type {
	if p.accept(lexer.CONST) {
		return types.Const(p.parseType())
	}

	loc := p.tok.Loc
	switch kind := p.tok.Kind; kind {
	case lexer.VOID:
		p.next()
		return types.Void()
	case lexer.BOOL:
		p.next()
		return types.Bool()
	case lexer.U8, lexer.U16, lexer.U32, lexer.U64:
		p.next()
		return types.Unsigned(integerBits(kind))
	case lexer.I8, lexer.I16, lexer.I32, lexer.I64:
		p.next()
		return types.Signed(integerBits(kind))

	case lexer.ARROW:
		p.next()
		return types.Pointer(p.parseType())

	case lexer.ARRAY:
		p.next()
		p.expect(lexer.LBRACKET, "after 'array'")
		dim := 0
		if !p.at(lexer.RBRACKET) {
			dim = p.parseArrayDimension()
		}
		p.expect(lexer.RBRACKET, "after array dimension")
		p.expect(lexer.OF, "after 'array[...]'")
		elem := p.parseType()
		if elem.IsVoid() || elem.IsFunction() {
			diag.Fatalf(loc, "array of '%s' is not a valid type", elem)
		}
		return types.Array(elem, dim)

	case lexer.FN:
		p.next()
		p.expect(lexer.LPAREN, "after 'fn'")
		var params []*types.Type
		varg := false
		for !p.at(lexer.RPAREN) {
			if len(params) > 0 {
				p.expect(lexer.COMMA, "between parameter types")
			}
			if p.at(lexer.DOT) {
				p.parseEllipsis()
				varg = true
				break
			}
			p.expect(lexer.COLON, "before parameter type")
			params = append(params, p.parseType())
		}
		p.expect(lexer.RPAREN, "after parameter types")
		ret := types.Void()
		if p.accept(lexer.COLON) {
			ret = p.parseType()
		}
		return types.Function(ret, params, varg)

	case lexer.IDENTIFIER:
		name := p.name("here")
		entry := symtab.Lookup(name)
		if entry == nil || !entry.IsType() {
			diag.Fatalf(loc, "unknown type name '%s'", name)
		}
		return entry.Type

	default:
		p.expected("type", "here")
		return nil
	}
}

func integerBits(kind lexer.TokenKind) int {
	switch kind {
	case lexer.U8, lexer.I8:
		return 8
	case lexer.U16, lexer.I16:
		return 16
	case lexer.U32, lexer.I32:
		return 32
	default:
		return 64
	}
}

// parseArrayDimension parses a positive constant expression.
func (p *Parser) parseArrayDimension() int {
	loc := p.tok.Loc
	e := p.parseAssignment()
	if e == nil || !e.IsConst() {
		diag.Fatalf(loc, "array dimension is not a constant")
	}
	dim := e.LoadConst().SignedInt()
	if dim <= 0 {
		diag.Fatalf(loc, "array dimension must be positive, got %d", dim)
	}
	return int(dim)
}

// atTypeStart reports whether the current token can begin a type. A plain
// identifier counts only if it names a type; this is what disambiguates a
// cast '(type)' from a parenthesized expression.
func (p *Parser) atTypeStart() bool {
	switch p.tok.Kind {
	case lexer.CONST, lexer.VOID, lexer.BOOL,
		lexer.U8, lexer.U16, lexer.U32, lexer.U64,
		lexer.I8, lexer.I16, lexer.I32, lexer.I64,
		lexer.ARROW, lexer.ARRAY, lexer.FN:
		return true
	case lexer.IDENTIFIER:
		entry := symtab.Lookup(intern.Get(p.tok.Text))
		return entry != nil && entry.IsType()
	default:
		return false
	}
}
