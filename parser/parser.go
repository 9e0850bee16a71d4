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

// Package parser parses a translation unit and lowers it to IR.
//
// The grammar, in rough EBNF:
//
//	unit      = { function | structDecl | enumDecl } .
//	function  = "fn" name "(" [ params ] ")" [ ":" type ] ( block | ";" ) .
//	params    = name ":" type { "," name ":" type } [ "," "..." ] .
//	structDecl= "struct" name "{" { names ":" type ";" } "}" [ ";" ] .
//	enumDecl  = "enum" name [ ":" type ] "{" enumerators "}" [ ";" ] .
//	block     = "{" { statement } "}" .
//	statement = block | ifStmt | whileStmt | forStmt | returnStmt
//	          | localDecl ";" | [ expression ] ";" .
//	localDecl = "local" names ":" type [ "=" initializer ] .
//	names     = name { "," name } .
//
// Expression parsing is precedence climbing; every fold goes through the
// expr constructors, which run promotion. Parsing and lowering are one
// pass: statements emit IR while being recognized.
package parser

import (
	"github.com/abc-lang/abc/base/intern"
	"github.com/abc-lang/abc/diag"
	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/symtab"
	"github.com/abc-lang/abc/types"
)

// Parser parses one translation unit.
type Parser struct {
	lex *lexer.Lexer
	tok lexer.Token

	// return type of the function being parsed, nil at unit scope
	retType *types.Type
}

// Parse parses a translation unit and returns the IR module built from
// it. The first error is fatal and aborts the parse; the returned error
// then aggregates every diagnostic reported up to that point. Warnings
// alone do not fail the parse.
func Parse(path, src string) (mod *gen.Module, err error) {
	defer diag.Recover(&err)
	p := New(path, src)
	for p.tok.Kind != lexer.EOI {
		p.parseDeclaration()
	}
	return gen.Current(), nil
}

// New returns a parser over src with the first token loaded. Tests use it
// to drive sub-grammars directly; Parse is the whole-unit entry point.
func New(path, src string) *Parser {
	lex := lexer.New(path, src)
	diag.RegisterSource(lex)
	p := &Parser{lex: lex}
	p.next()
	return p
}

func (p *Parser) next() {
	p.tok = p.lex.GetToken()
}

func (p *Parser) at(kind lexer.TokenKind) bool {
	return p.tok.Kind == kind
}

// accept consumes the current token if it has the wanted kind.
func (p *Parser) accept(kind lexer.TokenKind) bool {
	if !p.at(kind) {
		return false
	}
	p.next()
	return true
}

// expected fatals with "expected X" and a positional qualifier such as
// "after expression".
func (p *Parser) expected(what, where string) {
	diag.Fatalf(p.tok.Loc, "expected %s %s, got '%s'", what, where, p.tok.Kind)
}

// expect consumes a token of the wanted kind or fatals.
func (p *Parser) expect(kind lexer.TokenKind, where string) lexer.Token {
	if !p.at(kind) {
		p.expected("'"+kind.String()+"'", where)
	}
	tok := p.tok
	p.next()
	return tok
}

func (p *Parser) name(where string) *intern.Str {
	tok := p.expect(lexer.IDENTIFIER, where)
	return intern.Get(tok.Text)
}

// parseDeclaration parses one unit-scope declaration.
func (p *Parser) parseDeclaration() {
	switch p.tok.Kind {
	case lexer.FN:
		p.parseFunction()
	case lexer.STRUCT:
		p.parseStructDecl()
	case lexer.ENUM:
		p.parseEnumDecl()
	default:
		p.expected("'fn', 'struct' or 'enum'", "at unit scope")
	}
}

// parseFunction parses a function declaration or definition and, for a
// definition, lowers the body.
func (p *Parser) parseFunction() {
	loc := p.tok.Loc
	p.expect(lexer.FN, "here")
	name := p.name("after 'fn'")

	p.expect(lexer.LPAREN, "after function name")
	var paramNames []*intern.Str
	var paramTypes []*types.Type
	varg := false
	for !p.at(lexer.RPAREN) {
		if len(paramNames) > 0 {
			p.expect(lexer.COMMA, "between parameters")
		}
		if p.at(lexer.DOT) {
			p.parseEllipsis()
			varg = true
			break
		}
		pname := p.name("in parameter list")
		p.expect(lexer.COLON, "after parameter name")
		paramNames = append(paramNames, pname)
		paramTypes = append(paramTypes, p.parseType())
	}
	p.expect(lexer.RPAREN, "after parameter list")

	ret := types.Void()
	if p.accept(lexer.COLON) {
		ret = p.parseType()
	}
	typ := types.Function(ret, paramTypes, varg)

	entry, ok := symtab.AddFunction(name, typ)
	if !ok {
		diag.Fatalf(loc, "conflicting declaration of '%s'", name)
	}
	gen.FunctionDeclaration(entry.Ident, typ)

	if p.accept(lexer.SEMICOLON) {
		return
	}
	if !p.at(lexer.LBRACE) {
		p.expected("function body or ';'", "after function signature")
	}

	symtab.OpenScope()
	idents := make([]string, 0, len(paramNames))
	for i, pname := range paramNames {
		pe, ok := symtab.AddVariable(pname, paramTypes[i])
		if !ok {
			diag.Fatalf(loc, "duplicate parameter '%s'", pname)
		}
		idents = append(idents, pe.Ident)
	}
	gen.FunctionDefinitionBegin(entry.Ident, typ, idents)
	p.retType = ret
	p.parseBlock()
	p.retType = nil
	gen.FunctionDefinitionEnd()
	symtab.CloseScope()
}

// parseEllipsis consumes the three dots of a variadic tail.
func (p *Parser) parseEllipsis() {
	for i := 0; i < 3; i++ {
		p.expect(lexer.DOT, "in '...'")
	}
}

// parseStructDecl parses a struct declaration and registers the named
// type. The type is incomplete while its own members parse, so a struct
// may contain pointers to itself.
func (p *Parser) parseStructDecl() {
	loc := p.tok.Loc
	p.expect(lexer.STRUCT, "here")
	name := p.name("after 'struct'")

	t := types.StructIncomplete(name)
	if _, ok := symtab.AddType(name, t); !ok {
		diag.Fatalf(loc, "redeclaration of '%s'", name)
	}

	p.expect(lexer.LBRACE, "after struct name")
	var memberNames []*intern.Str
	var memberTypes []*types.Type
	for !p.at(lexer.RBRACE) {
		var group []*intern.Str
		group = append(group, p.name("in struct body"))
		for p.accept(lexer.COMMA) {
			group = append(group, p.name("after ','"))
		}
		p.expect(lexer.COLON, "after member name")
		mt := p.parseType()
		if mt.IsStruct() && !mt.IsComplete() {
			diag.Fatalf(loc, "member has incomplete type '%s'", mt)
		}
		for _, mname := range group {
			memberNames = append(memberNames, mname)
			memberTypes = append(memberTypes, mt)
		}
		p.expect(lexer.SEMICOLON, "after member declaration")
	}
	p.expect(lexer.RBRACE, "after struct body")
	p.accept(lexer.SEMICOLON)

	if len(memberNames) == 0 {
		diag.Fatalf(loc, "struct '%s' has no members", name)
	}
	if types.CompleteStruct(t, memberNames, memberTypes) == nil {
		diag.Fatalf(loc, "redefinition of '%s'", name)
	}
}

// parseEnumDecl parses an enum declaration, registering the named type
// and one constant per enumerator.
func (p *Parser) parseEnumDecl() {
	loc := p.tok.Loc
	p.expect(lexer.ENUM, "here")
	name := p.name("after 'enum'")

	base := types.Signed(32)
	if p.accept(lexer.COLON) {
		base = p.parseType()
		if !base.IsInteger() || base.IsEnum() {
			diag.Fatalf(loc, "enum base must be an integer type, got '%s'", base)
		}
	}
	t := types.EnumIncomplete(name, base)
	if _, ok := symtab.AddType(name, t); !ok {
		diag.Fatalf(loc, "redeclaration of '%s'", name)
	}

	p.expect(lexer.LBRACE, "after enum name")
	var constNames []*intern.Str
	var constValues []int64
	nextVal := int64(0)
	for !p.at(lexer.RBRACE) {
		cloc := p.tok.Loc
		cname := p.name("in enum body")
		if p.accept(lexer.EQUAL) {
			e := p.parseAssignment()
			if e == nil || !e.IsConst() {
				diag.Fatalf(cloc, "enumerator value for '%s' is not a constant", cname)
			}
			nextVal = e.LoadConst().SignedInt()
		}
		if _, ok := symtab.AddEnumConstant(cname, t, nextVal); !ok {
			diag.Fatalf(cloc, "redeclaration of '%s'", cname)
		}
		constNames = append(constNames, cname)
		constValues = append(constValues, nextVal)
		nextVal++
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE, "after enum body")
	p.accept(lexer.SEMICOLON)

	if len(constNames) == 0 {
		diag.Fatalf(loc, "enum '%s' has no enumerators", name)
	}
	if types.CompleteEnum(t, constNames, constValues) == nil {
		diag.Fatalf(loc, "redefinition of '%s'", name)
	}
}
