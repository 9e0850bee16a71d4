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
	"github.com/abc-lang/abc/expr"
	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/symtab"
	"github.com/abc-lang/abc/types"
)

// parseBlock parses { statements } in a fresh scope.
func (p *Parser) parseBlock() {
	p.expect(lexer.LBRACE, "here")
	symtab.OpenScope()
	for !p.at(lexer.RBRACE) {
		if p.at(lexer.EOI) {
			p.expected("'}'", "before end of input")
		}
		p.parseStatement()
	}
	p.expect(lexer.RBRACE, "after block")
	symtab.CloseScope()
}

// parseStatement parses one statement and emits its IR.
func (p *Parser) parseStatement() {
	switch p.tok.Kind {
	case lexer.LBRACE:
		p.parseBlock()
	case lexer.IF:
		p.parseIf()
	case lexer.WHILE:
		p.parseWhile()
	case lexer.FOR:
		p.parseFor()
	case lexer.RETURN:
		p.parseReturn()
	case lexer.LOCAL:
		p.parseLocalDecl()
		p.expect(lexer.SEMICOLON, "after declaration")
	default:
		if e := p.parseExpression(); e != nil {
			e.LoadValue()
		}
		p.expect(lexer.SEMICOLON, "after expression")
	}
}

// condition parses a parenthesized controlling expression.
func (p *Parser) condition(after string) expr.Expr {
	p.expect(lexer.LPAREN, after)
	loc := p.tok.Loc
	e := p.parseExpression()
	if e == nil {
		p.expected("expression", "in condition")
	}
	if t := e.Type(); !t.IsInteger() && !t.IsFloatType() && !t.IsPointer() {
		diag.Fatalf(loc, "condition has non-scalar type '%s'", t)
	}
	p.expect(lexer.RPAREN, "after condition")
	return e
}

func (p *Parser) parseIf() {
	p.expect(lexer.IF, "here")
	cond := p.condition("after 'if'")

	thenLab := gen.GetLabel("if.then")
	elseLab := gen.GetLabel("if.else")
	cond.Branch(thenLab, elseLab)
	gen.LabelDef(thenLab)
	p.parseStatement()

	if p.accept(lexer.ELSE) {
		endLab := gen.GetLabel("if.end")
		gen.Jmp(endLab)
		gen.LabelDef(elseLab)
		p.parseStatement()
		gen.LabelDef(endLab)
	} else {
		gen.LabelDef(elseLab)
	}
}

func (p *Parser) parseWhile() {
	p.expect(lexer.WHILE, "here")
	head := gen.GetLabel("while.head")
	body := gen.GetLabel("while.body")
	end := gen.GetLabel("while.end")

	gen.LabelDef(head)
	cond := p.condition("after 'while'")
	cond.Branch(body, end)
	gen.LabelDef(body)
	p.parseStatement()
	gen.Jmp(head)
	gen.LabelDef(end)
}

// parseFor parses for (init; cond; step) body. The step expression is
// parsed before the body but only lowered after it: constructing an
// expression emits nothing, emission happens at LoadValue time.
func (p *Parser) parseFor() {
	p.expect(lexer.FOR, "here")
	p.expect(lexer.LPAREN, "after 'for'")
	symtab.OpenScope()

	if p.at(lexer.LOCAL) {
		p.parseLocalDecl()
	} else if e := p.parseExpression(); e != nil {
		e.LoadValue()
	}
	p.expect(lexer.SEMICOLON, "after for initializer")

	head := gen.GetLabel("for.head")
	body := gen.GetLabel("for.body")
	end := gen.GetLabel("for.end")

	gen.LabelDef(head)
	cond := p.parseExpression()
	p.expect(lexer.SEMICOLON, "after for condition")
	if cond != nil {
		cond.Branch(body, end)
	}
	step := p.parseExpression()
	p.expect(lexer.RPAREN, "after for clauses")

	gen.LabelDef(body)
	p.parseStatement()
	if step != nil {
		step.LoadValue()
	}
	gen.Jmp(head)
	gen.LabelDef(end)
	symtab.CloseScope()
}

func (p *Parser) parseReturn() {
	loc := p.tok.Loc
	p.expect(lexer.RETURN, "here")
	e := p.parseExpression()
	p.expect(lexer.SEMICOLON, "after return statement")

	if p.retType == nil || p.retType.IsVoid() {
		if e != nil {
			diag.Fatalf(loc, "returning a value from a void function")
		}
		gen.Ret(nil)
		return
	}
	if e == nil {
		diag.Fatalf(loc, "return with no value in function returning '%s'", p.retType)
	}
	v := expr.Converted(e, p.retType, loc).LoadValue()
	gen.Ret(v)
}

// parseLocalDecl parses local names : type [= initializer] and reserves
// storage. The terminating semicolon belongs to the caller.
func (p *Parser) parseLocalDecl() {
	p.expect(lexer.LOCAL, "here")
	locs := []lexer.Loc{p.tok.Loc}
	names := []*intern.Str{p.name("after 'local'")}
	for p.accept(lexer.COMMA) {
		locs = append(locs, p.tok.Loc)
		names = append(names, p.name("after ','"))
	}
	p.expect(lexer.COLON, "after variable name")
	typ := p.parseType()

	if typ.IsVoid() {
		diag.Fatalf(locs[0], "variable declared void")
	}
	if typ.IsStruct() && !typ.IsComplete() {
		diag.Fatalf(locs[0], "variable has incomplete type '%s'", typ)
	}

	var init expr.Expr
	if p.accept(lexer.EQUAL) {
		if len(names) > 1 {
			diag.Fatalf(locs[0], "initializer with multiple declarators")
		}
		init = p.parseInitializer()
	}
	if v, ok := init.(*expr.Vector); ok && typ.IsUnboundArray() {
		typ = types.PatchUnbound(typ, len(v.Elems()))
	}
	if typ.IsUnboundArray() {
		diag.Fatalf(locs[0], "array dimension required")
	}

	for i, name := range names {
		entry, ok := symtab.AddVariable(name, typ)
		if !ok {
			diag.Fatalf(locs[i], "redeclaration of '%s'", name)
		}
		addr := gen.AllocLocal(entry.Ident, typ)
		if init != nil {
			p.initLocal(addr, typ, init, locs[i])
		}
	}
}

// parseInitializer parses a scalar initializer expression or a braced
// aggregate, which may nest.
func (p *Parser) parseInitializer() expr.Expr {
	loc := p.tok.Loc
	if !p.accept(lexer.LBRACE) {
		e := p.parseAssignment()
		return e
	}
	var elems []expr.Expr
	for !p.at(lexer.RBRACE) {
		if len(elems) > 0 {
			p.expect(lexer.COMMA, "between initializers")
		}
		elems = append(elems, p.parseInitializer())
	}
	p.expect(lexer.RBRACE, "after initializer list")
	return expr.NewVector(elems, loc)
}

// initLocal stores an initializer into freshly allocated storage,
// element by element for aggregates.
func (p *Parser) initLocal(addr *gen.Value, typ *types.Type, e expr.Expr, loc lexer.Loc) {
	v, ok := e.(*expr.Vector)
	if !ok {
		if typ.IsArray() {
			diag.Fatalf(loc, "array initializer must be an initializer list")
		}
		val := expr.Converted(e, types.ConstRemoved(typ), loc).LoadValue()
		gen.Store(val, addr, typ)
		return
	}

	switch {
	case typ.IsArray():
		elem := typ.RefType()
		if len(v.Elems()) > typ.Dim() {
			diag.Fatalf(loc, "too many initializers for '%s'", typ)
		}
		base := gen.Cast(addr, types.Pointer(typ), types.Pointer(elem))
		for i, el := range v.Elems() {
			idx := gen.IntConst(types.SizeType(), uint64(i))
			p.initLocal(gen.PtrInc(elem, base, idx), elem, el, loc)
		}
	case typ.IsStruct():
		if len(v.Elems()) > typ.Members().Size() {
			diag.Fatalf(loc, "too many initializers for '%s'", typ)
		}
		for i, el := range v.Elems() {
			_, mt := typ.Members().At(i)
			p.initLocal(gen.PtrMember(typ, addr, i), mt, el, loc)
		}
	default:
		diag.Fatalf(loc, "invalid initializer list for '%s'", typ)
	}
}
