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
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/symtab"
	"github.com/abc-lang/abc/types"
)

// precedence of the left-associative binary operators. Assignments are
// right-associative and handled separately; note that the relational
// operators bind tighter than equality.
var precedence = map[lexer.TokenKind]int{
	lexer.ASTERISK:      13,
	lexer.SLASH:         13,
	lexer.PERCENT:       13,
	lexer.PLUS:          11,
	lexer.MINUS:         11,
	lexer.LESS:          10,
	lexer.LESS_EQUAL:    10,
	lexer.GREATER:       10,
	lexer.GREATER_EQUAL: 10,
	lexer.EQUAL2:        9,
	lexer.NOT_EQUAL:     9,
	lexer.AND2:          5,
	lexer.OR2:           4,
}

var binaryOp = map[lexer.TokenKind]expr.BinaryKind{
	lexer.ASTERISK:      expr.Mul,
	lexer.SLASH:         expr.Div,
	lexer.PERCENT:       expr.Mod,
	lexer.PLUS:          expr.Add,
	lexer.MINUS:         expr.Sub,
	lexer.LESS:          expr.Less,
	lexer.LESS_EQUAL:    expr.LessEqual,
	lexer.GREATER:       expr.Greater,
	lexer.GREATER_EQUAL: expr.GreaterEqual,
	lexer.EQUAL2:        expr.Equal,
	lexer.NOT_EQUAL:     expr.NotEqual,
	lexer.AND2:          expr.LogicalAnd,
	lexer.OR2:           expr.LogicalOr,
}

var assignOp = map[lexer.TokenKind]expr.BinaryKind{
	lexer.EQUAL:          expr.Assign,
	lexer.PLUS_EQUAL:     expr.AddAssign,
	lexer.MINUS_EQUAL:    expr.SubAssign,
	lexer.ASTERISK_EQUAL: expr.MulAssign,
	lexer.SLASH_EQUAL:    expr.DivAssign,
	lexer.PERCENT_EQUAL:  expr.ModAssign,
}

var prefixOp = map[lexer.TokenKind]expr.UnaryKind{
	lexer.MINUS:    expr.Minus,
	lexer.NOT:      expr.LogicalNot,
	lexer.ASTERISK: expr.AsteriskDeref,
	lexer.AND:      expr.Address,
	lexer.PLUS2:    expr.PrefixInc,
	lexer.MINUS2:   expr.PrefixDec,
}

// parseExpression parses an optional expression: it returns nil when the
// current token cannot start one, which lets empty expression statements
// and empty for clauses fall out naturally.
func (p *Parser) parseExpression() expr.Expr {
	if !p.atExprStart() {
		return nil
	}
	return p.parseAssignment()
}

func (p *Parser) atExprStart() bool {
	if _, ok := prefixOp[p.tok.Kind]; ok {
		return true
	}
	switch p.tok.Kind {
	case lexer.IDENTIFIER, lexer.DECIMAL_LITERAL, lexer.HEXADECIMAL_LITERAL,
		lexer.OCTAL_LITERAL, lexer.BINARY_LITERAL, lexer.CHARACTER_LITERAL,
		lexer.STRING_LITERAL, lexer.NULLPTR, lexer.SIZEOF, lexer.LPAREN:
		return true
	}
	return false
}

// parseAssignment parses the right-associative assignment level.
func (p *Parser) parseAssignment() expr.Expr {
	lhs := p.parseConditional()
	op, ok := assignOp[p.tok.Kind]
	if !ok {
		return lhs
	}
	p.next()
	rhs := p.parseAssignment()
	return expr.NewBinary(op, lhs, rhs, lhs.Loc())
}

// parseConditional parses the c ? a : b level, between the logical
// operators and the assignments.
func (p *Parser) parseConditional() expr.Expr {
	cond := p.parseBinary(2)
	if !p.accept(lexer.QUERY) {
		return cond
	}
	then := p.parseAssignment()
	p.expect(lexer.COLON, "in conditional expression")
	els := p.parseConditional()
	return expr.NewConditional(cond, then, els, cond.Loc())
}

// parseBinary is the precedence climb: it folds every operator at least
// as binding as minPrec, parsing right operands one level tighter.
func (p *Parser) parseBinary(minPrec int) expr.Expr {
	left := p.parseUnary()
	for {
		prec, ok := precedence[p.tok.Kind]
		if !ok || prec < minPrec {
			return left
		}
		op := binaryOp[p.tok.Kind]
		p.next()
		right := p.parseBinary(prec + 1)
		left = expr.NewBinary(op, left, right, left.Loc())
	}
}

func (p *Parser) parseUnary() expr.Expr {
	kind, ok := prefixOp[p.tok.Kind]
	if !ok {
		return p.parsePostfix(p.parsePrimary())
	}
	loc := p.tok.Loc
	p.next()
	child := p.parseUnary()
	return expr.NewUnary(kind, child, loc)
}

// parsePostfix folds the suffix forms: call, index, member, arrow, and
// the postfix increments.
func (p *Parser) parsePostfix(e expr.Expr) expr.Expr {
	for {
		loc := p.tok.Loc
		switch p.tok.Kind {
		case lexer.LPAREN:
			p.next()
			var args []expr.Expr
			for !p.at(lexer.RPAREN) {
				if len(args) > 0 {
					p.expect(lexer.COMMA, "between arguments")
				}
				args = append(args, p.parseAssignment())
			}
			p.expect(lexer.RPAREN, "after arguments")
			e = expr.NewCall(e, args, e.Loc())

		case lexer.LBRACKET:
			p.next()
			idx := p.parseAssignment()
			p.expect(lexer.RBRACKET, "after subscript")
			e = expr.NewBinary(expr.Index, e, idx, e.Loc())

		case lexer.DOT:
			p.next()
			field := p.name("after '.'")
			e = expr.NewMember(e, field, loc)

		case lexer.ARROW:
			p.next()
			field := p.name("after '->'")
			e = expr.NewMember(expr.NewUnary(expr.ArrowDeref, e, loc), field, loc)

		case lexer.PLUS2:
			p.next()
			e = expr.NewUnary(expr.PostfixInc, e, loc)

		case lexer.MINUS2:
			p.next()
			e = expr.NewUnary(expr.PostfixDec, e, loc)

		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() expr.Expr {
	tok := p.tok
	loc := tok.Loc
	switch tok.Kind {
	case lexer.IDENTIFIER:
		p.next()
		name := intern.Get(tok.Text)
		entry := symtab.Lookup(name)
		if entry == nil {
			diag.Fatalf(loc, "'%s' undeclared", name)
		}
		switch entry.Kind {
		case symtab.TypeEntry:
			diag.Fatalf(loc, "unexpected type name '%s'", name)
			return nil
		case symtab.EnumConstEntry:
			return expr.NewIntLiteral(uint64(entry.Value), entry.Type, loc)
		default:
			return expr.NewIdentifier(name, entry.Ident, entry.Type, loc)
		}

	case lexer.DECIMAL_LITERAL, lexer.HEXADECIMAL_LITERAL,
		lexer.OCTAL_LITERAL, lexer.BINARY_LITERAL:
		p.next()
		return expr.NewLiteral(tok.Text, tok.Kind.Radix(), nil, loc)

	case lexer.CHARACTER_LITERAL:
		p.next()
		return expr.NewIntLiteral(uint64(tok.Processed[0]), types.Char(), loc)

	case lexer.STRING_LITERAL:
		diag.Fatalf(loc, "string literals are not supported in expressions")
		return nil

	case lexer.NULLPTR:
		p.next()
		return expr.NewNullPtr(loc)

	case lexer.SIZEOF:
		p.next()
		return p.parseSizeof(loc)

	case lexer.LPAREN:
		p.next()
		if p.atTypeStart() {
			typ := p.parseType()
			p.expect(lexer.RPAREN, "after type")
			return expr.NewCast(p.parseUnary(), typ, loc)
		}
		e := p.parseAssignment()
		p.expect(lexer.RPAREN, "after expression")
		return e

	default:
		p.expected("expression", "here")
		return nil
	}
}

// parseSizeof parses sizeof(type) and sizeof(expression), both yielding a
// size-typed constant.
func (p *Parser) parseSizeof(loc lexer.Loc) expr.Expr {
	p.expect(lexer.LPAREN, "after 'sizeof'")
	var typ *types.Type
	if p.atTypeStart() {
		typ = p.parseType()
	} else {
		typ = p.parseAssignment().Type()
	}
	p.expect(lexer.RPAREN, "after 'sizeof' operand")
	if typ.IsVoid() || typ.IsFunction() || !typ.IsComplete() || typ.IsUnboundArray() {
		diag.Fatalf(loc, "invalid application of 'sizeof' to '%s'", typ)
	}
	return expr.NewIntLiteral(uint64(typ.Size()), types.SizeType(), loc)
}
