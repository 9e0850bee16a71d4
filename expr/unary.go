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

package expr

import (
	"fmt"
	"io"

	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/types"
)

// UnaryKind enumerates the unary operators.
type UnaryKind int

// Unary operators. AsteriskDeref and ArrowDeref share semantics; they
// differ only in spelling, ArrowDeref being the implicit dereference of
// the a->b member access.
const (
	Address UnaryKind = iota
	AsteriskDeref
	ArrowDeref
	PrefixInc
	PrefixDec
	PostfixInc
	PostfixDec
	LogicalNot
	Minus
)

var unaryName = map[UnaryKind]string{
	Address:       "&",
	AsteriskDeref: "*",
	ArrowDeref:    "->",
	PrefixInc:     "++",
	PrefixDec:     "--",
	PostfixInc:    "++",
	PostfixDec:    "--",
	LogicalNot:    "!",
	Minus:         "-",
}

func (k UnaryKind) String() string {
	return unaryName[k]
}

func (k UnaryKind) isDeref() bool {
	return k == AsteriskDeref || k == ArrowDeref
}

func (k UnaryKind) isIncDec() bool {
	switch k {
	case PrefixInc, PrefixDec, PostfixInc, PostfixDec:
		return true
	}
	return false
}

// Unary is a unary operator applied to one child expression.
type Unary struct {
	exprBase
	kind  UnaryKind
	child Expr
}

// NewUnary creates a unary expression. Promotion assigns the result type
// and diagnoses operand misuse fatally.
func NewUnary(kind UnaryKind, child Expr, loc lexer.Loc) Expr {
	typ := promoteUnary(kind, child, &loc)
	return &Unary{exprBase: exprBase{loc: loc, typ: typ}, kind: kind, child: child}
}

func (e *Unary) HasAddress() bool {
	return e.kind.isDeref()
}

func (e *Unary) IsLValue() bool {
	return e.kind.isDeref() && !e.typ.HasConstFlag()
}

func (e *Unary) IsConst() bool {
	switch e.kind {
	case Minus, LogicalNot:
		return e.typ.IsInteger() && e.child.IsConst()
	}
	return false
}

func (e *Unary) LoadConst() *gen.Value {
	v := e.child.LoadConst()
	switch e.kind {
	case Minus:
		return gen.IntConst(e.typ, -v.UnsignedInt())
	case LogicalNot:
		// null is value zero, so it coerces to false
		if v.IsNull() || v.UnsignedInt() == 0 {
			return gen.IntConst(e.typ, 1)
		}
		return gen.IntConst(e.typ, 0)
	}
	internal("unary %s is not a constant", e.kind)
	return nil
}

func (e *Unary) LoadValue() *gen.Value {
	switch e.kind {
	case Address:
		return e.child.LoadAddress()
	case AsteriskDeref, ArrowDeref:
		if e.typ.IsArray() || e.typ.IsFunction() {
			return e.LoadAddress()
		}
		return gen.Fetch(e.LoadAddress(), e.typ)
	case PrefixInc, PrefixDec, PostfixInc, PostfixDec:
		return e.loadIncDec()
	case LogicalNot:
		zero := gen.Zero(e.child.Type())
		return gen.CondInstr(gen.EQ, e.child.LoadValue(), zero)
	case Minus:
		v := e.child.LoadValue()
		return gen.AluInstr(gen.Sub, gen.Zero(e.typ), v)
	}
	internal("unary %s has no value", e.kind)
	return nil
}

// loadIncDec emits the update of the four increment forms. The prefix
// forms yield the new value and desugar to a compound assignment that
// borrows the operand; the postfix forms keep the old value, so they
// fetch and store by hand.
func (e *Unary) loadIncDec() *gen.Value {
	if e.kind == PrefixInc || e.kind == PrefixDec {
		kind := AddAssign
		if e.kind == PrefixDec {
			kind = SubAssign
		}
		one := NewIntLiteral(1, types.Signed(64), e.loc)
		return NewBinary(kind, NewProxy(e.child), one, e.loc).LoadValue()
	}

	addr := e.child.LoadAddress()
	old := gen.Fetch(addr, e.typ)

	var updated *gen.Value
	if e.typ.IsPointer() {
		step := int64(1)
		if e.kind == PostfixDec {
			step = -1
		}
		idx := gen.IntConst(types.Signed(64), uint64(step))
		updated = gen.PtrInc(e.typ.RefType(), old, idx)
	} else {
		op := gen.Add
		if e.kind == PostfixDec {
			op = gen.Sub
		}
		updated = gen.AluInstr(op, old, gen.IntConst(e.typ, 1))
	}
	gen.Store(updated, addr, e.typ)
	return old
}

func (e *Unary) LoadAddress() *gen.Value {
	if !e.kind.isDeref() {
		internal("unary %s has no address", e.kind)
	}
	if e.child.Type().IsArray() {
		return e.child.LoadAddress()
	}
	return e.child.LoadValue()
}

func (e *Unary) Branch(trueLabel, falseLabel *gen.Label) {
	if e.kind == LogicalNot {
		e.child.Branch(falseLabel, trueLabel)
		return
	}
	branchOnValue(e, trueLabel, falseLabel)
}

func (e *Unary) String() string {
	switch e.kind {
	case PostfixInc, PostfixDec:
		return fmt.Sprintf("%s%s", e.child, e.kind)
	default:
		return fmt.Sprintf("%s%s", e.kind, e.child)
	}
}

func (e *Unary) print(w io.Writer, indent int) {
	printNode(w, indent, "unary %s: %s", e.kind, e.typ)
	e.child.print(w, indent+2)
}
