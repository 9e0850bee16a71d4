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

	"github.com/abc-lang/abc/diag"
	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/types"
)

// Cast converts its child to another type. Implicit casts are inserted by
// promotion; explicit casts come from source-level cast syntax and allow
// the additional pointer and integer reinterpretations.
type Cast struct {
	exprBase
	child    Expr
	implicit bool
}

// newImplicitCast wraps an expression so that its value converts to typ.
// The conversion has already been checked by promotion. Wrapping an
// expression in its own type is a no-op.
func newImplicitCast(child Expr, typ *types.Type) Expr {
	if types.Equals(child.Type(), typ) {
		return child
	}
	return &Cast{
		exprBase: exprBase{loc: child.Loc(), typ: typ},
		child:    child,
		implicit: true,
	}
}

// NewCast creates an explicit source-level cast.
func NewCast(child Expr, typ *types.Type, loc lexer.Loc) Expr {
	if types.ExplicitCast(child.Type(), typ) == nil {
		diag.Fatalf(loc, "invalid cast of '%s' to '%s'", child.Type(), typ)
	}
	return &Cast{exprBase: exprBase{loc: loc, typ: typ}, child: child}
}

func (e *Cast) HasAddress() bool { return false }
func (e *Cast) IsLValue() bool   { return false }

func (e *Cast) IsConst() bool {
	if !e.child.IsConst() {
		return false
	}
	from, to := e.child.Type(), e.typ
	if from.IsInteger() && to.IsInteger() {
		return true
	}
	return from.IsNullPointer() && to.IsPointer()
}

func (e *Cast) LoadConst() *gen.Value {
	v := e.child.LoadConst()
	if e.typ.IsBool() && !e.child.Type().IsBool() {
		if truthy(v) {
			return gen.IntConst(e.typ, 1)
		}
		return gen.IntConst(e.typ, 0)
	}
	return gen.Cast(v, e.child.Type(), e.typ)
}

func (e *Cast) LoadValue() *gen.Value {
	if e.IsConst() {
		return e.LoadConst()
	}
	from := e.child.Type()
	switch {
	case from.IsArray():
		// array decay: the value of the pointer is the array address
		addr := e.child.LoadAddress()
		return gen.Cast(addr, types.Pointer(from), e.typ)
	case e.typ.IsBool() && !from.IsBool():
		zero := gen.Zero(from)
		return gen.CondInstr(gen.NE, e.child.LoadValue(), zero)
	default:
		return gen.Cast(e.child.LoadValue(), from, e.typ)
	}
}

func (e *Cast) LoadAddress() *gen.Value {
	internal("cast has no address")
	return nil
}

func (e *Cast) Branch(trueLabel, falseLabel *gen.Label) {
	if e.typ.IsBool() {
		// converting to bool and branching on the result is the same as
		// branching on the operand
		e.child.Branch(trueLabel, falseLabel)
		return
	}
	branchOnValue(e, trueLabel, falseLabel)
}

func (e *Cast) String() string {
	if e.implicit {
		return e.child.String()
	}
	return fmt.Sprintf("(:%s)%s", e.typ, e.child)
}

func (e *Cast) print(w io.Writer, indent int) {
	form := "cast"
	if e.implicit {
		form = "implicit cast"
	}
	printNode(w, indent, "%s: %s", form, e.typ)
	e.child.print(w, indent+2)
}
