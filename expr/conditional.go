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
)

// Conditional is the c ? a : b operator. Both arms are converted to the
// common type; only the selected arm is evaluated.
type Conditional struct {
	exprBase
	cond Expr
	then Expr
	els  Expr
}

// NewConditional creates a conditional expression.
func NewConditional(cond, then, els Expr, loc lexer.Loc) Expr {
	newThen, newEls, typ := promoteConditional(cond, then, els, &loc)
	return &Conditional{
		exprBase: exprBase{loc: loc, typ: typ},
		cond:     cond,
		then:     newThen,
		els:      newEls,
	}
}

func (e *Conditional) HasAddress() bool { return false }
func (e *Conditional) IsLValue() bool   { return false }

func (e *Conditional) IsConst() bool {
	if !e.typ.IsInteger() || !e.cond.IsConst() {
		return false
	}
	if truthy(e.cond.LoadConst()) {
		return e.then.IsConst()
	}
	return e.els.IsConst()
}

func (e *Conditional) LoadConst() *gen.Value {
	if truthy(e.cond.LoadConst()) {
		return e.then.LoadConst()
	}
	return e.els.LoadConst()
}

func (e *Conditional) LoadValue() *gen.Value {
	if e.IsConst() {
		return e.LoadConst()
	}
	thenLab := gen.GetLabel("cond.then")
	elseLab := gen.GetLabel("cond.else")
	join := gen.GetLabel("cond.end")

	e.cond.Branch(thenLab, elseLab)
	gen.LabelDef(thenLab)
	tv := e.then.LoadValue()
	gen.Jmp(join)
	gen.LabelDef(elseLab)
	ev := e.els.LoadValue()
	gen.Jmp(join)
	gen.LabelDef(join)
	if e.typ.IsVoid() {
		return nil
	}
	return gen.Phi(tv, thenLab, ev, elseLab, e.typ)
}

func (e *Conditional) LoadAddress() *gen.Value {
	internal("conditional has no address")
	return nil
}

func (e *Conditional) Branch(trueLabel, falseLabel *gen.Label) {
	branchOnValue(e, trueLabel, falseLabel)
}

func (e *Conditional) String() string {
	return fmt.Sprintf("%s ? %s : %s", e.cond, e.then, e.els)
}

func (e *Conditional) print(w io.Writer, indent int) {
	printNode(w, indent, "conditional: %s", e.typ)
	e.cond.print(w, indent+2)
	e.then.print(w, indent+2)
	e.els.print(w, indent+2)
}
