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
	"strings"

	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
)

// CallExpr is a function call. The arguments carry the implicit casts to
// the parameter types; variadic tail arguments are passed unchanged.
type CallExpr struct {
	exprBase
	callee Expr
	args   []Expr
}

// NewCall creates a call expression. Promotion checks the callee and the
// arity and converts each argument to its parameter type.
func NewCall(callee Expr, args []Expr, loc lexer.Loc) Expr {
	newArgs, typ := promoteCall(callee, args, &loc)
	return &CallExpr{exprBase: exprBase{loc: loc, typ: typ}, callee: callee, args: newArgs}
}

func (e *CallExpr) HasAddress() bool { return false }
func (e *CallExpr) IsLValue() bool   { return false }
func (e *CallExpr) IsConst() bool    { return false }

func (e *CallExpr) LoadConst() *gen.Value {
	internal("call is not a constant")
	return nil
}

func (e *CallExpr) LoadValue() *gen.Value {
	callee := e.callee.LoadValue()
	args := make([]*gen.Value, 0, len(e.args))
	for _, a := range e.args {
		args = append(args, a.LoadValue())
	}
	return gen.Call(callee, args, e.typ)
}

func (e *CallExpr) LoadAddress() *gen.Value {
	internal("call has no address")
	return nil
}

func (e *CallExpr) Branch(trueLabel, falseLabel *gen.Label) {
	branchOnValue(e, trueLabel, falseLabel)
}

func (e *CallExpr) String() string {
	args := make([]string, 0, len(e.args))
	for _, a := range e.args {
		args = append(args, a.String())
	}
	return fmt.Sprintf("%s(%s)", e.callee, strings.Join(args, ", "))
}

func (e *CallExpr) print(w io.Writer, indent int) {
	printNode(w, indent, "call: %s", e.typ)
	e.callee.print(w, indent+2)
	for _, a := range e.args {
		a.print(w, indent+2)
	}
}
