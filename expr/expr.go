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

// Package expr implements the typed expression tree of the front-end.
//
// Expressions are created by the parser through the New* constructors,
// which run promotion: the result type is computed and implicit casts are
// inserted before the node is handed out, so a node's children are always
// type-consistent with its operator. Nodes are never mutated after
// construction.
package expr

import (
	"fmt"
	"io"
	"strings"

	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/types"
)

// Expr is the uniform interface of every expression variant.
type Expr interface {
	// Loc returns the source span of the expression.
	Loc() lexer.Loc

	// Type returns the result type assigned by promotion.
	Type() *types.Type

	// HasAddress reports whether the expression designates storage whose
	// address can be taken. Weaker than IsLValue: const-qualified
	// identifiers have an address but are not lvalues.
	HasAddress() bool

	// IsLValue reports whether the expression may appear on the left of
	// an assignment.
	IsLValue() bool

	// IsConst reports whether the expression is a compile-time constant.
	IsConst() bool

	// LoadConst returns the constant value of the expression.
	// Precondition: IsConst.
	LoadConst() *gen.Value

	// LoadValue materializes the run-time value of the expression.
	LoadValue() *gen.Value

	// LoadAddress materializes the address of the expression.
	// Precondition: HasAddress.
	LoadAddress() *gen.Value

	// Branch emits a conditional jump to trueLabel or falseLabel.
	// Logical operators short-circuit; everything else compares the
	// value against zero. Every control path out of the expression ends
	// in exactly one terminator.
	Branch(trueLabel, falseLabel *gen.Label)

	// String returns the expression in flat source form, for
	// diagnostics.
	String() string

	// print writes the tree dump used for debugging.
	print(w io.Writer, indent int)
}

type exprBase struct {
	loc lexer.Loc
	typ *types.Type
}

func (e *exprBase) Loc() lexer.Loc {
	return e.loc
}

func (e *exprBase) Type() *types.Type {
	return e.typ
}

// Fprint writes an indented tree dump of the expression.
func Fprint(w io.Writer, e Expr) {
	e.print(w, 0)
}

func printNode(w io.Writer, indent int, format string, args ...any) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), fmt.Sprintf(format, args...))
}

func internal(format string, args ...any) {
	panic(fmt.Errorf("internal error: "+format, args...))
}

// branchOnValue is the default Branch emission: compare the value of the
// expression against zero.
func branchOnValue(e Expr, trueLabel, falseLabel *gen.Label) {
	zero := gen.Zero(e.Type())
	cond := gen.CondInstr(gen.NE, e.LoadValue(), zero)
	gen.JmpCond(cond, trueLabel, falseLabel)
}
