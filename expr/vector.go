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
	"io"
	"strings"

	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
)

// Vector is a braced aggregate initializer. It is not a value: the parser
// consumes it element by element when lowering a local declaration with an
// array or struct initializer, so the usual load entry points are internal
// errors.
type Vector struct {
	exprBase
	elems []Expr
}

// NewVector creates an aggregate initializer.
func NewVector(elems []Expr, loc lexer.Loc) *Vector {
	return &Vector{exprBase: exprBase{loc: loc}, elems: elems}
}

// Elems returns the element expressions of the initializer.
func (e *Vector) Elems() []Expr {
	return e.elems
}

func (e *Vector) HasAddress() bool { return false }
func (e *Vector) IsLValue() bool   { return false }

func (e *Vector) IsConst() bool {
	for _, el := range e.elems {
		if !el.IsConst() {
			return false
		}
	}
	return true
}

func (e *Vector) LoadConst() *gen.Value {
	internal("aggregate initializer has no scalar value")
	return nil
}

func (e *Vector) LoadValue() *gen.Value {
	internal("aggregate initializer has no scalar value")
	return nil
}

func (e *Vector) LoadAddress() *gen.Value {
	internal("aggregate initializer has no address")
	return nil
}

func (e *Vector) Branch(trueLabel, falseLabel *gen.Label) {
	internal("aggregate initializer is not a condition")
}

func (e *Vector) String() string {
	parts := make([]string, 0, len(e.elems))
	for _, el := range e.elems {
		parts = append(parts, el.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (e *Vector) print(w io.Writer, indent int) {
	printNode(w, indent, "vector")
	for _, el := range e.elems {
		el.print(w, indent+2)
	}
}
