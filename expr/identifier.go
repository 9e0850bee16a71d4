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

	"github.com/abc-lang/abc/base/intern"
	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/types"
)

// Identifier is a reference to a declared variable or function. ident is
// the mangled name the symbol table assigned to the declaration; locals
// shadowing each other have distinct idents.
type Identifier struct {
	exprBase
	name  *intern.Str
	ident string
}

// NewIdentifier creates a reference to a resolved declaration.
func NewIdentifier(name *intern.Str, ident string, typ *types.Type, loc lexer.Loc) Expr {
	return &Identifier{exprBase: exprBase{loc: loc, typ: typ}, name: name, ident: ident}
}

// Name returns the source name of the identifier.
func (e *Identifier) Name() *intern.Str {
	return e.name
}

func (e *Identifier) HasAddress() bool {
	return true
}

func (e *Identifier) IsLValue() bool {
	return !e.typ.IsFunction() && !e.typ.HasConstFlag()
}

// IsConst reports whether the identifier is an address constant. Only
// functions are; const-qualified variables still need a load.
func (e *Identifier) IsConst() bool {
	return e.typ.IsFunction()
}

func (e *Identifier) LoadConst() *gen.Value {
	if !e.typ.IsFunction() {
		internal("identifier %s is not a constant", e.name)
	}
	return e.LoadAddress()
}

func (e *Identifier) LoadValue() *gen.Value {
	if e.typ.IsFunction() {
		return e.LoadAddress()
	}
	return gen.Fetch(e.LoadAddress(), e.typ)
}

func (e *Identifier) LoadAddress() *gen.Value {
	if e.typ.IsFunction() {
		return gen.FunctionDeclaration(e.ident, e.typ)
	}
	addr, ok := gen.LocalAddr(e.ident)
	if !ok {
		internal("identifier %s has no storage", e.name)
	}
	return addr
}

func (e *Identifier) Branch(trueLabel, falseLabel *gen.Label) {
	branchOnValue(e, trueLabel, falseLabel)
}

func (e *Identifier) String() string {
	return e.name.String()
}

func (e *Identifier) print(w io.Writer, indent int) {
	printNode(w, indent, "identifier %s (%s): %s", e.name, e.ident, e.typ)
}
