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

	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/types"
)

// Proxy borrows another expression without owning it, so that one
// subtree can appear in several folds. Every query and load delegates to
// the target; the target must outlive the proxy.
type Proxy struct {
	target Expr
}

// NewProxy creates a borrowed reference to target.
func NewProxy(target Expr) Expr {
	return &Proxy{target: target}
}

func (e *Proxy) Loc() lexer.Loc                         { return e.target.Loc() }
func (e *Proxy) Type() *types.Type                      { return e.target.Type() }
func (e *Proxy) HasAddress() bool                       { return e.target.HasAddress() }
func (e *Proxy) IsLValue() bool                         { return e.target.IsLValue() }
func (e *Proxy) IsConst() bool                          { return e.target.IsConst() }
func (e *Proxy) LoadConst() *gen.Value                  { return e.target.LoadConst() }
func (e *Proxy) LoadValue() *gen.Value                  { return e.target.LoadValue() }
func (e *Proxy) LoadAddress() *gen.Value                { return e.target.LoadAddress() }
func (e *Proxy) Branch(trueLabel, falseLabel *gen.Label) { e.target.Branch(trueLabel, falseLabel) }
func (e *Proxy) String() string                         { return e.target.String() }

func (e *Proxy) print(w io.Writer, indent int) {
	printNode(w, indent, "proxy")
	e.target.print(w, indent+2)
}
