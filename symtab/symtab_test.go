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

package symtab

import (
	"testing"

	"github.com/abc-lang/abc/base/intern"
	"github.com/abc-lang/abc/types"
)

func TestShadowing(t *testing.T) {
	Reset()
	x := intern.Get("x")

	outer, ok := AddVariable(x, types.Signed(32))
	if !ok {
		t.Fatalf("outer declaration failed")
	}
	OpenScope()
	inner, ok := AddVariable(x, types.Signed(64))
	if !ok {
		t.Fatalf("shadowing declaration failed")
	}
	if Lookup(x) != inner {
		t.Errorf("lookup did not resolve to the innermost binding")
	}
	if inner.Ident == outer.Ident {
		t.Errorf("shadowed variables share the storage name %q", inner.Ident)
	}
	CloseScope()
	if Lookup(x) != outer {
		t.Errorf("closing the scope did not restore the outer binding")
	}
}

func TestRedeclarationInScope(t *testing.T) {
	Reset()
	x := intern.Get("x")
	if _, ok := AddVariable(x, types.Signed(32)); !ok {
		t.Fatalf("first declaration failed")
	}
	if _, ok := AddVariable(x, types.Signed(32)); ok {
		t.Errorf("redeclaration in the same scope succeeded")
	}
}

func TestFunctionRedeclaration(t *testing.T) {
	Reset()
	g := intern.Get("g")
	i32 := types.Signed(32)
	typ := types.Function(i32, []*types.Type{i32}, false)

	first, ok := AddFunction(g, typ)
	if !ok {
		t.Fatalf("declaration failed")
	}
	// redeclaring with the same type yields the original entry
	again, ok := AddFunction(g, types.Function(i32, []*types.Type{i32}, false))
	if !ok || again != first {
		t.Errorf("same-type redeclaration did not return the existing entry")
	}
	// a different signature conflicts
	if _, ok := AddFunction(g, types.Function(i32, nil, false)); ok {
		t.Errorf("conflicting redeclaration succeeded")
	}
}

func TestFunctionsLiveAtRoot(t *testing.T) {
	Reset()
	OpenScope()
	g := intern.Get("g")
	typ := types.Function(types.Void(), nil, false)
	if _, ok := AddFunction(g, typ); !ok {
		t.Fatalf("declaration failed")
	}
	CloseScope()
	if Lookup(g) == nil {
		t.Errorf("function declared in an inner scope is not visible at root")
	}
}

func TestLookupCurrent(t *testing.T) {
	Reset()
	x := intern.Get("x")
	AddVariable(x, types.Signed(32))
	OpenScope()
	if LookupCurrent(x) != nil {
		t.Errorf("LookupCurrent crossed a scope boundary")
	}
	if Lookup(x) == nil {
		t.Errorf("Lookup missed the outer binding")
	}
}

func TestAtRootScope(t *testing.T) {
	Reset()
	if !AtRootScope() {
		t.Errorf("fresh table is not at root scope")
	}
	OpenScope()
	if AtRootScope() {
		t.Errorf("open scope reported as root")
	}
	CloseScope()
	if !AtRootScope() {
		t.Errorf("closing did not return to root")
	}
	// the root scope cannot be closed
	CloseScope()
	if !AtRootScope() {
		t.Errorf("root scope was popped")
	}
}

func TestEnumConstantEntry(t *testing.T) {
	Reset()
	color := types.EnumIncomplete(intern.Get("color"), types.Signed(32))
	e, ok := AddEnumConstant(intern.Get("red"), color, 7)
	if !ok {
		t.Fatalf("declaration failed")
	}
	if e.Kind != EnumConstEntry || e.Value != 7 || e.Type != color {
		t.Errorf("entry = %+v", e)
	}
}
