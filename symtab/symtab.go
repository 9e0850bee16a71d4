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

// Package symtab is the scoped symbol table of the front-end.
//
// Scopes form a stack. Variables, functions, named types, and enum
// constants share one namespace per scope; an inner scope may shadow an
// outer declaration. Each variable gets a mangled identifier that is
// unique across the run, so shadowed locals keep distinct storage names
// in the IR.
package symtab

import (
	"github.com/abc-lang/abc/base/intern"
	"github.com/abc-lang/abc/base/ordered"
	"github.com/abc-lang/abc/base/uname"
	"github.com/abc-lang/abc/types"
)

// EntryKind discriminates what a name is bound to.
type EntryKind int

// Entry kinds.
const (
	VariableEntry EntryKind = iota
	FunctionEntry
	TypeEntry
	EnumConstEntry
)

// Entry is one name binding.
type Entry struct {
	Name  *intern.Str
	Ident string // mangled storage name; equals Name for functions
	Kind  EntryKind
	Type  *types.Type
	Value int64 // enum constant value
}

// IsType reports whether the entry names a type.
func (e *Entry) IsType() bool {
	return e.Kind == TypeEntry
}

type scope struct {
	entries *ordered.Map[*intern.Str, *Entry]
	parent  *scope
}

var (
	top    *scope
	root   *scope
	idents *uname.Unique
)

func init() {
	Reset()
}

// Reset discards all scopes and opens a fresh root scope.
func Reset() {
	root = &scope{entries: ordered.NewMap[*intern.Str, *Entry]()}
	top = root
	idents = uname.New()
}

// OpenScope pushes a new innermost scope.
func OpenScope() {
	top = &scope{entries: ordered.NewMap[*intern.Str, *Entry](), parent: top}
}

// CloseScope pops the innermost scope. Closing the root scope is not
// possible; the call is ignored.
func CloseScope() {
	if top.parent != nil {
		top = top.parent
	}
}

// AtRootScope reports whether the innermost scope is the root scope.
func AtRootScope() bool {
	return top == root
}

func add(s *scope, e *Entry) (*Entry, bool) {
	if _, ok := s.entries.Load(e.Name); ok {
		return nil, false
	}
	s.entries.Store(e.Name, e)
	return e, true
}

// AddVariable declares a variable in the innermost scope. It reports
// false if the scope already has the name.
func AddVariable(name *intern.Str, typ *types.Type) (*Entry, bool) {
	return add(top, &Entry{
		Name:  name,
		Ident: idents.Name(name.String()),
		Kind:  VariableEntry,
		Type:  typ,
	})
}

// AddFunction declares a function in the root scope. Redeclaring a
// function with the same type returns the existing entry.
func AddFunction(name *intern.Str, typ *types.Type) (*Entry, bool) {
	if prev, ok := root.entries.Load(name); ok {
		if prev.Kind == FunctionEntry && types.Equals(prev.Type, typ) {
			return prev, true
		}
		return nil, false
	}
	return add(root, &Entry{
		Name:  name,
		Ident: name.String(),
		Kind:  FunctionEntry,
		Type:  typ,
	})
}

// AddType binds a name to a type in the innermost scope.
func AddType(name *intern.Str, typ *types.Type) (*Entry, bool) {
	return add(top, &Entry{Name: name, Kind: TypeEntry, Type: typ})
}

// AddEnumConstant declares an enum constant in the innermost scope.
func AddEnumConstant(name *intern.Str, typ *types.Type, val int64) (*Entry, bool) {
	return add(top, &Entry{
		Name:  name,
		Kind:  EnumConstEntry,
		Type:  typ,
		Value: val,
	})
}

// Lookup resolves a name against the scope stack, innermost first.
func Lookup(name *intern.Str) *Entry {
	for s := top; s != nil; s = s.parent {
		if e, ok := s.entries.Load(name); ok {
			return e
		}
	}
	return nil
}

// LookupCurrent resolves a name in the innermost scope only.
func LookupCurrent(name *intern.Str) *Entry {
	e, ok := top.entries.Load(name)
	if !ok {
		return nil
	}
	return e
}
