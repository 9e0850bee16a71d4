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

package types

import (
	"fmt"
	"strings"

	"github.com/abc-lang/abc/base/intern"
	"github.com/abc-lang/abc/base/ordered"
)

// registry is the process-wide hash-consing table. Every constructor
// funnels through get, so equal construction calls return the same
// pointer for the remainder of the run.
type registry struct {
	byKey  map[string]*Type
	nextID int
}

var reg = &registry{
	byKey:  make(map[string]*Type),
	nextID: 1,
}

func (r *registry) get(key string, make func() *Type) *Type {
	if t, ok := r.byKey[key]; ok {
		return t
	}
	t := make()
	r.byKey[key] = t
	return t
}

func constKey(key string, isConst bool) string {
	if isConst {
		return key + ":const"
	}
	return key
}

// uid returns a registry-stable identity string for a type, used to build
// the keys of composite types.
func uid(t *Type) string {
	return fmt.Sprintf("%p", t)
}

// Void returns the void type.
func Void() *Type {
	return reg.get("void", func() *Type {
		return &Type{kind: VoidKind}
	})
}

func integer(bits int, signed, isConst bool) *Type {
	key := constKey(fmt.Sprintf("int:%d:%v", bits, signed), isConst)
	return reg.get(key, func() *Type {
		return &Type{kind: IntegerKind, bits: bits, signed: signed, isConst: isConst}
	})
}

// Bool returns the 1-bit integer type.
func Bool() *Type {
	return integer(1, false, false)
}

// Signed returns the signed integer type of the given width.
func Signed(bits int) *Type {
	return integer(bits, true, false)
}

// Unsigned returns the unsigned integer type of the given width.
func Unsigned(bits int) *Type {
	return integer(bits, false, false)
}

// SizeType returns the type used for object sizes and array subscripts.
func SizeType() *Type {
	return Unsigned(64)
}

// Char returns the type of character literals without a suffix.
func Char() *Type {
	return Signed(8)
}

func float(double, isConst bool) *Type {
	key := constKey(fmt.Sprintf("float:%v", double), isConst)
	return reg.get(key, func() *Type {
		return &Type{kind: FloatKind, double: double, isConst: isConst}
	})
}

// Float returns the single precision floating point type.
func Float() *Type {
	return float(false, false)
}

// Double returns the double precision floating point type.
func Double() *Type {
	return float(true, false)
}

func pointer(ref *Type, isConst bool) *Type {
	key := constKey("ptr:"+uid(ref), isConst)
	return reg.get(key, func() *Type {
		return &Type{kind: PointerKind, ref: ref, isConst: isConst}
	})
}

// Pointer returns the pointer type referencing ref.
func Pointer(ref *Type) *Type {
	return pointer(ref, false)
}

// NullPointer returns the null pointer type. It is a singleton: it refers
// to no particular type and converts to every pointer type.
func NullPointer() *Type {
	return reg.get("nullptr", func() *Type {
		return &Type{kind: PointerKind, isNullptr: true}
	})
}

// Array returns the array type with the given element type and dimension.
// dim 0 creates an unbound array. The const flag of an array lives on its
// element type.
func Array(elem *Type, dim int) *Type {
	key := fmt.Sprintf("array:%s:%d", uid(elem), dim)
	return reg.get(key, func() *Type {
		return &Type{kind: ArrayKind, ref: elem, dim: dim}
	})
}

func function(ret *Type, params []*Type, varg, isConst bool) *Type {
	ids := make([]string, 0, len(params))
	for _, p := range params {
		ids = append(ids, uid(p))
	}
	key := constKey(fmt.Sprintf("fn:%s:%s:%v", uid(ret), strings.Join(ids, ","), varg), isConst)
	return reg.get(key, func() *Type {
		return &Type{
			kind:    FunctionKind,
			ret:     ret,
			params:  append([]*Type(nil), params...),
			varg:    varg,
			isConst: isConst,
		}
	})
}

// Function returns the function type with the given return type,
// parameter types, and variadic flag.
func Function(ret *Type, params []*Type, varg bool) *Type {
	return function(ret, params, varg, false)
}

// StructIncomplete creates a new incomplete struct type. Each call creates
// a distinct type: identity is a fresh id, so two structs with the same
// name in different scopes stay distinct. The const flavor shares the id
// and is completed in lock-step.
func StructIncomplete(name *intern.Str) *Type {
	id := reg.nextID
	reg.nextID++
	t := &Type{kind: StructKind, id: id, name: name}
	c := &Type{kind: StructKind, id: id, name: name, isConst: true}
	reg.byKey[fmt.Sprintf("struct:%d", id)] = t
	reg.byKey[fmt.Sprintf("struct:%d:const", id)] = c
	return t
}

// CompleteStruct sets the member table of an incomplete struct type.
// Completion happens exactly once: a second call returns nil and leaves
// the members untouched.
func CompleteStruct(t *Type, names []*intern.Str, memberTypes []*Type) *Type {
	u := t.Unalias()
	if u.kind != StructKind || u.complete {
		return nil
	}
	members := ordered.NewMap[*intern.Str, *Type]()
	for i, name := range names {
		members.Store(name, memberTypes[i])
	}
	for _, flavor := range structFlavors(u) {
		flavor.members = members
		flavor.complete = true
	}
	return t
}

func structFlavors(u *Type) [2]*Type {
	kind := "struct"
	if u.kind == EnumKind {
		kind = "enum"
	}
	return [2]*Type{
		reg.byKey[fmt.Sprintf("%s:%d", kind, u.id)],
		reg.byKey[fmt.Sprintf("%s:%d:const", kind, u.id)],
	}
}

// EnumIncomplete creates a new incomplete enum type over a base integer
// type. Like structs, identity is a fresh id shared with the const flavor.
func EnumIncomplete(name *intern.Str, base *Type) *Type {
	id := reg.nextID
	reg.nextID++
	t := &Type{kind: EnumKind, id: id, name: name, enumBase: base}
	c := &Type{kind: EnumKind, id: id, name: name, enumBase: base, isConst: true}
	reg.byKey[fmt.Sprintf("enum:%d", id)] = t
	reg.byKey[fmt.Sprintf("enum:%d:const", id)] = c
	return t
}

// CompleteEnum sets the constants of an incomplete enum type. One-shot
// like CompleteStruct.
func CompleteEnum(t *Type, names []*intern.Str, values []int64) *Type {
	u := t.Unalias()
	if u.kind != EnumKind || u.complete {
		return nil
	}
	consts := ordered.NewMap[*intern.Str, int64]()
	for i, name := range names {
		consts.Store(name, values[i])
	}
	for _, flavor := range structFlavors(u) {
		flavor.enumConsts = consts
		flavor.complete = true
	}
	return t
}

// Const returns the const flavor of a type. Const of an array constifies
// the element; const of an alias aliases the const flavor of its target.
func Const(t *Type) *Type {
	if t.aliasOf != nil {
		return Alias(t.name, Const(t.aliasOf))
	}
	switch t.kind {
	case IntegerKind:
		return integer(t.bits, t.signed, true)
	case FloatKind:
		return float(t.double, true)
	case PointerKind:
		if t.isNullptr {
			return t
		}
		return pointer(t.ref, true)
	case ArrayKind:
		return Array(Const(t.ref), t.dim)
	case FunctionKind:
		return function(t.ret, t.params, t.varg, true)
	case StructKind, EnumKind:
		return structFlavors(t)[1]
	default:
		return t
	}
}

// ConstRemoved returns the non-const flavor of a type.
func ConstRemoved(t *Type) *Type {
	if t.aliasOf != nil {
		return Alias(t.name, ConstRemoved(t.aliasOf))
	}
	switch t.kind {
	case IntegerKind:
		return integer(t.bits, t.signed, false)
	case FloatKind:
		return float(t.double, false)
	case PointerKind:
		if t.isNullptr {
			return t
		}
		return pointer(t.ref, false)
	case ArrayKind:
		return Array(ConstRemoved(t.ref), t.dim)
	case FunctionKind:
		return function(t.ret, t.params, t.varg, false)
	case StructKind, EnumKind:
		return structFlavors(t)[0]
	default:
		return t
	}
}

// Alias returns a type that answers every query by delegating to target
// but prints as name.
func Alias(name *intern.Str, target *Type) *Type {
	key := fmt.Sprintf("alias:%s:%s", name, uid(target))
	return reg.get(key, func() *Type {
		return &Type{kind: target.kind, name: name, aliasOf: target}
	})
}

// PatchUnbound returns array(elem, dim) if t is an unbound array, and t
// unchanged otherwise.
func PatchUnbound(t *Type, dim int) *Type {
	if t.IsUnboundArray() {
		return Array(t.RefType(), dim)
	}
	return t
}
