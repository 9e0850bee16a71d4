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

// Package types implements the type system of the language.
//
// Types are immutable values interned by a registry: constructing the same
// type twice yields the same pointer, so identity comparison is type
// equality up to aliasing. Struct and enum types are the one exception to
// immutability: they are created incomplete and completed exactly once.
package types

import (
	"fmt"
	"strings"

	"github.com/abc-lang/abc/base/intern"
	"github.com/abc-lang/abc/base/ordered"
)

// Kind discriminates the type variants.
type Kind int

// Type kinds.
const (
	VoidKind Kind = iota
	IntegerKind
	FloatKind
	PointerKind
	ArrayKind
	FunctionKind
	StructKind
	EnumKind
)

// Type is one interned type value. All fields are set by the registry and
// never change afterwards, except struct/enum member tables which are
// filled in by one-shot completion.
type Type struct {
	kind    Kind
	isConst bool

	// aliasOf is non-nil for alias types; every query except printing
	// delegates to it.
	aliasOf *Type
	name    *intern.Str // alias name, or struct/enum name

	// integer
	bits   int
	signed bool

	// float
	double bool

	// pointer and array
	ref       *Type
	isNullptr bool
	dim       int // 0 means unbound

	// function
	ret    *Type
	params []*Type
	varg   bool

	// struct and enum
	id         int
	complete   bool
	members    *ordered.Map[*intern.Str, *Type]
	enumBase   *Type
	enumConsts *ordered.Map[*intern.Str, int64]
}

// Kind returns the kind of the type, resolving aliases.
func (t *Type) Kind() Kind {
	if t.aliasOf != nil {
		return t.aliasOf.Kind()
	}
	return t.kind
}

// IsAlias reports whether the type is an alias.
func (t *Type) IsAlias() bool {
	return t.aliasOf != nil
}

// Unalias resolves alias chains down to the underlying type.
func (t *Type) Unalias() *Type {
	if t.aliasOf != nil {
		return t.aliasOf.Unalias()
	}
	return t
}

// HasConstFlag reports whether the type is const qualified. For arrays the
// const flag lives on the element type.
func (t *Type) HasConstFlag() bool {
	u := t.Unalias()
	if u.kind == ArrayKind {
		return u.ref.HasConstFlag()
	}
	return u.isConst
}

// IsVoid reports whether the type is void.
func (t *Type) IsVoid() bool {
	return t.Kind() == VoidKind
}

// IsInteger reports whether the type is an integer. Bool and enum types
// count as integers.
func (t *Type) IsInteger() bool {
	u := t.Unalias()
	return u.kind == IntegerKind || u.kind == EnumKind
}

// IsBool reports whether the type is the 1-bit integer.
func (t *Type) IsBool() bool {
	u := t.Unalias()
	return u.kind == IntegerKind && u.bits == 1
}

// IsSignedInteger reports whether the type is a signed integer.
func (t *Type) IsSignedInteger() bool {
	u := t.Unalias()
	if u.kind == EnumKind {
		return u.enumBase.IsSignedInteger()
	}
	return u.kind == IntegerKind && u.signed
}

// IsUnsignedInteger reports whether the type is an unsigned integer.
func (t *Type) IsUnsignedInteger() bool {
	return t.IsInteger() && !t.IsSignedInteger()
}

// NumBits returns the width of an integer type, 0 for other kinds.
func (t *Type) NumBits() int {
	u := t.Unalias()
	if u.kind == EnumKind {
		return u.enumBase.NumBits()
	}
	if u.kind != IntegerKind {
		return 0
	}
	return u.bits
}

// IsFloatType reports whether the type is a floating point type.
func (t *Type) IsFloatType() bool {
	return t.Kind() == FloatKind
}

// IsFloat reports whether the type is the single precision float.
func (t *Type) IsFloat() bool {
	u := t.Unalias()
	return u.kind == FloatKind && !u.double
}

// IsDouble reports whether the type is the double precision float.
func (t *Type) IsDouble() bool {
	u := t.Unalias()
	return u.kind == FloatKind && u.double
}

// IsPointer reports whether the type is a pointer, including the null
// pointer type.
func (t *Type) IsPointer() bool {
	return t.Kind() == PointerKind
}

// IsNullPointer reports whether the type is the null pointer type.
func (t *Type) IsNullPointer() bool {
	return t.Unalias().isNullptr
}

// IsArray reports whether the type is an array.
func (t *Type) IsArray() bool {
	return t.Kind() == ArrayKind
}

// IsUnboundArray reports whether the type is an array without a dimension.
func (t *Type) IsUnboundArray() bool {
	u := t.Unalias()
	return u.kind == ArrayKind && u.dim == 0
}

// RefType returns the referenced type of a pointer or the element type of
// an array, nil otherwise. The null pointer type has no referenced type.
func (t *Type) RefType() *Type {
	return t.Unalias().ref
}

// Dim returns the dimension of an array type, 0 otherwise.
func (t *Type) Dim() int {
	return t.Unalias().dim
}

// IsFunction reports whether the type is a function type.
func (t *Type) IsFunction() bool {
	return t.Kind() == FunctionKind
}

// RetType returns the return type of a function type, nil otherwise.
func (t *Type) RetType() *Type {
	return t.Unalias().ret
}

// ParamTypes returns the parameter types of a function type.
func (t *Type) ParamTypes() []*Type {
	return t.Unalias().params
}

// HasVarg reports whether a function type has a variadic tail.
func (t *Type) HasVarg() bool {
	return t.Unalias().varg
}

// IsStruct reports whether the type is a struct.
func (t *Type) IsStruct() bool {
	return t.Kind() == StructKind
}

// IsEnum reports whether the type is an enum.
func (t *Type) IsEnum() bool {
	return t.Kind() == EnumKind
}

// ID returns the identity of a struct or enum type, 0 otherwise. The id is
// shared by the const and non-const flavor and is independent of the name.
func (t *Type) ID() int {
	return t.Unalias().id
}

// IsComplete reports whether a struct or enum type has been completed.
// Other kinds are always complete.
func (t *Type) IsComplete() bool {
	u := t.Unalias()
	if u.kind != StructKind && u.kind != EnumKind {
		return true
	}
	return u.complete
}

// Name returns the name the type was declared or aliased with.
func (t *Type) Name() *intern.Str {
	return t.name
}

// IsScalar reports whether the type is neither an array nor a struct.
func (t *Type) IsScalar() bool {
	return !t.IsArray() && !t.IsStruct()
}

// Members returns the member table of a complete struct type.
func (t *Type) Members() *ordered.Map[*intern.Str, *Type] {
	return t.Unalias().members
}

// MemberIndex returns the position of a member in a struct type.
func (t *Type) MemberIndex(name *intern.Str) (int, bool) {
	u := t.Unalias()
	if u.members == nil {
		return 0, false
	}
	return u.members.Index(name)
}

// MemberType returns the type of a member of a struct type. The member of
// a const struct is const.
func (t *Type) MemberType(name *intern.Str) *Type {
	u := t.Unalias()
	if u.members == nil {
		return nil
	}
	mt, ok := u.members.Load(name)
	if !ok {
		return nil
	}
	if u.isConst {
		return Const(mt)
	}
	return mt
}

// EnumBase returns the underlying integer type of an enum.
func (t *Type) EnumBase() *Type {
	return t.Unalias().enumBase
}

// EnumConstants returns the constant table of a complete enum type.
func (t *Type) EnumConstants() *ordered.Map[*intern.Str, int64] {
	return t.Unalias().enumConsts
}

// Size returns the size of the type in bytes. Unbound arrays and
// incomplete structs have size 0; function types have no size.
func (t *Type) Size() int {
	u := t.Unalias()
	switch u.kind {
	case IntegerKind:
		if u.bits == 1 {
			return 1
		}
		return u.bits / 8
	case FloatKind:
		if u.double {
			return 8
		}
		return 4
	case PointerKind:
		return 8
	case ArrayKind:
		return u.dim * u.ref.Size()
	case StructKind:
		size := 0
		if u.members != nil {
			for _, mt := range u.members.Iter() {
				size += mt.Size()
			}
		}
		return size
	case EnumKind:
		return u.enumBase.Size()
	default:
		return 0
	}
}

// String returns the surface spelling of the type. Aliases print as
// "name (aka 'expansion')".
func (t *Type) String() string {
	if t.aliasOf != nil {
		return fmt.Sprintf("%s (aka '%s')", t.name, t.aliasOf)
	}
	constFlag := ""
	if t.isConst && t.kind != ArrayKind {
		constFlag = "const "
	}
	switch t.kind {
	case VoidKind:
		return constFlag + "void"
	case IntegerKind:
		if t.bits == 1 {
			return constFlag + "bool"
		}
		sign := "u"
		if t.signed {
			sign = "i"
		}
		return fmt.Sprintf("%s%s%d", constFlag, sign, t.bits)
	case FloatKind:
		if t.double {
			return constFlag + "double"
		}
		return constFlag + "float"
	case PointerKind:
		if t.isNullptr {
			return "nullptr"
		}
		return fmt.Sprintf("%s-> %s", constFlag, t.ref)
	case ArrayKind:
		if t.dim == 0 {
			return fmt.Sprintf("array[] of %s", t.ref)
		}
		return fmt.Sprintf("array[%d] of %s", t.dim, t.ref)
	case FunctionKind:
		var sb strings.Builder
		sb.WriteString("fn (")
		for i, p := range t.params {
			sb.WriteString(":")
			sb.WriteString(p.String())
			if i+1 < len(t.params) || t.varg {
				sb.WriteString(", ")
			}
		}
		if t.varg {
			sb.WriteString("...")
		}
		sb.WriteString("): ")
		sb.WriteString(t.ret.String())
		return constFlag + sb.String()
	case StructKind:
		return fmt.Sprintf("%sstruct %s", constFlag, t.name)
	case EnumKind:
		return fmt.Sprintf("%senum %s", constFlag, t.name)
	default:
		return "invalid type"
	}
}
