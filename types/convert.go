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

// Equals reports whether two types are structurally equal, including the
// const flag. Aliases compare as their underlying type. Struct and enum
// types compare by id; two null pointer types are equal but the null
// pointer is not equal to any other pointer.
func Equals(a, b *Type) bool {
	a, b = a.Unalias(), b.Unalias()
	if a.HasConstFlag() != b.HasConstFlag() {
		return false
	}
	switch {
	case a.IsVoid() && b.IsVoid():
		return true
	case a.kind == IntegerKind && b.kind == IntegerKind:
		return a.signed == b.signed && a.bits == b.bits
	case a.IsFloatType() && b.IsFloatType():
		return a.double == b.double
	case a.IsPointer() && b.IsPointer():
		if a.isNullptr || b.isNullptr {
			return a.isNullptr == b.isNullptr
		}
		return Equals(a.ref, b.ref)
	case a.IsStruct() && b.IsStruct():
		return a.id == b.id
	case a.IsEnum() && b.IsEnum():
		return a.id == b.id
	case a.IsArray() && b.IsArray():
		return a.dim == b.dim && Equals(a.ref, b.ref)
	case a.IsFunction() && b.IsFunction():
		if !Equals(a.ret, b.ret) || a.varg != b.varg {
			return false
		}
		if len(a.params) != len(b.params) {
			return false
		}
		for i := range a.params {
			if !Equals(a.params[i], b.params[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Common returns the common type of two operand types, or nil if none
// exists. When mixing signed and unsigned integers the unsigned side wins;
// when mixing integer and float the float side wins. The result is const
// qualified if either input is.
func Common(a, b *Type) *Type {
	// keep a float on the left when mixing integer and float
	if a.IsInteger() && b.IsFloatType() {
		a, b = b, a
	}

	var common *Type
	switch {
	case Equals(ConstRemoved(a), ConstRemoved(b)):
		common = a
	case a.IsArray() && b.IsArray():
		// arrays with equal elements but different dimensions decay
		if Equals(a.RefType(), b.RefType()) {
			common = Pointer(a.RefType())
		}
	case a.IsFloatType() && b.IsFloatType():
		if a.IsDouble() || b.IsDouble() {
			common = Double()
		} else {
			common = Float()
		}
	case a.IsFloatType() && b.IsInteger():
		common = a
	case a.IsInteger() && b.IsInteger():
		bits := max(a.NumBits(), b.NumBits())
		if a.IsUnsignedInteger() || b.IsUnsignedInteger() {
			common = Unsigned(bits)
		} else {
			common = Signed(bits)
		}
	case a.IsPointer() && b.IsNullPointer():
		common = a
	case a.IsNullPointer() && b.IsPointer():
		common = b
	}
	if common != nil && (a.HasConstFlag() || b.HasConstFlag()) {
		common = Const(common)
	}
	return common
}

func convert(from, to *Type, checkConst bool) *Type {
	if checkConst && from.HasConstFlag() && !to.HasConstFlag() {
		return nil
	}
	from, to = ConstRemoved(from.Unalias()), ConstRemoved(to.Unalias())
	switch {
	case Equals(from, to):
		return to
	case to.IsBool():
		if from.IsInteger() || from.IsPointer() {
			return to
		}
	case to.IsFloatType():
		if from.IsInteger() || from.IsFloatType() {
			return to
		}
	case to.IsInteger():
		if from.IsInteger() || from.IsFloatType() {
			return to
		}
	case to.IsPointer() && from.IsArray():
		if to.IsNullPointer() {
			return nil
		}
		if from.RefType().IsVoid() || to.RefType().IsVoid() {
			return from
		}
		if convert(from.RefType(), to.RefType(), true) != nil {
			return from
		}
	case to.IsPointer() && from.IsPointer():
		if to.IsNullPointer() {
			return nil
		}
		if from.IsNullPointer() {
			return to
		}
		if from.RefType().IsVoid() || to.RefType().IsVoid() {
			return to
		}
		if convert(from.RefType(), to.RefType(), true) == nil {
			return nil
		}
		if Equals(ConstRemoved(from.RefType()), ConstRemoved(to.RefType())) {
			return to
		}
	case from.IsStruct() && to.IsStruct():
		if Equals(from, to) {
			return to
		}
	case to.IsArray() && from.IsArray():
		if to.Dim() != from.Dim() && !to.IsUnboundArray() {
			return nil
		}
		if convert(from.RefType(), to.RefType(), checkConst) != nil {
			return to
		}
	}
	return nil
}

// Convert returns the type an implicit conversion from from to to
// produces, or nil if the conversion is not legal. Discarding a const
// qualifier is legal here; callers emit the warning. Array decay to a
// pointer keeps the array type as its result; every other legal
// conversion results in to.
func Convert(from, to *Type) *Type {
	r := convert(from, to, false)
	switch {
	case r == nil:
		return nil
	case from.IsArray() && to.IsPointer():
		return from
	default:
		return to
	}
}

// ExplicitCast is Convert extended with the conversions a source-level
// cast additionally allows: pointer to pointer with arbitrary referenced
// types, pointer to integer, and integer to pointer. Callers warn on the
// extra conversions.
func ExplicitCast(from, to *Type) *Type {
	if Convert(ConstRemoved(from), ConstRemoved(to)) != nil {
		return to
	}
	switch {
	case from.IsPointer() && to.IsPointer():
		return to
	case from.IsPointer() && to.IsInteger():
		return to
	case from.IsInteger() && to.IsPointer() && !to.IsNullPointer():
		return to
	}
	return nil
}

// Assignable reports whether a value of the type can be stored to. Arrays
// are assignable if their element is.
func Assignable(t *Type) bool {
	if t.IsArray() {
		return Assignable(t.RefType())
	}
	return !t.HasConstFlag()
}
