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
	"github.com/abc-lang/abc/base/intern"
	"github.com/abc-lang/abc/diag"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/types"
)

// Promotion computes the result type of an operator application and wraps
// the operands in the implicit casts the operation needs. It dispatches on
// the shape of the operand types, structs before arrays before pointers
// before integers, so that each helper only sees the shapes it handles:
// arrays decay and re-dispatch, leaving the pointer rules in one place.
//
// Every entry point takes the source location as a pointer. A nil location
// switches to speculative mode: instead of reporting a fatal diagnostic
// the promotion returns a nil type and the caller backs out.

// fail reports a fatal diagnostic unless the promotion is speculative.
func fail(loc *lexer.Loc, format string, args ...any) {
	if loc != nil {
		diag.Fatalf(*loc, format, args...)
	}
}

func promoteUnary(kind UnaryKind, child Expr, loc *lexer.Loc) *types.Type {
	ct := child.Type()
	switch kind {
	case Address:
		if !child.HasAddress() {
			fail(loc, "lvalue required as unary '&' operand")
			return nil
		}
		return types.Pointer(ct)

	case AsteriskDeref, ArrowDeref:
		switch {
		case ct.IsArray():
			return ct.RefType()
		case ct.IsNullPointer():
			fail(loc, "dereferencing nullptr")
			return nil
		case ct.IsPointer():
			ref := ct.RefType()
			if ref.IsVoid() {
				fail(loc, "dereferencing '%s'", ct)
				return nil
			}
			return ref
		default:
			fail(loc, "invalid type argument of unary '%s' ('%s')", kind, ct)
			return nil
		}

	case PrefixInc, PrefixDec, PostfixInc, PostfixDec:
		if !child.IsLValue() {
			if child.HasAddress() && ct.HasConstFlag() {
				fail(loc, "assignment of read-only variable '%s'", child)
			} else {
				fail(loc, "'%s' is not an lvalue", child)
			}
			return nil
		}
		switch {
		case ct.IsPointer() && !ct.IsNullPointer() && !ct.RefType().IsVoid():
			return ct
		case ct.IsInteger() || ct.IsFloatType():
			return ct
		default:
			fail(loc, "invalid operand of '%s' ('%s')", kind, ct)
			return nil
		}

	case LogicalNot:
		if !isCondition(ct) {
			fail(loc, "invalid operand of '!' ('%s')", ct)
			return nil
		}
		return types.Bool()

	case Minus:
		if !ct.IsInteger() && !ct.IsFloatType() {
			fail(loc, "invalid operand of unary '-' ('%s')", ct)
			return nil
		}
		return types.ConstRemoved(ct)
	}
	internal("unknown unary operator %d", kind)
	return nil
}

// isCondition reports whether a value of the type can control a branch.
func isCondition(t *types.Type) bool {
	return t.IsInteger() || t.IsFloatType() || t.IsPointer()
}

func promoteBinary(kind BinaryKind, left, right Expr, loc *lexer.Loc) (Expr, Expr, *types.Type) {
	if kind.isAssign() && !checkAssignTarget(left, loc) {
		return left, right, nil
	}
	lt, rt := left.Type(), right.Type()
	switch {
	case lt.IsStruct() || rt.IsStruct():
		return binaryStruct(kind, left, right, loc)
	case lt.IsArray() || rt.IsArray():
		return binaryArray(kind, left, right, loc)
	case lt.IsPointer() || rt.IsPointer():
		return binaryPtr(kind, left, right, loc)
	default:
		return binaryInt(kind, left, right, loc)
	}
}

func checkAssignTarget(left Expr, loc *lexer.Loc) bool {
	if left.Type().IsArray() {
		fail(loc, "assignment to expression with array type")
		return false
	}
	if left.IsLValue() {
		return true
	}
	if left.HasAddress() && left.Type().HasConstFlag() {
		fail(loc, "assignment of read-only variable '%s'", left)
	} else {
		fail(loc, "'%s' is not an lvalue", left)
	}
	return false
}

// binaryInt handles operands that are integers or floats.
func binaryInt(kind BinaryKind, left, right Expr, loc *lexer.Loc) (Expr, Expr, *types.Type) {
	lt, rt := left.Type(), right.Type()
	for _, t := range []*types.Type{lt, rt} {
		if !t.IsInteger() && !t.IsFloatType() {
			fail(loc, "integer expression expected, got '%s'", t)
			return left, right, nil
		}
	}

	switch {
	case kind == Assign:
		if types.Convert(rt, lt) == nil {
			fail(loc, "cannot convert '%s' to '%s'", rt, lt)
			return left, right, nil
		}
		return left, newImplicitCast(right, lt), lt

	case kind.isAssign():
		return left, newImplicitCast(right, lt), lt

	case kind.isLogical():
		return left, right, types.Bool()

	case kind.isCompare():
		common := types.Common(lt, rt)
		if common == nil {
			fail(loc, "invalid operands to binary %s ('%s' and '%s')", kind, lt, rt)
			return left, right, nil
		}
		common = types.ConstRemoved(common)
		return newImplicitCast(left, common), newImplicitCast(right, common), types.Bool()

	case kind == Index:
		fail(loc, "subscripted value is neither array nor pointer")
		return left, right, nil

	default:
		common := types.Common(lt, rt)
		if common == nil {
			fail(loc, "invalid operands to binary %s ('%s' and '%s')", kind, lt, rt)
			return left, right, nil
		}
		common = types.ConstRemoved(common)
		return newImplicitCast(left, common), newImplicitCast(right, common), common
	}
}

// binaryPtr handles operands where at least one side is a pointer and
// neither is an array or struct.
func binaryPtr(kind BinaryKind, left, right Expr, loc *lexer.Loc) (Expr, Expr, *types.Type) {
	lt, rt := left.Type(), right.Type()

	switch {
	case kind == Assign:
		if types.Convert(rt, lt) == nil {
			fail(loc, "cannot convert '%s' to '%s'", rt, lt)
			return left, right, nil
		}
		return left, newImplicitCast(right, lt), lt

	case kind == AddAssign || kind == SubAssign:
		if !lt.IsPointer() || lt.IsNullPointer() || !rt.IsInteger() {
			fail(loc, "invalid operands to binary %s ('%s' and '%s')", kind, lt, rt)
			return left, right, nil
		}
		// the offset participates in address arithmetic
		return left, newImplicitCast(right, types.SizeType()), lt

	case kind.isAssign():
		fail(loc, "invalid operands to binary %s ('%s' and '%s')", kind, lt, rt)
		return left, right, nil

	case kind.isLogical():
		return left, right, types.Bool()

	case kind.isCompare():
		if lt.IsPointer() != rt.IsPointer() {
			fail(loc, "comparison between pointer and integer ('%s' and '%s')", lt, rt)
			return left, right, nil
		}
		common := types.Common(lt, rt)
		if common == nil {
			fail(loc, "comparison of distinct pointer types ('%s' and '%s')", lt, rt)
			return left, right, nil
		}
		common = types.ConstRemoved(common)
		return newImplicitCast(left, common), newImplicitCast(right, common), types.Bool()

	case kind == Add:
		ptrType, other := lt, rt
		if !ptrType.IsPointer() {
			ptrType, other = rt, lt
		}
		if ptrType.IsNullPointer() || !other.IsInteger() {
			fail(loc, "invalid operands to binary + ('%s' and '%s')", lt, rt)
			return left, right, nil
		}
		return left, right, types.ConstRemoved(ptrType)

	case kind == Sub:
		switch {
		case lt.IsPointer() && rt.IsInteger() && !lt.IsNullPointer():
			return left, right, types.ConstRemoved(lt)
		case lt.IsPointer() && rt.IsPointer():
			if lt.IsNullPointer() || rt.IsNullPointer() ||
				!types.Equals(types.ConstRemoved(lt.RefType()), types.ConstRemoved(rt.RefType())) {
				fail(loc, "invalid operands to binary - ('%s' and '%s')", lt, rt)
				return left, right, nil
			}
			return left, right, types.Signed(64)
		default:
			fail(loc, "invalid operands to binary - ('%s' and '%s')", lt, rt)
			return left, right, nil
		}

	case kind == Index:
		if !lt.IsPointer() {
			fail(loc, "subscripted value is neither array nor pointer")
			return left, right, nil
		}
		if lt.IsNullPointer() {
			fail(loc, "dereferencing nullptr")
			return left, right, nil
		}
		ref := lt.RefType()
		if ref.IsVoid() || ref.IsFunction() {
			fail(loc, "subscript of '%s'", lt)
			return left, right, nil
		}
		if !rt.IsInteger() {
			fail(loc, "integer expression expected, got '%s'", rt)
			return left, right, nil
		}
		return left, newImplicitCast(right, types.SizeType()), ref

	default:
		fail(loc, "invalid operands to binary %s ('%s' and '%s')", kind, lt, rt)
		return left, right, nil
	}
}

// binaryArray decays array operands to pointers to their element type and
// re-dispatches, except for subscripting an array directly, which keeps
// the array so its address is used without an intermediate decay.
func binaryArray(kind BinaryKind, left, right Expr, loc *lexer.Loc) (Expr, Expr, *types.Type) {
	lt, rt := left.Type(), right.Type()

	if kind == Index && lt.IsArray() {
		if !rt.IsInteger() {
			fail(loc, "integer expression expected, got '%s'", rt)
			return left, right, nil
		}
		return left, newImplicitCast(right, types.SizeType()), lt.RefType()
	}

	if lt.IsArray() {
		left = newImplicitCast(left, types.Pointer(lt.RefType()))
	}
	if rt.IsArray() {
		right = newImplicitCast(right, types.Pointer(rt.RefType()))
	}
	return promoteBinary(kind, left, right, loc)
}

// binaryStruct handles operands where at least one side is a struct. Only
// assignment of equal struct types is defined.
func binaryStruct(kind BinaryKind, left, right Expr, loc *lexer.Loc) (Expr, Expr, *types.Type) {
	lt, rt := left.Type(), right.Type()
	if kind == Assign && types.Convert(rt, lt) != nil {
		return left, newImplicitCast(right, lt), lt
	}
	fail(loc, "invalid operands to binary %s ('%s' and '%s')", kind, lt, rt)
	return left, right, nil
}

func promoteCall(callee Expr, args []Expr, loc *lexer.Loc) ([]Expr, *types.Type) {
	ft := callee.Type()
	if ft.IsPointer() && !ft.IsNullPointer() && ft.RefType().IsFunction() {
		ft = ft.RefType()
	}
	if !ft.IsFunction() {
		fail(loc, "called object '%s' is not a function", callee)
		return args, nil
	}
	params := ft.ParamTypes()
	if len(args) < len(params) {
		fail(loc, "too few arguments to function '%s'", callee)
		return args, nil
	}
	if len(args) > len(params) && !ft.HasVarg() {
		fail(loc, "too many arguments to function '%s'", callee)
		return args, nil
	}

	newArgs := make([]Expr, 0, len(args))
	for i, arg := range args {
		if i >= len(params) {
			// variadic tail: arrays still decay
			if at := arg.Type(); at.IsArray() {
				arg = newImplicitCast(arg, types.Pointer(at.RefType()))
			}
			newArgs = append(newArgs, arg)
			continue
		}
		if types.Convert(arg.Type(), params[i]) == nil {
			fail(loc, "cannot convert argument %d from '%s' to '%s'",
				i+1, arg.Type(), params[i])
			return args, nil
		}
		if at := arg.Type(); at.IsArray() {
			arg = newImplicitCast(arg, types.Pointer(at.RefType()))
		}
		newArgs = append(newArgs, newImplicitCast(arg, types.ConstRemoved(params[i])))
	}
	return newArgs, ft.RetType()
}

func promoteConditional(cond, then, els Expr, loc *lexer.Loc) (Expr, Expr, *types.Type) {
	if !isCondition(cond.Type()) {
		fail(loc, "condition has non-scalar type '%s'", cond.Type())
		return then, els, nil
	}
	tt, et := then.Type(), els.Type()
	if tt.IsVoid() && et.IsVoid() {
		return then, els, types.Void()
	}
	if tt.IsArray() {
		then = newImplicitCast(then, types.Pointer(tt.RefType()))
	}
	if et.IsArray() {
		els = newImplicitCast(els, types.Pointer(et.RefType()))
	}
	common := types.Common(then.Type(), els.Type())
	if common == nil {
		fail(loc, "type mismatch in conditional expression ('%s' and '%s')", tt, et)
		return then, els, nil
	}
	common = types.ConstRemoved(common)
	return newImplicitCast(then, common), newImplicitCast(els, common), common
}

func promoteMember(record Expr, field *intern.Str, loc *lexer.Loc) (int, *types.Type) {
	rt := record.Type()
	if !rt.IsStruct() {
		fail(loc, "request for member '%s' in '%s', which is not a struct", field, rt)
		return 0, nil
	}
	if !rt.IsComplete() {
		fail(loc, "invalid use of incomplete type '%s'", rt)
		return 0, nil
	}
	index, ok := rt.MemberIndex(field)
	if !ok {
		fail(loc, "'%s' has no member named '%s'", rt, field)
		return 0, nil
	}
	return index, rt.MemberType(field)
}

// Converted wraps e so that its value converts to typ, diagnosing an
// illegal conversion fatally. Return statements and initializers use it.
func Converted(e Expr, typ *types.Type, loc lexer.Loc) Expr {
	if types.Convert(e.Type(), typ) == nil {
		diag.Fatalf(loc, "cannot convert '%s' to '%s'", e.Type(), typ)
	}
	if et := e.Type(); et.IsArray() && typ.IsPointer() {
		e = newImplicitCast(e, types.Pointer(et.RefType()))
	}
	return newImplicitCast(e, typ)
}
