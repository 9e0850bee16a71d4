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
	"fmt"
	"io"

	"github.com/abc-lang/abc/diag"
	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/types"
)

// BinaryKind enumerates the binary operators. Calls and member accesses
// are separate expression variants, not binary kinds.
type BinaryKind int

// Binary operators.
const (
	Assign BinaryKind = iota
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
	LogicalOr
	LogicalAnd
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	Add
	Sub
	Mul
	Div
	Mod
	Index
)

var binaryName = map[BinaryKind]string{
	Assign:       "=",
	AddAssign:    "+=",
	SubAssign:    "-=",
	MulAssign:    "*=",
	DivAssign:    "/=",
	ModAssign:    "%=",
	LogicalOr:    "||",
	LogicalAnd:   "&&",
	Equal:        "==",
	NotEqual:     "!=",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	Add:          "+",
	Sub:          "-",
	Mul:          "*",
	Div:          "/",
	Mod:          "%",
	Index:        "[]",
}

func (k BinaryKind) String() string {
	return binaryName[k]
}

func (k BinaryKind) isAssign() bool {
	return k >= Assign && k <= ModAssign
}

func (k BinaryKind) isCompare() bool {
	return k >= Equal && k <= GreaterEqual
}

func (k BinaryKind) isLogical() bool {
	return k == LogicalAnd || k == LogicalOr
}

// base returns the arithmetic operator of a compound assignment.
func (k BinaryKind) base() BinaryKind {
	switch k {
	case AddAssign:
		return Add
	case SubAssign:
		return Sub
	case MulAssign:
		return Mul
	case DivAssign:
		return Div
	case ModAssign:
		return Mod
	}
	return k
}

// aluOp maps an arithmetic operator to the IR operation. The signedness of
// multiplicative operations comes from the result type at the operation
// site.
func aluOp(k BinaryKind, typ *types.Type) gen.AluOp {
	signed := typ.IsSignedInteger() || typ.IsFloatType()
	switch k {
	case Add:
		return gen.Add
	case Sub:
		return gen.Sub
	case Mul:
		if signed {
			return gen.SMul
		}
		return gen.UMul
	case Div:
		if signed {
			return gen.SDiv
		}
		return gen.UDiv
	case Mod:
		if signed {
			return gen.SMod
		}
		return gen.UMod
	}
	internal("%s is not an alu operator", k)
	return 0
}

// condOp maps a comparison to the IR operation for operands of typ.
// Pointers compare unsigned.
func condOp(k BinaryKind, typ *types.Type) gen.CondOp {
	signed := typ.IsSignedInteger() || typ.IsFloatType()
	switch k {
	case Equal:
		return gen.EQ
	case NotEqual:
		return gen.NE
	case Less:
		if signed {
			return gen.SLT
		}
		return gen.ULT
	case LessEqual:
		if signed {
			return gen.SLE
		}
		return gen.ULE
	case Greater:
		if signed {
			return gen.SGT
		}
		return gen.UGT
	case GreaterEqual:
		if signed {
			return gen.SGE
		}
		return gen.UGE
	}
	internal("%s is not a comparison", k)
	return 0
}

// Binary is a binary operator applied to two children. Promotion has
// already inserted the implicit casts, so except for pointer arithmetic
// and logical operators both children have the same type.
type Binary struct {
	exprBase
	kind  BinaryKind
	left  Expr
	right Expr
}

// NewBinary creates a binary expression. Promotion computes the result
// type, wraps the children in implicit casts, and diagnoses operand
// misuse fatally.
func NewBinary(kind BinaryKind, left, right Expr, loc lexer.Loc) Expr {
	newLeft, newRight, typ := promoteBinary(kind, left, right, &loc)
	return &Binary{
		exprBase: exprBase{loc: loc, typ: typ},
		kind:     kind,
		left:     newLeft,
		right:    newRight,
	}
}

func (e *Binary) HasAddress() bool {
	if e.kind == Index {
		return true
	}
	return e.kind.isAssign() && e.left.HasAddress()
}

func (e *Binary) IsLValue() bool {
	return e.kind == Index && !e.typ.HasConstFlag()
}

func (e *Binary) IsConst() bool {
	if e.kind.isAssign() || e.kind == Index {
		return false
	}
	return e.typ.IsInteger() && e.left.IsConst() && e.right.IsConst()
}

func truthy(v *gen.Value) bool {
	return !v.IsNull() && v.UnsignedInt() != 0
}

func (e *Binary) LoadConst() *gen.Value {
	if !e.IsConst() {
		internal("binary %s is not a constant", e.kind)
	}
	if e.kind.isLogical() {
		l := truthy(e.left.LoadConst())
		if e.kind == LogicalAnd && !l {
			return gen.IntConst(e.typ, 0)
		}
		if e.kind == LogicalOr && l {
			return gen.IntConst(e.typ, 1)
		}
		if truthy(e.right.LoadConst()) {
			return gen.IntConst(e.typ, 1)
		}
		return gen.IntConst(e.typ, 0)
	}

	lv, rv := e.left.LoadConst(), e.right.LoadConst()
	signed := e.left.Type().IsSignedInteger()
	if e.kind.isCompare() {
		return e.foldCompare(lv, rv, signed)
	}

	switch e.kind {
	case Add:
		return gen.IntConst(e.typ, lv.UnsignedInt()+rv.UnsignedInt())
	case Sub:
		return gen.IntConst(e.typ, lv.UnsignedInt()-rv.UnsignedInt())
	case Mul:
		return gen.IntConst(e.typ, lv.UnsignedInt()*rv.UnsignedInt())
	case Div, Mod:
		if rv.UnsignedInt() == 0 {
			diag.Fatalf(e.right.Loc(), "division by zero")
		}
		if signed {
			q, r := lv.SignedInt()/rv.SignedInt(), lv.SignedInt()%rv.SignedInt()
			if e.kind == Div {
				return gen.IntConst(e.typ, uint64(q))
			}
			return gen.IntConst(e.typ, uint64(r))
		}
		if e.kind == Div {
			return gen.IntConst(e.typ, lv.UnsignedInt()/rv.UnsignedInt())
		}
		return gen.IntConst(e.typ, lv.UnsignedInt()%rv.UnsignedInt())
	}
	internal("binary %s is not a constant", e.kind)
	return nil
}

func (e *Binary) foldCompare(lv, rv *gen.Value, signed bool) *gen.Value {
	var res bool
	switch e.kind {
	case Equal:
		res = lv.UnsignedInt() == rv.UnsignedInt()
	case NotEqual:
		res = lv.UnsignedInt() != rv.UnsignedInt()
	case Less:
		res = cmpLess(lv, rv, signed)
	case GreaterEqual:
		res = !cmpLess(lv, rv, signed)
	case Greater:
		res = cmpLess(rv, lv, signed)
	case LessEqual:
		res = !cmpLess(rv, lv, signed)
	}
	if res {
		return gen.IntConst(e.typ, 1)
	}
	return gen.IntConst(e.typ, 0)
}

func cmpLess(a, b *gen.Value, signed bool) bool {
	if signed {
		return a.SignedInt() < b.SignedInt()
	}
	return a.UnsignedInt() < b.UnsignedInt()
}

func (e *Binary) LoadValue() *gen.Value {
	if e.IsConst() {
		return e.LoadConst()
	}
	switch {
	case e.kind == Assign:
		v := e.right.LoadValue()
		gen.Store(v, e.left.LoadAddress(), e.typ)
		return v
	case e.kind.isAssign():
		return e.loadCompound()
	case e.kind.isLogical():
		return e.loadLogical()
	case e.kind.isCompare():
		return gen.CondInstr(condOp(e.kind, e.left.Type()),
			e.left.LoadValue(), e.right.LoadValue())
	case e.kind == Index:
		if e.typ.IsArray() {
			return e.LoadAddress()
		}
		return gen.Fetch(e.LoadAddress(), e.typ)
	case e.typ.IsPointer():
		return e.loadPointerArith()
	case e.kind == Sub && e.left.Type().IsPointer():
		// pointer difference in units of the element type
		return gen.PtrDiff(e.left.Type().RefType(),
			e.left.LoadValue(), e.right.LoadValue())
	default:
		return gen.AluInstr(aluOp(e.kind, e.typ),
			e.left.LoadValue(), e.right.LoadValue())
	}
}

// loadCompound emits fetch, operate, store for the compound assignments.
func (e *Binary) loadCompound() *gen.Value {
	addr := e.left.LoadAddress()
	old := gen.Fetch(addr, e.typ)
	rhs := e.right.LoadValue()

	var res *gen.Value
	if e.typ.IsPointer() {
		idx := rhs
		if e.kind == SubAssign {
			idx = gen.AluInstr(gen.Sub, gen.Zero(rhs.Type()), rhs)
		}
		res = gen.PtrInc(e.typ.RefType(), old, idx)
	} else {
		res = gen.AluInstr(aluOp(e.kind.base(), e.typ), old, rhs)
	}
	gen.Store(res, addr, e.typ)
	return res
}

// loadLogical materializes the value of a short-circuit operator by
// branching and joining the two outcomes with a phi.
func (e *Binary) loadLogical() *gen.Value {
	tLab := gen.GetLabel("bool.true")
	fLab := gen.GetLabel("bool.false")
	join := gen.GetLabel("bool.end")
	e.Branch(tLab, fLab)
	gen.LabelDef(tLab)
	one := gen.IntConst(e.typ, 1)
	gen.Jmp(join)
	gen.LabelDef(fLab)
	zero := gen.IntConst(e.typ, 0)
	gen.Jmp(join)
	gen.LabelDef(join)
	return gen.Phi(one, tLab, zero, fLab, e.typ)
}

func (e *Binary) loadPointerArith() *gen.Value {
	ptr, idx := e.left, e.right
	if !ptr.Type().IsPointer() {
		ptr, idx = idx, ptr
	}
	iv := idx.LoadValue()
	if e.kind == Sub {
		iv = gen.AluInstr(gen.Sub, gen.Zero(iv.Type()), iv)
	}
	return gen.PtrInc(e.typ.RefType(), ptr.LoadValue(), iv)
}

func (e *Binary) LoadAddress() *gen.Value {
	switch {
	case e.kind == Index:
		elem := e.left.Type().RefType()
		var base *gen.Value
		if e.left.Type().IsArray() {
			base = gen.Cast(e.left.LoadAddress(),
				types.Pointer(e.left.Type()), types.Pointer(elem))
		} else {
			base = e.left.LoadValue()
		}
		return gen.PtrInc(elem, base, e.right.LoadValue())
	case e.kind.isAssign():
		addr := e.left.LoadAddress()
		gen.Store(e.right.LoadValue(), addr, e.typ)
		return addr
	}
	internal("binary %s has no address", e.kind)
	return nil
}

// Branch emits short-circuit control flow for the logical operators and
// compares everything else against zero. The right operand of a logical
// operator is evaluated in its own block.
func (e *Binary) Branch(trueLabel, falseLabel *gen.Label) {
	if e.IsConst() {
		if truthy(e.LoadConst()) {
			gen.Jmp(trueLabel)
		} else {
			gen.Jmp(falseLabel)
		}
		return
	}
	switch {
	case e.kind == LogicalAnd:
		chkRight := gen.GetLabel("and.right")
		e.left.Branch(chkRight, falseLabel)
		gen.LabelDef(chkRight)
		e.right.Branch(trueLabel, falseLabel)
	case e.kind == LogicalOr:
		chkRight := gen.GetLabel("or.right")
		e.left.Branch(trueLabel, chkRight)
		gen.LabelDef(chkRight)
		e.right.Branch(trueLabel, falseLabel)
	case e.kind.isCompare():
		cond := gen.CondInstr(condOp(e.kind, e.left.Type()),
			e.left.LoadValue(), e.right.LoadValue())
		gen.JmpCond(cond, trueLabel, falseLabel)
	default:
		branchOnValue(e, trueLabel, falseLabel)
	}
}

func (e *Binary) String() string {
	if e.kind == Index {
		return fmt.Sprintf("%s[%s]", e.left, e.right)
	}
	return fmt.Sprintf("%s %s %s", e.left, e.kind, e.right)
}

func (e *Binary) print(w io.Writer, indent int) {
	printNode(w, indent, "binary %s: %s", e.kind, e.typ)
	e.left.print(w, indent+2)
	e.right.print(w, indent+2)
}
