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

package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abc-lang/abc/base/stringseq"
	"github.com/abc-lang/abc/types"
)

// Op enumerates the instruction kinds of the IR.
type Op int

// Instructions.
const (
	OpAlu Op = iota
	OpCond
	OpCast
	OpFetch
	OpStore
	OpAlloca
	OpPhi
	OpCall
	OpRet
	OpJmp
	OpJmpCond
	OpPtrInc
	OpPtrDiff
	OpPtrMember
)

// AluOp enumerates arithmetic operations. Multiplication, division and
// remainder carry the signedness of the result type at the operation
// site.
type AluOp int

// ALU operations.
const (
	Add AluOp = iota
	Sub
	SMul
	UMul
	SDiv
	UDiv
	SMod
	UMod
)

var aluName = map[AluOp]string{
	Add:  "add",
	Sub:  "sub",
	SMul: "smul",
	UMul: "umul",
	SDiv: "sdiv",
	UDiv: "udiv",
	SMod: "smod",
	UMod: "umod",
}

func (op AluOp) String() string {
	return aluName[op]
}

// CondOp enumerates comparison operations producing an i1.
type CondOp int

// Comparison operations.
const (
	EQ CondOp = iota
	NE
	SLT
	SLE
	SGT
	SGE
	ULT
	ULE
	UGT
	UGE
)

var condName = map[CondOp]string{
	EQ:  "eq",
	NE:  "ne",
	SLT: "slt",
	SLE: "sle",
	SGT: "sgt",
	SGE: "sge",
	ULT: "ult",
	ULE: "ule",
	UGT: "ugt",
	UGE: "uge",
}

func (op CondOp) String() string {
	return condName[op]
}

// Instr is one IR instruction.
type Instr struct {
	Op     Op
	Alu    AluOp
	Cond   CondOp
	Res    *Value
	Args   []*Value
	Type   *types.Type
	Elem   *types.Type // element type of pointer arithmetic
	Index  int         // member index of OpPtrMember
	Labels []*Label
	Name   string // local name of OpAlloca
}

// IntConst returns an integer constant of the given type. The payload is
// truncated to the width of the type.
func IntConst(typ *types.Type, val uint64) *Value {
	v := newValue(typ)
	v.isConst = true
	v.ival = truncate(val, typ.NumBits())
	return v
}

// FloatConst returns a floating point constant.
func FloatConst(typ *types.Type, val float64) *Value {
	v := newValue(typ)
	v.isConst = true
	v.fval = val
	return v
}

// Null returns the null pointer constant converted to a pointer type.
func Null(typ *types.Type) *Value {
	v := newValue(typ)
	v.isConst = true
	v.isNull = true
	return v
}

// Zero returns the zero constant of a type.
func Zero(typ *types.Type) *Value {
	switch {
	case typ.IsFloatType():
		return FloatConst(typ, 0)
	case typ.IsPointer():
		return Null(typ)
	default:
		return IntConst(typ, 0)
	}
}

func truncate(val uint64, bits int) uint64 {
	if bits <= 0 || bits >= 64 {
		return val
	}
	return val & (1<<uint(bits) - 1)
}

// AluInstr emits an arithmetic instruction. Both operands must already
// have the same type; promotion guarantees that.
func AluInstr(op AluOp, a, b *Value) *Value {
	res := newValue(a.Type())
	emit(&Instr{Op: OpAlu, Alu: op, Res: res, Args: []*Value{a, b}, Type: a.Type()})
	return res
}

// CondInstr emits a comparison producing a bool value.
func CondInstr(op CondOp, a, b *Value) *Value {
	res := newValue(types.Bool())
	emit(&Instr{Op: OpCond, Cond: op, Res: res, Args: []*Value{a, b}, Type: a.Type()})
	return res
}

// Cast emits a conversion of a value between two types. Casting a
// constant folds at build time.
func Cast(v *Value, from, to *types.Type) *Value {
	if types.Equals(from, to) {
		return v
	}
	if v.isConst && from.IsInteger() && to.IsInteger() {
		// re-interpret at the new width; sign-extend from the old
		// width when the source is signed
		val := v.ival
		if from.IsSignedInteger() {
			val = uint64(v.SignedInt())
		}
		return IntConst(to, val)
	}
	if v.isNull && to.IsPointer() {
		return Null(to)
	}
	res := newValue(to)
	emit(&Instr{Op: OpCast, Res: res, Args: []*Value{v}, Type: to})
	return res
}

// Fetch emits a load of a value from an address.
func Fetch(addr *Value, typ *types.Type) *Value {
	res := newValue(typ)
	emit(&Instr{Op: OpFetch, Res: res, Args: []*Value{addr}, Type: typ})
	return res
}

// Store emits a store of a value to an address and returns the value.
func Store(v, addr *Value, typ *types.Type) *Value {
	emit(&Instr{Op: OpStore, Args: []*Value{v, addr}, Type: typ})
	return v
}

// PtrInc emits pointer-plus-integer arithmetic scaled by the element
// type.
func PtrInc(elem *types.Type, ptr, idx *Value) *Value {
	res := newValue(ptr.Type())
	emit(&Instr{Op: OpPtrInc, Res: res, Args: []*Value{ptr, idx}, Elem: elem, Type: ptr.Type()})
	return res
}

// PtrDiff emits the difference of two pointers in units of the element
// type. The result is i64.
func PtrDiff(elem *types.Type, a, b *Value) *Value {
	res := newValue(types.Signed(64))
	emit(&Instr{Op: OpPtrDiff, Res: res, Args: []*Value{a, b}, Elem: elem, Type: res.Type()})
	return res
}

// PtrMember emits the address of the index-th member of a struct.
func PtrMember(record *types.Type, ptr *Value, index int) *Value {
	_, mt := record.Members().At(index)
	res := newValue(types.Pointer(mt))
	emit(&Instr{Op: OpPtrMember, Res: res, Args: []*Value{ptr}, Elem: record, Index: index, Type: res.Type()})
	return res
}

// Phi emits a phi joining two values from two predecessor blocks.
func Phi(a *Value, la *Label, b *Value, lb *Label, typ *types.Type) *Value {
	res := newValue(typ)
	emit(&Instr{Op: OpPhi, Res: res, Args: []*Value{a, b}, Labels: []*Label{la, lb}, Type: typ})
	return res
}

// Call emits a function call. The result is nil for void functions.
func Call(callee *Value, args []*Value, ret *types.Type) *Value {
	var res *Value
	if ret != nil && !ret.IsVoid() {
		res = newValue(ret)
	}
	emit(&Instr{Op: OpCall, Res: res, Args: append([]*Value{callee}, args...), Type: ret})
	return res
}

// Jmp emits an unconditional branch. A Jmp in a terminated block is
// unreachable and dropped.
func Jmp(l *Label) {
	emit(&Instr{Op: OpJmp, Labels: []*Label{l}})
}

// JmpCond emits a conditional branch on an i1 value.
func JmpCond(cond *Value, t, f *Label) {
	emit(&Instr{Op: OpJmpCond, Args: []*Value{cond}, Labels: []*Label{t, f}})
}

// Ret emits a return terminator. v is nil for void functions.
func Ret(v *Value) {
	var args []*Value
	if v != nil {
		args = []*Value{v}
	}
	emit(&Instr{Op: OpRet, Args: args})
}

// String returns the instruction in dump form.
func (in *Instr) String() string {
	args := in.Args
	targets := in.Labels
	switch in.Op {
	case OpAlu:
		return fmt.Sprintf("%s = %s %s, %s", in.Res, in.Alu, args[0], args[1])
	case OpCond:
		return fmt.Sprintf("%s = cmp %s %s, %s", in.Res, in.Cond, args[0], args[1])
	case OpCast:
		return fmt.Sprintf("%s = cast %s to %s", in.Res, args[0], in.Type)
	case OpFetch:
		return fmt.Sprintf("%s = fetch %s", in.Res, args[0])
	case OpStore:
		return fmt.Sprintf("store %s, %s", args[0], args[1])
	case OpAlloca:
		return fmt.Sprintf("%s = alloca %s", in.Res, in.Type)
	case OpPhi:
		return fmt.Sprintf("%s = phi [%s, %s], [%s, %s]",
			in.Res, args[0], targets[0], args[1], targets[1])
	case OpCall:
		return fmt.Sprintf("%s = call %s(%s)", in.Res, args[0],
			stringseq.JoinStringer(slices.Values(args[1:]), ", "))
	case OpRet:
		if len(args) == 0 {
			return "ret"
		}
		return fmt.Sprintf("ret %s", args[0])
	case OpJmp:
		return fmt.Sprintf("jmp %s", targets[0])
	case OpJmpCond:
		return fmt.Sprintf("jnz %s, %s, %s", args[0], targets[0], targets[1])
	case OpPtrInc:
		return fmt.Sprintf("%s = ptrinc %s %s, %s", in.Res, in.Elem, args[0], args[1])
	case OpPtrDiff:
		return fmt.Sprintf("%s = ptrdiff %s %s, %s", in.Res, in.Elem, args[0], args[1])
	case OpPtrMember:
		return fmt.Sprintf("%s = member %s %s, %d", in.Res, in.Elem, args[0], in.Index)
	default:
		return "?"
	}
}

// Instrs returns all instructions of the function in block order.
func (f *Function) Instrs() []*Instr {
	var all []*Instr
	for _, b := range f.Blocks {
		all = append(all, b.Instrs...)
	}
	return all
}

// String dumps the function.
func (f *Function) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fn %s:\n", f.Name)
	for _, b := range f.Blocks {
		fmt.Fprintf(&sb, "%s:\n", b.Label.Name())
		for _, in := range b.Instrs {
			fmt.Fprintf(&sb, "\t%s\n", in)
		}
	}
	return sb.String()
}
