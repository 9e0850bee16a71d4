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

// Package gen builds the intermediate representation the front-end lowers
// to: typed values, labels, and constants arranged in basic blocks.
//
// The builder keeps one module and, inside FunctionDefinitionBegin /
// FunctionDefinitionEnd, one open function. Every basic block terminates
// exactly once: emitting a value instruction after a terminator opens a
// fresh unreachable block, and a second terminator in the same block is
// dropped.
package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"

	"github.com/abc-lang/abc/base/uname"
	"github.com/abc-lang/abc/types"
)

type (
	// Value is one IR value: the result of an instruction, a constant,
	// or the address of a local or function.
	Value struct {
		id      int
		name    string
		typ     *types.Type
		isConst bool
		ival    uint64
		fval    float64
		isNull  bool
	}

	// Label names a basic block.
	Label struct {
		name    string
		defined bool
	}

	// Block is a sequence of instructions ending in one terminator.
	Block struct {
		Label  *Label
		Instrs []*Instr
		closed bool
	}

	// Function is a function definition under construction or done.
	Function struct {
		Name       string
		Type       *types.Type
		ParamNames []string
		Blocks     []*Block
	}

	// Module collects the functions of one translation unit.
	Module struct {
		Funcs []*Function
		Decls map[string]*Value
	}

	// functionBuildingInfo is the per-function builder state, scoped by
	// FunctionDefinitionBegin / FunctionDefinitionEnd.
	functionBuildingInfo struct {
		fn      *Function
		cur     *Block
		retType *types.Type
		locals  map[string]*Value
	}
)

var (
	mod    *Module
	info   *functionBuildingInfo
	labels *uname.Unique
	nextID int
)

func init() {
	Reset()
}

// Reset discards all builder state. Tests use it to start from an empty
// module.
func Reset() {
	mod = &Module{Decls: make(map[string]*Value)}
	info = nil
	labels = uname.New()
	nextID = 1
}

// Current returns the module under construction.
func Current() *Module {
	return mod
}

// Type returns the type of the value.
func (v *Value) Type() *types.Type {
	return v.typ
}

// IsConst reports whether the value is a compile-time constant.
func (v *Value) IsConst() bool {
	return v.isConst
}

// IsNull reports whether the value is the null pointer constant.
func (v *Value) IsNull() bool {
	return v.isNull
}

// UnsignedInt returns the constant payload zero-extended.
func (v *Value) UnsignedInt() uint64 {
	return v.ival
}

// SignedInt returns the constant payload sign-extended from the width of
// the value's type.
func (v *Value) SignedInt() int64 {
	bits := v.typ.NumBits()
	if bits == 0 || bits >= 64 {
		return int64(v.ival)
	}
	shift := 64 - uint(bits)
	return int64(v.ival<<shift) >> shift
}

// String returns the value in dump form. A nil value, the result of a
// void call, prints as "void".
func (v *Value) String() string {
	switch {
	case v == nil:
		return "void"
	case v.isNull:
		return "null"
	case v.isConst && v.typ.IsFloatType():
		return fmt.Sprintf("%g", v.fval)
	case v.isConst:
		return fmt.Sprintf("%d", v.SignedInt())
	case v.name != "":
		return "%" + v.name
	default:
		return fmt.Sprintf("%%t%d", v.id)
	}
}

// Name returns the name of the label.
func (l *Label) Name() string {
	return l.name
}

func (l *Label) String() string {
	return l.name
}

func newValue(typ *types.Type) *Value {
	v := &Value{id: nextID, typ: typ}
	nextID++
	return v
}

// GetLabel returns a fresh label. The hint is made unique.
func GetLabel(hint string) *Label {
	return &Label{name: labels.Name(hint)}
}

func internal(format string, args ...any) {
	panic(errors.Errorf("internal error: "+format, args...))
}

func open() *functionBuildingInfo {
	if info == nil {
		internal("no open function definition")
	}
	return info
}

// LabelDef starts the basic block named by the label. Defining a label
// twice is an internal error. The current block must be terminated.
func LabelDef(l *Label) {
	b := open()
	if l.defined {
		internal("label %s defined twice", l.name)
	}
	if b.cur != nil && !b.cur.closed {
		// fall through into the new block
		Jmp(l)
	}
	l.defined = true
	blk := &Block{Label: l}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	b.cur = blk
}

// emit appends an instruction to the current block. After a terminator a
// fresh unreachable block is opened so that dead code never reopens a
// terminated block.
func emit(in *Instr) {
	b := open()
	if b.cur == nil || b.cur.closed {
		if in.Op == OpJmp || in.Op == OpJmpCond || in.Op == OpRet {
			// unreachable terminator, drop it
			return
		}
		LabelDef(GetLabel("dead"))
	}
	b.cur.Instrs = append(b.cur.Instrs, in)
	if in.Op == OpJmp || in.Op == OpJmpCond || in.Op == OpRet {
		b.cur.closed = true
	}
}

// FunctionDeclaration registers a function and returns its value: an
// address constant of the function type.
func FunctionDeclaration(name string, typ *types.Type) *Value {
	if v, ok := mod.Decls[name]; ok {
		return v
	}
	v := &Value{id: 0, name: name, typ: typ, isConst: true}
	mod.Decls[name] = v
	return v
}

// FunctionDefinitionBegin opens a function definition. Parameters are
// materialized as locals so that they are addressable.
func FunctionDefinitionBegin(name string, typ *types.Type, paramNames []string) {
	if info != nil {
		internal("nested function definition %s", name)
	}
	FunctionDeclaration(name, typ)
	fn := &Function{Name: name, Type: typ, ParamNames: paramNames}
	info = &functionBuildingInfo{
		fn:      fn,
		retType: typ.RetType(),
		locals:  make(map[string]*Value),
	}
	LabelDef(GetLabel("entry"))
	for i, pname := range paramNames {
		addr := AllocLocal(pname, typ.ParamTypes()[i])
		arg := newValue(typ.ParamTypes()[i])
		arg.name = pname + ".arg"
		Store(arg, addr, typ.ParamTypes()[i])
	}
}

// FunctionDefinitionEnd closes the current function definition and
// appends it to the module.
func FunctionDefinitionEnd() {
	b := open()
	if b.cur != nil && !b.cur.closed {
		if b.retType != nil && !b.retType.IsVoid() {
			Ret(Zero(b.retType))
		} else {
			Ret(nil)
		}
	}
	mod.Funcs = append(mod.Funcs, b.fn)
	info = nil
}

// AllocLocal reserves storage for a named local and returns its address.
func AllocLocal(name string, typ *types.Type) *Value {
	b := open()
	addr := newValue(types.Pointer(typ))
	addr.name = name
	emit(&Instr{Op: OpAlloca, Res: addr, Type: typ, Name: name})
	b.locals[name] = addr
	return addr
}

// LocalAddr returns the address of a named local of the open function.
func LocalAddr(name string) (*Value, bool) {
	if info == nil {
		return nil, false
	}
	v, ok := info.locals[name]
	return v, ok
}

// Decl returns the value of a declared function.
func Decl(name string) (*Value, bool) {
	v, ok := mod.Decls[name]
	return v, ok
}

// String dumps the module: declarations in name order, then the function
// bodies in definition order.
func (m *Module) String() string {
	var sb strings.Builder
	names := maps.Keys(m.Decls)
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "decl %s: %s\n", name, m.Decls[name].Type())
	}
	for _, fn := range m.Funcs {
		sb.WriteString(fn.String())
	}
	return sb.String()
}
