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

package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/abc-lang/abc/diag"
	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/symtab"
	"github.com/abc-lang/abc/types"
)

func resetAll(t *testing.T) {
	t.Helper()
	diag.Reset()
	diag.SetOutput(&bytes.Buffer{})
	gen.Reset()
	symtab.Reset()
}

func compile(t *testing.T, src string) *gen.Module {
	t.Helper()
	resetAll(t)
	mod, err := Parse("test.abc", src)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return mod
}

func compileErr(t *testing.T, src, want string) {
	t.Helper()
	resetAll(t)
	_, err := Parse("test.abc", src)
	if err == nil {
		t.Fatalf("source compiled, want error containing %q", want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func fun(t *testing.T, mod *gen.Module, name string) *gen.Function {
	t.Helper()
	for _, f := range mod.Funcs {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("function %s not in module:\n%s", name, mod)
	return nil
}

func find(fn *gen.Function, op gen.Op) *gen.Instr {
	for _, in := range fn.Instrs() {
		if in.Op == op {
			return in
		}
	}
	return nil
}

func count(fn *gen.Function, op gen.Op) int {
	n := 0
	for _, in := range fn.Instrs() {
		if in.Op == op {
			n++
		}
	}
	return n
}

func blockNames(fn *gen.Function) []string {
	var names []string
	for _, b := range fn.Blocks {
		names = append(names, b.Label.Name())
	}
	return names
}

func TestArithmeticPromotion(t *testing.T) {
	mod := compile(t, `
		fn main() {
			local x: i32;
			local y: u16;
			x + y;
		}`)
	add := find(fun(t, mod, "main"), gen.OpAlu)
	if add == nil {
		t.Fatalf("no alu instruction emitted")
	}
	if add.Alu != gen.Add {
		t.Errorf("alu op = %s, want add", add.Alu)
	}
	if add.Type != types.Unsigned(32) {
		t.Errorf("i32 + u16 computed in %s, want u32", add.Type)
	}
}

func TestPointerArithmetic(t *testing.T) {
	mod := compile(t, `
		fn f(p: ->i32) {
			p + 3;
		}`)
	inc := find(fun(t, mod, "f"), gen.OpPtrInc)
	if inc == nil {
		t.Fatalf("pointer + integer emitted no ptrinc")
	}
	if inc.Elem != types.Signed(32) {
		t.Errorf("ptrinc element type = %s, want i32", inc.Elem)
	}
}

func TestPointerDifference(t *testing.T) {
	mod := compile(t, `
		fn f(p: ->i32, q: ->i32) {
			p - q;
		}`)
	diff := find(fun(t, mod, "f"), gen.OpPtrDiff)
	if diff == nil {
		t.Fatalf("pointer difference emitted no ptrdiff")
	}
	if diff.Res.Type() != types.Signed(64) {
		t.Errorf("ptrdiff result type = %s, want i64", diff.Res.Type())
	}
}

func TestArrayDecay(t *testing.T) {
	mod := compile(t, `
		fn f() {
			local a: array[8] of i16;
			a + 1;
		}`)
	inc := find(fun(t, mod, "f"), gen.OpPtrInc)
	if inc == nil {
		t.Fatalf("array + integer emitted no ptrinc")
	}
	if inc.Elem != types.Signed(16) {
		t.Errorf("decayed element type = %s, want i16", inc.Elem)
	}
}

func TestConstAssignment(t *testing.T) {
	compileErr(t, `
		fn f() {
			local c: const i32 = 1;
			c = 5;
		}`,
		"assignment of read-only variable 'c'")
}

func TestShortCircuitCondition(t *testing.T) {
	mod := compile(t, `
		fn f(a: i32, b: i32) {
			if (a && b)
				a = 1;
		}`)
	fn := fun(t, mod, "f")
	if got := count(fn, gen.OpJmpCond); got != 2 {
		t.Errorf("a && b emitted %d conditional jumps, want 2:\n%s", got, fn)
	}
	hasRight := false
	for _, name := range blockNames(fn) {
		if strings.HasPrefix(name, "and.right") {
			hasRight = true
		}
	}
	if !hasRight {
		t.Errorf("no short-circuit block for the right operand, blocks: %v", blockNames(fn))
	}
}

func TestNullPointerInitializer(t *testing.T) {
	mod := compile(t, `
		fn f() {
			local p: ->i32 = nullptr;
		}`)
	st := find(fun(t, mod, "f"), gen.OpStore)
	if st == nil {
		t.Fatalf("initializer emitted no store")
	}
	if !st.Args[0].IsNull() {
		t.Errorf("stored value is not null: %v", st.Args[0])
	}
	if st.Args[0].Type() != types.Pointer(types.Signed(32)) {
		t.Errorf("stored null has type %s, want -> i32", st.Args[0].Type())
	}
}

func TestCallArity(t *testing.T) {
	compileErr(t, `
		fn g(a: i32, b: i32): i32;
		fn f() {
			g(1);
		}`,
		"too few arguments to function 'g'")
}

func TestEnumConstants(t *testing.T) {
	mod := compile(t, `
		enum color { red, green = 5, blue }
		fn f(): i32 {
			return blue;
		}`)
	ret := find(fun(t, mod, "f"), gen.OpRet)
	if len(ret.Args) != 1 || !ret.Args[0].IsConst() {
		t.Fatalf("return of enum constant is not constant: %v", ret)
	}
	if got := ret.Args[0].SignedInt(); got != 6 {
		t.Errorf("blue = %d, want 6", got)
	}
}

func TestStructMember(t *testing.T) {
	mod := compile(t, `
		struct point { x, y: i32; }
		fn f() {
			local p: point;
			p.y = 3;
		}`)
	m := find(fun(t, mod, "f"), gen.OpPtrMember)
	if m == nil {
		t.Fatalf("member assignment emitted no ptrmember")
	}
	if m.Index != 1 {
		t.Errorf("member index = %d, want 1", m.Index)
	}
}

func TestSizeof(t *testing.T) {
	mod := compile(t, `
		struct point { x, y: i32; }
		fn f(): u64 {
			return sizeof(point);
		}`)
	ret := find(fun(t, mod, "f"), gen.OpRet)
	if got := ret.Args[0].UnsignedInt(); got != 8 {
		t.Errorf("sizeof(point) = %d, want 8", got)
	}
}

func TestConstantFolding(t *testing.T) {
	mod := compile(t, `
		fn f(): i32 {
			return 2 + 3 * 4;
		}`)
	ret := find(fun(t, mod, "f"), gen.OpRet)
	if !ret.Args[0].IsConst() || ret.Args[0].SignedInt() != 14 {
		t.Errorf("2 + 3 * 4 = %v, want constant 14", ret.Args[0])
	}
}

func TestLeftAssociativity(t *testing.T) {
	mod := compile(t, `
		fn f(): i32 {
			return 10 - 2 - 3;
		}`)
	ret := find(fun(t, mod, "f"), gen.OpRet)
	if got := ret.Args[0].SignedInt(); got != 5 {
		t.Errorf("10 - 2 - 3 = %d, want 5", got)
	}
}

func TestAssignmentChains(t *testing.T) {
	mod := compile(t, `
		fn f(a: i32, b: i32) {
			a = b = 1;
		}`)
	// two parameter spills plus the two chained stores
	if got := count(fun(t, mod, "f"), gen.OpStore); got != 4 {
		t.Errorf("a = b = 1 emitted %d stores, want 4", got)
	}
}

func TestCharacterLiteral(t *testing.T) {
	mod := compile(t, `
		fn f(): u8 {
			return 'a';
		}`)
	ret := find(fun(t, mod, "f"), gen.OpRet)
	if got := ret.Args[0].UnsignedInt(); got != 'a' {
		t.Errorf("'a' = %d, want %d", got, 'a')
	}
}

func TestExplicitCast(t *testing.T) {
	mod := compile(t, `
		fn f(x: i32): u8 {
			return (u8) x;
		}`)
	c := find(fun(t, mod, "f"), gen.OpCast)
	if c == nil {
		t.Fatalf("explicit cast emitted no cast")
	}
	if c.Type != types.Unsigned(8) {
		t.Errorf("cast target = %s, want u8", c.Type)
	}
}

func TestParenthesesAreNotCasts(t *testing.T) {
	mod := compile(t, `
		fn f(x: i32): i32 {
			return (x) + 1;
		}`)
	if find(fun(t, mod, "f"), gen.OpAlu) == nil {
		t.Errorf("(x) + 1 lost the addition")
	}
}

func TestConditionalExpression(t *testing.T) {
	mod := compile(t, `
		fn f(c: i32): i32 {
			return c ? 1 : 2;
		}`)
	if find(fun(t, mod, "f"), gen.OpPhi) == nil {
		t.Errorf("conditional expression emitted no phi")
	}
}

func TestIfElseShape(t *testing.T) {
	mod := compile(t, `
		fn f(a: i32) {
			if (a)
				a = 1;
			else
				a = 2;
		}`)
	names := strings.Join(blockNames(fun(t, mod, "f")), " ")
	for _, want := range []string{"if.then", "if.else", "if.end"} {
		if !strings.Contains(names, want) {
			t.Errorf("missing block %s in %s", want, names)
		}
	}
}

func TestWhileShape(t *testing.T) {
	mod := compile(t, `
		fn f(n: i32) {
			while (n)
				n = n - 1;
		}`)
	fn := fun(t, mod, "f")
	backEdge := false
	for _, in := range fn.Instrs() {
		if in.Op == gen.OpJmp && strings.HasPrefix(in.Labels[0].Name(), "while.head") {
			backEdge = true
		}
	}
	if !backEdge {
		t.Errorf("while loop has no back edge:\n%s", fn)
	}
}

// The step expression is parsed before the body but its instructions must
// land after the body's, in the loop block.
func TestForStepAfterBody(t *testing.T) {
	mod := compile(t, `
		fn f() {
			for (local i: i32 = 0; i < 10; i++) {
			}
		}`)
	fn := fun(t, mod, "f")
	var body *gen.Block
	for _, b := range fn.Blocks {
		if strings.HasPrefix(b.Label.Name(), "for.body") {
			body = b
		}
	}
	if body == nil {
		t.Fatalf("no loop body block in %v", blockNames(fn))
	}
	var ops []gen.Op
	for _, in := range body.Instrs {
		ops = append(ops, in.Op)
	}
	want := []gen.Op{gen.OpFetch, gen.OpAlu, gen.OpStore, gen.OpJmp}
	if len(ops) != len(want) {
		t.Fatalf("loop body ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("loop body ops = %v, want %v", ops, want)
		}
	}
}

func TestArrayInitializer(t *testing.T) {
	mod := compile(t, `
		fn f() {
			local a: array[] of i32 = {1, 2, 3};
		}`)
	fn := fun(t, mod, "f")
	if got := count(fn, gen.OpPtrInc); got != 3 {
		t.Errorf("array initializer emitted %d element addresses, want 3", got)
	}
	if got := count(fn, gen.OpStore); got != 3 {
		t.Errorf("array initializer emitted %d stores, want 3", got)
	}
}

func TestTooManyInitializers(t *testing.T) {
	compileErr(t, `
		fn f() {
			local a: array[2] of i32 = {1, 2, 3};
		}`,
		"too many initializers")
}

func TestStructInitializer(t *testing.T) {
	mod := compile(t, `
		struct point { x, y: i32; }
		fn f() {
			local p: point = {1, 2};
		}`)
	fn := fun(t, mod, "f")
	if got := count(fn, gen.OpPtrMember); got != 2 {
		t.Errorf("struct initializer emitted %d member addresses, want 2", got)
	}
}

func TestSelfReferentialStruct(t *testing.T) {
	compile(t, `
		struct node {
			value: i32;
			next: ->node;
		}
		fn f(n: ->node): i32 {
			return n->value;
		}`)
}

func TestFunctionRedeclaration(t *testing.T) {
	compile(t, `
		fn g(a: i32): i32;
		fn g(a: i32): i32 {
			return a;
		}`)
	compileErr(t, `
		fn g(a: i32): i32;
		fn g(a: i32, b: i32): i32;`,
		"conflicting declaration of 'g'")
}

func TestUndeclaredIdentifier(t *testing.T) {
	compileErr(t, `
		fn f() {
			y = 1;
		}`,
		"'y' undeclared")
}

func TestReturnTypeChecks(t *testing.T) {
	compileErr(t, `
		fn f() {
			return 1;
		}`,
		"returning a value from a void function")
	compileErr(t, `
		fn f(): i32 {
			return;
		}`,
		"return with no value in function returning 'i32'")
}

func TestStringLiteralRejected(t *testing.T) {
	compileErr(t, `
		fn f() {
			"hello";
		}`,
		"string literals are not supported")
}

func TestVariadicCall(t *testing.T) {
	mod := compile(t, `
		fn g(fmt: ->const u8, ...): i32;
		fn f(p: ->const u8) {
			g(p, 1, 2);
		}`)
	call := find(fun(t, mod, "f"), gen.OpCall)
	if call == nil {
		t.Fatalf("no call emitted")
	}
	// callee plus three arguments
	if len(call.Args) != 4 {
		t.Errorf("call carries %d values, want 4", len(call.Args))
	}
}

func TestVariableShadowing(t *testing.T) {
	mod := compile(t, `
		fn f(): i32 {
			local x: i32 = 1;
			{
				local x: i32 = 2;
				x = 3;
			}
			return x;
		}`)
	// the two locals must not share storage
	if got := count(fun(t, mod, "f"), gen.OpAlloca); got != 2 {
		t.Errorf("shadowed locals share storage, %d allocas, want 2", got)
	}
}

func TestNonScalarCondition(t *testing.T) {
	compileErr(t, `
		struct point { x, y: i32; }
		fn f() {
			local p: point;
			if (p)
				return;
		}`,
		"condition has non-scalar type")
}

func TestUnknownTypeName(t *testing.T) {
	compileErr(t, `
		fn f() {
			local x: widget;
		}`,
		"unknown type name 'widget'")
}
