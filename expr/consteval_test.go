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
	"strings"
	"testing"

	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/types"
)

func TestLiteralParsing(t *testing.T) {
	reset(t)
	tests := []struct {
		text  string
		radix int
		want  uint64
	}{
		{"42", 10, 42},
		{"ff", 16, 255},
		{"017", 8, 15},
		{"1011", 2, 11},
		{"0", 10, 0},
	}
	for _, test := range tests {
		e := NewLiteral(test.text, test.radix, types.Signed(64), lexer.Loc{})
		if got := e.LoadConst().UnsignedInt(); got != test.want {
			t.Errorf("literal %q radix %d = %d, want %d", test.text, test.radix, got, test.want)
		}
	}
}

func TestLiteralDefaultType(t *testing.T) {
	reset(t)
	if e := NewLiteral("7", 10, nil, lexer.Loc{}); e.Type() != types.Signed(64) {
		t.Errorf("small literal has type %s, want i64", e.Type())
	}
	if e := NewLiteral("18446744073709551615", 10, nil, lexer.Loc{}); e.Type() != types.Unsigned(64) {
		t.Errorf("huge literal has type %s, want u64", e.Type())
	}
}

func TestLiteralOutOfRange(t *testing.T) {
	reset(t)
	err := fatally(func() {
		NewLiteral("ffffffffffffffff0", 16, nil, lexer.Loc{})
	})
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("overflow error = %v", err)
	}
}

type folded struct {
	u uint64
	s int64
}

func fold(t *testing.T, kind BinaryKind, a, b uint64, typ *types.Type) folded {
	t.Helper()
	e := NewBinary(kind, lit(a, typ), lit(b, typ), lexer.Loc{})
	if !e.IsConst() {
		t.Fatalf("binary %s of literals is not const", kind)
	}
	return folded{e.LoadConst().UnsignedInt(), e.LoadConst().SignedInt()}
}

func TestConstFolding(t *testing.T) {
	reset(t)
	u8 := types.Unsigned(8)
	i32 := types.Signed(32)

	if got := fold(t, Add, 200, 100, u8); got.u != 44 {
		t.Errorf("u8 200+100 = %d, want 44 (wraparound)", got.u)
	}
	if got := fold(t, Sub, 3, 5, i32); got.s != -2 {
		t.Errorf("i32 3-5 = %d, want -2", got.s)
	}
	if got := fold(t, Mul, 7, 6, i32); got.s != 42 {
		t.Errorf("i32 7*6 = %d", got.s)
	}
	if got := fold(t, Div, uint64(0xfffffff8), 2, i32); got.s != -4 {
		t.Errorf("i32 -8/2 = %d, want -4", got.s)
	}
	if got := fold(t, Div, 0xfffffff8, 2, types.Unsigned(32)); got.u != 0x7ffffffc {
		t.Errorf("u32 0xfffffff8/2 = %#x, want 0x7ffffffc", got.u)
	}
	if got := fold(t, Mod, uint64(0xfffffff9), 4, i32); got.s != -3 {
		t.Errorf("i32 -7%%4 = %d, want -3", got.s)
	}
}

func TestConstComparisons(t *testing.T) {
	reset(t)
	i8 := types.Signed(8)
	// 0x80 is -128 signed
	if got := fold(t, Less, 0x80, 1, i8); got.u != 1 {
		t.Errorf("i8 -128 < 1 = %d, want 1", got.u)
	}
	if got := fold(t, Less, 0x80, 1, types.Unsigned(8)); got.u != 0 {
		t.Errorf("u8 128 < 1 = %d, want 0", got.u)
	}
	if got := fold(t, Equal, 5, 5, i8); got.u != 1 {
		t.Errorf("5 == 5 = %d", got.u)
	}
}

func TestConstLogical(t *testing.T) {
	reset(t)
	i32 := types.Signed(32)
	if got := fold(t, LogicalAnd, 2, 3, i32); got.u != 1 {
		t.Errorf("2 && 3 = %d", got.u)
	}
	if got := fold(t, LogicalAnd, 0, 3, i32); got.u != 0 {
		t.Errorf("0 && 3 = %d", got.u)
	}
	if got := fold(t, LogicalOr, 0, 0, i32); got.u != 0 {
		t.Errorf("0 || 0 = %d", got.u)
	}
	if got := fold(t, LogicalOr, 1, 0, i32); got.u != 1 {
		t.Errorf("1 || 0 = %d", got.u)
	}
}

func TestConstDivisionByZero(t *testing.T) {
	reset(t)
	err := fatally(func() {
		e := NewBinary(Div, lit(1, types.Signed(32)), lit(0, types.Signed(32)), lexer.Loc{})
		e.LoadConst()
	})
	if err == nil || !strings.Contains(err.Error(), "division by zero") {
		t.Errorf("division by zero error = %v", err)
	}
}

func TestUnaryConst(t *testing.T) {
	reset(t)
	i32 := types.Signed(32)
	neg := NewUnary(Minus, lit(7, i32), lexer.Loc{})
	if !neg.IsConst() || neg.LoadConst().SignedInt() != -7 {
		t.Errorf("-7 = %d", neg.LoadConst().SignedInt())
	}
	not := NewUnary(LogicalNot, lit(0, i32), lexer.Loc{})
	if !not.IsConst() || not.LoadConst().UnsignedInt() != 1 {
		t.Errorf("!0 = %d", not.LoadConst().UnsignedInt())
	}
}

func TestNotNullptr(t *testing.T) {
	reset(t)
	// null coerces to false, like any zero value
	e := NewUnary(LogicalNot, NewNullPtr(lexer.Loc{}), lexer.Loc{})
	if !e.IsConst() {
		t.Fatalf("!nullptr is not const")
	}
	if got := e.LoadConst().UnsignedInt(); got != 1 {
		t.Errorf("!nullptr = %d, want 1", got)
	}
}

func TestCastConst(t *testing.T) {
	reset(t)
	// sign extension through a widening cast of a negative constant
	c := newImplicitCast(lit(0xff, types.Signed(8)), types.Signed(32))
	if !c.IsConst() {
		t.Fatalf("cast of constant is not const")
	}
	if got := c.LoadConst().SignedInt(); got != -1 {
		t.Errorf("(i32)(i8)-1 = %d, want -1", got)
	}
	// truncation through a narrowing cast
	n := newImplicitCast(lit(0x1ff, types.Signed(32)), types.Unsigned(8))
	if got := n.LoadConst().UnsignedInt(); got != 0xff {
		t.Errorf("(u8)0x1ff = %#x, want 0xff", got)
	}
}
