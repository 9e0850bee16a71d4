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
	"strconv"

	"github.com/abc-lang/abc/diag"
	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
	"github.com/abc-lang/abc/types"
)

// Literal is an integer, character, or enum constant.
type Literal struct {
	exprBase
	val   uint64
	radix int
}

var radixPrefix = map[int]string{2: "0b", 8: "0", 10: "", 16: "0x"}

// NewLiteral creates a literal from the spelling of an integer token. The
// spelling excludes the radix prefix. A nil type selects i64, or u64 when
// the value does not fit.
func NewLiteral(text string, radix int, typ *types.Type, loc lexer.Loc) Expr {
	val, err := strconv.ParseUint(text, radix, 64)
	if err != nil {
		diag.Fatalf(loc, "integer constant '%s%s' out of range", radixPrefix[radix], text)
	}
	if typ == nil {
		typ = types.Signed(64)
		if val > 1<<63-1 {
			typ = types.Unsigned(64)
		}
	}
	if bits := typ.NumBits(); bits > 0 && bits < 64 && val>>uint(bits) != 0 {
		diag.Warningf(loc, "integer constant '%s%s' truncated to '%s'",
			radixPrefix[radix], text, typ)
	}
	return NewIntLiteral(val, typ, loc)
}

// NewIntLiteral creates a literal from an already decoded value: character
// literals, sizeof results, and enum constant references.
func NewIntLiteral(val uint64, typ *types.Type, loc lexer.Loc) Expr {
	return &Literal{exprBase: exprBase{loc: loc, typ: typ}, val: val, radix: 10}
}

func (e *Literal) HasAddress() bool { return false }
func (e *Literal) IsLValue() bool   { return false }
func (e *Literal) IsConst() bool    { return true }

func (e *Literal) LoadConst() *gen.Value {
	return gen.IntConst(e.typ, e.val)
}

func (e *Literal) LoadValue() *gen.Value {
	return e.LoadConst()
}

func (e *Literal) LoadAddress() *gen.Value {
	internal("literal has no address")
	return nil
}

func (e *Literal) Branch(trueLabel, falseLabel *gen.Label) {
	branchOnValue(e, trueLabel, falseLabel)
}

func (e *Literal) String() string {
	if e.typ.IsSignedInteger() {
		return fmt.Sprintf("%d", e.LoadConst().SignedInt())
	}
	return fmt.Sprintf("%d", e.val)
}

func (e *Literal) print(w io.Writer, indent int) {
	printNode(w, indent, "literal %s: %s", e, e.typ)
}

// NullPtr is the nullptr constant.
type NullPtr struct {
	exprBase
}

// NewNullPtr creates the nullptr constant expression.
func NewNullPtr(loc lexer.Loc) Expr {
	return &NullPtr{exprBase{loc: loc, typ: types.NullPointer()}}
}

func (e *NullPtr) HasAddress() bool { return false }
func (e *NullPtr) IsLValue() bool   { return false }
func (e *NullPtr) IsConst() bool    { return true }

func (e *NullPtr) LoadConst() *gen.Value {
	return gen.Null(e.typ)
}

func (e *NullPtr) LoadValue() *gen.Value {
	return e.LoadConst()
}

func (e *NullPtr) LoadAddress() *gen.Value {
	internal("nullptr has no address")
	return nil
}

func (e *NullPtr) Branch(trueLabel, falseLabel *gen.Label) {
	gen.Jmp(falseLabel)
}

func (e *NullPtr) String() string {
	return "nullptr"
}

func (e *NullPtr) print(w io.Writer, indent int) {
	printNode(w, indent, "nullptr")
}
