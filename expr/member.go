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

	"github.com/abc-lang/abc/base/intern"
	"github.com/abc-lang/abc/gen"
	"github.com/abc-lang/abc/lexer"
)

// Member is the a.b struct member access. The a->b form arrives here with
// the record wrapped in an implicit dereference. A member of a const
// record is itself const.
type Member struct {
	exprBase
	record Expr
	field  *intern.Str
	index  int
}

// NewMember creates a member access. The record must be a complete struct
// that has the field.
func NewMember(record Expr, field *intern.Str, loc lexer.Loc) Expr {
	index, typ := promoteMember(record, field, &loc)
	return &Member{
		exprBase: exprBase{loc: loc, typ: typ},
		record:   record,
		field:    field,
		index:    index,
	}
}

func (e *Member) HasAddress() bool {
	return e.record.HasAddress()
}

func (e *Member) IsLValue() bool {
	return e.record.HasAddress() && !e.typ.HasConstFlag()
}

func (e *Member) IsConst() bool {
	return false
}

func (e *Member) LoadConst() *gen.Value {
	internal("member access is not a constant")
	return nil
}

func (e *Member) LoadValue() *gen.Value {
	if e.typ.IsArray() {
		return e.LoadAddress()
	}
	return gen.Fetch(e.LoadAddress(), e.typ)
}

func (e *Member) LoadAddress() *gen.Value {
	return gen.PtrMember(e.record.Type(), e.record.LoadAddress(), e.index)
}

func (e *Member) Branch(trueLabel, falseLabel *gen.Label) {
	branchOnValue(e, trueLabel, falseLabel)
}

func (e *Member) String() string {
	return fmt.Sprintf("%s.%s", e.record, e.field)
}

func (e *Member) print(w io.Writer, indent int) {
	printNode(w, indent, "member .%s: %s", e.field, e.typ)
	e.record.print(w, indent+2)
}
