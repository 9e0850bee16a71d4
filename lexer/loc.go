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

package lexer

import "fmt"

type (
	// Pos is a line,column position in a source file. Both are 1-based.
	Pos struct {
		Line int
		Col  int
	}

	// Loc is the span of a token or expression in a source file.
	Loc struct {
		Path string
		From Pos
		To   Pos
	}
)

// String returns the position as line.col.
func (p Pos) String() string {
	return fmt.Sprintf("%d.%d", p.Line, p.Col)
}

// String returns the location as path:line:col.
func (l Loc) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Path, l.From.Line, l.From.Col)
}

// IsValid reports whether the location names a source position.
func (l Loc) IsValid() bool {
	return l.From.Line > 0
}

// Join returns the span covering both a and b.
func Join(a, b Loc) Loc {
	r := a
	if b.To.Line > r.To.Line || (b.To.Line == r.To.Line && b.To.Col > r.To.Col) {
		r.To = b.To
	}
	if !r.IsValid() {
		return b
	}
	return r
}
