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

// Package uname provides unique names.
package uname

import "fmt"

// Unique generates unique names from hints. Used for IR labels and for
// the mangled internal identifiers of the symbol table.
type Unique struct {
	names map[string]int
}

// New returns a name generator.
func New() *Unique {
	return &Unique{names: make(map[string]int)}
}

// Name returns a unique name for a hint. The first request for a hint
// returns it unchanged; later requests append a dot-separated counter.
func (n *Unique) Name(hint string) string {
	next, ok := n.names[hint]
	if !ok {
		n.names[hint] = 1
		return hint
	}
	n.names[hint] = next + 1
	return fmt.Sprintf("%s.%d", hint, next)
}

// Reset forgets all generated names.
func (n *Unique) Reset() {
	n.names = make(map[string]int)
}
