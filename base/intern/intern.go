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

// Package intern provides canonicalized strings.
//
// Every distinct spelling is stored at most once, so two interned strings
// with the same content are the same pointer and comparison is identity.
package intern

type (
	// Str is a canonicalized string. The zero value of *Str (nil) is the
	// empty interned string; Get and String treat it as "".
	Str struct {
		s string
	}

	// Pool canonicalizes strings.
	Pool struct {
		strs map[string]*Str
	}
)

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{strs: make(map[string]*Str)}
}

// Get returns the canonical *Str for s, creating it on first use.
func (p *Pool) Get(s string) *Str {
	if s == "" {
		return nil
	}
	if got, ok := p.strs[s]; ok {
		return got
	}
	str := &Str{s: s}
	p.strs[s] = str
	return str
}

// Size returns the number of distinct strings in the pool.
func (p *Pool) Size() int {
	return len(p.strs)
}

// String returns the spelling of the interned string.
func (s *Str) String() string {
	if s == nil {
		return ""
	}
	return s.s
}

var pool = NewPool()

// Get returns the canonical *Str for s from the process-wide pool.
func Get(s string) *Str {
	return pool.Get(s)
}
