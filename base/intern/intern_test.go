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

package intern

import "testing"

func TestGetReturnsSamePointer(t *testing.T) {
	p := NewPool()
	a := p.Get("count")
	b := p.Get("count")
	if a != b {
		t.Errorf("Get(%q) returned distinct pointers %p and %p", "count", a, b)
	}
	if a.String() != "count" {
		t.Errorf("String() = %q, want %q", a.String(), "count")
	}
}

func TestGetDistinctContent(t *testing.T) {
	p := NewPool()
	a := p.Get("x")
	b := p.Get("y")
	if a == b {
		t.Errorf("Get(%q) and Get(%q) returned the same pointer", "x", "y")
	}
	if p.Size() != 2 {
		t.Errorf("Size() = %d, want 2", p.Size())
	}
}

func TestEmptyString(t *testing.T) {
	p := NewPool()
	s := p.Get("")
	if s != nil {
		t.Errorf("Get(\"\") = %v, want nil", s)
	}
	if s.String() != "" {
		t.Errorf("nil.String() = %q, want \"\"", s.String())
	}
}
