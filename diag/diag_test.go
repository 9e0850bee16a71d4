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

package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/abc-lang/abc/lexer"
)

type fakeSource struct {
	path  string
	lines []string
}

func (s *fakeSource) Path() string { return s.path }

func (s *fakeSource) Line(n int) string {
	if n < 1 || n > len(s.lines) {
		return ""
	}
	return s.lines[n-1]
}

func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	Reset()
	var buf bytes.Buffer
	SetOutput(&buf)
	RegisterSource(&fakeSource{
		path:  "test.abc",
		lines: []string{"local c: const i32;", "c = 5;"},
	})
	return &buf
}

func loc(line, from, to int) lexer.Loc {
	return lexer.Loc{
		Path: "test.abc",
		From: lexer.Pos{Line: line, Col: from},
		To:   lexer.Pos{Line: line, Col: to},
	}
}

func TestErrorf(t *testing.T) {
	buf := setup(t)
	Errorf(loc(2, 1, 2), "assignment of read-only variable 'c'")

	out := buf.String()
	if !strings.Contains(out, "test.abc:2:1: error: assignment of read-only variable 'c'") {
		t.Errorf("missing diagnostic header in:\n%s", out)
	}
	if !strings.Contains(out, "c = 5;") {
		t.Errorf("missing source excerpt in:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret line in:\n%s", out)
	}
	if Err() == nil {
		t.Errorf("Errorf did not record an error")
	}
	if HasFatal() {
		t.Errorf("Errorf alone must not set the fatal flag")
	}
}

func TestCaretSpansToken(t *testing.T) {
	buf := setup(t)
	Errorf(loc(1, 10, 15), "bad token")

	var caret string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasSuffix(line, "^") {
			caret = line
		}
	}
	want := strings.Repeat(" ", 9) + "^^^^^"
	if caret != want {
		t.Errorf("caret line = %q, want %q", caret, want)
	}
}

func TestFatalfUnwinds(t *testing.T) {
	setup(t)
	err := func() (err error) {
		defer Recover(&err)
		Fatalf(loc(2, 1, 2), "assignment of read-only variable 'c'")
		t.Errorf("Fatalf returned")
		return nil
	}()
	if err == nil || !strings.Contains(err.Error(), "read-only variable") {
		t.Errorf("Recover error = %v", err)
	}
	if !HasFatal() {
		t.Errorf("fatal flag not set")
	}
}

func TestRecoverPassesOtherPanics(t *testing.T) {
	setup(t)
	defer func() {
		if recover() == nil {
			t.Errorf("foreign panic was swallowed")
		}
	}()
	var err error
	defer Recover(&err)
	panic("unrelated")
}

func TestWarningsAccumulate(t *testing.T) {
	buf := setup(t)
	Warningf(loc(1, 1, 2), "first")
	Warningf(loc(2, 1, 2), "second")

	out := buf.String()
	if !strings.Contains(out, "warning: first") || !strings.Contains(out, "warning: second") {
		t.Errorf("missing warnings in:\n%s", out)
	}
	if HasFatal() {
		t.Errorf("warnings must not be fatal")
	}
	errs := Err().Error()
	if !strings.Contains(errs, "first") || !strings.Contains(errs, "second") {
		t.Errorf("aggregated error lost a warning: %s", errs)
	}
}

func TestTabExpansion(t *testing.T) {
	Reset()
	var buf bytes.Buffer
	SetOutput(&buf)
	RegisterSource(&fakeSource{path: "tabs.abc", lines: []string{"\tx = 1;"}})

	Errorf(lexer.Loc{
		Path: "tabs.abc",
		From: lexer.Pos{Line: 1, Col: 2},
		To:   lexer.Pos{Line: 1, Col: 3},
	}, "bad")
	if strings.Contains(buf.String(), "\t") {
		t.Errorf("tab not expanded in excerpt:\n%s", buf.String())
	}
}
