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

// Package diag is the diagnostics sink of the front-end.
//
// Every diagnostic has the form <file>:<line>:<col>: <severity>: <message>
// followed by a caret-highlighted excerpt of the offending source. Errors
// are fatal: after the current diagnostic group the front-end stops via
// Fatal, which unwinds to the nearest Recover. Warnings accumulate but do
// not stop the run.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/abc-lang/abc/lexer"
)

// LineSource provides the content of a 1-based source line for caret
// rendering. *lexer.Lexer implements it.
type LineSource interface {
	Path() string
	Line(n int) string
}

type sink struct {
	out     io.Writer
	sources map[string]LineSource
	errs    error
	fatal   bool
}

var state = &sink{
	out:     os.Stderr,
	sources: make(map[string]LineSource),
}

// Reset clears all collected diagnostics and registered sources.
func Reset() {
	state = &sink{
		out:     os.Stderr,
		sources: make(map[string]LineSource),
	}
}

// SetOutput redirects diagnostic output, mostly for tests.
func SetOutput(w io.Writer) {
	state.out = w
}

// RegisterSource makes a source buffer available for caret rendering.
func RegisterSource(src LineSource) {
	state.sources[src.Path()] = src
}

// Out returns the diagnostic output stream, indented by indent spaces.
func Out(indent int) io.Writer {
	if indent > 0 {
		fmt.Fprintf(state.out, "%*s", indent, " ")
	}
	return state.out
}

// Err returns every diagnostic of the run aggregated into one error,
// or nil if none was reported.
func Err() error {
	return state.errs
}

// HasFatal reports whether a fatal diagnostic was emitted.
func HasFatal() bool {
	return state.fatal
}

// Bailout is the panic value used by Fatal to unwind out of the
// front-end. Recover converts it back into an error.
type Bailout struct{}

// Fatal marks the translation as failed and unwinds to the nearest
// Recover. It must only be called after the diagnostic has been printed.
func Fatal() {
	state.fatal = true
	panic(Bailout{})
}

// Recover converts a Bailout panic into the aggregated diagnostics error.
// Use as: defer diag.Recover(&err)
func Recover(errp *error) {
	switch r := recover(); r.(type) {
	case nil:
	case Bailout:
		*errp = Err()
		if *errp == nil {
			*errp = errors.New("fatal diagnostic")
		}
	default:
		panic(r)
	}
}

// Errorf prints a positional error diagnostic and records it.
// It does not call Fatal; semantic error paths do that once the
// diagnostic group is complete.
func Errorf(loc lexer.Loc, format string, args ...any) {
	report(loc, "error", BoldRed, format, args...)
}

// Warningf prints a positional warning diagnostic and records it.
func Warningf(loc lexer.Loc, format string, args ...any) {
	report(loc, "warning", BoldBlue, format, args...)
}

// Fatalf prints a positional error diagnostic and stops the front-end.
func Fatalf(loc lexer.Loc, format string, args ...any) {
	Errorf(loc, format, args...)
	Fatal()
}

func report(loc lexer.Loc, severity string, col Color, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(state.out, "%s%s: %s%s: %s%s\n",
		SetColor(Bold), loc, SetColor(col), severity,
		SetColor(Bold), msg)
	Location(loc)
	fmt.Fprint(state.out, SetColor(Normal))
	state.errs = multierr.Append(state.errs,
		errors.Errorf("%s: %s: %s", loc, severity, msg))
}

const tabSize = 8

func expandTabs(s string) string {
	var sb strings.Builder
	pos := 0
	for _, c := range s {
		if c == '\t' {
			n := tabSize - pos%tabSize
			sb.WriteString(strings.Repeat(" ", n))
			pos += n
			continue
		}
		sb.WriteRune(c)
		pos++
	}
	return sb.String()
}

// Location prints the source lines spanned by loc with a caret line
// underneath each. Without a registered source the excerpt is omitted.
func Location(loc lexer.Loc) {
	src, ok := state.sources[loc.Path]
	if !ok {
		return
	}
	for line := loc.From.Line; line <= loc.To.Line; line++ {
		text := expandTabs(src.Line(line))
		fmt.Fprintln(state.out, text)
		fromCol := 1 + strings.IndexFunc(text, func(r rune) bool { return r != ' ' })
		if line == loc.From.Line {
			fromCol = loc.From.Col
		}
		toCol := len(text)
		if line == loc.To.Line {
			toCol = loc.To.Col - 1
		}
		var sb strings.Builder
		for i := 1; i <= toCol; i++ {
			if i < fromCol {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte('^')
			}
		}
		fmt.Fprintln(state.out, sb.String())
	}
}
