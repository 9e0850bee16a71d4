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

// Color selects an ANSI rendering for diagnostic output.
type Color int

// Colors used by diagnostics.
const (
	Normal Color = iota
	Bold
	Red
	Blue
	BoldRed
	BoldBlue
)

var colorSeq = map[Color]string{
	Normal:   "\033[0m",
	Bold:     "\033[0m\033[1m",
	Red:      "\033[0;31m",
	Blue:     "\033[0;34m",
	BoldRed:  "\033[1;31m",
	BoldBlue: "\033[1;34m",
}

var colorEnabled = false

// EnableColor switches ANSI escape output on or off. Off by default so
// that captured diagnostics stay byte-comparable.
func EnableColor(on bool) {
	colorEnabled = on
}

// SetColor returns the escape sequence for a color, or the empty string
// when colors are disabled.
func SetColor(c Color) string {
	if !colorEnabled {
		return ""
	}
	return colorSeq[c]
}
