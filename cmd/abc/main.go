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

// Command abc compiles ABC source files to the front-end IR and dumps
// the result. It stops at the first file with a fatal diagnostic.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/abc-lang/abc/diag"
	"github.com/abc-lang/abc/parser"
)

var (
	dumpIR = flag.Bool("dump_ir", true, "dump the IR of each compiled file")
	color  = flag.Bool("color", false, "colorize diagnostics")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: abc [flags] file.abc...")
		os.Exit(2)
	}
	diag.EnableColor(*color)
	for _, path := range flag.Args() {
		if err := compile(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func compile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	mod, err := parser.Parse(path, string(src))
	if err != nil {
		return err
	}
	if *dumpIR {
		fmt.Print(mod)
	}
	return nil
}
