// SPDX-License-Identifier: MIT

// mangoverlay-validate is a CLI tool to validate MangoHud config files.
//
// Usage:
//
//	mangoverlay-validate -f MangoHud.conf
//	mangoverlay-validate --file MangoHud.conf
//
// Exit codes:
//   - 0: Config is valid (warnings may still be printed)
//   - 1: Config has errors
//   - 2: Usage error (missing required flag)
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mangoverlay/mangoverlay/internal/mangohud"
)

var Version = "dev"

func main() {
	var file string
	var showVersion bool
	var strict bool

	flag.StringVar(&file, "file", "", "path to MangoHud config file")
	flag.StringVar(&file, "f", "", "path to MangoHud config file (shorthand)")
	flag.BoolVar(&strict, "strict", false, "treat warnings and unknown keys as errors")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(Version)
		os.Exit(0)
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  mangoverlay-validate -f MangoHud.conf")
		fmt.Fprintln(os.Stderr, "  mangoverlay-validate --file MangoHud.conf")
		os.Exit(2)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", file, err)
		os.Exit(1)
	}

	doc, err := mangohud.DecodeDocumentString(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error in %s:\n  %v\n", file, err)
		os.Exit(1)
	}

	params, issues := doc.Params()
	warnings, vErr := mangohud.Validate(params)

	failed := vErr != nil || len(issues) > 0
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "error: %s\n", issue)
	}
	if vErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", vErr)
	}
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	for _, e := range doc.Unknown() {
		fmt.Fprintf(os.Stderr, "warning: line %d: unknown key %q\n", e.Line, e.Key)
	}

	if strict && (len(warnings) > 0 || len(doc.Unknown()) > 0) {
		failed = true
	}
	if failed {
		os.Exit(1)
	}

	fmt.Printf("✓ %s is valid\n", file)
}
