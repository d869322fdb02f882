// SPDX-License-Identifier: MIT

// mangoverlay-gen emits MangoHud config files from the built-in
// schema: a fully commented reference config, a preset expansion, or
// the key schema as JSON for front-end consumption.
//
// Usage:
//
//	mangoverlay-gen                      # reference config, every key at its default
//	mangoverlay-gen -preset 3            # expansion of HUD preset 3
//	mangoverlay-gen -schema              # key schema as JSON
//	mangoverlay-gen -o MangoHud.conf     # write instead of stdout
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mangoverlay/mangoverlay/internal/mangohud"
)

var Version = "dev"

func main() {
	full := flag.Bool("full", false, "include default values in preset output")
	preset := flag.Int("preset", int(mangohud.PresetDefault), "expand a HUD preset (-1..4)")
	schema := flag.Bool("schema", false, "emit the key schema as JSON")
	output := flag.String("o", "", "output file (default stdout)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(Version)
		os.Exit(0)
	}

	var out []byte
	switch {
	case *schema:
		var err error
		out, err = json.MarshalIndent(schemaEntries(), "", "  ")
		if err != nil {
			fail(err)
		}
		out = append(out, '\n')

	case *preset != int(mangohud.PresetDefault):
		params, err := mangohud.PresetParams(mangohud.HudPreset(*preset))
		if err != nil {
			fail(err)
		}
		out = mangohud.MarshalWithOptions(params, mangohud.MarshalOptions{
			IncludeDefaults: *full,
			GroupHeaders:    true,
		})

	default:
		out = mangohud.MarshalWithOptions(mangohud.Defaults(), mangohud.MarshalOptions{
			IncludeDefaults: true,
			GroupHeaders:    true,
		})
	}

	if *output == "" {
		_, _ = os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(*output, out, 0o644); err != nil {
		fail(err)
	}
}

type schemaEntry struct {
	Key      string   `json:"key"`
	Group    string   `json:"group"`
	Kind     string   `json:"kind"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Enum     []string `json:"enum,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Requires []string `json:"requires,omitempty"`
	Restart  bool     `json:"restart,omitempty"`
}

func schemaEntries() []schemaEntry {
	specs := mangohud.Registry()
	out := make([]schemaEntry, 0, len(specs))
	for _, spec := range specs {
		e := schemaEntry{
			Key:      spec.Key,
			Group:    spec.Group,
			Kind:     string(spec.Kind),
			Enum:     spec.Enum,
			Unit:     spec.Unit,
			Requires: spec.Requires,
			Restart:  spec.Restart,
		}
		if spec.HasRange {
			lo, hi := spec.Min, spec.Max
			e.Min, e.Max = &lo, &hi
		}
		out = append(out, e)
	}
	return out
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
