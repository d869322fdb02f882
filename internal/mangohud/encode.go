// SPDX-License-Identifier: MIT

package mangohud

import (
	"bytes"
)

var groupTitles = map[string]string{
	GroupPerformance: "Performance",
	GroupVisual:      "Layout",
	GroupGPU:         "GPU",
	GroupCPU:         "CPU",
	GroupIO:          "IO",
	GroupMemory:      "Memory",
	GroupProcMem:     "Per-process memory",
	GroupBattery:     "Battery",
	GroupFPS:         "FPS",
	GroupMisc:        "Extra info rows",
	GroupMedia:       "Media player",
	GroupFont:        "Font",
	GroupAppearance:  "Appearance",
	GroupFCAT:        "FCAT",
	GroupColors:      "Colors",
	GroupDevice:      "Device selection",
	GroupWorkaround:  "OpenGL workarounds",
	GroupKeybinds:    "Keybinds",
	GroupLogging:     "Logging",
}

// MarshalOptions controls canonical serialization.
type MarshalOptions struct {
	// IncludeDefaults writes every key, even ones still at their default
	// value. The default is to write only deviations, which is what the
	// overlay's own sample configs look like.
	IncludeDefaults bool

	// GroupHeaders writes a comment line before each option group that
	// has at least one key.
	GroupHeaders bool
}

// Marshal serializes params canonically: registry order, one key per
// line, defaults omitted.
func Marshal(p Params) []byte {
	return MarshalWithOptions(p, MarshalOptions{GroupHeaders: true})
}

// MarshalWithOptions serializes params canonically with explicit options.
func MarshalWithOptions(p Params, opts MarshalOptions) []byte {
	defaults := Defaults()
	var buf bytes.Buffer
	lastGroup := ""
	wroteAny := false

	for _, spec := range Registry() {
		val, present := spec.encode(&p)
		if !present {
			continue
		}
		if !opts.IncludeDefaults {
			defVal, defPresent := spec.encode(&defaults)
			if defPresent && defVal == val {
				continue
			}
		}
		if opts.GroupHeaders && spec.Group != lastGroup {
			if wroteAny {
				buf.WriteByte('\n')
			}
			buf.WriteString("# " + groupTitles[spec.Group] + "\n")
			lastGroup = spec.Group
		}
		buf.WriteString(spec.Key + "=" + val + "\n")
		wroteAny = true
	}
	return buf.Bytes()
}

// MarshalDocument builds a fresh Document from params, canonical order,
// defaults omitted.
func MarshalDocument(p Params) *Document {
	doc, err := DecodeDocumentString(string(Marshal(p)))
	if err != nil {
		// A marshalled config always re-decodes; the scanner only fails on
		// reader errors, which strings.Reader never produces.
		panic(err)
	}
	return doc
}

// ApplyParams edits doc so that its effective parameters equal p, while
// disturbing as little of the file as possible: unchanged lines keep
// their original text, changed keys are rewritten in place, keys that
// newly deviate from the default are appended, and keys whose new value
// is absent (unset optionals) are removed.
func ApplyParams(doc *Document, p Params) {
	old, _ := doc.Params()
	defaults := Defaults()

	for _, spec := range Registry() {
		newVal, newPresent := spec.encode(&p)
		oldVal, oldPresent := spec.encode(&old)
		_, inDoc := doc.Get(spec.Key)

		switch {
		case !newPresent:
			if inDoc {
				doc.Unset(spec.Key)
			}
		case inDoc:
			// Same decoded value keeps the author's spelling (flag form,
			// "true", odd spacing); only a real change rewrites the line.
			if !oldPresent || oldVal != newVal {
				doc.Set(spec.Key, newVal)
			}
		default:
			defVal, defPresent := spec.encode(&defaults)
			if !defPresent || defVal != newVal {
				doc.Set(spec.Key, newVal)
			}
		}
	}
}
