// SPDX-License-Identifier: MIT

package mangohud

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// EntryKind classifies one line of a config document.
type EntryKind int

const (
	EntryBlank EntryKind = iota
	EntryComment
	EntryPair // key=value
	EntryFlag // bare key, read as key=1
)

// Entry is one line of a config document. Raw holds the original line
// text so untouched lines round-trip byte for byte; it is cleared when
// the entry is rewritten.
type Entry struct {
	Kind  EntryKind
	Key   string
	Value string
	Raw   string
	Line  int // 1-based line number in the source, 0 for appended entries
}

// Document is an ordered, lossless representation of a config file.
// Comments, blank lines, ordering, and unknown keys all survive a
// decode/encode round trip.
type Document struct {
	entries []Entry
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// DecodeDocument reads a config file into a Document. It never rejects
// unknown keys; syntactic and semantic problems surface later via
// Document.Params. Input may use CRLF line endings; output is LF.
func DecodeDocument(r io.Reader) (*Document, error) {
	doc := &Document{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSuffix(sc.Text(), "\r")
		trimmed := strings.TrimSpace(raw)

		switch {
		case trimmed == "":
			doc.entries = append(doc.entries, Entry{Kind: EntryBlank, Raw: raw, Line: line})
		case strings.HasPrefix(trimmed, "#"):
			doc.entries = append(doc.entries, Entry{Kind: EntryComment, Raw: raw, Line: line})
		default:
			key, value, found := strings.Cut(trimmed, "=")
			key = strings.TrimSpace(key)
			if found {
				doc.entries = append(doc.entries, Entry{
					Kind: EntryPair, Key: key, Value: strings.TrimSpace(value), Raw: raw, Line: line,
				})
			} else {
				doc.entries = append(doc.entries, Entry{Kind: EntryFlag, Key: key, Raw: raw, Line: line})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return doc, nil
}

// DecodeDocumentString is DecodeDocument over a string.
func DecodeDocumentString(s string) (*Document, error) {
	return DecodeDocument(strings.NewReader(s))
}

// Encode writes the document back out. Untouched lines are reproduced
// verbatim; rewritten and appended entries are formatted canonically.
func (d *Document) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range d.entries {
		line := e.Raw
		if line == "" {
			line = formatEntry(e)
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// String renders the document as it would be written to disk.
func (d *Document) String() string {
	var sb strings.Builder
	_ = d.Encode(&sb)
	return sb.String()
}

func formatEntry(e Entry) string {
	switch e.Kind {
	case EntryBlank:
		return ""
	case EntryComment:
		return e.Raw
	case EntryFlag:
		return e.Key
	default:
		return e.Key + "=" + e.Value
	}
}

// Entries returns a copy of the document's entries.
func (d *Document) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of lines in the document.
func (d *Document) Len() int {
	return len(d.entries)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{entries: d.Entries()}
}

// Get returns the effective value of a key: the last occurrence wins,
// and flag form reads as "1".
func (d *Document) Get(key string) (string, bool) {
	for i := len(d.entries) - 1; i >= 0; i-- {
		e := d.entries[i]
		if e.Key != key {
			continue
		}
		switch e.Kind {
		case EntryFlag:
			return "1", true
		case EntryPair:
			return e.Value, true
		}
	}
	return "", false
}

// Set updates the last occurrence of key in place, or appends a new pair
// at the end. The rewritten line loses any original spacing.
func (d *Document) Set(key, value string) {
	for i := len(d.entries) - 1; i >= 0; i-- {
		e := &d.entries[i]
		if e.Key != key || (e.Kind != EntryPair && e.Kind != EntryFlag) {
			continue
		}
		e.Kind = EntryPair
		e.Value = value
		e.Raw = ""
		return
	}
	d.entries = append(d.entries, Entry{Kind: EntryPair, Key: key, Value: value})
}

// Unset removes all occurrences of key.
func (d *Document) Unset(key string) bool {
	removed := false
	kept := d.entries[:0]
	for _, e := range d.entries {
		if (e.Kind == EntryPair || e.Kind == EntryFlag) && e.Key == key {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	d.entries = kept
	return removed
}

// Compact removes duplicate occurrences of a key, keeping only the last
// (the one MangoHud honors).
func (d *Document) Compact() {
	seen := make(map[string]struct{})
	kept := make([]Entry, 0, len(d.entries))
	for i := len(d.entries) - 1; i >= 0; i-- {
		e := d.entries[i]
		if e.Kind == EntryPair || e.Kind == EntryFlag {
			if _, dup := seen[e.Key]; dup {
				continue
			}
			seen[e.Key] = struct{}{}
		}
		kept = append(kept, e)
	}
	// kept is reversed
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	d.entries = kept
}

// Unknown returns the pair/flag entries whose keys are not in the
// registry, in file order.
func (d *Document) Unknown() []Entry {
	var out []Entry
	for _, e := range d.entries {
		if e.Kind != EntryPair && e.Kind != EntryFlag {
			continue
		}
		if _, ok := LookupKey(e.Key); !ok {
			out = append(out, e)
		}
	}
	return out
}

// Issue reports a problem with a single config line.
type Issue struct {
	Line    int    `json:"line,omitempty"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", i.Line, i.Key, i.Message)
	}
	if i.Key != "" {
		return i.Key + ": " + i.Message
	}
	return i.Message
}

// Params extracts typed parameters from the document, applied on top of
// the overlay defaults. Later occurrences of a key override earlier
// ones. Malformed values and misused flags are reported as issues and
// leave the prior (or default) value in place; unknown keys are not
// issues, they are preserved data.
func (d *Document) Params() (Params, []Issue) {
	p := Defaults()
	var issues []Issue

	for _, e := range d.entries {
		if e.Kind != EntryPair && e.Kind != EntryFlag {
			continue
		}
		spec, ok := LookupKey(e.Key)
		if !ok {
			continue
		}

		raw := e.Value
		if e.Kind == EntryFlag {
			if spec.Kind != KindBool {
				issues = append(issues, Issue{
					Line: e.Line, Key: e.Key,
					Message: fmt.Sprintf("key of kind %s requires a value", spec.Kind),
				})
				continue
			}
			raw = "1"
		}

		if err := spec.decode(&p, raw); err != nil {
			issues = append(issues, Issue{Line: e.Line, Key: e.Key, Message: err.Error()})
		}
	}
	return p, issues
}
