// SPDX-License-Identifier: MIT

package mangohud

// Change describes one key whose value differs between two parameter
// sets. Values are in wire form; an empty value with Present=false means
// the key is unset on that side.
type Change struct {
	Key        string `json:"key"`
	Old        string `json:"old"`
	New        string `json:"new"`
	OldPresent bool   `json:"oldPresent"`
	NewPresent bool   `json:"newPresent"`
}

// ChangeSummary is the result of comparing two parameter sets.
type ChangeSummary struct {
	Changes []Change `json:"changes"`

	// HotApplicable is false when any changed key needs the observed
	// application restarted (the overlay re-reads everything else on its
	// reload keybind).
	HotApplicable bool `json:"hotApplicable"`
}

// Empty reports whether nothing changed.
func (s ChangeSummary) Empty() bool {
	return len(s.Changes) == 0
}

// Keys returns the changed key names in registry order.
func (s ChangeSummary) Keys() []string {
	out := make([]string, len(s.Changes))
	for i, c := range s.Changes {
		out[i] = c.Key
	}
	return out
}

// Diff compares two parameter sets key by key in wire form, so two
// values that serialize identically never count as a change.
func Diff(old, next Params) ChangeSummary {
	summary := ChangeSummary{HotApplicable: true}
	for _, spec := range Registry() {
		oldVal, oldPresent := spec.encode(&old)
		newVal, newPresent := spec.encode(&next)
		if oldPresent == newPresent && oldVal == newVal {
			continue
		}
		summary.Changes = append(summary.Changes, Change{
			Key: spec.Key,
			Old: oldVal, OldPresent: oldPresent,
			New: newVal, NewPresent: newPresent,
		})
		if spec.Restart {
			summary.HotApplicable = false
		}
	}
	return summary
}
