// SPDX-License-Identifier: MIT

package mangohud

import (
	"fmt"
	"strings"
)

// Keybind is a chord of X11 keysym names, serialized as names joined with
// '+' (e.g. "Shift_R+F12"). Left and right modifiers are distinct keysyms,
// so no normalization between Shift_L and Shift_R takes place.
type Keybind struct {
	Keys []string
}

// ParseKeybind parses a '+'-joined keysym chord. Empty input yields an
// unbound Keybind.
func ParseKeybind(s string) (Keybind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Keybind{}, nil
	}
	parts := strings.Split(s, "+")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return Keybind{}, fmt.Errorf("invalid keybind %q: empty keysym", s)
		}
		if !validKeysym(p) {
			return Keybind{}, fmt.Errorf("invalid keybind %q: bad keysym %q", s, p)
		}
		keys = append(keys, p)
	}
	return Keybind{Keys: keys}, nil
}

// MustKeybind is a ParseKeybind that panics on error, for default tables.
func MustKeybind(s string) Keybind {
	kb, err := ParseKeybind(s)
	if err != nil {
		panic(err)
	}
	return kb
}

// IsBound reports whether the keybind has at least one key.
func (k Keybind) IsBound() bool {
	return len(k.Keys) > 0
}

// String returns the config representation of the chord.
func (k Keybind) String() string {
	return strings.Join(k.Keys, "+")
}

// Equal reports whether two keybinds are the same chord.
func (k Keybind) Equal(other Keybind) bool {
	if len(k.Keys) != len(other.Keys) {
		return false
	}
	for i := range k.Keys {
		if k.Keys[i] != other.Keys[i] {
			return false
		}
	}
	return true
}

// validKeysym accepts X11 keysym names: alphanumerics plus underscore.
// The full keysym table is owned by the display server; syntax is all we
// can check here.
func validKeysym(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return len(s) > 0
}
