// SPDX-License-Identifier: MIT

package mangohud

import (
	"fmt"
	"strings"
)

// Color is a 24-bit RGB value. MangoHud serializes colors as six hex
// digits without a leading '#' (e.g. "2E9762").
type Color struct {
	R, G, B uint8
}

// Default palette, matching the overlay's built-in colors.
var (
	White         = Color{0xFF, 0xFF, 0xFF}
	Black         = Color{0x00, 0x00, 0x00}
	AlmostBlack   = Color{0x02, 0x02, 0x02}
	DarkLimeGreen = Color{0x2E, 0x97, 0x62}
	Blue          = Color{0x2E, 0x97, 0xCB}
	LightMagenta  = Color{0xAD, 0x64, 0xC1}
	LightPink     = Color{0xC2, 0x66, 0x93}
	SoftRed       = Color{0xEB, 0x5B, 0x5B}
	LightViolet   = Color{0xA4, 0x91, 0xD3}
	LimeGreen     = Color{0x00, 0xFF, 0x00}
	LightRed      = Color{0xFF, 0x90, 0x78}
	DarkRed       = Color{0xB2, 0x22, 0x22}
	VividYellow   = Color{0xFD, 0xFD, 0x09}
	Green         = Color{0x39, 0xF9, 0x00}
)

// ParseColor parses a color from its config representation. A leading '#'
// is tolerated on input but never written back.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}
	var c Color
	if _, err := fmt.Sscanf(strings.ToUpper(s), "%02X%02X%02X", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// String returns the config representation of the color.
func (c Color) String() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// parseColorTriple parses "low,mid,high" color lists such as fps_color.
func parseColorTriple(s string) ([3]Color, error) {
	var out [3]Color
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("invalid color list %q: want 3 colors", s)
	}
	for i, p := range parts {
		c, err := ParseColor(p)
		if err != nil {
			return out, err
		}
		out[i] = c
	}
	return out, nil
}

func formatColorTriple(cs [3]Color) string {
	return cs[0].String() + "," + cs[1].String() + "," + cs[2].String()
}
