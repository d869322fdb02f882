// SPDX-License-Identifier: MIT

package mangohud

import "fmt"

// PresetInfo describes a built-in layout preset for UI listings.
type PresetInfo struct {
	ID          HudPreset `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// Presets lists the built-in layout presets.
func Presets() []PresetInfo {
	return []PresetInfo{
		{PresetDefault, "default", "No preset; individual keys control the layout"},
		{PresetOff, "off", "Overlay hidden"},
		{PresetFpsOnly, "fps-only", "A single FPS readout"},
		{PresetHorizontal, "horizontal", "Compact horizontal bar with core stats"},
		{PresetExtended, "extended", "Default vertical layout with extended stats"},
		{PresetDetailed, "detailed", "Everything: clocks, temps, memory, frame timing"},
	}
}

// PresetParams returns the parameter set a preset expands to, on top of
// the defaults. The expansions mirror the overlay's built-in presets so
// editing "what preset 3 shows" and saving produces the same HUD without
// the preset key.
func PresetParams(id HudPreset) (Params, error) {
	p := Defaults()
	p.Preset = id

	switch id {
	case PresetDefault:
		// Defaults as-is.

	case PresetOff:
		p.NoDisplay = true

	case PresetFpsOnly:
		p.LegacyLayout = false
		p.GpuStats = false
		p.CpuStats = false
		p.Frametime = false
		p.FrameTiming = false

	case PresetHorizontal:
		p.LegacyLayout = false
		p.Horizontal = true
		p.HudCompact = true
		p.Ram = true
		p.Vram = true
		p.FrameTiming = false

	case PresetExtended:
		p.LegacyLayout = false
		p.GpuTemp = true
		p.CpuTemp = true
		p.Ram = true
		p.Vram = true
		p.EngineVersion = true
		p.GpuName = true
		p.Wine = true

	case PresetDetailed:
		p.LegacyLayout = false
		p.GpuTemp = true
		p.GpuCoreClock = true
		p.GpuPower = true
		p.CpuTemp = true
		p.CpuPower = true
		p.CpuMhz = true
		p.CoreLoad = true
		p.Ram = true
		p.Vram = true
		p.GpuMemClock = true
		p.IORead = true
		p.IOWrite = true
		p.ProcMem = true
		p.EngineVersion = true
		p.GpuName = true
		p.VulkanDriver = true
		p.Wine = true
		p.Gamemode = true
		p.Vkbasalt = true
		p.Resolution = true
		p.Arch = true
		p.FrameCount = true
		p.Battery = true
		p.MediaPlayer = true

	default:
		return Params{}, fmt.Errorf("unknown preset %d", id)
	}
	return p, nil
}
