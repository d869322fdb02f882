// SPDX-License-Identifier: MIT

package mangohud

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Kind classifies the value grammar of a config key.
type Kind string

const (
	KindBool        Kind = "bool"
	KindInt         Kind = "int"
	KindUint        Kind = "uint"
	KindFloat       Kind = "float"
	KindString      Kind = "string"
	KindPath        Kind = "path"
	KindColor       Kind = "color"
	KindColorTriple Kind = "color_triple"
	KindUintPair    Kind = "uint_pair"
	KindUintList    Kind = "uint_list"
	KindStringList  Kind = "string_list"
	KindDuration    Kind = "duration"
	KindEnum        Kind = "enum"
	KindPosition    Kind = "position"
	KindKeybind     Kind = "keybind"
)

// Option groups, in canonical file order.
const (
	GroupPerformance = "performance"
	GroupVisual      = "visual"
	GroupGPU         = "gpu"
	GroupCPU         = "cpu"
	GroupIO          = "io"
	GroupMemory      = "memory"
	GroupProcMem     = "procmem"
	GroupBattery     = "battery"
	GroupFPS         = "fps"
	GroupMisc        = "misc"
	GroupMedia       = "media"
	GroupFont        = "font"
	GroupAppearance  = "appearance"
	GroupFCAT        = "fcat"
	GroupColors      = "colors"
	GroupDevice      = "device"
	GroupWorkaround  = "workaround"
	GroupKeybinds    = "keybinds"
	GroupLogging     = "logging"
)

// Spec describes one known config key: its grammar, constraints, and how
// it binds to Params. The decode/encode closures are the single source of
// truth for the key's wire form; document decoding, canonical encoding,
// validation and diffing all go through them.
type Spec struct {
	Key      string
	Group    string
	Kind     Kind
	Min, Max float64 // numeric bounds, valid when HasRange
	HasRange bool
	Enum     []string // allowed values for KindEnum
	Unit     string   // duration unit on the wire: "ms" or "s"
	Requires []string // keys that must also be enabled for effect
	Restart  bool     // true if the running application must restart to pick this up

	decode func(*Params, string) error
	encode func(*Params) (string, bool)
}

// Check reports whether raw is a valid wire value for this key. It
// decodes into a scratch Params, so no shared state is touched.
func (s *Spec) Check(raw string) error {
	scratch := Defaults()
	return s.decode(&scratch, raw)
}

type specOpt func(*Spec)

func ranged(min, max float64) specOpt {
	return func(s *Spec) { s.Min, s.Max, s.HasRange = min, max, true }
}

func requires(keys ...string) specOpt {
	return func(s *Spec) { s.Requires = keys }
}

func restart() specOpt {
	return func(s *Spec) { s.Restart = true }
}

func apply(s Spec, opts []specOpt) Spec {
	for _, o := range opts {
		o(&s)
	}
	return s
}

func boolKey(key, group string, f func(*Params) *bool, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: group, Kind: KindBool,
		decode: func(p *Params, raw string) error {
			v, err := parseBool01(key, raw)
			if err != nil {
				return err
			}
			*f(p) = v
			return nil
		},
		encode: func(p *Params) (string, bool) {
			if *f(p) {
				return "1", true
			}
			return "0", true
		},
	}, opts)
}

func stringKey(key, group string, kind Kind, f func(*Params) *string, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: group, Kind: kind,
		decode: func(p *Params, raw string) error {
			*f(p) = raw
			return nil
		},
		encode: func(p *Params) (string, bool) {
			return *f(p), true
		},
	}, opts)
}

func floatKey(key, group string, f func(*Params) *float64, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: group, Kind: KindFloat,
		decode: func(p *Params, raw string) error {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, raw, err)
			}
			*f(p) = v
			return nil
		},
		encode: func(p *Params) (string, bool) {
			return formatFloat(*f(p)), true
		},
	}, opts)
}

func optIntKey(key, group string, f func(*Params) **int, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: group, Kind: KindInt,
		decode: func(p *Params, raw string) error {
			v, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, raw, err)
			}
			*f(p) = &v
			return nil
		},
		encode: func(p *Params) (string, bool) {
			ptr := *f(p)
			if ptr == nil {
				return "", false
			}
			return strconv.Itoa(*ptr), true
		},
	}, opts)
}

func uint8Key(key, group string, f func(*Params) *uint8, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: group, Kind: KindUint,
		decode: func(p *Params, raw string) error {
			v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 8)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, raw, err)
			}
			*f(p) = uint8(v)
			return nil
		},
		encode: func(p *Params) (string, bool) {
			return strconv.FormatUint(uint64(*f(p)), 10), true
		},
	}, opts)
}

func uint16Key(key, group string, f func(*Params) *uint16, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: group, Kind: KindUint,
		decode: func(p *Params, raw string) error {
			v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 16)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, raw, err)
			}
			*f(p) = uint16(v)
			return nil
		},
		encode: func(p *Params) (string, bool) {
			return strconv.FormatUint(uint64(*f(p)), 10), true
		},
	}, opts)
}

func uintPairKey(key, group string, f func(*Params) *[2]uint8, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: group, Kind: KindUintPair,
		decode: func(p *Params, raw string) error {
			parts := strings.Split(raw, ",")
			if len(parts) != 2 {
				return fmt.Errorf("invalid %s %q: want two values", key, raw)
			}
			var pair [2]uint8
			for i, part := range parts {
				v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
				if err != nil {
					return fmt.Errorf("invalid %s %q: %w", key, raw, err)
				}
				pair[i] = uint8(v)
			}
			*f(p) = pair
			return nil
		},
		encode: func(p *Params) (string, bool) {
			pair := *f(p)
			return fmt.Sprintf("%d,%d", pair[0], pair[1]), true
		},
	}, opts)
}

func colorKey(key, group string, f func(*Params) *Color, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: group, Kind: KindColor,
		decode: func(p *Params, raw string) error {
			c, err := ParseColor(raw)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*f(p) = c
			return nil
		},
		encode: func(p *Params) (string, bool) {
			return f(p).String(), true
		},
	}, opts)
}

func colorTripleKey(key, group string, f func(*Params) *[3]Color, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: group, Kind: KindColorTriple,
		decode: func(p *Params, raw string) error {
			cs, err := parseColorTriple(raw)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*f(p) = cs
			return nil
		},
		encode: func(p *Params) (string, bool) {
			return formatColorTriple(*f(p)), true
		},
	}, opts)
}

func stringListKey(key, group string, f func(*Params) *[]string, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: group, Kind: KindStringList,
		decode: func(p *Params, raw string) error {
			*f(p) = splitList(raw)
			return nil
		},
		encode: func(p *Params) (string, bool) {
			list := *f(p)
			if len(list) == 0 {
				return "", false
			}
			return strings.Join(list, ","), true
		},
	}, opts)
}

// durationKey serializes a duration as an integer count of Unit on the wire.
func durationKey(key, group, unit string, f func(*Params) *time.Duration, opts ...specOpt) Spec {
	var scale time.Duration
	switch unit {
	case "ms":
		scale = time.Millisecond
	case "s":
		scale = time.Second
	default:
		panic("unsupported duration unit: " + unit)
	}
	s := apply(Spec{
		Key: key, Group: group, Kind: KindDuration, Unit: unit,
		decode: func(p *Params, raw string) error {
			v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil || v < 0 {
				return fmt.Errorf("invalid %s %q: want a non-negative integer (%s)", key, raw, unit)
			}
			*f(p) = time.Duration(v) * scale
			return nil
		},
		encode: func(p *Params) (string, bool) {
			return strconv.FormatInt(int64(*f(p)/scale), 10), true
		},
	}, opts)
	return s
}

func keybindKey(key string, f func(*Params) *Keybind, opts ...specOpt) Spec {
	return apply(Spec{
		Key: key, Group: GroupKeybinds, Kind: KindKeybind,
		decode: func(p *Params, raw string) error {
			kb, err := ParseKeybind(raw)
			if err != nil {
				return err
			}
			*f(p) = kb
			return nil
		},
		encode: func(p *Params) (string, bool) {
			kb := *f(p)
			if !kb.IsBound() {
				return "", false
			}
			return kb.String(), true
		},
	}, opts)
}

var (
	registryOnce  sync.Once
	registry      []Spec
	registryByKey map[string]*Spec
)

// Registry returns all known key specs in canonical file order.
func Registry() []Spec {
	buildRegistry()
	return registry
}

// LookupKey returns the spec for a config key, if known.
func LookupKey(key string) (*Spec, bool) {
	buildRegistry()
	s, ok := registryByKey[key]
	return s, ok
}

func buildRegistry() {
	registryOnce.Do(func() {
		registry = buildSpecs()
		registryByKey = make(map[string]*Spec, len(registry))
		for i := range registry {
			registryByKey[registry[i].Key] = &registry[i]
		}
	})
}

func buildSpecs() []Spec {
	return []Spec{
		// Performance
		{
			Key: "fps_limit", Group: GroupPerformance, Kind: KindUintList,
			decode: func(p *Params, raw string) error {
				var out []uint16
				for _, part := range splitList(raw) {
					v, err := strconv.ParseUint(part, 10, 16)
					if err != nil {
						return fmt.Errorf("invalid fps_limit %q: %w", raw, err)
					}
					out = append(out, uint16(v))
				}
				if len(out) == 0 {
					return fmt.Errorf("invalid fps_limit %q: empty list", raw)
				}
				p.FpsLimit = out
				return nil
			},
			encode: func(p *Params) (string, bool) {
				if len(p.FpsLimit) == 0 {
					return "", false
				}
				parts := make([]string, len(p.FpsLimit))
				for i, v := range p.FpsLimit {
					parts[i] = strconv.FormatUint(uint64(v), 10)
				}
				return strings.Join(parts, ","), true
			},
		},
		{
			Key: "fps_limit_method", Group: GroupPerformance, Kind: KindEnum,
			Enum: []string{"early", "late"},
			decode: func(p *Params, raw string) error {
				m, err := ParseFpsLimitMethod(strings.TrimSpace(raw))
				if err != nil {
					return err
				}
				p.FpsLimitMethod = m
				return nil
			},
			encode: func(p *Params) (string, bool) {
				return string(p.FpsLimitMethod), true
			},
		},
		{
			Key: "vsync", Group: GroupPerformance, Kind: KindEnum,
			Enum: []string{"0", "1", "2", "3"},
			decode: func(p *Params, raw string) error {
				v, err := strconv.Atoi(strings.TrimSpace(raw))
				if err != nil || v < 0 || v > 3 {
					return fmt.Errorf("invalid vsync %q: want 0..3", raw)
				}
				vs := VSync(v)
				p.VSync = &vs
				return nil
			},
			encode: func(p *Params) (string, bool) {
				if p.VSync == nil {
					return "", false
				}
				return strconv.Itoa(int(*p.VSync)), true
			},
		},
		optIntKey("gl_vsync", GroupPerformance, func(p *Params) **int { return &p.GLVSync }),
		optIntKey("picmip", GroupPerformance, func(p *Params) **int { return &p.Picmip }, ranged(-16, 16)),
		optIntKey("af", GroupPerformance, func(p *Params) **int { return &p.AF }, ranged(0, 16)),
		boolKey("bicubic", GroupPerformance, func(p *Params) *bool { return &p.Bicubic }),
		boolKey("trilinear", GroupPerformance, func(p *Params) *bool { return &p.Trilinear }),
		boolKey("retro", GroupPerformance, func(p *Params) *bool { return &p.Retro }),

		// Core visual
		boolKey("legacy_layout", GroupVisual, func(p *Params) *bool { return &p.LegacyLayout }),
		{
			Key: "preset", Group: GroupVisual, Kind: KindEnum,
			Enum: []string{"-1", "0", "1", "2", "3", "4"},
			decode: func(p *Params, raw string) error {
				v, err := strconv.Atoi(strings.TrimSpace(raw))
				if err != nil || v < int(PresetDefault) || v > int(PresetDetailed) {
					return fmt.Errorf("invalid preset %q: want -1..4", raw)
				}
				p.Preset = HudPreset(v)
				return nil
			},
			encode: func(p *Params) (string, bool) {
				return strconv.Itoa(int(p.Preset)), true
			},
		},
		boolKey("histogram", GroupVisual, func(p *Params) *bool { return &p.Histogram }),
		stringKey("custom_text_center", GroupVisual, KindString, func(p *Params) *string { return &p.CustomTextCenter }),
		boolKey("time", GroupVisual, func(p *Params) *bool { return &p.Time }),
		stringKey("time_format", GroupVisual, KindString, func(p *Params) *string { return &p.TimeFormat }),
		boolKey("version", GroupVisual, func(p *Params) *bool { return &p.Version }),

		// GPU
		boolKey("gpu_stats", GroupGPU, func(p *Params) *bool { return &p.GpuStats }),
		boolKey("gpu_temp", GroupGPU, func(p *Params) *bool { return &p.GpuTemp }),
		boolKey("gpu_junction_temp", GroupGPU, func(p *Params) *bool { return &p.GpuJunctionTemp }),
		boolKey("gpu_core_clock", GroupGPU, func(p *Params) *bool { return &p.GpuCoreClock }),
		boolKey("gpu_mem_temp", GroupGPU, func(p *Params) *bool { return &p.GpuMemTemp }, requires("vram")),
		boolKey("gpu_mem_clock", GroupGPU, func(p *Params) *bool { return &p.GpuMemClock }, requires("vram")),
		boolKey("gpu_power", GroupGPU, func(p *Params) *bool { return &p.GpuPower }),
		stringKey("gpu_text", GroupGPU, KindString, func(p *Params) *string { return &p.GpuText }),
		boolKey("gpu_load_change", GroupGPU, func(p *Params) *bool { return &p.GpuLoadChange }),
		uintPairKey("gpu_load_value", GroupGPU, func(p *Params) *[2]uint8 { return &p.GpuLoadValue }),
		colorTripleKey("gpu_load_color", GroupGPU, func(p *Params) *[3]Color { return &p.GpuLoadColor }),

		// CPU
		boolKey("cpu_stats", GroupCPU, func(p *Params) *bool { return &p.CpuStats }),
		boolKey("cpu_temp", GroupCPU, func(p *Params) *bool { return &p.CpuTemp }),
		boolKey("cpu_power", GroupCPU, func(p *Params) *bool { return &p.CpuPower }),
		stringKey("cpu_text", GroupCPU, KindString, func(p *Params) *string { return &p.CpuText }),
		boolKey("cpu_mhz", GroupCPU, func(p *Params) *bool { return &p.CpuMhz }),
		boolKey("cpu_load_change", GroupCPU, func(p *Params) *bool { return &p.CpuLoadChange }),
		uintPairKey("cpu_load_value", GroupCPU, func(p *Params) *[2]uint8 { return &p.CpuLoadValue }),
		colorTripleKey("cpu_load_color", GroupCPU, func(p *Params) *[3]Color { return &p.CpuLoadColor }),
		boolKey("core_load", GroupCPU, func(p *Params) *bool { return &p.CoreLoad }),
		boolKey("core_load_change", GroupCPU, func(p *Params) *bool { return &p.CoreLoadChange }),

		// IO
		boolKey("io_read", GroupIO, func(p *Params) *bool { return &p.IORead }),
		boolKey("io_write", GroupIO, func(p *Params) *bool { return &p.IOWrite }),

		// Memory
		boolKey("vram", GroupMemory, func(p *Params) *bool { return &p.Vram }),
		boolKey("ram", GroupMemory, func(p *Params) *bool { return &p.Ram }),
		boolKey("swap", GroupMemory, func(p *Params) *bool { return &p.Swap }),

		// Per-process memory
		boolKey("procmem", GroupProcMem, func(p *Params) *bool { return &p.ProcMem }),
		boolKey("procmem_shared", GroupProcMem, func(p *Params) *bool { return &p.ProcMemShared }, requires("procmem")),
		boolKey("procmem_virt", GroupProcMem, func(p *Params) *bool { return &p.ProcMemVirtual }, requires("procmem")),

		// Battery
		boolKey("battery", GroupBattery, func(p *Params) *bool { return &p.Battery }),
		boolKey("battery_icon", GroupBattery, func(p *Params) *bool { return &p.BatteryIcon }, requires("battery")),
		boolKey("gamepad_battery", GroupBattery, func(p *Params) *bool { return &p.GamepadBattery }),
		boolKey("gamepad_battery_icon", GroupBattery, func(p *Params) *bool { return &p.GamepadBatteryIcon }, requires("gamepad_battery")),

		// FPS
		boolKey("fps", GroupFPS, func(p *Params) *bool { return &p.Fps }),
		durationKey("fps_sampling_period", GroupFPS, "ms", func(p *Params) *time.Duration { return &p.FpsSamplingPeriod }),
		boolKey("fps_color_change", GroupFPS, func(p *Params) *bool { return &p.FpsColorChange }),
		uintPairKey("fps_value", GroupFPS, func(p *Params) *[2]uint8 { return &p.FpsValue }),
		colorTripleKey("fps_color", GroupFPS, func(p *Params) *[3]Color { return &p.FpsColor }),
		boolKey("frametime", GroupFPS, func(p *Params) *bool { return &p.Frametime }),
		boolKey("frame_timing", GroupFPS, func(p *Params) *bool { return &p.FrameTiming }),
		boolKey("frame_count", GroupFPS, func(p *Params) *bool { return &p.FrameCount }),
		boolKey("show_fps_limit", GroupFPS, func(p *Params) *bool { return &p.ShowFpsLimit }),

		// Misc info rows
		boolKey("throttling_status", GroupMisc, func(p *Params) *bool { return &p.ThrottlingStatus }),
		boolKey("engine_version", GroupMisc, func(p *Params) *bool { return &p.EngineVersion }),
		boolKey("gpu_name", GroupMisc, func(p *Params) *bool { return &p.GpuName }),
		boolKey("vulkan_driver", GroupMisc, func(p *Params) *bool { return &p.VulkanDriver }),
		boolKey("wine", GroupMisc, func(p *Params) *bool { return &p.Wine }),
		boolKey("exec_name", GroupMisc, func(p *Params) *bool { return &p.ExecName }),
		boolKey("arch", GroupMisc, func(p *Params) *bool { return &p.Arch }),
		boolKey("gamemode", GroupMisc, func(p *Params) *bool { return &p.Gamemode }),
		boolKey("vkbasalt", GroupMisc, func(p *Params) *bool { return &p.Vkbasalt }),
		boolKey("resolution", GroupMisc, func(p *Params) *bool { return &p.Resolution }),
		stringKey("custom_text", GroupMisc, KindString, func(p *Params) *string { return &p.CustomText }),
		stringKey("exec", GroupMisc, KindString, func(p *Params) *string { return &p.Exec }),

		// Media player
		boolKey("media_player", GroupMedia, func(p *Params) *bool { return &p.MediaPlayer }),
		stringKey("media_player_name", GroupMedia, KindString, func(p *Params) *string { return &p.MediaPlayerName }),
		stringKey("media_player_format", GroupMedia, KindString, func(p *Params) *string { return &p.MediaPlayerFormat }),

		// Font
		floatKey("font_size", GroupFont, func(p *Params) *float64 { return &p.FontSize }, ranged(1, 512)),
		floatKey("font_scale", GroupFont, func(p *Params) *float64 { return &p.FontScale }, ranged(0, 16)),
		floatKey("font_size_text", GroupFont, func(p *Params) *float64 { return &p.FontSizeText }, ranged(1, 512)),
		floatKey("font_scale_media_player", GroupFont, func(p *Params) *float64 { return &p.FontScaleMediaPlayer }, ranged(0, 16)),
		boolKey("no_small_font", GroupFont, func(p *Params) *bool { return &p.NoSmallFont }),
		stringKey("font_file", GroupFont, KindPath, func(p *Params) *string { return &p.FontFile }),
		stringKey("font_file_text", GroupFont, KindPath, func(p *Params) *string { return &p.FontFileText }),
		stringListKey("font_glyph_ranges", GroupFont, func(p *Params) *[]string { return &p.FontGlyphRanges }),
		boolKey("text_outline", GroupFont, func(p *Params) *bool { return &p.TextOutline }),
		floatKey("text_outline_thickness", GroupFont, func(p *Params) *float64 { return &p.TextOutlineThickness }, ranged(0, 16)),

		// Appearance
		{
			Key: "position", Group: GroupAppearance, Kind: KindPosition,
			Enum: []string{
				string(PositionTopLeft), string(PositionTopCenter), string(PositionTopRight),
				string(PositionMiddleLeft), string(PositionMiddleRight),
				string(PositionBottomLeft), string(PositionBottomRight),
			},
			decode: func(p *Params, raw string) error {
				pos, err := ParsePosition(strings.TrimSpace(raw))
				if err != nil {
					return err
				}
				p.Position = pos
				return nil
			},
			encode: func(p *Params) (string, bool) {
				return string(p.Position), true
			},
		},
		floatKey("round_corners", GroupAppearance, func(p *Params) *float64 { return &p.RoundCorners }, ranged(0, 64)),
		boolKey("hud_no_margin", GroupAppearance, func(p *Params) *bool { return &p.HudNoMargin }),
		boolKey("hud_compact", GroupAppearance, func(p *Params) *bool { return &p.HudCompact }),
		boolKey("horizontal", GroupAppearance, func(p *Params) *bool { return &p.Horizontal }),
		boolKey("horizontal_stretch", GroupAppearance, func(p *Params) *bool { return &p.HorizontalStretch }, requires("horizontal")),
		boolKey("no_display", GroupAppearance, func(p *Params) *bool { return &p.NoDisplay }),
		floatKey("offset_x", GroupAppearance, func(p *Params) *float64 { return &p.OffsetX }),
		floatKey("offset_y", GroupAppearance, func(p *Params) *float64 { return &p.OffsetY }),
		floatKey("width", GroupAppearance, func(p *Params) *float64 { return &p.Width }, ranged(0, 8192)),
		floatKey("height", GroupAppearance, func(p *Params) *float64 { return &p.Height }, ranged(0, 8192)),
		uint8Key("table_columns", GroupAppearance, func(p *Params) *uint8 { return &p.TableColumns }, ranged(1, 64)),
		floatKey("cellpadding_y", GroupAppearance, func(p *Params) *float64 { return &p.CellPaddingY }),
		floatKey("background_alpha", GroupAppearance, func(p *Params) *float64 { return &p.BackgroundAlpha }, ranged(0, 1)),
		floatKey("alpha", GroupAppearance, func(p *Params) *float64 { return &p.Alpha }, ranged(0, 1)),

		// FCAT
		boolKey("fcat", GroupFCAT, func(p *Params) *bool { return &p.Fcat }),
		uint16Key("fcat_overlay_width", GroupFCAT, func(p *Params) *uint16 { return &p.FcatOverlayWidth }, ranged(1, 1024)),
		{
			Key: "fcat_screen_edge", Group: GroupFCAT, Kind: KindEnum,
			Enum: []string{"0", "1", "2", "3"},
			decode: func(p *Params, raw string) error {
				v, err := strconv.Atoi(strings.TrimSpace(raw))
				if err != nil || v < 0 || v > 3 {
					return fmt.Errorf("invalid fcat_screen_edge %q: want 0..3", raw)
				}
				p.FcatScreenEdge = FcatEdge(v)
				return nil
			},
			encode: func(p *Params) (string, bool) {
				return strconv.Itoa(int(p.FcatScreenEdge)), true
			},
		},

		// Colors
		colorKey("text_color", GroupColors, func(p *Params) *Color { return &p.TextColor }),
		colorKey("gpu_color", GroupColors, func(p *Params) *Color { return &p.GpuColor }),
		colorKey("cpu_color", GroupColors, func(p *Params) *Color { return &p.CpuColor }),
		colorKey("vram_color", GroupColors, func(p *Params) *Color { return &p.VramColor }),
		colorKey("ram_color", GroupColors, func(p *Params) *Color { return &p.RamColor }),
		colorKey("engine_color", GroupColors, func(p *Params) *Color { return &p.EngineColor }),
		colorKey("io_color", GroupColors, func(p *Params) *Color { return &p.IOColor }),
		colorKey("frametime_color", GroupColors, func(p *Params) *Color { return &p.FrametimeColor }),
		colorKey("background_color", GroupColors, func(p *Params) *Color { return &p.BackgroundColor }),
		colorKey("media_player_color", GroupColors, func(p *Params) *Color { return &p.MediaPlayerColor }),
		colorKey("wine_color", GroupColors, func(p *Params) *Color { return &p.WineColor }),
		colorKey("battery_color", GroupColors, func(p *Params) *Color { return &p.BatteryColor }),
		colorKey("text_outline_color", GroupColors, func(p *Params) *Color { return &p.TextOutlineColor }),

		// Device selection and filtering
		stringKey("pci_dev", GroupDevice, KindString, func(p *Params) *string { return &p.PciDev }, restart()),
		stringListKey("blacklist", GroupDevice, func(p *Params) *[]string { return &p.Blacklist }, restart()),
		stringKey("control", GroupDevice, KindString, func(p *Params) *string { return &p.Control }, restart()),

		// OpenGL workarounds
		optIntKey("gl_bind_framebuffer", GroupWorkaround, func(p *Params) **int { return &p.GLBindFramebuffer }, restart()),

		// Keybinds
		keybindKey("toggle_hud", func(p *Params) *Keybind { return &p.ToggleHud }),
		keybindKey("toggle_hud_position", func(p *Params) *Keybind { return &p.ToggleHudPosition }),
		keybindKey("toggle_fps_limit", func(p *Params) *Keybind { return &p.ToggleFpsLimit }),
		keybindKey("toggle_logging", func(p *Params) *Keybind { return &p.ToggleLogging }),
		keybindKey("reload_cfg", func(p *Params) *Keybind { return &p.ReloadCfg }),
		keybindKey("upload_log", func(p *Params) *Keybind { return &p.UploadLog }),

		// Logging
		boolKey("autostart_log", GroupLogging, func(p *Params) *bool { return &p.AutostartLog }),
		durationKey("log_duration", GroupLogging, "s", func(p *Params) *time.Duration { return &p.LogDuration }),
		durationKey("log_interval", GroupLogging, "ms", func(p *Params) *time.Duration { return &p.LogInterval }),
		stringKey("output_folder", GroupLogging, KindPath, func(p *Params) *string { return &p.OutputFolder }),
		boolKey("permit_upload", GroupLogging, func(p *Params) *bool { return &p.PermitUpload }),
		stringKey("benchmark_percentiles", GroupLogging, KindString, func(p *Params) *string { return &p.BenchmarkPercentiles }),
	}
}

// parseBool01 accepts the wire forms of a boolean: "0", "1", and for
// robustness "true"/"false" which some hand-edited files contain.
func parseBool01(key, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s %q: want 0 or 1", key, raw)
}

// formatFloat renders floats the way hand-written configs do: no
// exponent, no trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// splitList splits a comma-separated list, trimming whitespace and
// dropping empty elements.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
