// SPDX-License-Identifier: MIT

// Package mangohud implements the MangoHud overlay configuration format:
// a typed parameter model, a lossless line-oriented document codec,
// defaults, validation, and diffing. The format is plain text, one
// "key=value" per line, with '#' comments; booleans are written as 0/1
// and a bare key is read as the key set to 1.
package mangohud

import (
	"fmt"
	"time"
)

// VSync selects the Vulkan present mode.
type VSync int

const (
	VSyncAdaptive VSync = 0
	VSyncOff      VSync = 1
	VSyncMailbox  VSync = 2
	VSyncOn       VSync = 3
)

// FpsLimitMethod selects where frame limiting sleeps relative to present.
type FpsLimitMethod string

const (
	FpsLimitEarly FpsLimitMethod = "early"
	FpsLimitLate  FpsLimitMethod = "late"
)

// HudPreset selects one of the built-in overlay layouts. The zero value
// of the format is -1 (no preset).
type HudPreset int

const (
	PresetDefault    HudPreset = -1
	PresetOff        HudPreset = 0
	PresetFpsOnly    HudPreset = 1
	PresetHorizontal HudPreset = 2
	PresetExtended   HudPreset = 3
	PresetDetailed   HudPreset = 4
)

// HudPosition anchors the overlay on screen. Serialized as a named
// string ("top-left", "middle-right", ...).
type HudPosition string

const (
	PositionTopLeft     HudPosition = "top-left"
	PositionTopCenter   HudPosition = "top-center"
	PositionTopRight    HudPosition = "top-right"
	PositionMiddleLeft  HudPosition = "middle-left"
	PositionMiddleRight HudPosition = "middle-right"
	PositionBottomLeft  HudPosition = "bottom-left"
	PositionBottomRight HudPosition = "bottom-right"
)

// FcatEdge selects the screen edge for the FCAT capture bar.
type FcatEdge int

const (
	FcatEdgeLeft   FcatEdge = 0
	FcatEdgeBottom FcatEdge = 1
	FcatEdgeRight  FcatEdge = 2
	FcatEdgeTop    FcatEdge = 3
)

// Params is the typed form of a MangoHud configuration. Field grouping
// follows the overlay's own option groups. Optional integers use
// pointers: nil means "not set", which the writer omits.
type Params struct {
	// Performance
	FpsLimit       []uint16
	FpsLimitMethod FpsLimitMethod
	VSync          *VSync
	GLVSync        *int
	Picmip         *int // mip-map LoD bias, -16..16
	AF             *int // anisotropic filtering level, 0..16
	Bicubic        bool
	Trilinear      bool
	Retro          bool

	// Core visual
	LegacyLayout     bool
	Preset           HudPreset
	Histogram        bool
	CustomTextCenter string
	Time             bool
	TimeFormat       string
	Version          bool

	// GPU info
	GpuStats        bool
	GpuTemp         bool
	GpuJunctionTemp bool
	GpuCoreClock    bool
	GpuMemTemp      bool
	GpuMemClock     bool
	GpuPower        bool
	GpuText         string
	GpuLoadChange   bool
	GpuLoadValue    [2]uint8
	GpuLoadColor    [3]Color

	// CPU info
	CpuStats       bool
	CpuTemp        bool
	CpuPower       bool
	CpuText        string
	CpuMhz         bool
	CpuLoadChange  bool
	CpuLoadValue   [2]uint8
	CpuLoadColor   [3]Color
	CoreLoad       bool
	CoreLoadChange bool

	// App IO
	IORead  bool
	IOWrite bool

	// Memory
	Vram bool
	Ram  bool
	Swap bool

	// Per-process memory
	ProcMem        bool
	ProcMemShared  bool
	ProcMemVirtual bool

	// Battery
	Battery            bool
	BatteryIcon        bool
	GamepadBattery     bool
	GamepadBatteryIcon bool

	// FPS
	Fps               bool
	FpsSamplingPeriod time.Duration
	FpsColorChange    bool
	FpsValue          [2]uint8
	FpsColor          [3]Color
	Frametime         bool
	FrameTiming       bool
	FrameCount        bool
	ShowFpsLimit      bool

	// Misc info rows
	ThrottlingStatus bool
	EngineVersion    bool
	GpuName          bool
	VulkanDriver     bool
	Wine             bool
	ExecName         bool
	Arch             bool
	Gamemode         bool
	Vkbasalt         bool
	Resolution       bool
	CustomText       string
	Exec             string

	// Media player
	MediaPlayer       bool
	MediaPlayerName   string
	MediaPlayerFormat string

	// Font
	FontSize             float64
	FontScale            float64
	FontSizeText         float64
	FontScaleMediaPlayer float64
	NoSmallFont          bool
	FontFile             string
	FontFileText         string
	FontGlyphRanges      []string
	TextOutline          bool
	TextOutlineThickness float64

	// Appearance
	Position          HudPosition
	RoundCorners      float64
	HudNoMargin       bool
	HudCompact        bool
	Horizontal        bool
	HorizontalStretch bool
	NoDisplay         bool
	OffsetX           float64
	OffsetY           float64
	Width             float64
	Height            float64
	TableColumns      uint8
	CellPaddingY      float64
	BackgroundAlpha   float64
	Alpha             float64

	// FCAT
	Fcat             bool
	FcatOverlayWidth uint16
	FcatScreenEdge   FcatEdge

	// Colors
	TextColor        Color
	GpuColor         Color
	CpuColor         Color
	VramColor        Color
	RamColor         Color
	EngineColor      Color
	IOColor          Color
	FrametimeColor   Color
	BackgroundColor  Color
	MediaPlayerColor Color
	WineColor        Color
	BatteryColor     Color
	TextOutlineColor Color

	// Device selection and filtering
	PciDev    string
	Blacklist []string
	Control   string // control socket name

	// OpenGL workarounds
	GLBindFramebuffer *int

	// Keybinds
	ToggleHud         Keybind
	ToggleHudPosition Keybind
	ToggleFpsLimit    Keybind
	ToggleLogging     Keybind
	ReloadCfg         Keybind
	UploadLog         Keybind

	// Logging
	AutostartLog         bool
	LogDuration          time.Duration
	LogInterval          time.Duration
	OutputFolder         string
	PermitUpload         bool
	BenchmarkPercentiles string
}

// ParsePosition parses a serialized HUD position.
func ParsePosition(s string) (HudPosition, error) {
	switch HudPosition(s) {
	case PositionTopLeft, PositionTopCenter, PositionTopRight,
		PositionMiddleLeft, PositionMiddleRight,
		PositionBottomLeft, PositionBottomRight:
		return HudPosition(s), nil
	}
	return "", fmt.Errorf("invalid position %q", s)
}

// ParseFpsLimitMethod parses "early" or "late".
func ParseFpsLimitMethod(s string) (FpsLimitMethod, error) {
	switch FpsLimitMethod(s) {
	case FpsLimitEarly, FpsLimitLate:
		return FpsLimitMethod(s), nil
	}
	return "", fmt.Errorf("invalid fps_limit_method %q (want early or late)", s)
}
