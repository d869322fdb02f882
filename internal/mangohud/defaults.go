// SPDX-License-Identifier: MIT

package mangohud

import "time"

// Defaults returns the overlay's built-in parameter values. A config file
// that writes nothing gets exactly this overlay.
func Defaults() Params {
	return Params{
		// Performance
		FpsLimit:       []uint16{0},
		FpsLimitMethod: FpsLimitLate,

		// Core visual
		LegacyLayout: true,
		Preset:       PresetDefault,
		TimeFormat:   "%T",

		// GPU / CPU
		GpuStats:     true,
		GpuLoadValue: [2]uint8{60, 90},
		GpuLoadColor: [3]Color{Green, VividYellow, DarkRed},
		CpuStats:     true,
		CpuLoadValue: [2]uint8{60, 90},
		CpuLoadColor: [3]Color{Green, VividYellow, DarkRed},

		// FPS
		Fps:               true,
		FpsSamplingPeriod: 500 * time.Millisecond,
		FpsValue:          [2]uint8{30, 60},
		FpsColor:          [3]Color{DarkRed, VividYellow, Green},
		Frametime:         true,
		FrameTiming:       true,

		// Media player
		MediaPlayerFormat: "{title};{artist};{album}",

		// Font
		FontSize:             24,
		FontScale:            1,
		FontSizeText:         24,
		FontScaleMediaPlayer: 0.55,
		TextOutline:          true,
		TextOutlineThickness: 1.5,

		// Appearance
		Position:          PositionTopLeft,
		HorizontalStretch: true,
		Height:            140,
		TableColumns:      3,
		CellPaddingY:      -0.085,
		BackgroundAlpha:   0.5,
		Alpha:             1,

		// FCAT
		FcatOverlayWidth: 24,
		FcatScreenEdge:   FcatEdgeLeft,

		// Colors
		TextColor:        White,
		GpuColor:         DarkLimeGreen,
		CpuColor:         Blue,
		VramColor:        LightMagenta,
		RamColor:         LightPink,
		EngineColor:      SoftRed,
		IOColor:          LightViolet,
		FrametimeColor:   LimeGreen,
		BackgroundColor:  AlmostBlack,
		MediaPlayerColor: White,
		WineColor:        SoftRed,
		BatteryColor:     LightRed,
		TextOutlineColor: Black,

		// Keybinds
		ToggleHud:         MustKeybind("Shift_R+F12"),
		ToggleHudPosition: MustKeybind("Shift_R+F11"),
		ToggleFpsLimit:    MustKeybind("Shift_L+F1"),
		ToggleLogging:     MustKeybind("Shift_L+F2"),
		ReloadCfg:         MustKeybind("Shift_L+F4"),
		UploadLog:         MustKeybind("Shift_L+F3"),

		// Logging
		BenchmarkPercentiles: "97+AVG",
	}
}
