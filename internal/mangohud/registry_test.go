// SPDX-License-Identifier: MIT

package mangohud

import (
	"testing"
	"time"
)

func TestRegistryKeysAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for _, spec := range Registry() {
		if spec.Key == "" {
			t.Fatal("spec with empty key")
		}
		if _, dup := seen[spec.Key]; dup {
			t.Errorf("duplicate key %q", spec.Key)
		}
		seen[spec.Key] = struct{}{}
		if spec.decode == nil || spec.encode == nil {
			t.Errorf("key %q has no codec", spec.Key)
		}
		if spec.Group == "" && spec.Kind != KindKeybind {
			t.Errorf("key %q has no group", spec.Key)
		}
	}
}

func TestRegistryRequirementsResolve(t *testing.T) {
	for _, spec := range Registry() {
		for _, req := range spec.Requires {
			if _, ok := LookupKey(req); !ok {
				t.Errorf("key %q requires unknown key %q", spec.Key, req)
			}
		}
	}
}

func TestLookupKey(t *testing.T) {
	if _, ok := LookupKey("gpu_stats"); !ok {
		t.Error("gpu_stats should be known")
	}
	if _, ok := LookupKey("definitely_not_a_key"); ok {
		t.Error("unexpected lookup hit")
	}
}

func TestDurationUnits(t *testing.T) {
	tests := []struct {
		key  string
		raw  string
		get  func(Params) time.Duration
		want time.Duration
	}{
		{"fps_sampling_period", "250", func(p Params) time.Duration { return p.FpsSamplingPeriod }, 250 * time.Millisecond},
		{"log_duration", "30", func(p Params) time.Duration { return p.LogDuration }, 30 * time.Second},
		{"log_interval", "100", func(p Params) time.Duration { return p.LogInterval }, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		spec, ok := LookupKey(tt.key)
		if !ok {
			t.Fatalf("unknown key %s", tt.key)
		}
		p := Defaults()
		if err := spec.decode(&p, tt.raw); err != nil {
			t.Fatalf("%s: %v", tt.key, err)
		}
		if got := tt.get(p); got != tt.want {
			t.Errorf("%s=%s decoded to %v, want %v", tt.key, tt.raw, got, tt.want)
		}
	}
}

func TestDurationRejectsNegative(t *testing.T) {
	spec, _ := LookupKey("log_duration")
	p := Defaults()
	if err := spec.decode(&p, "-5"); err == nil {
		t.Error("negative duration should fail")
	}
}

func TestBoolWireForms(t *testing.T) {
	spec, _ := LookupKey("ram")
	for raw, want := range map[string]bool{"1": true, "0": false, "true": true, "false": false} {
		p := Defaults()
		if err := spec.decode(&p, raw); err != nil {
			t.Fatalf("ram=%s: %v", raw, err)
		}
		if p.Ram != want {
			t.Errorf("ram=%s decoded to %v", raw, p.Ram)
		}
	}
	p := Defaults()
	if err := spec.decode(&p, "yes"); err == nil {
		t.Error("ram=yes should fail")
	}
}

func TestPresetParams(t *testing.T) {
	for _, info := range Presets() {
		p, err := PresetParams(info.ID)
		if err != nil {
			t.Fatalf("preset %d: %v", info.ID, err)
		}
		if p.Preset != info.ID {
			t.Errorf("preset %d: Preset field = %d", info.ID, p.Preset)
		}
		if _, err := Validate(p); err != nil {
			t.Errorf("preset %d must validate: %v", info.ID, err)
		}
	}

	if _, err := PresetParams(HudPreset(99)); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestPresetOffHidesOverlay(t *testing.T) {
	p, err := PresetParams(PresetOff)
	if err != nil {
		t.Fatal(err)
	}
	if !p.NoDisplay {
		t.Error("preset 0 should set no_display")
	}
}
