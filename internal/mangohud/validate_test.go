// SPDX-License-Identifier: MIT

package mangohud

import (
	"errors"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	warnings, err := Validate(Defaults())
	if err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("defaults should carry no warnings, got %v", warnings)
	}
}

func TestValidateRangeViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"picmip too low", func(p *Params) { v := -20; p.Picmip = &v }},
		{"af too high", func(p *Params) { v := 17; p.AF = &v }},
		{"alpha above 1", func(p *Params) { p.Alpha = 1.5 }},
		{"background_alpha negative", func(p *Params) { p.BackgroundAlpha = -0.1 }},
		{"table_columns zero", func(p *Params) { p.TableColumns = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			tt.mutate(&p)
			if _, err := Validate(p); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestValidateDependencyWarnings(t *testing.T) {
	p := Defaults()
	p.GpuMemClock = true // needs vram
	warnings, err := Validate(p)
	if err != nil {
		t.Fatalf("dependency gaps are warnings, not errors: %v", err)
	}
	found := false
	for _, w := range warnings {
		if w.Key == "gpu_mem_clock" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected gpu_mem_clock warning, got %v", warnings)
	}

	p.Vram = true
	warnings, err = Validate(p)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range warnings {
		if w.Key == "gpu_mem_clock" {
			t.Errorf("warning should clear once vram is enabled: %v", w)
		}
	}
}

func TestValidateThresholdOrder(t *testing.T) {
	p := Defaults()
	p.FpsValue = [2]uint8{60, 30}
	if _, err := Validate(p); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("descending fps_value should fail, got %v", err)
	}
}

func TestDiff(t *testing.T) {
	old := Defaults()
	next := Defaults()

	if d := Diff(old, next); !d.Empty() || !d.HotApplicable {
		t.Fatalf("identical params should diff empty, got %+v", d)
	}

	next.Vram = true
	next.GpuColor = DarkRed
	d := Diff(old, next)
	if got := d.Keys(); len(got) != 2 || got[0] != "vram" || got[1] != "gpu_color" {
		t.Errorf("Keys() = %v, want [vram gpu_color] in registry order", got)
	}
	if !d.HotApplicable {
		t.Error("vram/gpu_color changes are hot-applicable")
	}

	next.PciDev = "0:03.0"
	d = Diff(old, next)
	if d.HotApplicable {
		t.Error("pci_dev change requires restart")
	}
}

func TestDiffOptionalPresence(t *testing.T) {
	old := Defaults()
	next := Defaults()
	vs := VSyncOff
	next.VSync = &vs

	d := Diff(old, next)
	if len(d.Changes) != 1 {
		t.Fatalf("Changes = %+v", d.Changes)
	}
	c := d.Changes[0]
	if c.Key != "vsync" || c.OldPresent || !c.NewPresent || c.New != "1" {
		t.Errorf("change = %+v", c)
	}
}
