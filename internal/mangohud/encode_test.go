// SPDX-License-Identifier: MIT

package mangohud

import (
	"strings"
	"testing"
	"time"
)

func TestMarshalDefaultsIsEmpty(t *testing.T) {
	out := Marshal(Defaults())
	if len(out) != 0 {
		t.Errorf("Marshal(Defaults()) should omit everything, got:\n%s", out)
	}
}

func TestMarshalDeviationsOnly(t *testing.T) {
	p := Defaults()
	p.Vram = true
	p.GpuColor = DarkRed
	p.FpsSamplingPeriod = time.Second

	out := string(Marshal(p))
	for _, want := range []string{"vram=1\n", "gpu_color=B22222\n", "fps_sampling_period=1000\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("Marshal missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "cpu_color=") {
		t.Errorf("Marshal wrote an unchanged default:\n%s", out)
	}
}

func TestMarshalIncludeDefaults(t *testing.T) {
	out := string(MarshalWithOptions(Defaults(), MarshalOptions{IncludeDefaults: true}))

	for _, want := range []string{
		"legacy_layout=1\n",
		"fps_limit=0\n",
		"position=top-left\n",
		"background_alpha=0.5\n",
		"cellpadding_y=-0.085\n",
		"toggle_hud=Shift_R+F12\n",
		"benchmark_percentiles=97+AVG\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("full marshal missing %q", want)
		}
	}
	// Unset optionals stay omitted even in full output.
	for _, absent := range []string{"vsync=", "picmip=", "af=", "gl_vsync="} {
		if strings.Contains(out, absent) {
			t.Errorf("full marshal should omit unset optional %q", absent)
		}
	}
}

func TestMarshalRoundTripsThroughDecode(t *testing.T) {
	p := Defaults()
	p.Preset = PresetDetailed
	p.Time = true
	picmip := -4
	p.Picmip = &picmip
	p.Blacklist = []string{"steam", "obs"}

	doc := MarshalDocument(p)
	back, issues := doc.Params()
	if len(issues) != 0 {
		t.Fatalf("marshalled config should re-decode cleanly: %v", issues)
	}
	if diff := Diff(p, back); !diff.Empty() {
		t.Errorf("marshal/decode round trip changed keys: %v", diff.Keys())
	}
}

func TestApplyParamsMinimalEdit(t *testing.T) {
	src := "# my config\nvsync=1\ncustom_key=kept\nfps=0\n"
	doc, err := DecodeDocumentString(src)
	if err != nil {
		t.Fatal(err)
	}

	p, _ := doc.Params()
	vs := VSyncOn
	p.VSync = &vs // rewrite in place
	p.Ram = true  // append
	p.Fps = false // unchanged, keep author text

	ApplyParams(doc, p)
	got := doc.String()

	want := "# my config\nvsync=3\ncustom_key=kept\nfps=0\nram=1\n"
	if got != want {
		t.Errorf("ApplyParams:\ngot  %q\nwant %q", got, want)
	}
}

func TestApplyParamsUnsetsOptionals(t *testing.T) {
	doc, err := DecodeDocumentString("picmip=8\n")
	if err != nil {
		t.Fatal(err)
	}
	p, _ := doc.Params()
	p.Picmip = nil
	ApplyParams(doc, p)
	if got := doc.String(); got != "" {
		t.Errorf("unset optional should be removed, got %q", got)
	}
}

func TestApplyParamsKeepsFlagSpelling(t *testing.T) {
	doc, err := DecodeDocumentString("gpu_stats\n")
	if err != nil {
		t.Fatal(err)
	}
	p, _ := doc.Params()
	ApplyParams(doc, p)
	if got := doc.String(); got != "gpu_stats\n" {
		t.Errorf("unchanged flag line was rewritten: %q", got)
	}
}
