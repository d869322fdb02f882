// SPDX-License-Identifier: MIT

package mangohud

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const sampleConfig = `# MangoHud configuration
fps_limit=0,60,144
vsync=2

gpu_stats
gpu_temp=1
cpu_color=FF0000
toggle_hud=Shift_L+F9
custom_key=whatever
fps_sampling_period=250
`

func TestDecodeDocumentRoundTrip(t *testing.T) {
	doc, err := DecodeDocumentString(sampleConfig)
	if err != nil {
		t.Fatalf("DecodeDocumentString() failed: %v", err)
	}
	if got := doc.String(); got != sampleConfig {
		t.Errorf("round trip mismatch:\n%s", cmp.Diff(sampleConfig, got))
	}
}

func TestDecodeDocumentCRLF(t *testing.T) {
	crlf := strings.ReplaceAll(sampleConfig, "\n", "\r\n")
	doc, err := DecodeDocumentString(crlf)
	if err != nil {
		t.Fatalf("DecodeDocumentString() failed: %v", err)
	}
	// Output is always LF.
	if got := doc.String(); got != sampleConfig {
		t.Errorf("CRLF input should normalize to LF output:\n%s", cmp.Diff(sampleConfig, got))
	}
}

func TestDocumentParams(t *testing.T) {
	doc, err := DecodeDocumentString(sampleConfig)
	if err != nil {
		t.Fatalf("DecodeDocumentString() failed: %v", err)
	}
	p, issues := doc.Params()
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}

	if want := []uint16{0, 60, 144}; !cmp.Equal(p.FpsLimit, want) {
		t.Errorf("FpsLimit = %v, want %v", p.FpsLimit, want)
	}
	if p.VSync == nil || *p.VSync != VSyncMailbox {
		t.Errorf("VSync = %v, want mailbox", p.VSync)
	}
	if !p.GpuStats {
		t.Error("flag form gpu_stats should decode as enabled")
	}
	if !p.GpuTemp {
		t.Error("gpu_temp=1 should decode as enabled")
	}
	if p.CpuColor != (Color{0xFF, 0, 0}) {
		t.Errorf("CpuColor = %v", p.CpuColor)
	}
	if !p.ToggleHud.Equal(MustKeybind("Shift_L+F9")) {
		t.Errorf("ToggleHud = %v", p.ToggleHud)
	}
	if p.FpsSamplingPeriod != 250*time.Millisecond {
		t.Errorf("FpsSamplingPeriod = %v, want 250ms", p.FpsSamplingPeriod)
	}
	// Untouched keys keep their defaults.
	if p.Height != 140 {
		t.Errorf("Height = %v, want default 140", p.Height)
	}
}

func TestDocumentUnknownKeysPreserved(t *testing.T) {
	doc, err := DecodeDocumentString(sampleConfig)
	if err != nil {
		t.Fatal(err)
	}
	unknown := doc.Unknown()
	if len(unknown) != 1 || unknown[0].Key != "custom_key" {
		t.Fatalf("Unknown() = %+v, want just custom_key", unknown)
	}

	// Editing a known key must not disturb the unknown line.
	doc.Set("vsync", "3")
	if !strings.Contains(doc.String(), "custom_key=whatever") {
		t.Error("unknown key lost after edit")
	}
}

func TestDocumentDuplicateKeysLastWins(t *testing.T) {
	doc, err := DecodeDocumentString("alpha=0.25\nalpha=0.75\n")
	if err != nil {
		t.Fatal(err)
	}
	p, issues := doc.Params()
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if p.Alpha != 0.75 {
		t.Errorf("Alpha = %v, want 0.75 (last occurrence)", p.Alpha)
	}

	doc.Compact()
	if got := doc.String(); got != "alpha=0.75\n" {
		t.Errorf("Compact() = %q, want single surviving line", got)
	}
}

func TestDocumentSetUpdatesInPlace(t *testing.T) {
	doc, err := DecodeDocumentString("# header\nvsync=1\n# footer\n")
	if err != nil {
		t.Fatal(err)
	}
	doc.Set("vsync", "3")
	want := "# header\nvsync=3\n# footer\n"
	if got := doc.String(); got != want {
		t.Errorf("Set() rewrote file:\n%s", cmp.Diff(want, got))
	}

	doc.Set("ram", "1")
	if !strings.HasSuffix(doc.String(), "ram=1\n") {
		t.Errorf("new keys should append, got:\n%s", doc.String())
	}
}

func TestDocumentUnset(t *testing.T) {
	doc, err := DecodeDocumentString("vsync=1\nram=1\nvsync=2\n")
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Unset("vsync") {
		t.Fatal("Unset should report removal")
	}
	if got := doc.String(); got != "ram=1\n" {
		t.Errorf("Unset left %q", got)
	}
	if doc.Unset("vsync") {
		t.Error("second Unset should report nothing removed")
	}
}

func TestDocumentFlagFormForValuedKey(t *testing.T) {
	doc, err := DecodeDocumentString("fps_limit\n")
	if err != nil {
		t.Fatal(err)
	}
	_, issues := doc.Params()
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
	if issues[0].Key != "fps_limit" || issues[0].Line != 1 {
		t.Errorf("issue = %+v", issues[0])
	}
}

func TestDocumentMalformedValueKeepsPrior(t *testing.T) {
	doc, err := DecodeDocumentString("alpha=0.5\nalpha=bogus\n")
	if err != nil {
		t.Fatal(err)
	}
	p, issues := doc.Params()
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
	if issues[0].Line != 2 {
		t.Errorf("issue line = %d, want 2", issues[0].Line)
	}
	if p.Alpha != 0.5 {
		t.Errorf("Alpha = %v, want prior valid value 0.5", p.Alpha)
	}
}

func TestDecodeDocumentEmpty(t *testing.T) {
	doc, err := DecodeDocumentString("")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Len() != 0 {
		t.Errorf("empty input should yield empty document, got %d entries", doc.Len())
	}
	p, issues := doc.Params()
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if diff := Diff(Defaults(), p); !diff.Empty() {
		t.Errorf("empty document should decode to defaults, changed: %v", diff.Keys())
	}
}
