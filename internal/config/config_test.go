package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c := New()

	if got := c.String("animation.easing"); got != "ease-out" {
		t.Errorf("easing = %q, want %q", got, "ease-out")
	}
	if got := c.Int("render.fps"); got != 60 {
		t.Errorf("fps = %d, want 60", got)
	}
	if got := c.DurationMS("animation.cursor_duration_ms"); got != 150*time.Millisecond {
		t.Errorf("cursor duration = %v, want 150ms", got)
	}
	if !c.Bool("animation.cursor_blink") {
		t.Error("cursor_blink default should be true")
	}
	if got := c.Strings("engine.command"); len(got) != 2 || got[0] != "nvim" || got[1] != "--embed" {
		t.Errorf("engine.command = %v", got)
	}
}

func TestSetOverridesDefault(t *testing.T) {
	c := New()

	if err := c.Set("render.fps", 120); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := c.Int("render.fps"); got != 120 {
		t.Errorf("fps = %d, want 120", got)
	}
	// Sibling keys keep their defaults.
	if got := c.String("animation.easing"); got != "ease-out" {
		t.Errorf("easing = %q after unrelated Set", got)
	}
}

func TestUnsetKeyYieldsZero(t *testing.T) {
	c := New()

	if got := c.String("no.such.key"); got != "" {
		t.Errorf("unset string = %q, want empty", got)
	}
	if got := c.Int("no.such.key"); got != 0 {
		t.Errorf("unset int = %d, want 0", got)
	}
}

func TestLoadMergesUserSettings(t *testing.T) {
	dir := t.TempDir()
	settings := `{"render": {"fps": 30}, "animation": {"easing": "linear"}}`
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := c.Int("render.fps"); got != 30 {
		t.Errorf("fps = %d, want 30", got)
	}
	if got := c.String("animation.easing"); got != "linear" {
		t.Errorf("easing = %q, want linear", got)
	}
	// Keys absent from the user file keep defaults.
	if got := c.Int("animation.cursor_duration_ms"); got != 150 {
		t.Errorf("cursor_duration_ms = %d, want default 150", got)
	}
}

func TestLoadMissingFilesOK(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load of empty dir: %v", err)
	}
	if got := c.Int("render.fps"); got != 60 {
		t.Errorf("fps = %d, want default 60", got)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load should fail on invalid settings.json")
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	script := `
slipstream.set("render.fps", 144)
slipstream.set("animation.cursor_blink", false)
slipstream.set("engine.command", {"nvim", "--embed", "--clean"})
if slipstream.get("render.fps") ~= 144 then
  error("get after set mismatch")
end
`
	path := filepath.Join(dir, "config.lua")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New()
	if err := c.RunScript(path); err != nil {
		t.Fatalf("RunScript: %v", err)
	}

	if got := c.Int("render.fps"); got != 144 {
		t.Errorf("fps = %d, want 144", got)
	}
	if c.Bool("animation.cursor_blink") {
		t.Error("cursor_blink should be false after script")
	}
	want := []string{"nvim", "--embed", "--clean"}
	got := c.Strings("engine.command")
	if len(got) != len(want) {
		t.Fatalf("engine.command = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("engine.command[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunScriptError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.lua")
	if err := os.WriteFile(path, []byte(`error("boom")`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New().RunScript(path); err == nil {
		t.Error("RunScript should surface script errors")
	}
}
