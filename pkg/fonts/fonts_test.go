package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.Regular == nil || s.Bold == nil {
		t.Fatal("Default() returned a nil face")
	}
	if !s.Embedded() {
		t.Error("Default().Embedded() = false, want true")
	}
	if s.Regular.Family == "" {
		t.Error("Regular.Family is empty")
	}
	if Default() != s {
		t.Error("Default() should return the same set on every call")
	}
}

func TestLoadSkipSystem(t *testing.T) {
	s, err := Load(Source{SkipSystem: true})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Regular != Default().Regular || s.Bold != Default().Bold {
		t.Error("Load(SkipSystem) should fall back to the embedded fonts")
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(Source{RegularPath: path, SkipSystem: true})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Regular.Path != path {
		t.Errorf("Regular.Path = %q, want %q", s.Regular.Path, path)
	}
	if s.Regular.Embedded() {
		t.Error("Regular.Embedded() = true for a file font")
	}
	if !s.Embedded() {
		t.Error("Set.Embedded() = false although bold is embedded")
	}
}

func TestLoadBadPath(t *testing.T) {
	if _, err := Load(Source{RegularPath: filepath.Join(t.TempDir(), "missing.ttf")}); err == nil {
		t.Error("Load() with missing file should fail")
	}

	junk := filepath.Join(t.TempDir(), "junk.ttf")
	if err := os.WriteFile(junk, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(Source{BoldPath: junk}); err == nil {
		t.Error("Load() with unparsable file should fail")
	}
}

func TestFaceBase64(t *testing.T) {
	f := Default().Regular
	b := f.Base64()
	if b == "" || b != f.Base64() {
		t.Error("Base64() should be non-empty and stable")
	}
	if f.MIME() != "font/ttf" {
		t.Errorf("MIME() = %q, want font/ttf", f.MIME())
	}
}
