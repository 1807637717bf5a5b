package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func noSystemFonts(t *testing.T) {
	t.Helper()
	orig := findSystem
	findSystem = func(string) (string, error) { return "", errors.New("not found") }
	t.Cleanup(func() { findSystem = orig })
}

func writeFont(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuiltin(t *testing.T) {
	f1, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	f2, _ := Builtin()
	if f1 != f2 {
		t.Error("Builtin should parse once and return the same font")
	}
}

func TestResolveEmptyPath(t *testing.T) {
	r, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Source != SourceBuiltin || r.Path != BuiltinName {
		t.Errorf("Resolve(\"\") = %v %q, want builtin", r.Source, r.Path)
	}
	if r.Fallback() {
		t.Error("an unconfigured font is not a fallback")
	}
}

func TestResolveFile(t *testing.T) {
	path := writeFont(t, "GoRegular.ttf", goregular.TTF)

	r, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Source != SourceFile || r.Path != path {
		t.Errorf("Resolve = %v %q, want file %q", r.Source, r.Path, path)
	}
	if r.Fallback() {
		t.Error("configured font should not be a fallback")
	}
}

func TestResolveMissingFallsBack(t *testing.T) {
	noSystemFonts(t)

	r, err := Resolve(filepath.Join(t.TempDir(), "fonts", "DejaVuSans.ttf"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Source != SourceBuiltin {
		t.Errorf("Source = %v, want builtin", r.Source)
	}
	if !r.Fallback() {
		t.Error("missing font should report Fallback")
	}
	if r.Font == nil {
		t.Error("fallback font should be usable")
	}
}

func TestResolveSystemFont(t *testing.T) {
	system := writeFont(t, "Found.ttf", goregular.TTF)

	orig := findSystem
	var asked string
	findSystem = func(name string) (string, error) {
		asked = name
		return system, nil
	}
	t.Cleanup(func() { findSystem = orig })

	r, err := Resolve(filepath.Join("fonts", "Found.ttf"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if asked != "Found.ttf" {
		t.Errorf("system search asked for %q, want base name", asked)
	}
	if r.Source != SourceSystem || r.Path != system {
		t.Errorf("Resolve = %v %q, want system %q", r.Source, r.Path, system)
	}
	if !r.Fallback() {
		t.Error("system substitute should report Fallback")
	}
}

func TestResolveCorruptFont(t *testing.T) {
	path := writeFont(t, "Broken.ttf", []byte("not a font"))
	if _, err := Resolve(path); err == nil {
		t.Error("corrupt font should be an error")
	}
}

func TestLoaderFace(t *testing.T) {
	noSystemFonts(t)

	l := NewLoader()
	defer l.Close()

	small, r1, err := l.Face("", 16)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	large, r2, err := l.Face("", 20)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	if r1.Font != r2.Font {
		t.Error("same path should reuse the parsed font")
	}
	if len(l.fonts) != 1 {
		t.Errorf("loader cached %d fonts, want 1", len(l.fonts))
	}

	if small.Metrics().Height >= large.Metrics().Height {
		t.Errorf("16px face height %v should be below 20px face height %v",
			small.Metrics().Height, large.Metrics().Height)
	}

	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if len(l.faces) != 0 {
		t.Error("Close should release faces")
	}
}

func TestSourceString(t *testing.T) {
	for src, want := range map[Source]string{SourceFile: "file", SourceSystem: "system", SourceBuiltin: "builtin"} {
		if got := src.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", src, got, want)
		}
	}
}
