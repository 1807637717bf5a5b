// Package fonts resolves font files for card rendering.
//
// Resolution has a documented default instead of an error path:
//
//  1. the configured file, if it exists
//  2. a file with the same name in the system font directories
//  3. the built-in Go Regular font, which ships inside the binary
//
// Only a font file that exists but cannot be parsed is an error.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Source tells where a resolved font came from.
type Source int

const (
	SourceFile    Source = iota // the configured path
	SourceSystem                // found by name in system font directories
	SourceBuiltin               // embedded Go Regular
)

func (s Source) String() string {
	switch s {
	case SourceFile:
		return "file"
	case SourceSystem:
		return "system"
	default:
		return "builtin"
	}
}

// BuiltinName identifies the embedded fallback font.
const BuiltinName = "Go Regular"

// Resolved is a parsed font and where it was found.
type Resolved struct {
	Font      *opentype.Font
	Requested string // configured path, may be empty
	Path      string // path actually read; BuiltinName for the embedded font
	Source    Source
}

// Fallback reports whether the configured font was not used.
func (r Resolved) Fallback() bool {
	return r.Requested != "" && r.Source != SourceFile
}

// Parsed once on first access.
var (
	builtin     *opentype.Font
	builtinErr  error
	builtinOnce sync.Once
)

// Builtin returns the embedded default font.
func Builtin() (*opentype.Font, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = opentype.Parse(goregular.TTF)
	})
	return builtin, builtinErr
}

// findSystem is swapped in tests.
var findSystem = findfont.Find

// Resolve finds and parses the font at path, falling back as described in
// the package documentation.
func Resolve(path string) (Resolved, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return parse(path, path, SourceFile, data)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Resolved{}, fmt.Errorf("read font %s: %w", path, err)
		}

		if found, err := findSystem(filepath.Base(path)); err == nil {
			if data, err := os.ReadFile(found); err == nil {
				return parse(path, found, SourceSystem, data)
			}
		}
	}

	f, err := Builtin()
	if err != nil {
		return Resolved{}, fmt.Errorf("parse builtin font: %w", err)
	}
	return Resolved{Font: f, Requested: path, Path: BuiltinName, Source: SourceBuiltin}, nil
}

func parse(requested, path string, src Source, data []byte) (Resolved, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return Resolved{}, fmt.Errorf("parse font %s: %w", path, err)
	}
	return Resolved{Font: f, Requested: requested, Path: path, Source: src}, nil
}

// NewFace creates a face at size pixels (72 DPI, so points equal pixels).
func NewFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Loader parses each font file once and hands out faces per size.
// It is not safe for concurrent use.
type Loader struct {
	fonts map[string]Resolved
	faces []font.Face
}

// NewLoader returns an empty loader.
func NewLoader() *Loader {
	return &Loader{fonts: make(map[string]Resolved)}
}

// Face resolves path and returns a face at size along with the resolution.
func (l *Loader) Face(path string, size float64) (font.Face, Resolved, error) {
	r, ok := l.fonts[path]
	if !ok {
		var err error
		if r, err = Resolve(path); err != nil {
			return nil, Resolved{}, err
		}
		l.fonts[path] = r
	}

	face, err := NewFace(r.Font, size)
	if err != nil {
		return nil, Resolved{}, fmt.Errorf("create face %s@%g: %w", r.Path, size, err)
	}
	l.faces = append(l.faces, face)
	return face, r, nil
}

// Close releases every face handed out by the loader.
func (l *Loader) Close() error {
	var errs []error
	for _, f := range l.faces {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	l.faces = nil
	return errors.Join(errs...)
}
