// Package layout describes card faces as data.
//
// A [Layout] is a fixed-size canvas plus named regions: frame rectangles,
// text regions bound to record fields, illustration windows and QR codes.
// Changing where the name sits or how big the energy badge is means editing
// a TOML file (or a preset), not the renderer.
//
// # Presets
//
// Three built-in presets track how the card face evolved:
//
//   - classic: bordered boxes, left-aligned type badge, energy with a ⚡ suffix
//   - badge: type centred in its badge, right-aligned energy with a "+"
//     prefix on food cards, an illustration window
//   - template: no drawn frames; a pre-made background image supplies them
//
// # Files
//
// Layouts round-trip through TOML:
//
//	l, err := layout.Load("layouts/mine.toml")
//	err = layout.Encode(os.Stdout, layout.Classic())
package layout

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cardpress/pkg/card"
	cperrors "github.com/matzehuels/cardpress/pkg/errors"
)

// Align positions text within a region's horizontal span.
type Align string

// Alignment values.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Layout is a complete card face description.
type Layout struct {
	Name          string          `toml:"name"`
	Canvas        Canvas          `toml:"canvas"`
	Fonts         map[string]Font `toml:"fonts"`
	Frames        []Frame         `toml:"frame"`
	Illustrations []ImageRegion   `toml:"illustration"`
	QRCodes       []QRRegion      `toml:"qr"`
	Text          []TextRegion    `toml:"text"`
}

// Canvas sets the card size and what sits underneath every region.
type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`         // hex colour or name
	Template   string `toml:"template,omitempty"` // optional background image, fill-resized
}

// Font is one size tier. An empty path selects the built-in default font.
type Font struct {
	Path string  `toml:"path,omitempty"`
	Size float64 `toml:"size"`
}

// Frame is a stroked rectangle.
type Frame struct {
	Name      string  `toml:"name"`
	X         int     `toml:"x"`
	Y         int     `toml:"y"`
	Width     int     `toml:"width"`
	Height    int     `toml:"height"`
	LineWidth float64 `toml:"line_width"`
	Color     string  `toml:"color,omitempty"`
}

// TextRegion draws one record field.
//
// X and Y are the top-left of the text box. Alignment is relative to the span
// X..X+Width, so a right-aligned region anchors at X+Width. When FitWidth is
// set and the text measured with Tier is wider, FallbackTier is used instead;
// there is no further shrinking. Wrap breaks the text into lines no wider
// than Width.
type TextRegion struct {
	Name           string `toml:"name"`
	Field          string `toml:"field"`
	X              int    `toml:"x"`
	Y              int    `toml:"y"`
	Width          int    `toml:"width,omitempty"`
	Align          Align  `toml:"align,omitempty"`
	Tier           string `toml:"tier"`
	FitWidth       int    `toml:"fit_width,omitempty"`
	FallbackTier   string `toml:"fallback_tier,omitempty"`
	Wrap           bool   `toml:"wrap,omitempty"`
	Prefix         string `toml:"prefix,omitempty"`
	PrefixWhenType string `toml:"prefix_when_type,omitempty"`
	Suffix         string `toml:"suffix,omitempty"`
	Color          string `toml:"color,omitempty"`
}

// ImageRegion is an illustration window. The card's illustration is resized
// to Width×Height and alpha-composited at X,Y.
type ImageRegion struct {
	Name   string `toml:"name"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// QRRegion encodes a record field as a square QR code.
type QRRegion struct {
	Name  string `toml:"name"`
	Field string `toml:"field"`
	X     int    `toml:"x"`
	Y     int    `toml:"y"`
	Size  int    `toml:"size"`
}

// Value returns the text a region draws for rec, with prefix and suffix applied.
func (r TextRegion) Value(rec card.Record) string {
	v, _ := rec.Field(r.Field)
	if r.Prefix != "" && (r.PrefixWhenType == "" || strings.EqualFold(rec.Type, r.PrefixWhenType)) {
		v = r.Prefix + v
	}
	return v + r.Suffix
}

// AnchorX returns the x coordinate text is anchored at and the matching
// horizontal anchor fraction (0 left, 0.5 centre, 1 right).
func (r TextRegion) AnchorX() (x float64, ax float64) {
	switch r.Align {
	case AlignCenter:
		return float64(r.X) + float64(r.Width)/2, 0.5
	case AlignRight:
		return float64(r.X + r.Width), 1
	default:
		return float64(r.X), 0
	}
}

// Validate checks that the layout is internally consistent.
func (l *Layout) Validate() error {
	bad := func(format string, args ...any) error {
		return cperrors.New(cperrors.ErrCodeInvalidLayout, "layout %q: "+format, append([]any{l.Name}, args...)...)
	}

	if l.Canvas.Width <= 0 || l.Canvas.Height <= 0 {
		return bad("canvas must have positive size, got %dx%d", l.Canvas.Width, l.Canvas.Height)
	}
	if _, err := ParseColor(l.Canvas.Background, color.White); err != nil {
		return bad("canvas background: %v", err)
	}
	for tier, f := range l.Fonts {
		if f.Size <= 0 {
			return bad("font tier %q must have a positive size", tier)
		}
	}
	for _, f := range l.Frames {
		if f.Width <= 0 || f.Height <= 0 {
			return bad("frame %q must have positive size", f.Name)
		}
		if _, err := ParseColor(f.Color, color.Black); err != nil {
			return bad("frame %q: %v", f.Name, err)
		}
	}
	for _, im := range l.Illustrations {
		if im.Width <= 0 || im.Height <= 0 {
			return bad("illustration %q must have positive size", im.Name)
		}
	}
	for _, q := range l.QRCodes {
		if q.Size <= 0 {
			return bad("qr %q must have positive size", q.Name)
		}
		if !card.IsField(q.Field) {
			return bad("qr %q: unknown field %q", q.Name, q.Field)
		}
	}
	for _, t := range l.Text {
		if !card.IsField(t.Field) {
			return bad("text %q: unknown field %q", t.Name, t.Field)
		}
		if _, ok := l.Fonts[t.Tier]; !ok {
			return bad("text %q: unknown font tier %q", t.Name, t.Tier)
		}
		switch t.Align {
		case "", AlignLeft, AlignCenter, AlignRight:
		default:
			return bad("text %q: invalid align %q (must be left, center or right)", t.Name, t.Align)
		}
		if t.Align == AlignCenter || t.Align == AlignRight || t.Wrap {
			if t.Width <= 0 {
				return bad("text %q: width is required for %s text", t.Name, describe(t))
			}
		}
		if t.FitWidth > 0 {
			if _, ok := l.Fonts[t.FallbackTier]; !ok {
				return bad("text %q: fit_width needs a known fallback_tier, got %q", t.Name, t.FallbackTier)
			}
		}
		if _, err := ParseColor(t.Color, color.Black); err != nil {
			return bad("text %q: %v", t.Name, err)
		}
	}
	return nil
}

func describe(t TextRegion) string {
	if t.Wrap {
		return "wrapped"
	}
	return string(t.Align) + "-aligned"
}

// Load reads a layout from a TOML file and validates it.
func Load(path string) (*Layout, error) {
	var l Layout
	if _, err := toml.DecodeFile(path, &l); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cperrors.Wrap(cperrors.ErrCodeFileNotFound, err, "layout file %s", path)
		}
		return nil, cperrors.Wrap(cperrors.ErrCodeInvalidLayout, err, "decode layout %s", path)
	}
	if l.Name == "" {
		l.Name = path
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Resolve returns the preset called nameOrPath, or loads it as a file.
func Resolve(nameOrPath string) (*Layout, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultPreset
	}
	if l, ok := Preset(nameOrPath); ok {
		return l, nil
	}
	if _, err := os.Stat(nameOrPath); err != nil {
		return nil, cperrors.New(cperrors.ErrCodeInvalidLayout,
			"unknown layout %q (presets: %s)", nameOrPath, strings.Join(PresetNames(), ", "))
	}
	return Load(nameOrPath)
}

// Encode writes l as TOML.
func Encode(w io.Writer, l *Layout) error {
	if err := toml.NewEncoder(w).Encode(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}
