package render

import (
	"image/color"
	"strings"

	"github.com/fogleman/gg"

	"github.com/matzehuels/cardpress/pkg/card"
	"github.com/matzehuels/cardpress/pkg/layout"
	"github.com/matzehuels/cardpress/pkg/text"
)

// tierFor picks the font tier for value. Regions with a fit width drop to
// their fallback tier when the primary rendering is too wide; the fallback
// is used even if it still overflows.
func (r *Renderer) tierFor(t layout.TextRegion, value string) string {
	if t.FitWidth > 0 {
		if w, _ := r.Measure(t.Tier, value); w > float64(t.FitWidth) {
			return t.FallbackTier
		}
	}
	return t.Tier
}

// drawText draws one text region and returns the tier it used.
// Regions whose value is blank are skipped.
func (r *Renderer) drawText(dc *gg.Context, rec card.Record, t layout.TextRegion) (string, bool) {
	value := t.Value(rec)
	if strings.TrimSpace(value) == "" {
		return "", false
	}

	tier := r.tierFor(t, value)
	face := r.faces[tier]
	m := faceMeasurer{face}

	c, _ := layout.ParseColor(t.Color, color.Black)
	dc.SetFontFace(face)
	dc.SetColor(c)

	lines := []string{value}
	if t.Wrap {
		lines = text.Wrap(m, value, float64(t.Width))
	}

	// Y is the top of the first line; each line advances by its measured height.
	x, ax := t.AnchorX()
	y := float64(t.Y)
	for _, line := range lines {
		_, h := m.MeasureString(line)
		dc.DrawStringAnchored(line, x, y, ax, 1)
		y += h
	}
	return tier, true
}
