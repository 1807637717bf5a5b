package render

import (
	"errors"
	"image"
	"image/color"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"

	"github.com/matzehuels/cardpress/pkg/card"
	cperrors "github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/fonts"
	"github.com/matzehuels/cardpress/pkg/layout"
	"github.com/matzehuels/cardpress/pkg/text"
)

// IllustrationExts lists the file extensions tried when looking up a card's
// illustration, in order.
var IllustrationExts = []string{".png", ".jpg", ".jpeg"}

// Option configures a Renderer.
type Option func(*Renderer)

// WithAssetsDir sets the folder searched for illustrations.
// Without it every illustration window gets the placeholder.
func WithAssetsDir(dir string) Option {
	return func(r *Renderer) { r.assetsDir = dir }
}

// WithLogger sets the logger used for fallback and debug messages.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Renderer draws records with a fixed layout.
// It is not safe for concurrent use.
type Renderer struct {
	layout    *layout.Layout
	assetsDir string
	logger    *log.Logger

	loader   *fonts.Loader
	faces    map[string]font.Face
	resolved map[string]fonts.Resolved
	template image.Image
}

// Result is a rendered card.
type Result struct {
	Image image.Image

	// Tiers maps each drawn text region name to the font tier it used.
	Tiers map[string]string

	// MissingArt lists illustration windows that got the placeholder.
	MissingArt []string
}

// New validates l, resolves its fonts and loads its template image.
func New(l *layout.Layout, opts ...Option) (*Renderer, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		layout:   l,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		loader:   fonts.NewLoader(),
		faces:    make(map[string]font.Face, len(l.Fonts)),
		resolved: make(map[string]fonts.Resolved, len(l.Fonts)),
	}
	for _, opt := range opts {
		opt(r)
	}

	for tier, f := range l.Fonts {
		face, res, err := r.loader.Face(f.Path, f.Size)
		if err != nil {
			r.loader.Close()
			return nil, cperrors.Wrap(cperrors.ErrCodeRender, err, "font tier %q", tier)
		}
		if res.Fallback() {
			r.logger.Debug("Font not found, using fallback", "tier", tier, "requested", f.Path, "using", res.Path)
		}
		r.faces[tier] = face
		r.resolved[tier] = res
	}

	if l.Canvas.Template != "" {
		tpl, err := imaging.Open(l.Canvas.Template)
		if err != nil {
			r.loader.Close()
			if errors.Is(err, fs.ErrNotExist) {
				return nil, cperrors.Wrap(cperrors.ErrCodeFileNotFound, err, "template image %s", l.Canvas.Template)
			}
			return nil, cperrors.Wrap(cperrors.ErrCodeRender, err, "decode template image %s", l.Canvas.Template)
		}
		r.template = imaging.Fill(tpl, l.Canvas.Width, l.Canvas.Height, imaging.Center, imaging.Lanczos)
	}

	return r, nil
}

// Close releases font faces.
func (r *Renderer) Close() error {
	return r.loader.Close()
}

// Fonts returns how each font tier was resolved.
func (r *Renderer) Fonts() map[string]fonts.Resolved {
	out := make(map[string]fonts.Resolved, len(r.resolved))
	for k, v := range r.resolved {
		out[k] = v
	}
	return out
}

// Measure returns the rendered size of s in the given tier.
func (r *Renderer) Measure(tier, s string) (w, h float64) {
	face, ok := r.faces[tier]
	if !ok {
		return 0, 0
	}
	return faceMeasurer{face}.MeasureString(s)
}

// Render draws rec onto a new canvas.
func (r *Renderer) Render(rec card.Record) (*Result, error) {
	l := r.layout
	dc := gg.NewContext(l.Canvas.Width, l.Canvas.Height)

	bg, _ := layout.ParseColor(l.Canvas.Background, color.White)
	dc.SetColor(bg)
	dc.Clear()

	if r.template != nil {
		dc.DrawImage(r.template, 0, 0)
	}

	res := &Result{Tiers: make(map[string]string, len(l.Text))}

	for _, region := range l.Illustrations {
		art, found, err := r.illustration(rec, region)
		if err != nil {
			return nil, err
		}
		if !found {
			res.MissingArt = append(res.MissingArt, region.Name)
		}
		dc.DrawImage(art, region.X, region.Y)
	}

	for _, f := range l.Frames {
		c, _ := layout.ParseColor(f.Color, color.Black)
		dc.SetColor(c)
		dc.SetLineWidth(f.LineWidth)
		dc.DrawRectangle(float64(f.X), float64(f.Y), float64(f.Width), float64(f.Height))
		dc.Stroke()
	}

	for _, q := range l.QRCodes {
		if err := drawQR(dc, rec, q); err != nil {
			return nil, err
		}
	}

	for _, t := range l.Text {
		if tier, drawn := r.drawText(dc, rec, t); drawn {
			res.Tiers[t.Name] = tier
		}
	}

	res.Image = dc.Image()
	return res, nil
}

// RenderFile renders rec and saves it as a PNG at path.
func (r *Renderer) RenderFile(rec card.Record, path string) (*Result, error) {
	res, err := r.Render(rec)
	if err != nil {
		return nil, err
	}
	if err := SavePNG(res.Image, path); err != nil {
		return nil, err
	}
	return res, nil
}

// SavePNG writes img to path as PNG.
func SavePNG(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return cperrors.Wrap(cperrors.ErrCodeIO, err, "save %s", path)
	}
	return nil
}

// illustration loads the record's artwork resized to the region, or a
// transparent placeholder when there is none.
func (r *Renderer) illustration(rec card.Record, region layout.ImageRegion) (image.Image, bool, error) {
	for _, path := range r.illustrationCandidates(rec) {
		img, err := imaging.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, false, cperrors.Wrap(cperrors.ErrCodeRender, err, "decode illustration %s", path)
		}
		r.logger.Debug("Illustration", "card", rec.Name, "path", path)
		return imaging.Resize(img, region.Width, region.Height, imaging.Lanczos), true, nil
	}

	r.logger.Debug("No illustration, using placeholder", "card", rec.Name, "region", region.Name)
	return imaging.New(region.Width, region.Height, color.Transparent), false, nil
}

// illustrationCandidates lists paths tried for rec: the exact name first,
// then the sanitised file name, each with every extension. Names containing
// a path separator are only tried sanitised so lookups stay inside the
// assets folder.
func (r *Renderer) illustrationCandidates(rec card.Record) []string {
	if r.assetsDir == "" || rec.Name == "" {
		return nil
	}
	var bases []string
	if !strings.ContainsAny(rec.Name, `/\`) {
		bases = append(bases, rec.Name)
	}
	if s := card.SanitizeName(rec.Name); len(bases) == 0 || s != rec.Name {
		bases = append(bases, s)
	}

	var out []string
	for _, base := range bases {
		for _, ext := range IllustrationExts {
			out = append(out, filepath.Join(r.assetsDir, base+ext))
		}
	}
	return out
}

func drawQR(dc *gg.Context, rec card.Record, q layout.QRRegion) error {
	value, _ := rec.Field(q.Field)
	if value == "" {
		return nil
	}
	code, err := qrcode.New(value, qrcode.Medium)
	if err != nil {
		return cperrors.Wrap(cperrors.ErrCodeRender, err, "qr %q", q.Name)
	}
	code.DisableBorder = true
	img := code.Image(q.Size)
	if b := img.Bounds(); b.Dx() != q.Size || b.Dy() != q.Size {
		img = imaging.Resize(img, q.Size, q.Size, imaging.NearestNeighbor)
	}
	dc.DrawImage(img, q.X, q.Y)
	return nil
}

// text.Measurer over a bare face, matching gg's whole-pixel measurement.
type faceMeasurer struct {
	face font.Face
}

func (m faceMeasurer) MeasureString(s string) (float64, float64) {
	adv := font.MeasureString(m.face, s)
	return float64(adv >> 6), float64(m.face.Metrics().Height) / 64
}

var _ text.Measurer = faceMeasurer{}
