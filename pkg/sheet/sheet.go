// Package sheet tiles rendered card images onto letter-sized PDF pages for
// printing.
//
// Cards are placed left to right, top to bottom, in the order they are
// given. Every page shares one grid: a fixed number of columns, cells as
// wide as the usable width allows and as tall as the card aspect ratio
// demands, and as many rows as fit.
//
// By default the document starts with an empty page before the first page
// of cards, which printers commonly use as a cover sheet. Set
// Options.LeadingBlankPage to false to drop it.
package sheet

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-pdf/fpdf"

	cperrors "github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/layout"
	"github.com/matzehuels/cardpress/pkg/observability"
)

// ImageExts lists the file extensions picked up by List (case-insensitive).
var ImageExts = []string{".png", ".jpg", ".jpeg"}

// Options configures sheet layout and output.
type Options struct {
	PageWidth  float64  // points
	PageHeight float64  // points
	Margin     *float64 // points, all four sides; nil means DefaultMargin
	Columns    int

	// CardWidth and CardHeight give the card aspect ratio.
	CardWidth  int
	CardHeight int

	LeadingBlankPage bool

	Title  string
	Logger *log.Logger
}

// DefaultOptions returns letter pages with a half-inch margin, three
// columns, the standard card size and a leading blank page.
func DefaultOptions() Options {
	o := Options{LeadingBlankPage: true}
	o.SetDefaults()
	return o
}

// SetDefaults fills zero-valued fields. LeadingBlankPage is left as is.
func (o *Options) SetDefaults() {
	if o.PageWidth == 0 {
		o.PageWidth = LetterWidth
	}
	if o.PageHeight == 0 {
		o.PageHeight = LetterHeight
	}
	if o.Margin == nil {
		m := DefaultMargin
		o.Margin = &m
	}
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.CardWidth == 0 {
		o.CardWidth = layout.CardWidth
	}
	if o.CardHeight == 0 {
		o.CardHeight = layout.CardHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options describe a usable page.
func (o *Options) Validate() error {
	margin := o.margin()
	switch {
	case o.PageWidth <= 0 || o.PageHeight <= 0:
		return cperrors.New(cperrors.ErrCodeInvalidConfig, "page size must be positive, got %gx%g", o.PageWidth, o.PageHeight)
	case margin < 0:
		return cperrors.New(cperrors.ErrCodeInvalidConfig, "margin must not be negative, got %g", margin)
	case 2*margin >= o.PageWidth || 2*margin >= o.PageHeight:
		return cperrors.New(cperrors.ErrCodeInvalidConfig, "margin %g leaves no room on a %gx%g page", margin, o.PageWidth, o.PageHeight)
	case o.Columns < 1:
		return cperrors.New(cperrors.ErrCodeInvalidConfig, "columns must be at least 1, got %d", o.Columns)
	case o.CardWidth <= 0 || o.CardHeight <= 0:
		return cperrors.New(cperrors.ErrCodeInvalidConfig, "card size must be positive, got %dx%d", o.CardWidth, o.CardHeight)
	}
	return nil
}

func (o *Options) margin() float64 {
	if o.Margin == nil {
		return DefaultMargin
	}
	return *o.Margin
}

// List returns the card images in dir in directory listing order (sorted by
// file name). Subdirectories and other files are skipped.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cperrors.Wrap(cperrors.ErrCodeFileNotFound, err, "card folder %s", dir)
		}
		return nil, cperrors.Wrap(cperrors.ErrCodeIO, err, "read card folder %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Write tiles files onto PDF pages and writes the document to w.
// The context is checked between pages.
func Write(ctx context.Context, files []string, w io.Writer, opts Options) (Plan, error) {
	opts.SetDefaults()
	if len(files) == 0 {
		return Plan{}, cperrors.New(cperrors.ErrCodeInvalidInput, "no card images to place on the sheet")
	}
	grid, err := ComputeGrid(opts)
	if err != nil {
		return Plan{}, err
	}
	plan := NewPlan(files, grid, opts.LeadingBlankPage)

	hooks := observability.Sheet()
	start := time.Now()
	hooks.OnSheetStart(ctx, plan.Images, plan.TotalPages)

	err = writePDF(ctx, plan, w, opts)
	hooks.OnSheetComplete(ctx, plan.TotalPages, time.Since(start), err)
	if err != nil {
		return Plan{}, err
	}
	return plan, nil
}

func writePDF(ctx context.Context, plan Plan, w io.Writer, opts Options) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: opts.PageWidth, Ht: opts.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCreator("cardpress", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}

	if plan.LeadingBlank {
		pdf.AddPage()
	}

	g := plan.Grid
	for i, chunk := range plan.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf.AddPage()
		for j, path := range chunk {
			x, y := g.Cell(j)
			pdf.ImageOptions(path, x, y, g.CellWidth, g.CellHeight, false, fpdf.ImageOptions{}, 0, "")
			if !pdf.Ok() {
				return cperrors.Wrap(cperrors.ErrCodeRender, pdf.Error(), "place %s", path)
			}
		}
		opts.Logger.Info("Page", "page", pdf.PageNo(), "total", plan.TotalPages, "cards", len(chunk))
		observability.Sheet().OnPageComplete(ctx, i+1, len(chunk))
	}

	if err := pdf.Output(w); err != nil {
		return cperrors.Wrap(cperrors.ErrCodeIO, err, "write pdf")
	}
	return nil
}

// WriteFile writes the sheet for files to path, creating parent folders.
func WriteFile(ctx context.Context, files []string, path string, opts Options) (Plan, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Plan{}, cperrors.Wrap(cperrors.ErrCodeIO, err, "create %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return Plan{}, cperrors.Wrap(cperrors.ErrCodeIO, err, "create %s", path)
	}
	plan, err := Write(ctx, files, f, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cperrors.Wrap(cperrors.ErrCodeIO, cerr, "close %s", path)
	}
	if err != nil {
		os.Remove(path)
		return Plan{}, err
	}
	return plan, nil
}

// WriteDir lists dir and writes its images to path.
func WriteDir(ctx context.Context, dir, path string, opts Options) (Plan, error) {
	files, err := List(dir)
	if err != nil {
		return Plan{}, err
	}
	return WriteFile(ctx, files, path, opts)
}
