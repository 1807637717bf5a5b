package sheet

import (
	"math"

	cperrors "github.com/matzehuels/cardpress/pkg/errors"
)

// Letter page size in points.
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// Defaults for Options.
const (
	DefaultMargin  = 36.0
	DefaultColumns = 3
)

// Grid is the cell layout shared by every page of a sheet.
type Grid struct {
	Columns    int
	Rows       int
	CellWidth  float64
	CellHeight float64
	Margin     float64
}

// PerPage returns how many cards fit on one page.
func (g Grid) PerPage() int {
	return g.Columns * g.Rows
}

// Cell returns the top-left corner of the i-th cell of a page, filled
// row-major.
func (g Grid) Cell(i int) (x, y float64) {
	col := i % g.Columns
	row := i / g.Columns
	return g.Margin + float64(col)*g.CellWidth, g.Margin + float64(row)*g.CellHeight
}

// ComputeGrid derives the grid from the page size, margin, column count and
// card aspect ratio. The column count is fixed; rows are however many cells
// fit in the usable height.
func ComputeGrid(opts Options) (Grid, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Grid{}, err
	}

	margin := opts.margin()
	usableW := opts.PageWidth - 2*margin
	usableH := opts.PageHeight - 2*margin

	cellW := usableW / float64(opts.Columns)
	cellH := cellW * float64(opts.CardHeight) / float64(opts.CardWidth)
	rows := int(math.Floor(usableH / cellH))
	if rows < 1 {
		return Grid{}, cperrors.New(cperrors.ErrCodeInvalidConfig,
			"card cell %.1fx%.1f pt does not fit the usable page height %.1f pt", cellW, cellH, usableH)
	}

	return Grid{
		Columns:    opts.Columns,
		Rows:       rows,
		CellWidth:  cellW,
		CellHeight: cellH,
		Margin:     margin,
	}, nil
}

// Plan is the page assignment of a list of card images.
type Plan struct {
	Grid   Grid
	Images int

	// ContentPages is the number of pages holding cards.
	ContentPages int

	// TotalPages includes the leading blank page, if any.
	TotalPages int

	LeadingBlank bool

	// Chunks holds the image paths drawn on each content page, in order.
	Chunks [][]string
}

// NewPlan splits files into consecutive page-sized chunks.
func NewPlan(files []string, g Grid, leadingBlank bool) Plan {
	per := g.PerPage()
	p := Plan{Grid: g, Images: len(files), LeadingBlank: leadingBlank}
	for start := 0; start < len(files); start += per {
		end := min(start+per, len(files))
		p.Chunks = append(p.Chunks, files[start:end])
	}
	p.ContentPages = len(p.Chunks)
	p.TotalPages = p.ContentPages
	if leadingBlank {
		p.TotalPages++
	}
	return p
}
