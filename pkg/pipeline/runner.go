package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardpress/pkg/card"
	cperrors "github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/layout"
	"github.com/matzehuels/cardpress/pkg/observability"
	"github.com/matzehuels/cardpress/pkg/render"
	"github.com/matzehuels/cardpress/pkg/sheet"
)

// Runner executes pipeline steps.
//
// The Runner holds nothing but a logger, so one Runner can serve several
// builds as long as they write to different folders.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Build runs clean → render → sheet.
func (r *Runner) Build(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.Render(ctx, opts)
	if err != nil {
		return nil, err
	}

	l, err := opts.ResolveLayout()
	if err != nil {
		return nil, err
	}
	if err := r.sheet(ctx, opts, l, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Records loads the input table.
func (r *Runner) Records(opts Options) ([]card.Record, error) {
	opts.SetRenderDefaults()
	return card.LoadTSV(opts.Input)
}

// Clean removes the output folder and recreates it empty.
func (r *Runner) Clean(opts Options) error {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	if err := os.RemoveAll(opts.OutputDir); err != nil {
		return cperrors.Wrap(cperrors.ErrCodeIO, err, "clear %s", opts.OutputDir)
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return cperrors.Wrap(cperrors.ErrCodeIO, err, "create %s", opts.OutputDir)
	}
	opts.Logger.Debug("Cleared output folder", "dir", opts.OutputDir)
	return nil
}

// Render loads the input table, cleans the output folder and writes one PNG
// per record. The input is read before anything is deleted.
func (r *Runner) Render(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	records, err := card.LoadTSV(opts.Input)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded records", "input", opts.Input, "count", len(records))

	l, err := opts.ResolveLayout()
	if err != nil {
		return nil, err
	}
	rnd, err := render.New(l, render.WithAssetsDir(opts.AssetsDir), render.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer rnd.Close()

	result := &Result{Fonts: rnd.Fonts()}
	result.Stats.Records = len(records)
	hooks := observability.Render()
	for _, res := range result.FontFallbacks() {
		result.Stats.FontFallback++
		hooks.OnFallback(ctx, "font", res.Requested, res.Path)
	}

	if err := r.Clean(opts); err != nil {
		return nil, err
	}

	start := time.Now()
	written := make(map[string]bool, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(opts.OutputDir, rec.FileName())
		if written[path] {
			result.Stats.Overwritten++
			logger.Warn("Card overwritten", "name", rec.Name, "path", path)
		}

		c, err := renderCard(ctx, logger, rnd, rec, path)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", rec.Name, err)
		}
		written[path] = true
		if c.MissingArt {
			result.Stats.MissingArt++
		}
		result.Cards = append(result.Cards, c)
	}
	result.Stats.Cards = len(written)
	result.Stats.RenderTime = time.Since(start)

	logger.Debug("Rendered cards", "cards", result.Stats.Cards, "duration", result.Stats.RenderTime)
	return result, nil
}

func renderCard(ctx context.Context, logger *log.Logger, rnd *render.Renderer, rec card.Record, path string) (Card, error) {
	hooks := observability.Render()
	hooks.OnCardStart(ctx, rec.Name)
	start := time.Now()

	res, err := rnd.RenderFile(rec, path)
	hooks.OnCardComplete(ctx, rec.Name, path, time.Since(start), err)
	if err != nil {
		return Card{}, err
	}

	for _, region := range res.MissingArt {
		hooks.OnFallback(ctx, "illustration", rec.Name, region)
	}

	logger.Info("Saved", "path", path)
	return Card{
		Name:       rec.Name,
		Path:       path,
		NameTier:   res.Tiers[card.FieldName],
		MissingArt: len(res.MissingArt) > 0,
	}, nil
}

// Sheet paginates the images already in the output folder.
func (r *Runner) Sheet(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSheet(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	var l *layout.Layout
	if opts.Layout != "" {
		var err error
		if l, err = opts.ResolveLayout(); err != nil {
			return nil, err
		}
	}

	result := &Result{}
	if err := r.sheet(ctx, opts, l, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Runner) sheet(ctx context.Context, opts Options, l *layout.Layout, result *Result) error {
	start := time.Now()
	plan, err := sheet.WriteDir(ctx, opts.OutputDir, opts.SheetPath, opts.SheetOptions(l))
	if err != nil {
		return err
	}
	result.SheetPath = opts.SheetPath
	result.Plan = plan
	result.Stats.Pages = plan.TotalPages
	result.Stats.SheetTime = time.Since(start)

	opts.Logger.Debug("Wrote sheet", "path", opts.SheetPath, "pages", plan.TotalPages, "duration", result.Stats.SheetTime)
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
