// Package pipeline provides the card build pipeline for cardpress.
//
// A build runs three steps in order:
//
//  1. Clean: wipe and recreate the output folder
//  2. Render: draw every record of the input table to a PNG in that folder
//  3. Sheet: tile the folder's images onto PDF pages
//
// The CLI runs all three (build), the first two (render) or only the last
// (sheet). Each step logs progress per card or per page.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Input:  "database.tsv",
//	    Layout: "badge",
//	}
//	result, err := runner.Build(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.SheetPath, result.Stats.Pages)
package pipeline

import (
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	cperrors "github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/fonts"
	"github.com/matzehuels/cardpress/pkg/layout"
	"github.com/matzehuels/cardpress/pkg/sheet"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultInput is the tab-separated table read when no input is given.
	DefaultInput = "database.tsv"

	// DefaultOutputDir receives one PNG per record. It is wiped on every build.
	DefaultOutputDir = "cards"

	// DefaultSheetPath is the printable PDF written by the sheet step.
	DefaultSheetPath = "cards.pdf"

	// DefaultAssetsDir is searched for illustrations named after each card.
	DefaultAssetsDir = "assets"
)

// DefaultLayout is the layout preset used when none is configured.
const DefaultLayout = layout.DefaultPreset

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a build.
type Options struct {
	// Render options
	Input     string `json:"input"`
	OutputDir string `json:"output_dir"`
	AssetsDir string `json:"assets_dir"`
	Layout    string `json:"layout"`              // preset name or TOML file
	FontPath  string `json:"font,omitempty"`      // replaces the font file of every tier
	Template  string `json:"template,omitempty"` // replaces the layout's template image

	// Sheet options
	SheetPath     string   `json:"sheet"`
	Columns       int      `json:"columns,omitempty"`
	Margin        *float64 `json:"margin,omitempty"`          // nil means the sheet default; 0 is no margin
	SkipBlankPage bool     `json:"skip_blank_page,omitempty"` // omit the leading blank page (default: false = keep it)
	Title         string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Cards lists every card written, in input order.
	Cards []Card

	// Fonts reports how each font tier of the layout was resolved.
	Fonts map[string]fonts.Resolved

	// SheetPath is the PDF written, empty if the sheet step did not run.
	SheetPath string

	// Plan is the page assignment of the sheet.
	Plan sheet.Plan

	Stats Stats
}

// FontFallbacks returns the configured fonts that were not found, one entry
// per requested path even when several tiers share the file.
func (r *Result) FontFallbacks() []fonts.Resolved {
	seen := make(map[string]bool)
	var out []fonts.Resolved
	for _, res := range r.Fonts {
		if !res.Fallback() || seen[res.Requested] {
			continue
		}
		seen[res.Requested] = true
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Requested < out[j].Requested })
	return out
}

// Card is one rendered record.
type Card struct {
	Name string
	Path string

	// NameTier is the font tier the name was drawn with.
	NameTier string

	// MissingArt is true when an illustration window got the placeholder.
	MissingArt bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records      int
	Cards        int // distinct files; records with the same file name overwrite each other
	Overwritten  int
	MissingArt   int
	FontFallback int // distinct font files not found
	Pages        int
	RenderTime   time.Duration
	SheetTime    time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// SetRenderDefaults sets default values for the clean and render steps.
func (o *Options) SetRenderDefaults() {
	if o.Input == "" {
		o.Input = DefaultInput
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.AssetsDir == "" {
		o.AssetsDir = DefaultAssetsDir
	}
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets defaults and checks the output folder is safe to
// wipe: it must not hold the input table or any other file the build reads.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return cperrors.ValidateOutputDir(o.OutputDir, o.Input, o.AssetsDir, o.FontPath, o.Template)
}

// SetSheetDefaults sets default values for the sheet step.
func (o *Options) SetSheetDefaults() {
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.SheetPath == "" {
		o.SheetPath = DefaultSheetPath
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForSheet sets defaults and checks the sheet geometry.
func (o *Options) ValidateForSheet() error {
	o.SetSheetDefaults()
	so := o.SheetOptions(nil)
	so.SetDefaults()
	return so.Validate()
}

// ValidateAndSetDefaults prepares options for a full build.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	return o.ValidateForSheet()
}

// SheetOptions returns the paginator options for these pipeline options.
// l supplies the card aspect ratio; nil means the standard card size.
func (o *Options) SheetOptions(l *layout.Layout) sheet.Options {
	so := sheet.Options{
		Columns:          o.Columns,
		Margin:           o.Margin,
		LeadingBlankPage: !o.SkipBlankPage,
		Title:            o.Title,
		Logger:           o.Logger,
	}
	if l != nil {
		so.CardWidth = l.Canvas.Width
		so.CardHeight = l.Canvas.Height
	}
	return so
}

// ResolveLayout loads the configured layout and applies the font and
// template overrides.
func (o *Options) ResolveLayout() (*layout.Layout, error) {
	name := o.Layout
	if name == "" {
		name = DefaultLayout
	}
	l, err := layout.Resolve(name)
	if err != nil {
		return nil, err
	}
	if o.FontPath != "" {
		for tier, f := range l.Fonts {
			f.Path = o.FontPath
			l.Fonts[tier] = f
		}
	}
	if o.Template != "" {
		l.Canvas.Template = o.Template
	}
	return l, nil
}
