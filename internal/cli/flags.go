package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/pipeline"
)

// pipelineFlags holds the command-line flags shared by build, render and sheet.
// Flags override the config file only when set explicitly.
type pipelineFlags struct {
	output   string // card folder
	assets   string // illustration folder
	layout   string // preset name or layout file
	font     string // font file for every tier
	template string // template image

	sheet   string // PDF path
	columns int
	margin  float64
	noCover bool // drop the leading blank page
	title   string
}

// registerRender adds the flags used by the render step.
func (f *pipelineFlags) registerRender(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "card folder, wiped before rendering (default: "+pipeline.DefaultOutputDir+")")
	cmd.Flags().StringVarP(&f.assets, "assets", "a", "", "illustration folder (default: "+pipeline.DefaultAssetsDir+")")
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "layout preset or TOML file (default: "+pipeline.DefaultLayout+")")
	cmd.Flags().StringVar(&f.font, "font", "", "font file used for all text")
	cmd.Flags().StringVar(&f.template, "template", "", "template image drawn under each card")
	_ = cmd.RegisterFlagCompletionFunc("layout", completeLayouts)
}

// registerSheet adds the flags used by the sheet step.
func (f *pipelineFlags) registerSheet(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.sheet, "sheet", "s", "", "PDF output path (default: "+pipeline.DefaultSheetPath+")")
	cmd.Flags().IntVar(&f.columns, "columns", 0, "cards per row (default: 3)")
	cmd.Flags().Float64Var(&f.margin, "margin", 0, "page margin in points (default: 36)")
	cmd.Flags().BoolVar(&f.noCover, "no-cover", false, "omit the leading blank page")
	cmd.Flags().StringVar(&f.title, "title", "", "PDF document title")
}

// apply copies explicitly set flags onto opts.
func (f *pipelineFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	set := cmd.Flags().Changed
	if set("output") {
		opts.OutputDir = f.output
	}
	if set("assets") {
		opts.AssetsDir = f.assets
	}
	if set("layout") {
		opts.Layout = f.layout
	}
	if set("font") {
		opts.FontPath = f.font
	}
	if set("template") {
		opts.Template = f.template
	}
	if set("sheet") {
		opts.SheetPath = f.sheet
	}
	if set("columns") {
		opts.Columns = f.columns
	}
	if set("margin") {
		margin := f.margin
		opts.Margin = &margin
	}
	if set("no-cover") {
		opts.SkipBlankPage = f.noCover
	}
	if set("title") {
		opts.Title = f.title
	}
}

// options merges the config file, explicit flags and the optional positional
// input into pipeline options.
func (c *CLI) options(cmd *cobra.Command, f *pipelineFlags) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := cfg.Options()
	f.apply(cmd, &opts)
	opts.Logger = loggerFromContext(cmd.Context())
	return opts, nil
}
