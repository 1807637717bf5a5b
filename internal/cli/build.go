package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/fonts"
	"github.com/matzehuels/cardpress/pkg/pipeline"
)

// buildCommand creates the build command: clean, render and paginate.
func (c *CLI) buildCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "build [table.tsv]",
		Short: "Render every card and assemble the print sheet",
		Long: `Render every card and assemble the print sheet.

The output folder is wiped, each row of the table is drawn to
<output>/<Name>.png (spaces and characters not allowed in file names become
underscores), and the folder is then tiled onto PDF pages.

Illustrations are looked up as <assets>/<Name>.png|.jpg|.jpeg; cards without
one get an empty window. A missing font falls back to the built-in font.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Input = args[0]
			}
			return c.runBuild(cmd.Context(), opts)
		},
	}

	flags.registerRender(cmd)
	flags.registerSheet(cmd)
	return cmd
}

// renderCommand creates the render command: clean and render only.
func (c *CLI) renderCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "render [table.tsv]",
		Short: "Render every card to PNG without building the sheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Input = args[0]
			}
			return c.runRender(cmd.Context(), opts)
		},
	}

	flags.registerRender(cmd)
	return cmd
}

// sheetCommand creates the sheet command: paginate an existing card folder.
func (c *CLI) sheetCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "sheet [card-folder]",
		Short: "Tile an existing folder of card images onto PDF pages",
		Long: `Tile an existing folder of card images onto PDF pages.

Images (.png, .jpg, .jpeg) are placed in file-name order, left to right and
top to bottom, on letter pages. The document starts with a blank page unless
--no-cover is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.OutputDir = args[0]
			}
			return c.runSheet(cmd.Context(), opts)
		},
	}

	flags.registerSheet(cmd)
	cmd.Flags().StringVarP(&flags.layout, "layout", "l", "", "layout whose card size sets the cell aspect ratio")
	_ = cmd.RegisterFlagCompletionFunc("layout", completeLayouts)
	return cmd
}

func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options) error {
	prog := newProgress(opts.Logger)
	result, err := c.newRunner().Build(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Build complete", "cards", result.Stats.Cards, "pages", result.Stats.Pages)

	printRenderSummary(result, opts)
	printSheetSummary(result)
	return nil
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options) error {
	prog := newProgress(opts.Logger)
	result, err := c.newRunner().Render(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Render complete", "cards", result.Stats.Cards, "missing_art", result.Stats.MissingArt)

	printRenderSummary(result, opts)
	printNewline()
	printNextStep("Build the print sheet", appName+" sheet "+opts.OutputDir)
	return nil
}

func (c *CLI) runSheet(ctx context.Context, opts pipeline.Options) error {
	prog := newProgress(opts.Logger)
	result, err := c.newRunner().Sheet(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Sheet complete", "pages", result.Stats.Pages, "path", result.SheetPath)

	printSheetSummary(result)
	return nil
}

// printRenderSummary reports the cards written and any recovered resources.
func printRenderSummary(result *pipeline.Result, opts pipeline.Options) {
	st := result.Stats
	printSuccess("Rendered %s", plural(st.Cards, "card"))
	printFile(opts.OutputDir)
	printStats(st)

	for _, res := range result.FontFallbacks() {
		printWarning("Font %s not found, using %s", res.Requested, fontLabel(res))
	}
}

// printSheetSummary reports the PDF written.
func printSheetSummary(result *pipeline.Result) {
	plan := result.Plan
	printSuccess("Sheet complete")
	printFile(result.SheetPath)

	detail := fmt.Sprintf("%s · %d×%d grid", plural(plan.TotalPages, "page"), plan.Grid.Columns, plan.Grid.Rows)
	if plan.LeadingBlank {
		detail += " · blank cover page"
	}
	printDetail("%s", detail)
}

func fontLabel(res fonts.Resolved) string {
	if res.Source == fonts.SourceBuiltin {
		return res.Path + " (built-in)"
	}
	return res.Path
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
