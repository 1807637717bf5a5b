package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	cperrors "github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/layout"
)

// layoutCommand groups the layout inspection subcommands.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and export card layouts",
		Long: `Inspect and export card layouts.

A layout places frames, text regions and illustration windows on the card.
Export a preset with 'layout show <preset> -o my-layout.toml', edit it, and
pass the file to --layout.`,
	}

	cmd.AddCommand(c.layoutListCommand())
	cmd.AddCommand(c.layoutShowCommand())
	return cmd
}

func (c *CLI) layoutListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in layout presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range layout.PresetNames() {
				summary := layout.Describe(name)
				if name == layout.DefaultPreset {
					summary += StyleDim.Render(" (default)")
				}
				printKeyValue(name, summary)
			}
			return nil
		},
	}
}

func (c *CLI) layoutShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "show [preset|file.toml]",
		Short:             "Print a layout as TOML",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeLayoutArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := layout.DefaultPreset
			if len(args) == 1 {
				name = args[0]
			}
			return c.runLayoutShow(name, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout to a file instead of stdout")
	return cmd
}

func (c *CLI) runLayoutShow(name, output string) error {
	l, err := layout.Resolve(name)
	if err != nil {
		return err
	}

	if output == "" {
		return writeLayout(os.Stdout, l)
	}

	f, err := os.Create(output)
	if err != nil {
		return cperrors.Wrap(cperrors.ErrCodeIO, err, "create %s", output)
	}
	if err := writeLayout(f, l); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return cperrors.Wrap(cperrors.ErrCodeIO, err, "close %s", output)
	}

	printSuccess("Layout %s exported", l.Name)
	printFile(output)
	return nil
}

func writeLayout(w io.Writer, l *layout.Layout) error {
	if err := layout.Encode(w, l); err != nil {
		return cperrors.Wrap(cperrors.ErrCodeIO, err, "encode layout %s", l.Name)
	}
	return nil
}
