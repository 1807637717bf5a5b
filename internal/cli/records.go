package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/card"
	"github.com/matzehuels/cardpress/pkg/pipeline"
)

// descriptionPreview is the number of runes of a description shown in the table.
const descriptionPreview = 40

// recordsCommand creates the records command for previewing the input table.
func (c *CLI) recordsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "records [table.tsv]",
		Short: "Show the records parsed from the input table",
		Long: `Show the records parsed from the input table and the file each one
renders to. Nothing is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Options()
			if len(args) == 1 {
				opts.Input = args[0]
			}
			return c.runRecords(os.Stdout, opts, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func (c *CLI) runRecords(w io.Writer, opts pipeline.Options, asJSON bool) error {
	records, err := c.newRunner().Records(opts)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []card.Record{}
		}
		return enc.Encode(records)
	}

	fmt.Fprintln(w, recordsTable(records))
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  %s", plural(len(records), "record"))))
	return nil
}

// recordsTable renders records as a bordered table.
func recordsTable(records []card.Record) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{r.Name, r.Type, r.Energy, r.Trigger, truncate(r.Description, descriptionPreview), r.FileName()}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Name", "Type", "Energy", "Trigger", "Description", "File").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			switch col {
			case 0:
				return StyleHighlight
			case 2:
				return StyleNumber
			case 5:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})

	return t.Render()
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
