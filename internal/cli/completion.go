package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/layout"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cardpress.

Completions cover commands, flags and the layout presets accepted by
--layout and 'layout show'.

  $ source <(cardpress completion bash)
  $ cardpress completion zsh > "${fpath[1]}/_cardpress"
  $ cardpress completion fish > ~/.config/fish/completions/cardpress.fish
  PS> cardpress completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// completeLayouts offers the built-in presets with their summaries. A layout
// may also be a TOML file, so file completion stays on.
func completeLayouts(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, name := range layout.PresetNames() {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name+"\t"+layout.Describe(name))
		}
	}
	return out, cobra.ShellCompDirectiveDefault
}

// completeLayoutArg completes the single layout argument of 'layout show'.
func completeLayoutArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeLayouts(cmd, args, toComplete)
}
