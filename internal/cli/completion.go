package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/source"
	"github.com/matzehuels/lineage/pkg/source/local"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for lineage.

Besides commands and flags, the scripts complete person list files, output
formats for --format, and person IDs for --root and --highlight, read from
the person list given on the command line.

  $ source <(lineage completion bash)
  $ lineage completion zsh > "${fpath[1]}/_lineage"
  $ lineage completion fish > ~/.config/fish/completions/lineage.fish`,
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
			}
			return cmd.Root().GenPowerShellCompletionWithDesc(w)
		},
	}
}

// completePersonFiles completes the positional person list argument.
func completePersonFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes a comma-separated format list, offering only
// formats not listed yet. allowed restricts the offer when non-empty.
func completeFormats(allowed ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		done, prefix := "", toComplete
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			done, prefix = toComplete[:i+1], toComplete[i+1:]
		}
		listed := strings.Split(strings.TrimSuffix(done, ","), ",")

		var out []string
		for _, f := range sortedFormats() {
			if len(allowed) > 0 && !slices.Contains(allowed, f) {
				continue
			}
			if slices.Contains(listed, f) || !strings.HasPrefix(f, prefix) {
				continue
			}
			out = append(out, done+f)
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

func sortedFormats() []string {
	formats := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

// completePersonIDs completes person IDs from the person list named by the
// first argument, or from the configured source. Each candidate carries the
// display name as its description.
func (c *CLI) completePersonIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	input := firstArg(args)
	if input == local.Stdin {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := source.Open(ctx, cfg.Source, input, c.Logger)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer src.Close(ctx)

	persons, err := src.Load(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, p := range persons {
		if strings.HasPrefix(p.ID, toComplete) {
			out = append(out, p.ID+"\t"+p.DisplayName())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
