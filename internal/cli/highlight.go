package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// highlightCommand creates the highlight command for tracing a bloodline.
func (c *CLI) highlightCommand() *cobra.Command {
	var (
		root   string
		output string
		asJSON bool
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "highlight [persons.json] --root ID",
		Short: "Trace the bloodline of one person",
		Long: `Trace the bloodline of one person.

The highlight command lays out the family tree, then marks the root person,
all of their ancestors and all of their descendants, together with the unions
that connect them. The members are printed; with --output the highlighted
layout is written as layout.json for 'visualize'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			return c.runHighlight(cmd.Context(), cmd, firstArg(args), root, output, asJSON, &flags)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "person whose bloodline is traced")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the highlighted layout to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the bloodline as JSON")
	_ = cmd.MarkFlagRequired("root")
	_ = cmd.RegisterFlagCompletionFunc("root", c.completePersonIDs)
	cmd.ValidArgsFunction = completePersonFiles
	flags.register(cmd)

	return cmd
}

// runHighlight lays out the persons and traces the bloodline of root.
func (c *CLI) runHighlight(ctx context.Context, cmd *cobra.Command, input, root, output string, asJSON bool, flags *layoutFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := flags.opts
	opts.Logger = c.Logger
	opts.Highlight = root

	persons, err := c.loadPersons(ctx, runner, cfg, input, opts)
	if err != nil {
		return fmt.Errorf("load persons: %w", err)
	}

	res, err := runner.Layout(ctx, persons, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	l, bl, err := pipeline.Highlight(ctx, persons, res, root, opts)
	if err != nil {
		return err
	}

	if output != "" {
		if err := graph.WriteLayoutFile(l, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(bl)
	}

	out := c.report()
	out.success("Bloodline traced")
	out.bloodline(bl)
	if output != "" {
		out.file(output)
		out.next("Render", appName+" visualize "+output)
	}
	return nil
}
