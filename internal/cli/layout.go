package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/highlight"
)

// layoutCommand creates the layout command for computing person positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [persons.json]",
		Short: "Compute a generation-aligned layout for a family tree",
		Long: `Compute a generation-aligned layout for a family tree.

The layout command reads a person list (a JSON array, an object with a
"persons" array, or the configured MongoDB collection when no file is given)
and computes positions for every person. The output is a layout.json file
(same format as 'render -f json') that can be rendered to SVG/PNG/PDF using
the 'visualize' command.

Use "-" to read persons from standard input.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			return c.runLayout(cmd.Context(), firstArg(args), output, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.ValidArgsFunction = completePersonFiles
	flags.register(cmd)

	return cmd
}

// runLayout loads the persons, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, flags *layoutFlags) error {
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

	persons, err := c.loadPersons(ctx, runner, cfg, input, opts)
	if err != nil {
		return fmt.Errorf("load persons: %w", err)
	}

	spinner := c.spin(ctx, "Laying out")
	res, cacheHit, err := runner.LayoutWithCacheInfo(ctx, persons, opts)
	if err != nil {
		spinner.fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	l := graph.FromResult(highlight.NewMemoryCanvas(persons), res)

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	out := c.report()
	out.success("Layout complete")
	out.file(outputPath)
	out.summary(summarize(l, res.Duplicates, cacheHit))
	out.next("Render", appName+" visualize "+outputPath)

	return nil
}

// firstArg returns args[0], or "" when there are no arguments.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
