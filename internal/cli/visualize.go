package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render visualization from a computed layout",
		Long: `Render visualization from a computed layout.

The visualize command takes a layout.json file (produced by 'layout',
'highlight -o' or 'render -f json') and renders it to SVG, PNG, PDF or DOT.
The layout contains all positioning and highlight information, so this step
is purely about rendering.

Results are cached locally for faster subsequent runs.

Use 'render' as a shortcut to go directly from persons.json to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show generation and position in labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatPDF, pipeline.FormatPNG))
	cmd.ValidArgsFunction = completePersonFiles

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Highlight = l.Root

	spinner := c.spin(ctx, "Rendering %d nodes", len(l.Nodes))
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.fail("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	out := c.report()
	out.success("Visualization complete")
	for _, p := range paths {
		out.file(p)
	}
	out.summary(summarize(l, 0, cacheHit))
	return nil
}

// countPersons returns the number of person nodes in l.
func countPersons(l graph.Layout) int {
	n := 0
	for _, node := range l.Nodes {
		if !node.IsUnion() {
			n++
		}
	}
	return n
}
