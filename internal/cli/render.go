package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/pipeline"
)

// renderCommand creates the render command, the one-step path from a person
// list to visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [persons.json]",
		Short: "Lay out a family tree and render it",
		Long: `Lay out a family tree and render it.

The render command runs the full pipeline: load persons, compute the layout,
optionally highlight a bloodline (--highlight), and render to one or more
formats. JSON output is the layout.json accepted by 'visualize'.

Layouts and rendered outputs are cached locally.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			flags.opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(flags.opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), firstArg(args), output, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&flags.opts.Highlight, "highlight", "", "highlight the bloodline of this person")
	cmd.Flags().BoolVar(&flags.opts.Detailed, "detailed", false, "show generation and position in labels")
	cmd.Flags().Float64Var(&flags.opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats())
	_ = cmd.RegisterFlagCompletionFunc("highlight", c.completePersonIDs)
	cmd.ValidArgsFunction = completePersonFiles

	return cmd
}

// runRender executes the complete pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input, output string, flags *layoutFlags) error {
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

	spinner := c.spin(ctx, "Rendering %s", strings.Join(opts.Formats, ", "))
	result, err := runner.Execute(ctx, persons, opts)
	if err != nil {
		spinner.fail("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	out := c.report()
	out.success("Render complete")
	for _, p := range paths {
		out.file(p)
	}
	out.summary(summarize(result.Layout, result.Stats.Duplicates, result.CacheInfo.LayoutHit))
	if result.Bloodline != nil {
		out.bloodline(*result.Bloodline)
	}
	return nil
}
