package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/config"
	lerrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/source"
	"github.com/matzehuels/lineage/pkg/source/local"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes returned by [CLI.Execute].
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalid     = 2
	ExitNotFound    = 3
	ExitInterrupted = 130
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string

	verbose bool
	out     io.Writer
	errOut  io.Writer
	cfg     *config.Config
}

// New creates a new CLI instance whose logger writes to w at level. The
// --verbose flag lowers the level to debug.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: os.Stdout, errOut: w}
}

// Execute runs the command line args and returns the process exit code.
// Errors are printed to the CLI's log writer.
func (c *CLI) Execute(ctx context.Context, args []string) int {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(c.errOut)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	code := exitCode(err)
	if code != ExitInterrupted {
		fmt.Fprintln(root.ErrOrStderr(), markError+" "+lerrors.UserMessage(err))
	}
	return code
}

// exitCode maps an error to a process exit code: 2 for invalid input,
// options or config, 3 for unknown persons or files, 130 for an interrupt.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	switch lerrors.GetCode(err) {
	case lerrors.ErrCodeCanceled:
		return ExitInterrupted
	case lerrors.ErrCodeInvalidInput, lerrors.ErrCodeInvalidOptions, lerrors.ErrCodeInvalidFormat,
		lerrors.ErrCodeInvalidPath, lerrors.ErrCodeInvalidConfig:
		return ExitInvalid
	case lerrors.ErrCodeNotFound, lerrors.ErrCodeFileNotFound:
		return ExitNotFound
	}
	return ExitFailure
}

// report returns the writer for human-readable command output.
func (c *CLI) report() report { return report{w: c.out} }

// spin starts a progress spinner on the error stream.
func (c *CLI) spin(ctx context.Context, format string, args ...any) *stageSpinner {
	return startSpinner(ctx, c.errOut, fmt.Sprintf(format, args...))
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Lineage lays out family trees and traces bloodlines",
		Long:         `Lineage computes generation-aligned layouts for family trees, highlights the bloodline of a person, and renders the result as JSON, DOT, SVG, PNG or PDF.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.Logger.SetLevel(levelFor(c.verbose))
			c.out = cmd.OutOrStdout()
			c.errOut = cmd.ErrOrStderr()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Get().Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/lineage/lineage.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.highlightCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// versionCommand prints build information.
func (c *CLI) versionCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildinfo.Get()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print build information as JSON")
	return cmd
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the config file once per CLI.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// layoutFlags holds the layout flags shared by several commands.
type layoutFlags struct {
	opts    pipeline.Options
	noCache bool
}

// register adds the layout flags to cmd.
func (f *layoutFlags) register(cmd *cobra.Command) {
	f.opts = pipeline.DefaultOptions()
	flags := cmd.Flags()
	flags.Float64Var(&f.opts.Layout.HorizontalGridSize, "grid", f.opts.Layout.HorizontalGridSize, "horizontal grid size")
	flags.Float64Var(&f.opts.Layout.RelativeAttraction, "attraction", f.opts.Layout.RelativeAttraction, "relative attraction in [0,1] (0 spread, 1 packed)")
	flags.Float64Var(&f.opts.Layout.RowHeight, "row-height", f.opts.Layout.RowHeight, "vertical distance between generations")
	flags.IntVar(&f.opts.Layout.Iterations, "iterations", f.opts.Layout.Iterations, "relaxation ticks")
	flags.Uint64Var(&f.opts.Layout.Seed, "seed", f.opts.Layout.Seed, "relaxation seed")
	flags.BoolVar(&f.opts.Chunked, "chunked", false, "yield between layout passes")
	flags.BoolVar(&f.opts.Refresh, "refresh", false, "recompute even if a cached layout exists")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// apply fills every layout flag the user did not set from the config file.
func (f *layoutFlags) apply(cmd *cobra.Command, cfg config.Config) {
	file := cfg.LayoutOptions()
	flags := cmd.Flags()
	if !flags.Changed("grid") {
		f.opts.Layout.HorizontalGridSize = file.HorizontalGridSize
	}
	if !flags.Changed("attraction") {
		f.opts.Layout.RelativeAttraction = file.RelativeAttraction
	}
	if !flags.Changed("row-height") {
		f.opts.Layout.RowHeight = file.RowHeight
	}
	if !flags.Changed("iterations") {
		f.opts.Layout.Iterations = file.Iterations
	}
	if !flags.Changed("seed") {
		f.opts.Layout.Seed = file.Seed
	}
	if !flags.Changed("chunked") {
		f.opts.Chunked = cfg.Layout.Chunked
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Namespace != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Namespace)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := config.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// loadPersons opens the source named by input (or the configured source when
// input is empty) and reads it through the runner.
func (c *CLI) loadPersons(ctx context.Context, runner *pipeline.Runner, cfg config.Config, input string, opts pipeline.Options) ([]family.Person, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger, "load")
	src, err := source.Open(ctx, cfg.Source, input, logger)
	if err != nil {
		return nil, err
	}
	defer src.Close(ctx)

	persons, err := runner.LoadPersons(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	prog.done("Loaded %d persons", len(persons))
	return persons, nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == local.Stdin {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes one file per format. A single format with an
// explicit output path is written to exactly that path.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	var paths []string
	if len(p.formats) == 1 && p.output != "" {
		if err := os.WriteFile(p.output, p.artifacts[p.formats[0]], 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", p.output, err)
		}
		return append(paths, p.output), nil
	}

	base := basePath(p.output, p.input)
	for _, format := range p.formats {
		path := base + "." + format
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
