// Package cli implements the pframe command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pframe/pkg/buildinfo"
	"github.com/matzehuels/pframe/pkg/config"
	pio "github.com/matzehuels/pframe/pkg/io"
	"github.com/matzehuels/pframe/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "pframe"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Resolved in PersistentPreRunE from flags over config.
	cfg    config.Config
	output pio.Format
	strict bool

	flags globalFlags
}

type globalFlags struct {
	config  string
	verbose bool
	output  string
	strict  bool
}

// New creates a new CLI instance whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
		output: pio.FormatJSON,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pframe inspects PFrame column specs",
		Long: `pframe normalizes axis hierarchies, searches linker columns between axes,
derives anchored column ids and selects columns from JSON or YAML spec files.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.config, "config", "", "config file (default $"+config.EnvVar+" or ~/.config/pframe/config.toml)")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.flags.output, "output", "", "output format: json or yaml")
	pf.BoolVar(&c.flags.strict, "strict", false, "fail on parent cycles and unresolvable links")

	root.AddCommand(c.normalizeCommand())
	root.AddCommand(c.groupsCommand())
	root.AddCommand(c.linkersCommand())
	root.AddCommand(c.anchorCommand())
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies flag overrides and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, path, err := config.Load(c.flags.config)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if c.flags.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}

	output := cfg.Output
	if cmd.Flags().Changed("output") {
		output = c.flags.output
	}
	if c.output, err = pio.ParseFormat(output); err != nil {
		return err
	}

	c.strict = cfg.Strict
	if cmd.Flags().Changed("strict") {
		c.strict = c.flags.strict
	}

	hooks := logHooks{logger: c.Logger}
	observability.SetResolveHooks(hooks)
	observability.SetAnchorHooks(hooks)
	observability.SetCatalogHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
