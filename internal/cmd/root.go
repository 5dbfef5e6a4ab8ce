package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/scribe/internal/ux"
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "A terminal client for the Scribe blogging API",
	Long: `scribe reads and writes posts and comments on a Scribe blog API.

Run it without arguments to open the interactive terminal UI, or use the
subcommands to script it. The session survives restarts and is stored in
$SCRIBE_HOME (default ~/.scribe).

No API at hand? Start an in-memory one with 'scribe sandbox'.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          withApp(runTUI),
}

// Persistent flags. Values reach the config through config.Load, which binds
// them by name; these variables only serve the few commands that read them
// before a configuration exists.
var (
	homeDir     string
	showMetrics bool
)

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx and prints any error
func ExecuteContext(ctx context.Context) error {
	display.format, display.noColor, display.apiURL = ux.FormatText, false, ""

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && ctx.Err() == nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&homeDir, "home", "", "scribe home directory (default $SCRIBE_HOME or ~/.scribe)")
	flags.String("api-url", "", "base URL of the blog API")
	flags.String("storage", "", "session storage backend: file, sqlite or memory")
	flags.Int("per-page", 0, "posts per page")
	flags.String("format", "", "output format: text, json or yaml")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: json or text")
	flags.String("log-file", "", "log file (default <home>/scribe.log)")
	flags.BoolVar(&showMetrics, "metrics", false, "print request metrics to stderr when the command finishes")

	rootCmd.Flags().String("open", "", "view to open, e.g. /feed or /posts/3")
}
