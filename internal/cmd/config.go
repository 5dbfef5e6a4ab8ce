package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/scribe/internal/config"
	"github.com/felixgeelhaar/scribe/internal/ux"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect scribe configuration",
	Long: `Inspect the configuration stored at <home>/config.yaml.

Values are resolved in this order: command-line flags, SCRIBE_* environment
variables (e.g. SCRIBE_API_URL), the config file, then built-in defaults.

Examples:
  # Effective configuration
  scribe config view

  # Write the effective configuration to the config file
  scribe --api-url https://blog.example.com/api/v1 config init
`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  withApp(runConfigView),
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  withApp(runConfigPath),
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE:  withApp(runConfigInit),
}

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configViewCmd, configPathCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// configView prints as YAML in text mode
type configView struct {
	*config.Config
}

func (v configView) RenderText(w io.Writer, s ux.Styles) error {
	if v.File != "" {
		fmt.Fprintln(w, s.Subtle.Render("# "+v.File))
	} else {
		fmt.Fprintln(w, s.Subtle.Render("# no config file, showing defaults"))
	}
	return yaml.NewEncoder(w).Encode(v.Config)
}

func runConfigView(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	if a.cfg.Display.Format == ux.FormatText {
		return a.print(configView{a.cfg})
	}
	return a.print(a.cfg)
}

func runConfigPath(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	_, err := fmt.Fprintln(a.out, a.paths.ConfigFile())
	return err
}

func runConfigInit(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	path := a.paths.ConfigFile()
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists, pass --force to overwrite it", path)
	}
	if err := config.Save(a.cfg, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.logger.Info("config written", "path", path)
	return a.print(message{Message: "Wrote " + path})
}
