package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/scribe/internal/health"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Diagnostics",
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the API and the session storage",
	Long: `Check that the configured blog API answers and that the session
storage can be read.

Examples:
  scribe debug doctor
  scribe debug doctor --format json
`,
	Args: cobra.NoArgs,
	RunE: withApp(runDoctor),
}

func init() {
	debugCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(debugCmd)
}

func (a *app) healthManager() *health.Manager {
	m := health.NewManager()
	m.AddChecker(health.NewAPIChecker(a.cfg.API.URL, nil))
	m.AddChecker(health.NewStorageChecker(a.store))
	m.AddChecker(health.NewCheckFunc("session", func(context.Context) *health.Result {
		if u := a.session.User(); u != nil {
			return health.Healthy("signed in").WithDetail("user", u.Email)
		}
		return health.Degraded("not signed in").WithDetail("hint", "scribe auth login")
	}))
	return m
}

func runDoctor(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	results := a.healthManager().Check(ctx)
	status := health.Overall(results)
	a.logger.Info("doctor finished", "status", status.String())
	return a.print(doctorReport{Status: status, Checks: results})
}
