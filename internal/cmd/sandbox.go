package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/scribe/internal/fakeapi"
	"github.com/felixgeelhaar/scribe/internal/health"
	"github.com/felixgeelhaar/scribe/internal/server"
	"github.com/felixgeelhaar/scribe/internal/version"
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Run an in-memory blog API for trying scribe out",
	Long: `Serve the blog API from memory until interrupted. Nothing is persisted.

With --seed (the default) the sandbox holds two accounts and a few pages of
posts. Sign in as demo@example.com with the password "password".

Probes are served at /health/live and /health/ready.

Examples:
  # Terminal 1
  scribe sandbox

  # Terminal 2
  scribe auth login --email demo@example.com
  scribe posts list
`,
	Args: cobra.NoArgs,
	RunE: withApp(runSandbox),
}

var (
	sandboxAddr string
	sandboxSeed bool
)

func init() {
	sandboxCmd.Flags().StringVar(&sandboxAddr, "addr", "127.0.0.1:8001", "listen address")
	sandboxCmd.Flags().BoolVar(&sandboxSeed, "seed", true, "start with demo accounts and posts")

	rootCmd.AddCommand(sandboxCmd)
}

func runSandbox(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	api := fakeapi.New(fakeapi.WithLogger(a.logger))
	if sandboxSeed {
		api.Seed()
	}

	probes := health.NewProbeManager(version.GetInfo().Version)
	probes.AddChecker(health.NewCheckFunc("store", func(context.Context) *health.Result {
		stats := api.Stats()
		return health.Healthy("in-memory store").
			WithDetail("users", stats.Users).
			WithDetail("posts", stats.Posts).
			WithDetail("comments", stats.Comments)
	}))

	srv := server.New(api.Handler(), probes, server.Config{Address: sandboxAddr}, a.logger)
	ln, err := srv.Listen()
	if err != nil {
		return fmt.Errorf("listen on %s: %w", sandboxAddr, err)
	}

	base := "http://" + ln.Addr().String() + fakeapi.BasePath
	fmt.Fprintf(a.out, "%s %s\n", a.styles.Success.Render("Sandbox API listening on"), base)
	if sandboxSeed {
		fmt.Fprintf(a.out, "%s\n", a.styles.Subtle.Render("Sign in as demo@example.com / password"))
	}
	if base != a.cfg.API.URL {
		fmt.Fprintf(a.out, "%s\n", a.styles.Warning.Render("Point scribe at it with --api-url "+base))
	}
	fmt.Fprintln(a.out, a.styles.Subtle.Render("Press Ctrl+C to stop."))

	return srv.Run(ctx, ln)
}
