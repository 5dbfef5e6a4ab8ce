package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/scribe/internal/api"
	"github.com/felixgeelhaar/scribe/internal/config"
	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/gateway"
	"github.com/felixgeelhaar/scribe/internal/log"
	"github.com/felixgeelhaar/scribe/internal/metrics"
	"github.com/felixgeelhaar/scribe/internal/resource"
	"github.com/felixgeelhaar/scribe/internal/session"
	"github.com/felixgeelhaar/scribe/internal/storage"
	"github.com/felixgeelhaar/scribe/internal/telemetry"
	"github.com/felixgeelhaar/scribe/internal/tui"
	"github.com/felixgeelhaar/scribe/internal/ux"
	"github.com/felixgeelhaar/scribe/internal/version"
)

// app is everything a command needs, built once per invocation from the
// configuration: logger, session, gateway and the API services.
type app struct {
	cfg   *config.Config
	paths ux.Paths

	logger   *log.Logger
	store    storage.Storage
	session  *session.Store
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	router   *tui.Router
	client   *gateway.Client

	auth     *api.AuthService
	posts    *api.PostService
	comments *api.CommentService

	out     io.Writer
	errOut  io.Writer
	styles  ux.Styles
	cleanup []func()
}

// display remembers how errors should be printed. It is filled in as soon
// as a configuration is known.
var display = struct {
	format  string
	noColor bool
	apiURL  string
}{format: ux.FormatText}

// shouldPrompt is replaced in tests
var shouldPrompt = ux.ShouldPrompt

type runFunc func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error

// withApp builds the app, traces and counts the command, and tears
// everything down afterwards.
func withApp(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		name := cmd.CommandPath()
		ctx, span := telemetry.StartCommandSpan(cmd.Context(), name)
		a.logger.Debug("command started", "command", name)

		err = fn(ctx, cmd, a, args)

		if err != nil {
			telemetry.RecordError(span, err)
			a.logger.WithError(err).Warn("command failed", "command", name)
		} else {
			telemetry.RecordSuccess(span)
		}
		span.End()
		a.metrics.RecordCommand(cmd.Name(), err == nil)

		if showMetrics {
			if merr := a.printMetrics(a.errOut); merr != nil {
				a.logger.Warn("failed to print metrics", "error", merr)
			}
		}
		return err
	}
}

func newApp(cmd *cobra.Command) (*app, error) {
	paths, err := ux.NewPaths(homeDir)
	if err != nil {
		return nil, err
	}
	if err := paths.Ensure(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(paths.Home, cmd.Flags())
	if err != nil {
		return nil, err
	}
	display.format = cfg.Display.Format
	display.noColor = cfg.Display.NoColor
	display.apiURL = cfg.API.URL

	a := &app{
		cfg:    cfg,
		paths:  paths,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		styles: ux.NewStyles(cfg.Display.NoColor),
	}

	if err := a.setupLogging(); err != nil {
		return nil, err
	}

	st, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = st
	a.cleanup = append(a.cleanup, func() {
		if err := st.Close(); err != nil {
			a.logger.Warn("failed to close session storage", "error", err)
		}
	})

	a.session = session.New(st, session.WithLogger(a.logger))
	a.session.Hydrate()

	a.setupTelemetry(cmd.Context())

	a.registry, a.metrics = metrics.NewRegistry()
	a.session.Subscribe(func(s domain.Session) {
		if s.IsAuthenticated {
			a.metrics.RecordSession("authenticated")
		} else {
			a.metrics.RecordSession("anonymous")
		}
	})

	a.router = tui.NewRouter(resource.RouteHome)
	a.client = gateway.New(cfg.API.URL, gateway.StoredToken{Storage: st},
		gateway.WithLogger(a.logger),
		gateway.WithMetrics(a.metrics),
		gateway.WithUnauthorizedHandler(resource.UnauthorizedHandler(a.session, a.router)),
	)
	a.auth = api.NewAuthService(a.client)
	a.posts = api.NewPostService(a.client)
	a.comments = api.NewCommentService(a.client)
	return a, nil
}

// setupLogging sends logs to a file. The terminal belongs to the UI and to
// command output.
func (a *app) setupLogging() error {
	path := a.cfg.Log.File
	if path == "" {
		path = a.paths.LogFile()
	}
	f, err := log.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}
	a.cleanup = append(a.cleanup, func() { _ = f.Close() })

	a.logger = log.New(log.Config{
		Level:          log.ParseLevel(a.cfg.Log.Level),
		Format:         log.ParseFormat(a.cfg.Log.Format),
		Output:         f,
		ServiceName:    "scribe",
		ServiceVersion: version.GetInfo().Version,
	})
	log.SetDefaultLogger(a.logger)
	return nil
}

func (a *app) setupTelemetry(ctx context.Context) {
	if !a.cfg.Telemetry.Enabled {
		return
	}

	cfg := telemetry.Config{
		ServiceName:    "scribe",
		ServiceVersion: version.GetInfo().Version,
		Enabled:        true,
		Endpoint:       a.cfg.Telemetry.Endpoint,
		Insecure:       a.cfg.Telemetry.Insecure,
		SampleRate:     a.cfg.Telemetry.SampleRate,
	}
	shutdown, err := telemetry.InitProvider(ctx, cfg)
	if err != nil {
		a.logger.Warn("failed to initialize telemetry", "error", err)
		return
	}
	a.logger.Info("telemetry enabled", "endpoint", cfg.Endpoint, "sample_rate", cfg.SampleRate)

	a.cleanup = append(a.cleanup, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			a.logger.Warn("failed to flush telemetry", "error", err)
		}
	})
}

// close runs the cleanups in reverse order
func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

// formatter writes command results in the configured format
func (a *app) formatter() (ux.Formatter, error) {
	return ux.NewFormatter(a.cfg.Display.Format, &ux.FormatterOptions{
		Writer:  a.out,
		NoColor: a.cfg.Display.NoColor,
	})
}

func (a *app) print(v any) error {
	f, err := a.formatter()
	if err != nil {
		return err
	}
	return f.Format(v)
}

// requireSession fails before any request is sent when nobody is signed in
func (a *app) requireSession() error {
	if !a.session.IsAuthenticated() {
		return errors.NewNotLoggedInError()
	}
	return nil
}

func (a *app) printMetrics(w io.Writer) error {
	samples, err := metrics.Summary(a.registry)
	if err != nil {
		return err
	}
	return metricsView{Samples: samples}.RenderText(w, a.styles)
}

// printError writes err in the configured format, falling back to text
func printError(w io.Writer, err error) {
	report := ux.Report(err, display.apiURL)
	f, ferr := ux.NewFormatter(display.format, &ux.FormatterOptions{Writer: w, NoColor: display.noColor})
	if ferr != nil {
		f, _ = ux.NewFormatter(ux.FormatText, &ux.FormatterOptions{Writer: w, NoColor: display.noColor})
	}
	if ferr := f.Format(report); ferr != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
