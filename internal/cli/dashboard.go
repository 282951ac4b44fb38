package cli

import (
	"context"
	stderrors "errors"
	"io"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/logger"
	"github.com/rileyhilliard/infradash/internal/probe"
	"github.com/rileyhilliard/infradash/internal/telemetry"
	"github.com/rileyhilliard/infradash/internal/tui"
	"github.com/rileyhilliard/infradash/internal/ui"
)

type dashboardOptions struct {
	View        string
	MetricsAddr string
	Refresh     string
	AutoEnter   bool
}

func newDashboardCmd(g *globalFlags) *cobra.Command {
	var opts dashboardOptions

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the full-screen infrastructure dashboard",
		Long: `Open the interactive dashboard. It starts on the connection screen,
runs the connectivity check, and lets you view resources once connected.

Keys: 1-7 switch views, tab/shift+tab cycle, r refreshes (or retries the
check), c goes back to the connection screen, ? shows help, q quits.

Examples:
  infradash dashboard
  infradash dashboard --view rds --auto-enter
  infradash dashboard --refresh 30s --metrics-addr :9464`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dashboardCommand(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.View, "view", "", "view to open first (default: dashboard.default_view)")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (default: metrics.addr)")
	cmd.Flags().StringVar(&opts.Refresh, "refresh", "", "reload the current view on this interval (default: dashboard.refresh_interval)")
	cmd.Flags().BoolVar(&opts.AutoEnter, "auto-enter", false, "open the resources as soon as the check connects")

	return cmd
}

func dashboardCommand(cmd *cobra.Command, g *globalFlags, opts dashboardOptions) error {
	if !ui.IsTerminal() {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'infradash status' for plain output.")
	}

	// Logs would corrupt the alt screen, so they go to log.file or nowhere.
	a, err := loadApp(cmd, g, io.Discard)
	if err != nil {
		return err
	}
	logOut, closeLog, err := openLogFile(a.cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()
	a.logTo(logOut)

	viewArg := a.cfg.Dashboard.DefaultView
	if opts.View != "" {
		viewArg = opts.View
	}
	view, err := parseView(viewArg)
	if err != nil {
		return err
	}

	refresh := a.cfg.Dashboard.RefreshInterval
	if opts.Refresh != "" {
		if refresh, err = ParseTimeout(opts.Refresh); err != nil {
			return err
		}
	}

	metricsAddr := a.cfg.Metrics.Addr
	if opts.MetricsAddr != "" {
		metricsAddr = opts.MetricsAddr
	}

	var probeOpts []probe.Option
	var dashOpts []dashboard.Option
	var metrics *telemetry.Metrics
	if metricsAddr != "" {
		if metrics, err = telemetry.New(logger.With(a.log, "telemetry")); err != nil {
			return err
		}
		defer func() { _ = metrics.Shutdown(context.Background()) }()
		// Set before the client exists so its HTTP transport reports to it.
		otel.SetMeterProvider(metrics.Provider())
		probeOpts = append(probeOpts, probe.WithObserver(metrics))
		dashOpts = append(dashOpts, dashboard.WithObserver(metrics))
	}

	client, err := a.client()
	if err != nil {
		return err
	}

	p := probe.New(client, append(probeOpts,
		probe.WithStepDelay(a.cfg.Probe.StepDelay),
		probe.WithLogger(logger.With(a.log, "probe")),
	)...)
	defer p.Stop()

	o := dashboard.New(client, p, append(dashOpts,
		dashboard.WithDefaultView(view),
		dashboard.WithOverviewMode(a.cfg.Dashboard.OverviewMode),
		dashboard.WithLogger(logger.With(a.log, "dashboard")),
	)...)
	defer o.Close()

	model := tui.NewModel(p, o, client, tui.Options{
		ProbeTimeout:  a.cfg.Probe.Timeout,
		AutoEnter:     opts.AutoEnter,
		HealthTimeout: a.cfg.Server.RequestTimeout,
		Server:        client.BaseURL(),
	})
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	detach := tui.Bridge(prog, p, o)
	defer detach()

	return runDashboard(cmd.Context(), prog, o, refresh, metrics, metricsAddr)
}

// runDashboard runs the program alongside the refresh ticker, the metrics
// endpoint, and a SIGTERM handler. The first to finish stops the others.
func runDashboard(ctx context.Context, prog *tea.Program, o *dashboard.Orchestrator,
	refresh time.Duration, metrics *telemetry.Metrics, metricsAddr string) error {
	var g run.Group

	g.Add(func() error {
		_, err := prog.Run()
		return err
	}, func(error) {
		prog.Quit()
	})

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	g.Add(func() error {
		return o.RefreshEvery(refreshCtx, refresh)
	}, func(error) {
		stopRefresh()
	})

	if metrics != nil {
		serveCtx, stopServe := context.WithCancel(ctx)
		g.Add(func() error {
			return metrics.Serve(serveCtx, metricsAddr)
		}, func(error) {
			stopServe()
		})
	}

	g.Add(run.SignalHandler(ctx, syscall.SIGTERM))

	err := g.Run()
	var sigErr run.SignalError
	if err == nil || stderrors.As(err, &sigErr) || stderrors.Is(err, context.Canceled) ||
		stderrors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
