package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/infradash/internal/api"
	"github.com/rileyhilliard/infradash/internal/config"
	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/logger"
	"github.com/rileyhilliard/infradash/internal/resource"
	"github.com/rileyhilliard/infradash/internal/ui"
	"github.com/rileyhilliard/infradash/internal/votes"
)

// app carries what every command needs after startup.
type app struct {
	cfg *config.Config
	log logger.Logger
	out io.Writer
}

// loadApp loads and validates the config, applies the global flags, and
// builds a logger writing to logOut.
func loadApp(cmd *cobra.Command, g *globalFlags, logOut io.Writer) (*app, error) {
	cfg, err := config.LoadOrDefault(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.server != "" {
		cfg.Server.URL = g.server
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	ui.ConfigureColor(cfg.Output.Color, g.noColor)

	a := &app{cfg: cfg, out: cmd.OutOrStdout()}
	a.logTo(logOut)
	return a, nil
}

// logTo points the app logger (and the package default) at w.
func (a *app) logTo(w io.Writer) {
	a.log = logger.WithLevel(logger.NewWriterLogger(w, "", false), a.cfg.Log.Level)
	logger.SetDefault(a.log)
}

// client builds an API client for the configured backend. The rate limit
// burst covers one overview fan-out.
func (a *app) client() (*api.Client, error) {
	return api.New(a.cfg.Server.URL,
		api.WithLogger(logger.With(a.log, "api")),
		api.WithRequestTimeout(a.cfg.Server.RequestTimeout),
		api.WithRateLimit(a.cfg.Server.RateLimit, len(resource.Families())),
	)
}

// openVotes opens the local already-voted store.
func (a *app) openVotes() (*votes.Store, error) {
	path := config.ExpandTilde(a.cfg.Votes.StateFile)
	store, err := votes.Open(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrVote,
			"Couldn't open the local vote history",
			"Check votes.state_file in your config, or close other infradash processes using it")
	}
	return store, nil
}

// openLogFile returns the writer TUI mode logs to: log.file when set,
// otherwise a discarding writer. The returned close func is never nil.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(config.ExpandTilde(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open log file "+path,
			"Check log.file in your config points at a writable location")
	}
	return f, func() { f.Close() }, nil
}
