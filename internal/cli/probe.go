package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/logger"
	"github.com/rileyhilliard/infradash/internal/probe"
	"github.com/rileyhilliard/infradash/internal/ui"
)

type probeOptions struct {
	Timeout string
	Quick   bool
	Format  formatFlags
}

func newProbeCmd(g *globalFlags) *cobra.Command {
	var opts probeOptions

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that the backend can reach your infrastructure",
		Long: `Run the staged connectivity check: one phase per resource group,
then a single connection-status query bounded by the timeout.

Exits 0 when connected and 1 otherwise.

Examples:
  infradash probe
  infradash probe --timeout 10s
  infradash probe --quick --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return probeCommand(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Timeout, "timeout", "", "connection query timeout (default: probe.timeout)")
	cmd.Flags().BoolVar(&opts.Quick, "quick", false, "skip the pause between phases")
	addFormatFlags(cmd, &opts.Format, false)

	return cmd
}

// probeResult is the --json payload of the probe command.
type probeResult struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	Reason     string    `json:"reason,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
}

func newProbeResult(c probe.Check) probeResult {
	res := probeResult{
		ID:         c.ID,
		Status:     c.Status.String(),
		Message:    c.Message,
		Detail:     c.Detail,
		StartedAt:  c.StartedAt,
		DurationMs: c.Duration().Milliseconds(),
	}
	if c.Reason != probe.ReasonNone {
		res.Reason = c.Reason.String()
	}
	return res
}

func probeCommand(cmd *cobra.Command, g *globalFlags, opts probeOptions) error {
	a, err := loadApp(cmd, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	timeout := a.cfg.Probe.Timeout
	if opts.Timeout != "" {
		if timeout, err = ParseTimeout(opts.Timeout); err != nil {
			return err
		}
	}
	stepDelay := a.cfg.Probe.StepDelay
	if opts.Quick {
		stepDelay = 0
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	p := probe.New(client,
		probe.WithStepDelay(stepDelay),
		probe.WithLogger(logger.With(a.log, "probe")),
	)

	var phases *phasePrinter
	if !opts.Format.Machine() {
		phases = newPhasePrinter(ui.NewPhaseDisplay(a.out, ui.IsTerminal()))
		unsubscribe := p.Subscribe(phases.observe)
		defer unsubscribe()
	}

	check := p.Run(cmd.Context(), timeout)
	// Stop waits for any notification in flight, so the printer is idle below.
	p.Stop()

	if opts.Format.JSON {
		if err := WriteJSONSuccess(a.out, newProbeResult(check)); err != nil {
			return err
		}
	} else {
		phases.finish(check)
	}

	if check.Status != probe.Connected {
		return errors.NewExitError(1)
	}
	return nil
}

// phasePrinter turns probe notifications into phase lines: each phase is
// shown in progress and marked done when the next one starts.
type phasePrinter struct {
	pd      *ui.PhaseDisplay
	phase   int
	name    string
	started time.Time
}

func newPhasePrinter(pd *ui.PhaseDisplay) *phasePrinter {
	return &phasePrinter{pd: pd}
}

func (pp *phasePrinter) observe(c probe.Check) {
	if c.Status != probe.Checking || c.Phase <= pp.phase {
		return
	}
	pp.completePhase()
	pp.phase = c.Phase
	pp.name = strings.TrimSuffix(c.Message, "...")
	pp.started = time.Now()
	pp.pd.RenderProgress(pp.name)
}

func (pp *phasePrinter) completePhase() {
	if pp.name == "" {
		return
	}
	pp.pd.RenderSuccess(pp.name, time.Since(pp.started))
	pp.name = ""
}

// finish prints the outcome of the run.
func (pp *phasePrinter) finish(c probe.Check) {
	if !c.Status.Terminal() {
		pp.pd.Newline()
		pp.pd.RenderWarning("Connection check interrupted", c.Status.String())
		return
	}

	pp.completePhase()
	pp.pd.Divider()
	switch c.Status {
	case probe.Connected:
		pp.pd.RenderSuccess(c.Message, c.Duration())
	case probe.Disconnected:
		pp.pd.RenderWarning(c.Message, "")
	default:
		pp.pd.RenderFailed(c.Message, c.Duration(), c.Detail)
	}
}
