package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/logger"
	"github.com/rileyhilliard/infradash/internal/probe"
	"github.com/rileyhilliard/infradash/internal/resource"
	"github.com/rileyhilliard/infradash/internal/status"
	"github.com/rileyhilliard/infradash/internal/ui"
)

type statusOptions struct {
	Format formatFlags
}

func newStatusCmd(g *globalFlags) *cobra.Command {
	var opts statusOptions

	cmd := &cobra.Command{
		Use:   "status [view]",
		Short: "Show infrastructure health without the dashboard",
		Long: `Check the connection, then load one view and print its health.

The view is "overview" (the default, from dashboard.default_view) or a
family: compute, load-balancer, database, network, storage, cdn. Service
names such as ec2, alb, rds, vpc, s3, and cloudfront work too.

Examples:
  infradash status
  infradash status rds
  infradash status --json
  infradash status network --yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewArg := ""
			if len(args) == 1 {
				viewArg = args[0]
			}
			return statusCommand(cmd, g, viewArg, opts)
		},
	}

	addFormatFlags(cmd, &opts.Format, true)

	return cmd
}

// statusReport is the --json and --yaml payload of the status command.
type statusReport struct {
	View      string                 `json:"view" yaml:"view"`
	Healthy   int                    `json:"healthyFamilies" yaml:"healthy_families"`
	Families  []status.FamilySummary `json:"families" yaml:"families"`
	Totals    status.Totals          `json:"totals" yaml:"totals"`
	Snapshots resource.Snapshots     `json:"snapshots" yaml:"snapshots"`
	UpdatedAt time.Time              `json:"updatedAt" yaml:"updated_at"`
}

func newStatusReport(st dashboard.ViewState) statusReport {
	rep := statusReport{
		View:      st.View.String(),
		Totals:    st.Totals,
		Snapshots: st.Snapshots,
		UpdatedAt: st.UpdatedAt,
	}
	if f, ok := st.View.Family(); ok {
		rep.Families = []status.FamilySummary{st.Overview.Get(f)}
	} else {
		rep.Families = st.Overview.Families
	}
	for _, sum := range rep.Families {
		if sum.Health == status.Healthy {
			rep.Healthy++
		}
	}
	return rep
}

func statusCommand(cmd *cobra.Command, g *globalFlags, viewArg string, opts statusOptions) error {
	a, err := loadApp(cmd, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	st, err := loadStatus(cmd, a, viewArg)
	if err != nil {
		if opts.Format.JSON {
			if werr := WriteJSONFromError(a.out, err); werr != nil {
				return werr
			}
			return errors.NewExitError(1)
		}
		return err
	}

	rep := newStatusReport(st)
	switch {
	case opts.Format.JSON:
		return WriteJSONSuccess(a.out, rep)
	case opts.Format.YAML:
		return WriteYAML(a.out, rep)
	}

	renderStatus(a, st, rep)
	return nil
}

// loadStatus runs a quick connection check and loads the requested view
// through the orchestrator, so the one-shot output follows the same gating
// and aggregation rules as the dashboard.
func loadStatus(cmd *cobra.Command, a *app, viewArg string) (dashboard.ViewState, error) {
	if viewArg == "" {
		viewArg = a.cfg.Dashboard.DefaultView
	}
	view, err := parseView(viewArg)
	if err != nil {
		return dashboard.ViewState{}, err
	}

	client, err := a.client()
	if err != nil {
		return dashboard.ViewState{}, err
	}

	p := probe.New(client, probe.WithStepDelay(0), probe.WithLogger(logger.With(a.log, "probe")))
	check := p.Run(cmd.Context(), a.cfg.Probe.Timeout)
	p.Stop()
	if check.Status != probe.Connected {
		msg := fmt.Sprintf("Infrastructure is not connected (%s)", check.Status)
		if check.Message != "" {
			msg = fmt.Sprintf("Infrastructure is not connected: %s", check.Message)
		}
		var cause error
		if check.Detail != "" {
			cause = fmt.Errorf("%s", check.Detail)
		}
		return dashboard.ViewState{}, errors.WrapWithCode(cause, errors.ErrProbe, msg,
			"Run 'infradash probe' to see each phase, or check server.url.")
	}

	o := dashboard.New(client, p,
		dashboard.WithDefaultView(view),
		dashboard.WithOverviewMode(a.cfg.Dashboard.OverviewMode),
		dashboard.WithLogger(logger.With(a.log, "dashboard")),
	)
	defer o.Close()

	if err := o.Enter(); err != nil {
		return dashboard.ViewState{}, err
	}
	return o.Await(cmd.Context(), view)
}

// renderStatus prints the human-readable health table.
func renderStatus(a *app, st dashboard.ViewState, rep statusReport) {
	out := a.out
	muted := ui.MutedStyle()

	if st.View == dashboard.Overview {
		fmt.Fprintf(out, "%s  %s\n\n", ui.InfoStyle().Bold(true).Render("Overview"),
			muted.Render(fmt.Sprintf("%d of %d families healthy", rep.Healthy, len(rep.Families))))
	} else {
		fmt.Fprintf(out, "%s\n\n", ui.InfoStyle().Bold(true).Render(st.View.Title()))
	}

	rows := make([]ui.HealthRow, 0, len(rep.Families))
	for _, sum := range rep.Families {
		rows = append(rows, ui.HealthRow{
			Title:   sum.Family.Title(),
			Service: sum.Family.Service(),
			Health:  sum.Health,
			Count:   sum.Count,
			Detail:  status.Describe(sum.Family, st.Snapshots),
		})
	}
	fmt.Fprint(out, ui.RenderHealthTable(rows))

	fmt.Fprintf(out, "\n%s\n", muted.Render(fmt.Sprintf("%d resources, %d healthy · updated %s",
		rep.Totals.Resources, rep.Totals.Healthy, st.UpdatedAt.Format(time.TimeOnly))))
}
