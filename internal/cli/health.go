package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/resource"
	"github.com/rileyhilliard/infradash/internal/ui"
	"github.com/rileyhilliard/infradash/internal/votes"
)

func newHealthCmd(g *globalFlags) *cobra.Command {
	var format formatFlags

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show the health of the status backend and the votes service",
		Long: `Query the backend health endpoint and the votes service health endpoint
in parallel. Exits 1 unless both report UP.

Examples:
  infradash health
  infradash health --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return healthCommand(cmd, g, format)
		},
	}

	addFormatFlags(cmd, &format, false)

	return cmd
}

// healthResult is the --json payload of the health command.
type healthResult struct {
	Backend      *resource.HealthReport `json:"backend,omitempty"`
	BackendError *JSONError             `json:"backendError,omitempty"`
	Votes        *votes.Health          `json:"votes,omitempty"`
	VotesError   *JSONError             `json:"votesError,omitempty"`
	Healthy      bool                   `json:"healthy"`
}

func healthCommand(cmd *cobra.Command, g *globalFlags, format formatFlags) error {
	a, err := loadApp(cmd, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	var (
		report           *resource.HealthReport
		vh               *votes.Health
		reportErr, vhErr error
	)
	// Both requests always run to completion; failures are reported per service.
	var eg errgroup.Group
	eg.Go(func() error {
		report, reportErr = client.Health(cmd.Context())
		return nil
	})
	eg.Go(func() error {
		vh, vhErr = client.VotesHealth(cmd.Context())
		return nil
	})
	_ = eg.Wait()

	res := healthResult{
		Backend:      report,
		BackendError: ErrorToJSON(reportErr),
		Votes:        vh,
		VotesError:   ErrorToJSON(vhErr),
		Healthy:      reportErr == nil && report.Up() && vhErr == nil && votesUp(vh),
	}

	if format.JSON {
		if err := WriteJSONSuccess(a.out, res); err != nil {
			return err
		}
	} else {
		renderHealth(a, res, reportErr, vhErr)
	}

	if !res.Healthy {
		return errors.NewExitError(1)
	}
	return nil
}

func votesUp(h *votes.Health) bool {
	return h != nil && strings.EqualFold(h.Status, "UP")
}

func renderHealth(a *app, res healthResult, reportErr, vhErr error) {
	pd := ui.NewPhaseDisplay(a.out, false)

	switch {
	case reportErr != nil:
		pd.RenderFailed("Status backend", 0, errors.Summary(reportErr))
	case res.Backend.Up():
		pd.RenderSuccess("Status backend UP", 0)
	default:
		reason := res.Backend.Status
		if res.Backend.Error != "" {
			reason = res.Backend.Error
		}
		pd.RenderWarning("Status backend is not UP", reason)
	}

	if res.Backend != nil {
		names := make([]string, 0, len(res.Backend.Components))
		for name := range res.Backend.Components {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			pd.RenderSubStatus(componentSymbol(res.Backend.Components[name]), name, componentDetail(res.Backend.Components[name]))
		}
	}

	switch {
	case vhErr != nil:
		pd.RenderFailed("Votes service", 0, errors.Summary(vhErr))
	case votesUp(res.Votes):
		pd.RenderSuccess("Votes service UP", 0)
	default:
		pd.RenderWarning("Votes service is not UP", res.Votes.Status)
	}
}

func componentSymbol(c resource.ComponentHealth) string {
	if c.Status == "" {
		return ui.SymbolPending
	}
	if strings.EqualFold(c.Status, "UP") || strings.EqualFold(c.Status, "healthy") {
		return ui.SymbolSuccess
	}
	return ui.SymbolFail
}

// componentDetail summarises a component: its status plus whichever of
// counts, DNS name, endpoint, or bucket the backend reported.
func componentDetail(c resource.ComponentHealth) string {
	parts := []string{}
	if c.Status != "" {
		parts = append(parts, c.Status)
	}
	switch {
	case c.Count != nil && c.Healthy != nil:
		parts = append(parts, fmt.Sprintf("%d/%d healthy", *c.Healthy, *c.Count))
	case c.Count != nil:
		parts = append(parts, fmt.Sprintf("%d", *c.Count))
	}
	for _, s := range []string{c.DNS, c.Endpoint, c.Bucket} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}
