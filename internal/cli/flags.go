package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/util"
)

// formatFlags holds the machine-readable output switches.
type formatFlags struct {
	JSON bool
	YAML bool
}

// addFormatFlags registers --json (and --yaml when withYAML is set) on cmd.
func addFormatFlags(cmd *cobra.Command, f *formatFlags, withYAML bool) {
	cmd.Flags().BoolVar(&f.JSON, "json", false, "output as JSON")
	if withYAML {
		cmd.Flags().BoolVar(&f.YAML, "yaml", false, "output as YAML")
		cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	}
}

// Machine reports whether human-friendly output should be suppressed.
func (f formatFlags) Machine() bool {
	return f.JSON || f.YAML
}

// ParseTimeout parses a timeout flag into a duration.
// Returns zero duration if the flag is empty.
func ParseTimeout(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 3s, 1m, or 500ms.")
	}
	if duration <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Timeout must be positive, got %s", flag),
			"Try something like 3s, 1m, or 500ms.")
	}
	return duration, nil
}

// parseID parses a vote or option id argument.
func parseID(what, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrVote,
			fmt.Sprintf("'%s' isn't a valid %s id", arg, what),
			fmt.Sprintf("Use the numeric %s id shown by 'infradash votes list'.", what))
	}
	return id, nil
}

// parseView resolves a view argument, suggesting close names on a typo.
func parseView(arg string) (dashboard.View, error) {
	view, err := dashboard.ParseView(arg)
	if err == nil {
		return view, nil
	}

	names := make([]string, 0, len(dashboard.Views()))
	for _, v := range dashboard.Views() {
		names = append(names, v.String())
	}
	suggestion := "Use one of: " + strings.Join(names, ", ")
	if similar := util.SuggestSimilar(arg, names, 2); len(similar) > 0 {
		suggestion = "Did you mean " + strings.Join(similar, " or ") + "?"
	}
	return view, errors.WrapWithCode(err, errors.ErrConfig,
		fmt.Sprintf("Unknown view '%s'", arg), suggestion)
}
