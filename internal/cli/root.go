package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/infradash/internal/errors"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	server     string
	noColor    bool
}

// NewRootCmd builds the complete command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "infradash",
		Short: "Watch the health of your cloud infrastructure from the terminal",
		Long: `infradash checks that the status backend can reach your infrastructure,
then shows the health of compute, load balancing, databases, networking,
storage, and content delivery.

Examples:
  infradash probe
  infradash status
  infradash status alb --json
  infradash dashboard
  infradash votes list`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default: search for .infradash.yaml)")
	root.PersistentFlags().StringVar(&g.server, "server", "", "status backend URL, overrides server.url")
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newProbeCmd(g),
		newStatusCmd(g),
		newDashboardCmd(g),
		newHealthCmd(g),
		newVotesCmd(g),
		newConfigCmd(g),
		newVersionCmd(),
		newCompletionCmd(),
	)

	return root
}

// Execute runs the CLI and exits with the command's exit code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(root, err))
}

// exitCode reports err to the user and maps it to a process exit code.
func exitCode(root *cobra.Command, err error) int {
	if err == nil {
		return 0
	}

	if code, ok := errors.GetExitCode(err); ok {
		return code
	}

	if isUnknownCommandError(err) {
		fmt.Fprintf(root.ErrOrStderr(), "✗ %s\n\n", err)
		if name := extractUnknownCommand(err); name != "" {
			if suggestions := root.SuggestionsFor(name); len(suggestions) > 0 {
				fmt.Fprintf(root.ErrOrStderr(), "  Did you mean: %s?\n\n", strings.Join(suggestions, ", "))
			}
		}
		fmt.Fprintln(root.ErrOrStderr(), "  Run 'infradash --help' for available commands.")
		return 2
	}

	fmt.Fprint(root.ErrOrStderr(), err.Error())
	if !strings.HasSuffix(err.Error(), "\n") {
		fmt.Fprintln(root.ErrOrStderr())
	}
	return 1
}

// isUnknownCommandError reports whether err is cobra's unknown command or flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the command name out of `unknown command "foo" for "infradash"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
