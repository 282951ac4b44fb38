package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/ui"
	"github.com/rileyhilliard/infradash/internal/util"
	"github.com/rileyhilliard/infradash/internal/votes"
)

func newVotesCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "votes",
		Short: "Browse, create, and cast votes",
		Long: `Work with the votes served by the backend.

infradash remembers which votes you cast from this machine and refuses to
cast them again unless you pass --force. The server keeps the only real tally.

Examples:
  infradash votes list
  infradash votes show 3
  infradash votes cast 3
  infradash votes cast 3 7
  infradash votes create --question "Ship it?" --option yes --option no`,
	}

	cmd.AddCommand(
		newVotesListCmd(g),
		newVotesShowCmd(g),
		newVotesCastCmd(g),
		newVotesCreateCmd(g),
		newVotesDeactivateCmd(g),
		newVotesForgetCmd(g),
	)
	return cmd
}

func newVotesListCmd(g *globalFlags) *cobra.Command {
	var format formatFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List votes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return votesListCommand(cmd, g, format)
		},
	}
	addFormatFlags(cmd, &format, false)
	return cmd
}

func newVotesShowCmd(g *globalFlags) *cobra.Command {
	var format formatFlags
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a vote and its tallies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return votesShowCommand(cmd, g, args[0], format)
		},
	}
	addFormatFlags(cmd, &format, false)
	return cmd
}

func newVotesCastCmd(g *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "cast <id> [option-id]",
		Short: "Cast a vote",
		Long: `Cast a vote for one option. Without an option id, infradash asks you
to pick one (interactive terminals only).

Examples:
  infradash votes cast 3
  infradash votes cast 3 7
  infradash votes cast 3 7 --force`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			optionArg := ""
			if len(args) == 2 {
				optionArg = args[1]
			}
			return votesCastCommand(cmd, g, args[0], optionArg, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "vote even if this machine already voted")
	return cmd
}

func newVotesCreateCmd(g *globalFlags) *cobra.Command {
	var draft votes.Draft
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return votesCreateCommand(cmd, g, draft)
		},
	}
	cmd.Flags().StringVarP(&draft.Question, "question", "q", "", "the question to ask")
	cmd.Flags().StringVarP(&draft.Description, "description", "d", "", "optional longer description")
	cmd.Flags().StringArrayVarP(&draft.Options, "option", "o", nil, "an answer (repeat for each option)")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func newVotesDeactivateCmd(g *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Close a vote so it no longer accepts votes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return votesDeactivateCommand(cmd, g, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newVotesForgetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <id>",
		Short: "Forget that this machine voted, so 'cast' works without --force",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return votesForgetCommand(cmd, g, args[0])
		},
	}
}

func votesListCommand(cmd *cobra.Command, g *globalFlags, format formatFlags) error {
	a, err := loadApp(cmd, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	list, err := client.ListVotes(cmd.Context())
	if err != nil {
		return err
	}
	if format.JSON {
		return WriteJSONSuccess(a.out, list)
	}

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No votes yet. Create one with 'infradash votes create'.")
		return nil
	}

	voted := votedSet(a)
	rows := make([][]string, 0, len(list))
	for i := range list {
		v := &list[i]
		leader := "-"
		if o, ok := v.Leader(); ok {
			leader = fmt.Sprintf("%s (%.0f%%)", o.OptionText, o.Percentage)
		}
		state := "open"
		if !v.Active {
			state = "closed"
		}
		mark := ""
		if voted[v.ID] {
			mark = ui.SymbolSuccess
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", v.ID),
			v.Question,
			fmt.Sprintf("%d", v.TotalVotes),
			leader,
			state,
			mark,
		})
	}

	fmt.Fprintln(a.out, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "ID", Width: 5},
		{Title: "QUESTION", Width: 36},
		{Title: "VOTES", Width: 6},
		{Title: "LEADING", Width: 24},
		{Title: "STATE", Width: 7},
		{Title: "VOTED", Width: 6},
	}, rows))
	return nil
}

// votedSet returns the ids this machine voted on. The hint is best effort:
// a store that cannot be opened just shows nothing as voted.
func votedSet(a *app) map[int64]bool {
	set := make(map[int64]bool)
	store, err := a.openVotes()
	if err != nil {
		a.log.Warn("vote history unavailable: %s", errors.Summary(err))
		return set
	}
	defer store.Close()

	ids, err := store.Voted()
	if err != nil {
		a.log.Warn("vote history unreadable: %v", err)
		return set
	}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func votesShowCommand(cmd *cobra.Command, g *globalFlags, idArg string, format formatFlags) error {
	id, err := parseID("vote", idArg)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	v, err := client.GetVote(cmd.Context(), id)
	if err != nil {
		return err
	}
	if format.JSON {
		return WriteJSONSuccess(a.out, v)
	}

	renderVote(a.out, v, votedSet(a)[v.ID])
	return nil
}

// renderVote prints a vote with a share bar per option.
func renderVote(w io.Writer, v *votes.Vote, voted bool) {
	muted := ui.MutedStyle()

	state := ui.SuccessStyle().Render("open")
	if !v.Active {
		state = muted.Render("closed")
	}
	fmt.Fprintf(w, "%s  %s\n", ui.InfoStyle().Bold(true).Render(fmt.Sprintf("#%d %s", v.ID, v.Question)), state)
	if v.Description != "" {
		fmt.Fprintln(w, muted.Render(v.Description))
	}
	fmt.Fprintln(w)

	leader, hasLeader := v.Leader()
	for _, o := range v.Options {
		marker := " "
		if hasLeader && o.ID == leader.ID {
			marker = ui.SymbolComplete
		}
		fmt.Fprintf(w, "  %s %-4d %-28s %s %s\n",
			marker, o.ID, util.Truncate(o.OptionText, 28),
			ui.RenderBar(o.Percentage, ui.ShareBarConfig(24)),
			muted.Render(fmt.Sprintf("(%d)", o.VoteCount)))
	}

	fmt.Fprintf(w, "\n%s\n", muted.Render(fmt.Sprintf("%d %s · created %s", v.TotalVotes, util.Pluralize(v.TotalVotes, "vote", "votes"), formatCreated(v))))
	if voted {
		fmt.Fprintln(w, muted.Render("You voted on this from this machine."))
	}
}

func formatCreated(v *votes.Vote) string {
	if v.CreatedAt.IsZero() {
		return "-"
	}
	return v.CreatedAt.Local().Format("2006-01-02 15:04")
}

func votesCastCommand(cmd *cobra.Command, g *globalFlags, idArg, optionArg string, force bool) error {
	id, err := parseID("vote", idArg)
	if err != nil {
		return err
	}
	var optionID int64
	if optionArg != "" {
		if optionID, err = parseID("option", optionArg); err != nil {
			return err
		}
	}

	a, err := loadApp(cmd, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	store, err := a.openVotes()
	if err != nil {
		return err
	}
	defer store.Close()

	already, err := store.HasVoted(id)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrVote, "Couldn't read the local vote history", "")
	}
	if already && !force {
		return errors.New(errors.ErrVote,
			fmt.Sprintf("You already voted on vote %d from this machine", id),
			fmt.Sprintf("Pass --force to vote again, or run 'infradash votes forget %d'.", id))
	}

	v, err := client.GetVote(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !v.Active {
		return errors.New(errors.ErrVote,
			fmt.Sprintf("Vote %d is closed", id),
			"Closed votes no longer accept votes.")
	}

	if optionID == 0 {
		if optionID, err = pickOption(v); err != nil {
			return err
		}
	}
	opt, ok := v.Option(optionID)
	if !ok {
		return errors.New(errors.ErrVote,
			fmt.Sprintf("Vote %d has no option %d", id, optionID),
			fmt.Sprintf("Run 'infradash votes show %d' to see its options.", id))
	}

	updated, err := client.CastVote(cmd.Context(), id, optionID)
	if err != nil {
		return err
	}
	if err := store.MarkVoted(id, optionID, time.Now()); err != nil {
		a.log.Warn("vote %d cast but not recorded locally: %v", id, err)
	}

	fmt.Fprintln(a.out, ui.FormatPhase(ui.SymbolSuccess, ui.ColorSuccess, fmt.Sprintf("Voted \"%s\"", opt.OptionText), ""))
	fmt.Fprintln(a.out)
	if updated != nil {
		renderVote(a.out, updated, true)
	}
	return nil
}

// pickOption asks the user to choose an option. It refuses when stdin is
// not a terminal so scripts fail instead of hanging.
func pickOption(v *votes.Vote) (int64, error) {
	if !ui.IsInteractive() {
		ids := make([]string, 0, len(v.Options))
		for _, o := range v.Options {
			ids = append(ids, fmt.Sprintf("%d (%s)", o.ID, o.OptionText))
		}
		return 0, errors.New(errors.ErrVote,
			"No option given",
			"Pass the option id: "+strings.Join(ids, ", "))
	}

	choices := make([]ui.Choice, 0, len(v.Options))
	for _, o := range v.Options {
		choices = append(choices, ui.Choice{Label: o.OptionText, Value: o.ID})
	}
	return ui.Pick(v.Question, choices)
}

func votesCreateCommand(cmd *cobra.Command, g *globalFlags, draft votes.Draft) error {
	if err := draft.Validate(); err != nil {
		return errors.WrapWithCode(err, errors.ErrVote,
			"This vote can't be created",
			"Give a --question and at least two --option values.")
	}

	a, err := loadApp(cmd, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	v, err := client.CreateVote(cmd.Context(), draft)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ui.FormatPhase(ui.SymbolSuccess, ui.ColorSuccess, fmt.Sprintf("Created vote %d", v.ID), ""))
	return nil
}

func votesDeactivateCommand(cmd *cobra.Command, g *globalFlags, idArg string, yes bool) error {
	id, err := parseID("vote", idArg)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if !yes {
		if !ui.IsInteractive() {
			return errors.New(errors.ErrVote,
				fmt.Sprintf("Refusing to close vote %d without confirmation", id),
				"Pass --yes to confirm.")
		}
		ok, err := ui.Confirm(fmt.Sprintf("Close vote %d? It will stop accepting votes.", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	if _, err := client.DeactivateVote(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, ui.FormatPhase(ui.SymbolSuccess, ui.ColorSuccess, fmt.Sprintf("Closed vote %d", id), ""))
	return nil
}

func votesForgetCommand(cmd *cobra.Command, g *globalFlags, idArg string) error {
	id, err := parseID("vote", idArg)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd, g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	store, err := a.openVotes()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Forget(id); err != nil {
		return errors.WrapWithCode(err, errors.ErrVote, "Couldn't update the local vote history", "")
	}
	fmt.Fprintf(a.out, "Forgot vote %d. You can cast it again without --force.\n", id)
	return nil
}
