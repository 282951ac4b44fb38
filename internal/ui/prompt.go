package ui

import (
	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/infradash/internal/errors"
)

// Choice is one option offered by Pick.
type Choice struct {
	Label string
	Value int64
}

// Pick asks the user to select one of choices and returns its value.
func Pick(title string, choices []Choice) (int64, error) {
	if len(choices) == 0 {
		return 0, errors.New(errors.ErrVote,
			"Nothing to choose from",
			"The vote has no options to pick.")
	}

	options := make([]huh.Option[int64], len(choices))
	for i, c := range choices {
		options[i] = huh.NewOption(c.Label, c.Value)
	}

	selected := choices[0].Value
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title(title).
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrVote,
			"Couldn't get your selection",
			"Try again or pass the option id as an argument.")
	}
	return selected, nil
}

// Confirm asks a yes/no question.
func Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&ok),
		),
	)

	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Try running with --force to skip the prompt.")
	}
	return ok, nil
}
