// Package votes holds the vote documents served by the backend and the local
// store that remembers which votes this machine has already cast.
package votes

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/infradash/internal/resource"
)

// Vote is a poll with its options and server-side tallies.
type Vote struct {
	ID          int64              `json:"id" yaml:"id"`
	Question    string             `json:"question,omitempty" yaml:"question,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Options     []Option           `json:"options,omitempty" yaml:"options,omitempty"`
	TotalVotes  int                `json:"totalVotes" yaml:"total_votes"`
	CreatedAt   resource.Timestamp `json:"createdAt" yaml:"created_at,omitempty"`
	Active      bool               `json:"active" yaml:"active"`
}

// Option is one answer of a vote.
type Option struct {
	ID         int64   `json:"id" yaml:"id"`
	OptionText string  `json:"optionText,omitempty" yaml:"option_text,omitempty"`
	VoteCount  int     `json:"voteCount" yaml:"vote_count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Option returns the option with the given id.
func (v *Vote) Option(id int64) (Option, bool) {
	if v == nil {
		return Option{}, false
	}
	for _, o := range v.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Leader returns the option with the most votes. Ties go to the earlier option.
func (v *Vote) Leader() (Option, bool) {
	if v == nil || len(v.Options) == 0 || v.TotalVotes == 0 {
		return Option{}, false
	}
	best := v.Options[0]
	for _, o := range v.Options[1:] {
		if o.VoteCount > best.VoteCount {
			best = o
		}
	}
	return best, true
}

// Draft is the request body for creating a vote.
type Draft struct {
	Question    string   `json:"question"`
	Description string   `json:"description,omitempty"`
	Options     []string `json:"options"`
}

// Validate checks the draft before it is sent.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Question) == "" {
		return fmt.Errorf("question is required")
	}
	n := 0
	for _, o := range d.Options {
		if strings.TrimSpace(o) != "" {
			n++
		}
	}
	if n < 2 {
		return fmt.Errorf("at least two non-empty options are required, got %d", n)
	}
	return nil
}

// Health is the voting service health document.
type Health struct {
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
	Service   string `json:"service,omitempty" yaml:"service,omitempty"`
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}
