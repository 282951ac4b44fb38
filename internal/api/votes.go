package api

import (
	"context"
	"fmt"
	"net/http"

	rerrors "github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/votes"
)

// ListVotes fetches every vote.
func (c *Client) ListVotes(ctx context.Context) ([]votes.Vote, error) {
	list, err := fetch[[]votes.Vote](ctx, c, "/votes", nil, true)
	if err != nil || list == nil {
		return nil, err
	}
	return *list, nil
}

// GetVote fetches one vote. A missing vote is reported as an ErrVote error.
func (c *Client) GetVote(ctx context.Context, id int64) (*votes.Vote, error) {
	path := fmt.Sprintf("/votes/%d", id)
	v, err := fetch[votes.Vote](ctx, c, path, nil, true)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, rerrors.New(rerrors.ErrVote, fmt.Sprintf("Vote %d not found", id), "Run 'infradash votes list' to see available votes")
	}
	return v, nil
}

// CreateVote submits a new vote and returns it as stored by the server.
func (c *Client) CreateVote(ctx context.Context, d votes.Draft) (*votes.Vote, error) {
	if err := d.Validate(); err != nil {
		return nil, rerrors.WrapWithCode(err, rerrors.ErrVote, "Invalid vote", "")
	}
	return c.voteCall(ctx, http.MethodPost, "/votes", d)
}

// CastVote registers one vote for optionID and returns the updated tallies.
func (c *Client) CastVote(ctx context.Context, id, optionID int64) (*votes.Vote, error) {
	return c.voteCall(ctx, http.MethodPost, fmt.Sprintf("/votes/%d/options/%d", id, optionID), nil)
}

// DeactivateVote closes a vote to further casting.
func (c *Client) DeactivateVote(ctx context.Context, id int64) (*votes.Vote, error) {
	return c.voteCall(ctx, http.MethodPut, fmt.Sprintf("/votes/%d/deactivate", id), nil)
}

// VotesHealth fetches the voting service health document.
func (c *Client) VotesHealth(ctx context.Context) (*votes.Health, error) {
	return fetch[votes.Health](ctx, c, "/votes/health", nil, true)
}

func (c *Client) voteCall(ctx context.Context, method, path string, body any) (*votes.Vote, error) {
	data, err := c.request(ctx, method, path, nil, body, true)
	if err != nil {
		return nil, err
	}
	v, err := decode[votes.Vote](data, path)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, rerrors.New(rerrors.ErrVote, fmt.Sprintf("Backend rejected %s %s", method, path), "The vote may be closed or the option may not exist")
	}
	return v, nil
}
