package app

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/model"
)

func TestCastVoteInsertToggleSwitch(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	post := mustCreatePost(t, a, "hello", "owner")

	// insert
	result, httpErr := a.CastVote(ctx, post.Id, "alice", model.VoteUp)
	require.Nil(t, httpErr)
	assert.Equal(t, 1, result.Upvotes)
	assert.Equal(t, 0, result.Downvotes)
	assert.Equal(t, 1, result.NetVotes)
	assert.Equal(t, "up", result.MyVote)

	// same direction toggles off
	result, httpErr = a.CastVote(ctx, post.Id, "alice", model.VoteUp)
	require.Nil(t, httpErr)
	assert.Equal(t, 0, result.NetVotes)
	assert.Equal(t, "none", result.MyVote)

	// opposite direction overwrites in place
	_, httpErr = a.CastVote(ctx, post.Id, "alice", model.VoteUp)
	require.Nil(t, httpErr)
	result, httpErr = a.CastVote(ctx, post.Id, "alice", model.VoteDown)
	require.Nil(t, httpErr)
	assert.Equal(t, 0, result.Upvotes)
	assert.Equal(t, 1, result.Downvotes)
	assert.Equal(t, -1, result.NetVotes)
	assert.Equal(t, "down", result.MyVote)
}

func TestCastVoteNeverHoldsASecondRow(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	post := mustCreatePost(t, a, "hello", "owner")

	directions := []model.VoteDirection{
		model.VoteUp, model.VoteDown, model.VoteDown, model.VoteUp, model.VoteUp, model.VoteDown,
	}
	for _, direction := range directions {
		result, httpErr := a.CastVote(ctx, post.Id, "alice", direction)
		require.Nil(t, httpErr)

		rows, net := 0, 0
		err := a.db.View(ctx, func(s *db.Snapshot) error {
			for _, vote := range s.Votes {
				if vote.PostId == post.Id && vote.VoterId == "alice" {
					rows++
				}
				if vote.Direction == model.VoteUp {
					net++
				} else {
					net--
				}
			}
			return nil
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, rows, 1)
		// recomputing from scratch always matches the returned tallies
		assert.Equal(t, net, result.NetVotes)
	}
}

func TestCastVoteTwoIdentities(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	post := mustCreatePost(t, a, "hello", "owner")

	_, httpErr := a.CastVote(ctx, post.Id, "alice", model.VoteUp)
	require.Nil(t, httpErr)
	result, httpErr := a.CastVote(ctx, post.Id, "bob", model.VoteUp)
	require.Nil(t, httpErr)
	assert.Equal(t, 2, result.Upvotes)
	assert.Equal(t, 0, result.Downvotes)
	assert.Equal(t, 2, result.NetVotes)

	result, httpErr = a.CastVote(ctx, post.Id, "bob", model.VoteDown)
	require.Nil(t, httpErr)
	assert.Equal(t, 1, result.Upvotes)
	assert.Equal(t, 1, result.Downvotes)
	assert.Equal(t, 0, result.NetVotes)
}

func TestCastVoteErrors(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	post := mustCreatePost(t, a, "hello", "owner")

	_, httpErr := a.CastVote(ctx, "missing", "alice", model.VoteUp)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)

	_, httpErr = a.CastVote(ctx, post.Id, "alice", model.VoteDirection("sideways"))
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	require.Nil(t, a.BanIdentity(ctx, "alice", false))
	_, httpErr = a.CastVote(ctx, post.Id, "alice", model.VoteUp)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestCastVoteMilestones(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	post := mustCreatePost(t, a, "hello", "owner")

	// 9 distinct voters: no milestone yet
	for i := 0; i < 9; i++ {
		result, httpErr := a.CastVote(ctx, post.Id, fmt.Sprintf("voter-%d", i), model.VoteUp)
		require.Nil(t, httpErr)
		assert.Zero(t, result.Milestone)
	}

	// 9 -> 10 fires exactly once
	result, httpErr := a.CastVote(ctx, post.Id, "voter-9", model.VoteUp)
	require.Nil(t, httpErr)
	assert.Equal(t, 10, result.Milestone)

	// 10 -> 11 does not re-fire
	result, httpErr = a.CastVote(ctx, post.Id, "voter-10", model.VoteUp)
	require.Nil(t, httpErr)
	assert.Zero(t, result.Milestone)

	// leaving the threshold and returning to it fires again
	result, httpErr = a.CastVote(ctx, post.Id, "voter-10", model.VoteUp)
	require.Nil(t, httpErr)
	assert.Equal(t, 10, result.NetVotes)
	assert.Equal(t, 10, result.Milestone)

	// drop to 9 and climb back: fires once more
	result, httpErr = a.CastVote(ctx, post.Id, "voter-9", model.VoteUp)
	require.Nil(t, httpErr)
	assert.Equal(t, 9, result.NetVotes)
	assert.Zero(t, result.Milestone)
	result, httpErr = a.CastVote(ctx, post.Id, "voter-9", model.VoteUp)
	require.Nil(t, httpErr)
	assert.Equal(t, 10, result.Milestone)
}
