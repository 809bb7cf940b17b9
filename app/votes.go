package app

import (
	"context"
	"time"

	"github.com/openwall/openwall-be/db"
	"github.com/openwall/openwall-be/model"
	"github.com/openwall/openwall-be/util"
)

// milestones are celebrated when the net total newly lands on one of these
// exact values. Not persisted: leaving and re-reaching a threshold fires it
// again.
var voteMilestones = []int{10, 50, 100}

type VoteResult struct {
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	NetVotes  int    `json:"netVotes"`
	MyVote    string `json:"myVote"`
	Milestone int    `json:"milestone,omitempty"`
}

// CastVote applies the toggle state machine over (existing, requested):
// same direction removes the vote, the opposite direction overwrites it in
// place, no existing vote inserts one. The (postId, voterId) pair never
// holds more than one row.
func (a *App) CastVote(ctx context.Context, postId, voterId string, direction model.VoteDirection) (*VoteResult, *util.HTTPError) {
	if !direction.Valid() {
		return nil, util.InvalidArgumentHTTPErr("vote direction must be up or down")
	}

	result := &VoteResult{}
	err := a.db.Update(ctx, func(s *db.Snapshot) error {
		if s.IsBanned(voterId) {
			return util.ForbiddenHTTPErr("identity is banned")
		}
		if s.PostById(postId) == nil {
			return util.NotFoundHTTPErr("post not found")
		}

		upBefore, downBefore := s.Tally(postId)
		netBefore := upBefore - downBefore

		existing := s.VoteFor(postId, voterId)
		switch {
		case existing == nil:
			s.Votes = append(s.Votes, &model.Vote{
				PostId:    postId,
				VoterId:   voterId,
				Direction: direction,
				CreatedAt: time.Now(),
			})
			result.MyVote = string(direction)
		case existing.Direction == direction:
			// toggle off
			votes := s.Votes[:0]
			for _, vote := range s.Votes {
				if !(vote.PostId == postId && vote.VoterId == voterId) {
					votes = append(votes, vote)
				}
			}
			s.Votes = votes
			result.MyVote = "none"
		default:
			// switch sides without creating a second row
			existing.Direction = direction
			result.MyVote = string(direction)
		}

		result.Upvotes, result.Downvotes = s.Tally(postId)
		result.NetVotes = result.Upvotes - result.Downvotes
		for _, milestone := range voteMilestones {
			if result.NetVotes == milestone && netBefore != milestone {
				result.Milestone = milestone
				a.logger.WithField("postId", postId).
					WithField("milestone", milestone).
					Info("post reached vote milestone")
			}
		}
		return nil
	})
	if httpErr := a.mapStoreErr(err); httpErr != nil {
		return nil, httpErr
	}
	return result, nil
}
