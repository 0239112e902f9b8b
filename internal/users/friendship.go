package users

import "github.com/reelmates/backend/internal/models"

// The friend graph is a follow/confirm model, not a symmetric friend list.
// Per unordered user pair there is at most one edge: pending (owner requested
// the target) or confirmed (both sides requested). The owner is whoever asked
// first; confirmation never flips it. The transition functions below are
// pure; the edge store executes the resulting mutation under a row lock on
// the pair so concurrent requests cannot interleave.

// resolveAdd computes the mutation for requester asking to befriend target,
// given the pair's current edge (nil when none exists).
func resolveAdd(current *models.FriendEdge, requester, target int64) models.EdgeMutation {
	if current == nil {
		return models.EdgeMutation{
			Insert:  &models.FriendEdge{OwnerID: requester, TargetID: target},
			Changed: true,
		}
	}

	// The requester already owns the edge, or the pair is confirmed: nothing
	// left to do.
	if current.OwnerID == requester || current.Confirmed {
		return models.EdgeMutation{}
	}

	// The target had already requested the requester; promote their pending
	// edge, keeping the original owner.
	confirmed := *current
	confirmed.Confirmed = true
	return models.EdgeMutation{Confirm: &confirmed, Changed: true}
}

// resolveRemove computes the mutation for initiator dropping other. Removing
// a confirmed edge downgrades it: the non-initiating side keeps a pending
// request pointing at the initiator. Removing a pending edge deletes it
// outright, whichever side owned it.
func resolveRemove(current *models.FriendEdge, initiator, other int64) models.EdgeMutation {
	if current == nil {
		return models.EdgeMutation{}
	}

	mutation := models.EdgeMutation{DeletePair: true, Changed: true}
	if current.Confirmed {
		mutation.Insert = &models.FriendEdge{OwnerID: other, TargetID: initiator}
	}
	return mutation
}
