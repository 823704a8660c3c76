// Package rating implements the per-account opinion state machine for a sauce.
//
// A transition is derived only from the account's current membership in the
// liked and disliked sets, never from a state reported by the client, so
// applying the same request twice is harmless.
package rating

import (
	"fmt"
	"slices"

	"github.com/piiquante/sauce-service/internal/domain"
)

// Transition describes the outcome of applying one opinion request.
type Transition struct {
	From          domain.OpinionState
	To            domain.OpinionState
	LikesDelta    int
	DislikesDelta int
}

// Changed reports whether the transition mutated anything.
func (t Transition) Changed() bool {
	return t.From != t.To
}

type edge struct {
	from    domain.OpinionState
	desired domain.Opinion
}

var table = map[edge]Transition{
	{domain.OpinionNeutral, domain.OpinionLike}:     {To: domain.OpinionLiked, LikesDelta: 1},
	{domain.OpinionNeutral, domain.OpinionDislike}:  {To: domain.OpinionDisliked, DislikesDelta: 1},
	{domain.OpinionNeutral, domain.OpinionNone}:     {To: domain.OpinionNeutral},
	{domain.OpinionLiked, domain.OpinionLike}:       {To: domain.OpinionLiked},
	{domain.OpinionLiked, domain.OpinionNone}:       {To: domain.OpinionNeutral, LikesDelta: -1},
	{domain.OpinionLiked, domain.OpinionDislike}:    {To: domain.OpinionDisliked, LikesDelta: -1, DislikesDelta: 1},
	{domain.OpinionDisliked, domain.OpinionDislike}: {To: domain.OpinionDisliked},
	{domain.OpinionDisliked, domain.OpinionNone}:    {To: domain.OpinionNeutral, DislikesDelta: -1},
	{domain.OpinionDisliked, domain.OpinionLike}:    {To: domain.OpinionLiked, LikesDelta: 1, DislikesDelta: -1},
}

// StateOf returns the state accountID currently holds in r.
func StateOf(r *domain.Ratings, accountID string) domain.OpinionState {
	if slices.Contains(r.UsersLiked, accountID) {
		return domain.OpinionLiked
	}
	if slices.Contains(r.UsersDisliked, accountID) {
		return domain.OpinionDisliked
	}
	return domain.OpinionNeutral
}

// Plan looks up the transition for the current state and requested opinion.
func Plan(current domain.OpinionState, desired domain.Opinion) (Transition, error) {
	t, ok := table[edge{current, desired}]
	if !ok {
		if !desired.Valid() {
			return Transition{}, domain.ErrInvalidOpinion
		}
		return Transition{}, fmt.Errorf("no transition from %s for opinion %d", current, desired)
	}
	t.From = current
	return t, nil
}

// Apply mutates r in place so that accountID holds the desired opinion.
// Counters and sets move together; if r was inconsistent on entry or would
// become inconsistent, r is left untouched and ErrConstraintViolation is returned.
func Apply(r *domain.Ratings, accountID string, desired domain.Opinion) (Transition, error) {
	t, err := Plan(StateOf(r, accountID), desired)
	if err != nil {
		return Transition{}, err
	}
	if !t.Changed() {
		return t, nil
	}

	next := r.Clone()
	match := func(id string) bool { return id == accountID }
	next.UsersLiked = slices.DeleteFunc(next.UsersLiked, match)
	next.UsersDisliked = slices.DeleteFunc(next.UsersDisliked, match)
	switch t.To {
	case domain.OpinionLiked:
		next.UsersLiked = append(next.UsersLiked, accountID)
	case domain.OpinionDisliked:
		next.UsersDisliked = append(next.UsersDisliked, accountID)
	}
	next.Likes += t.LikesDelta
	next.Dislikes += t.DislikesDelta

	if !next.Consistent() {
		return Transition{}, fmt.Errorf("%w: ratings counters out of sync", domain.ErrConstraintViolation)
	}
	*r = next
	return t, nil
}
