package rating

import (
	"errors"
	"slices"
	"testing"

	"github.com/piiquante/sauce-service/internal/domain"
)

func ratingsFor(state domain.OpinionState, user string) domain.Ratings {
	r := domain.Ratings{Likes: 1, Dislikes: 1, UsersLiked: []string{"other-a"}, UsersDisliked: []string{"other-b"}}
	switch state {
	case domain.OpinionLiked:
		r.UsersLiked = append(r.UsersLiked, user)
		r.Likes++
	case domain.OpinionDisliked:
		r.UsersDisliked = append(r.UsersDisliked, user)
		r.Dislikes++
	}
	return r
}

func TestApplyTransitionTable(t *testing.T) {
	cases := []struct {
		from          domain.OpinionState
		desired       domain.Opinion
		to            domain.OpinionState
		likesDelta    int
		dislikesDelta int
	}{
		{domain.OpinionNeutral, domain.OpinionLike, domain.OpinionLiked, 1, 0},
		{domain.OpinionNeutral, domain.OpinionDislike, domain.OpinionDisliked, 0, 1},
		{domain.OpinionLiked, domain.OpinionLike, domain.OpinionLiked, 0, 0},
		{domain.OpinionLiked, domain.OpinionNone, domain.OpinionNeutral, -1, 0},
		{domain.OpinionLiked, domain.OpinionDislike, domain.OpinionDisliked, -1, 1},
		{domain.OpinionDisliked, domain.OpinionDislike, domain.OpinionDisliked, 0, 0},
		{domain.OpinionDisliked, domain.OpinionNone, domain.OpinionNeutral, 0, -1},
		{domain.OpinionDisliked, domain.OpinionLike, domain.OpinionLiked, 1, -1},
		{domain.OpinionNeutral, domain.OpinionNone, domain.OpinionNeutral, 0, 0},
	}

	for _, tc := range cases {
		r := ratingsFor(tc.from, "u1")
		before := r.Clone()

		tr, err := Apply(&r, "u1", tc.desired)
		if err != nil {
			t.Fatalf("%s/%d: unexpected error: %v", tc.from, tc.desired, err)
		}
		if tr.From != tc.from || tr.To != tc.to {
			t.Errorf("%s/%d: got %s -> %s, want %s -> %s", tc.from, tc.desired, tr.From, tr.To, tc.from, tc.to)
		}
		if got := r.Likes - before.Likes; got != tc.likesDelta {
			t.Errorf("%s/%d: likes delta %d, want %d", tc.from, tc.desired, got, tc.likesDelta)
		}
		if got := r.Dislikes - before.Dislikes; got != tc.dislikesDelta {
			t.Errorf("%s/%d: dislikes delta %d, want %d", tc.from, tc.desired, got, tc.dislikesDelta)
		}
		if StateOf(&r, "u1") != tc.to {
			t.Errorf("%s/%d: membership says %s, want %s", tc.from, tc.desired, StateOf(&r, "u1"), tc.to)
		}
		if !r.Consistent() {
			t.Errorf("%s/%d: ratings inconsistent: %+v", tc.from, tc.desired, r)
		}
	}
}

func TestApplyLikedToDislikedExample(t *testing.T) {
	r := domain.Ratings{
		Likes:         3,
		Dislikes:      1,
		UsersLiked:    []string{"u1", "u2", "u3"},
		UsersDisliked: []string{"u9"},
	}

	if _, err := Apply(&r, "u1", domain.OpinionDislike); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if r.Likes != 2 || r.Dislikes != 2 {
		t.Fatalf("counts = %d/%d, want 2/2", r.Likes, r.Dislikes)
	}
	if !slices.Equal(r.UsersLiked, []string{"u2", "u3"}) {
		t.Fatalf("usersLiked = %v", r.UsersLiked)
	}
	if !slices.Contains(r.UsersDisliked, "u1") || !slices.Contains(r.UsersDisliked, "u9") {
		t.Fatalf("usersDisliked = %v", r.UsersDisliked)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	r := domain.Ratings{}
	if _, err := Apply(&r, "u1", domain.OpinionLike); err != nil {
		t.Fatal(err)
	}
	once := r.Clone()

	tr, err := Apply(&r, "u1", domain.OpinionLike)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Changed() {
		t.Fatal("second like reported a change")
	}
	if r.Likes != once.Likes || !slices.Equal(r.UsersLiked, once.UsersLiked) {
		t.Fatalf("second like changed state: %+v vs %+v", r, once)
	}
}

func TestApplyRejectsUnknownOpinion(t *testing.T) {
	r := domain.Ratings{}
	if _, err := Apply(&r, "u1", domain.Opinion(2)); !errors.Is(err, domain.ErrInvalidOpinion) {
		t.Fatalf("err = %v, want ErrInvalidOpinion", err)
	}
}

func TestApplyLeavesCorruptRatingsUntouched(t *testing.T) {
	r := domain.Ratings{Likes: 5, UsersLiked: []string{"u2"}}

	_, err := Apply(&r, "u1", domain.OpinionLike)
	if !errors.Is(err, domain.ErrConstraintViolation) {
		t.Fatalf("err = %v, want ErrConstraintViolation", err)
	}
	if r.Likes != 5 || len(r.UsersLiked) != 1 {
		t.Fatalf("ratings mutated: %+v", r)
	}
}
