package domain

import "time"

// Sauce is the ratable item submitted by an account.
type Sauce struct {
	ID           string
	OwnerID      string
	Name         string
	Manufacturer string
	Description  string
	MainPepper   string
	ImageURL     string
	Heat         int
	Ratings
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ratings holds the aggregate counters and the account ids behind them.
type Ratings struct {
	Likes         int
	Dislikes      int
	UsersLiked    []string
	UsersDisliked []string
}

// Clone returns a deep copy so callers never share the id slices.
func (r Ratings) Clone() Ratings {
	out := Ratings{Likes: r.Likes, Dislikes: r.Dislikes}
	out.UsersLiked = append(make([]string, 0, len(r.UsersLiked)), r.UsersLiked...)
	out.UsersDisliked = append(make([]string, 0, len(r.UsersDisliked)), r.UsersDisliked...)
	return out
}

// Consistent reports whether the counters match the id sets and the sets are disjoint.
func (r Ratings) Consistent() bool {
	if r.Likes != len(r.UsersLiked) || r.Dislikes != len(r.UsersDisliked) {
		return false
	}
	seen := make(map[string]struct{}, len(r.UsersLiked)+len(r.UsersDisliked))
	for _, id := range r.UsersLiked {
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	for _, id := range r.UsersDisliked {
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}
