package domain

// Opinion is the stance a client asks for; wire values follow the like endpoint.
type Opinion int

const (
	OpinionDislike Opinion = -1
	OpinionNone    Opinion = 0
	OpinionLike    Opinion = 1
)

// Valid reports whether o is one of the three accepted values.
func (o Opinion) Valid() bool {
	return o == OpinionDislike || o == OpinionNone || o == OpinionLike
}

// OpinionState is the stance an account currently holds on a sauce.
type OpinionState string

const (
	OpinionNeutral  OpinionState = "NEUTRAL"
	OpinionLiked    OpinionState = "LIKED"
	OpinionDisliked OpinionState = "DISLIKED"
)
