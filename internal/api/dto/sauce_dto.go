package dto

import (
	"time"

	"github.com/piiquante/sauce-service/internal/domain"
	"github.com/piiquante/sauce-service/internal/service"
)

// SauceInput holds the client-editable sauce fields. Ratings and the owner
// are not part of it, so a payload carrying them is ignored.
type SauceInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Manufacturer string `json:"manufacturer" validate:"required,max=100"`
	Description  string `json:"description" validate:"required,max=1000"`
	MainPepper   string `json:"mainPepper" validate:"required,max=100"`
	Heat         int    `json:"heat" validate:"required,min=1,max=10"`
}

// ToService maps the payload to the service input.
func (in SauceInput) ToService() service.SauceInput {
	return service.SauceInput{
		Name:         in.Name,
		Manufacturer: in.Manufacturer,
		Description:  in.Description,
		MainPepper:   in.MainPepper,
		Heat:         in.Heat,
	}
}

// LikeRequest sets the caller's opinion: 1 like, 0 none, -1 dislike. Any
// userId in the body is ignored; the token decides who votes.
type LikeRequest struct {
	Like *int `json:"like" validate:"required,oneof=-1 0 1"`
}

// SauceResponse is the public view of a sauce.
type SauceResponse struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Manufacturer  string    `json:"manufacturer"`
	Description   string    `json:"description"`
	MainPepper    string    `json:"mainPepper"`
	ImageURL      string    `json:"imageUrl"`
	Heat          int       `json:"heat"`
	Likes         int       `json:"likes"`
	Dislikes      int       `json:"dislikes"`
	UsersLiked    []string  `json:"usersLiked"`
	UsersDisliked []string  `json:"usersDisliked"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewSauceResponse converts a domain sauce.
func NewSauceResponse(s *domain.Sauce) SauceResponse {
	return SauceResponse{
		ID:            s.ID,
		UserID:        s.OwnerID,
		Name:          s.Name,
		Manufacturer:  s.Manufacturer,
		Description:   s.Description,
		MainPepper:    s.MainPepper,
		ImageURL:      s.ImageURL,
		Heat:          s.Heat,
		Likes:         s.Likes,
		Dislikes:      s.Dislikes,
		UsersLiked:    orEmpty(s.UsersLiked),
		UsersDisliked: orEmpty(s.UsersDisliked),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// NewSauceListResponse converts a list of sauces.
func NewSauceListResponse(sauces []domain.Sauce) []SauceResponse {
	out := make([]SauceResponse, 0, len(sauces))
	for i := range sauces {
		out = append(out, NewSauceResponse(&sauces[i]))
	}
	return out
}

// LikeResponse reports the caller's opinion after a like request.
type LikeResponse struct {
	Opinion  domain.OpinionState `json:"opinion"`
	Changed  bool                `json:"changed"`
	Likes    int                 `json:"likes"`
	Dislikes int                 `json:"dislikes"`
}

// NewLikeResponse converts a rating result.
func NewLikeResponse(res *service.RatingResult) LikeResponse {
	return LikeResponse{Opinion: res.State, Changed: res.Changed, Likes: res.Likes, Dislikes: res.Dislikes}
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
