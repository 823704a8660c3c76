package events

import (
	"time"

	"github.com/piiquante/sauce-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSauceCreated       EventType = "sauce_created"
	EventSauceUpdated       EventType = "sauce_updated"
	EventSauceImageReplaced EventType = "sauce_image_replaced"
	EventSauceDeleted       EventType = "sauce_deleted"
	EventOpinionChanged     EventType = "opinion_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SauceID   string      `json:"sauce_id"`
	AccountID string      `json:"account_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SauceCreatedPayload payload.
type SauceCreatedPayload struct {
	Name string `json:"name"`
	Heat int    `json:"heat"`
}

// SauceImagePayload names an image that is no longer referenced by its sauce.
type SauceImagePayload struct {
	ImageURL string `json:"image_url"`
}

// OpinionChangedPayload payload.
type OpinionChangedPayload struct {
	From     domain.OpinionState `json:"from"`
	To       domain.OpinionState `json:"to"`
	Likes    int                 `json:"likes"`
	Dislikes int                 `json:"dislikes"`
}
