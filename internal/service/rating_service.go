package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piiquante/sauce-service/internal/domain"
	"github.com/piiquante/sauce-service/internal/events"
	"github.com/piiquante/sauce-service/internal/rating"
	"github.com/piiquante/sauce-service/internal/repository"
)

// RatingResult reports the caller's resulting opinion and the sauce counters.
type RatingResult struct {
	State    domain.OpinionState
	Changed  bool
	Likes    int
	Dislikes int
}

// RatingService is the single entry point for like/dislike changes.
type RatingService struct {
	sauces     repository.SauceRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRatingService builds the service.
func NewRatingService(sauces repository.SauceRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{sauces: sauces, dispatcher: dispatcher, logger: logger}
}

// SetOpinion moves accountID to the desired opinion on the sauce. The
// read-decide-write runs inside the store's per-sauce atomic update.
func (s *RatingService) SetOpinion(ctx context.Context, sauceID, accountID string, desired domain.Opinion) (*RatingResult, error) {
	if !desired.Valid() {
		return nil, domain.ErrInvalidOpinion
	}

	var transition rating.Transition
	ratings, err := s.sauces.UpdateRatings(ctx, sauceID, func(r *domain.Ratings) error {
		t, err := rating.Apply(r, accountID, desired)
		if err != nil {
			return err
		}
		transition = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &RatingResult{
		State:    transition.To,
		Changed:  transition.Changed(),
		Likes:    ratings.Likes,
		Dislikes: ratings.Dislikes,
	}
	if !result.Changed {
		return result, nil
	}

	s.logger.Debug("opinion changed",
		zap.String("sauce_id", sauceID),
		zap.String("account_id", accountID),
		zap.String("from", string(transition.From)),
		zap.String("to", string(transition.To)))
	s.publish(ctx, events.Event{
		Type:      events.EventOpinionChanged,
		SauceID:   sauceID,
		AccountID: accountID,
		Payload: events.OpinionChangedPayload{
			From:     transition.From,
			To:       transition.To,
			Likes:    ratings.Likes,
			Dislikes: ratings.Dislikes,
		},
	})
	return result, nil
}

func (s *RatingService) publish(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event)
}

// publish stamps and dispatches an event; handler failures never fail the request.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("sauce_id", event.SauceID),
			zap.Error(err))
	}
}
