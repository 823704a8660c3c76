package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/piiquante/sauce-service/internal/events"
)

// NotificationService logs domain events as they happen.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSauceCreated, n.handleSauceEvent)
	n.dispatcher.Subscribe(events.EventSauceUpdated, n.handleSauceEvent)
	n.dispatcher.Subscribe(events.EventSauceDeleted, n.handleSauceEvent)
	n.dispatcher.Subscribe(events.EventOpinionChanged, n.handleOpinionChanged)
}

func (n *NotificationService) handleSauceEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("sauce_id", event.SauceID),
		zap.String("account_id", event.AccountID))
	return nil
}

func (n *NotificationService) handleOpinionChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OpinionChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Debug(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("sauce_id", event.SauceID),
		zap.String("from", string(payload.From)),
		zap.String("to", string(payload.To)),
		zap.Int("likes", payload.Likes),
		zap.Int("dislikes", payload.Dislikes))
	return nil
}
