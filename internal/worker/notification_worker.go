package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/piiquante/sauce-service/internal/events"
	"github.com/piiquante/sauce-service/internal/service"
)

// ImageRemover deletes a stored image by its public URL.
type ImageRemover interface {
	Delete(imageURL string) error
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartImageJanitor removes image files that no sauce references anymore.
func StartImageJanitor(dispatcher events.Dispatcher, images ImageRemover, logger *zap.Logger) {
	if dispatcher == nil || images == nil {
		return
	}
	handler := func(_ context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.SauceImagePayload)
		if !ok || payload.ImageURL == "" {
			return nil
		}
		if err := images.Delete(payload.ImageURL); err != nil {
			logger.Warn("remove image failed", zap.String("sauce_id", event.SauceID), zap.Error(err))
			return err
		}
		logger.Debug("image removed", zap.String("sauce_id", event.SauceID))
		return nil
	}
	dispatcher.Subscribe(events.EventSauceDeleted, handler)
	dispatcher.Subscribe(events.EventSauceImageReplaced, handler)
}
