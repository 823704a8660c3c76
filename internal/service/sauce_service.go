package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piiquante/sauce-service/internal/domain"
	"github.com/piiquante/sauce-service/internal/events"
	"github.com/piiquante/sauce-service/internal/repository"
)

// SauceInput describes the client-editable fields of a sauce.
type SauceInput struct {
	Name         string
	Manufacturer string
	Description  string
	MainPepper   string
	Heat         int
}

// SauceService coordinates sauce CRUD. Ratings are never written here.
type SauceService struct {
	sauces     repository.SauceRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSauceService builds the service.
func NewSauceService(sauces repository.SauceRepository, dispatcher events.Dispatcher, logger *zap.Logger) *SauceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SauceService{sauces: sauces, dispatcher: dispatcher, logger: logger}
}

// Create stores a new sauce owned by ownerID with zeroed ratings.
func (s *SauceService) Create(ctx context.Context, ownerID string, in SauceInput, imageURL string) (*domain.Sauce, error) {
	sauce := &domain.Sauce{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		ImageURL: imageURL,
	}
	applyInput(sauce, in)
	if err := s.sauces.Create(ctx, sauce); err != nil {
		return nil, err
	}

	s.logger.Info("sauce created", zap.String("sauce_id", sauce.ID), zap.String("owner_id", ownerID))
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventSauceCreated,
		SauceID:   sauce.ID,
		AccountID: ownerID,
		Payload:   events.SauceCreatedPayload{Name: sauce.Name, Heat: sauce.Heat},
	})
	return sauce, nil
}

// Get loads one sauce.
func (s *SauceService) Get(ctx context.Context, id string) (*domain.Sauce, error) {
	return s.sauces.GetByID(ctx, id)
}

// List returns all sauces, newest first.
func (s *SauceService) List(ctx context.Context) ([]domain.Sauce, error) {
	return s.sauces.List(ctx)
}

// Update rewrites the descriptive fields of a sauce owned by accountID. A
// non-empty imageURL replaces the current image.
func (s *SauceService) Update(ctx context.Context, accountID, id string, in SauceInput, imageURL string) (*domain.Sauce, error) {
	sauce, err := s.owned(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	previousImage := sauce.ImageURL
	applyInput(sauce, in)
	if imageURL != "" {
		sauce.ImageURL = imageURL
	}
	if err := s.sauces.Update(ctx, sauce); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventSauceUpdated,
		SauceID:   sauce.ID,
		AccountID: accountID,
	})
	if previousImage != "" && previousImage != sauce.ImageURL {
		publish(ctx, s.dispatcher, s.logger, events.Event{
			Type:      events.EventSauceImageReplaced,
			SauceID:   sauce.ID,
			AccountID: accountID,
			Payload:   events.SauceImagePayload{ImageURL: previousImage},
		})
	}
	return sauce, nil
}

// Delete removes a sauce owned by accountID together with its opinions.
func (s *SauceService) Delete(ctx context.Context, accountID, id string) error {
	sauce, err := s.owned(ctx, accountID, id)
	if err != nil {
		return err
	}
	if err := s.sauces.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("sauce deleted", zap.String("sauce_id", id), zap.String("owner_id", accountID))
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventSauceDeleted,
		SauceID:   id,
		AccountID: accountID,
		Payload:   events.SauceImagePayload{ImageURL: sauce.ImageURL},
	})
	return nil
}

func (s *SauceService) owned(ctx context.Context, accountID, id string) (*domain.Sauce, error) {
	sauce, err := s.sauces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sauce.OwnerID != accountID {
		return nil, domain.ErrForbidden
	}
	return sauce, nil
}

func applyInput(sauce *domain.Sauce, in SauceInput) {
	sauce.Name = strings.TrimSpace(in.Name)
	sauce.Manufacturer = strings.TrimSpace(in.Manufacturer)
	sauce.Description = strings.TrimSpace(in.Description)
	sauce.MainPepper = strings.TrimSpace(in.MainPepper)
	sauce.Heat = in.Heat
}
