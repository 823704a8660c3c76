package worker

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/piiquante/sauce-service/internal/events"
)

type fakeRemover struct {
	removed []string
	err     error
}

func (f *fakeRemover) Delete(imageURL string) error {
	f.removed = append(f.removed, imageURL)
	return f.err
}

func TestImageJanitorRemovesReleasedImages(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	remover := &fakeRemover{}
	StartImageJanitor(dispatcher, remover, zap.NewNop())

	ctx := context.Background()
	published := []events.Event{
		{Type: events.EventSauceDeleted, SauceID: "a", Payload: events.SauceImagePayload{ImageURL: "http://h/images/a.png"}},
		{Type: events.EventSauceImageReplaced, SauceID: "b", Payload: events.SauceImagePayload{ImageURL: "http://h/images/b.png"}},
		{Type: events.EventSauceDeleted, SauceID: "c", Payload: events.SauceImagePayload{}},
		{Type: events.EventSauceUpdated, SauceID: "d"},
	}
	for _, e := range published {
		if err := dispatcher.Publish(ctx, e); err != nil {
			t.Fatalf("publish %s: %v", e.Type, err)
		}
	}

	if len(remover.removed) != 2 {
		t.Fatalf("removed = %v", remover.removed)
	}
	if remover.removed[0] != "http://h/images/a.png" || remover.removed[1] != "http://h/images/b.png" {
		t.Fatalf("removed = %v", remover.removed)
	}
}

func TestImageJanitorReportsFailure(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	boom := errors.New("disk gone")
	StartImageJanitor(dispatcher, &fakeRemover{err: boom}, zap.NewNop())

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventSauceDeleted,
		Payload: events.SauceImagePayload{ImageURL: "http://h/images/x.png"},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected janitor error, got %v", err)
	}
}
