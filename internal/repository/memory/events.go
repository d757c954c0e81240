package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

// EventRepository is an in-memory repository.EventRepository.
type EventRepository struct {
	mu     sync.RWMutex
	events map[uuid.UUID]model.Event
}

var _ repository.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates an empty event store.
func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[uuid.UUID]model.Event)}
}

func (r *EventRepository) Create(_ context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	now := time.Now().UTC()
	event.CreatedAt, event.UpdatedAt = now, now
	r.events[event.ID] = *event
	return nil
}

func (r *EventRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &event, nil
}

func (r *EventRepository) List(_ context.Context) ([]model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]model.Event, 0, len(r.events))
	for _, event := range r.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	return events, nil
}

func (r *EventRepository) ListPublished(_ context.Context) ([]model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]model.Event, 0)
	for _, event := range r.events {
		if event.Published {
			events = append(events, event)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].EventDate.Before(events[j].EventDate) })
	return events, nil
}

func (r *EventRepository) SetPublished(_ context.Context, id uuid.UUID, published bool) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if event.Published != published {
		event.Published = published
		event.UpdatedAt = time.Now().UTC()
		r.events[id] = event
	}
	return &event, nil
}
