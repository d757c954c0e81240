package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourneyhub/internal/model"
)

// EventRepository defines event persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	ListPublished(ctx context.Context) ([]model.Event, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event record.
func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByID finds an event by ID.
func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

// List returns every event, newest first.
func (r *eventRepository) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListPublished returns published events ordered by event date.
func (r *eventRepository) ListPublished(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).Where("published = ?", true).Order("event_date").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// SetPublished flips the publish flag and returns the updated record.
func (r *eventRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Event, error) {
	res := r.db.WithContext(ctx).Model(&model.Event{}).Where("id = ?", id).Update("published", published)
	if res.Error != nil {
		return nil, res.Error
	}
	return r.FindByID(ctx, id)
}
