package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"tourneyhub/internal/cache"
	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

const (
	publishedEventsKey = "events:published"
	publishedEventsTTL = time.Minute
)

// CreateEventInput is the payload for a new event.
type CreateEventInput struct {
	Name        string           `json:"name"`
	Type        model.EventType  `json:"type"`
	Game        string           `json:"game"`
	GameMode    string           `json:"gameMode"`
	PrizeType   model.PrizeType  `json:"prizeType"`
	PrizeMoney  *decimal.Decimal `json:"prizeMoney"`
	PrizeObject *string          `json:"prizeObject"`
	Fee         decimal.Decimal  `json:"fee"`
	Slots       int              `json:"slots"`
	EventDate   time.Time        `json:"eventDate"`
	Description string           `json:"description"`
}

// Validate checks field ranges and that the populated prize matches PrizeType.
func (in *CreateEventInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(5, 255)),
		validation.Field(&in.Type, validation.Required, validation.In(model.EventTypeTournament, model.EventTypeRaffle)),
		validation.Field(&in.Game, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.GameMode, validation.RuneLength(0, 100)),
		validation.Field(&in.PrizeType, validation.Required, validation.In(model.PrizeTypeMoney, model.PrizeTypeObject)),
		validation.Field(&in.PrizeMoney, validation.By(in.checkPrizeMoney)),
		validation.Field(&in.PrizeObject, validation.By(in.checkPrizeObject)),
		validation.Field(&in.Fee, validation.By(func(interface{}) error {
			if in.Fee.IsNegative() {
				return errors.New("must be no less than 0")
			}
			return nil
		})),
		validation.Field(&in.Slots, validation.Required, validation.Min(2)),
		validation.Field(&in.EventDate, validation.Required),
	)
}

func (in *CreateEventInput) checkPrizeMoney(interface{}) error {
	if in.PrizeType != model.PrizeTypeMoney {
		if in.PrizeMoney != nil {
			return errors.New("must be empty unless prize type is money")
		}
		return nil
	}
	if in.PrizeMoney == nil {
		return errors.New("is required for money prizes")
	}
	if !in.PrizeMoney.IsPositive() {
		return errors.New("must be greater than 0")
	}
	return nil
}

func (in *CreateEventInput) checkPrizeObject(interface{}) error {
	if in.PrizeType != model.PrizeTypeObject {
		if in.PrizeObject != nil {
			return errors.New("must be empty unless prize type is object")
		}
		return nil
	}
	if in.PrizeObject == nil || strings.TrimSpace(*in.PrizeObject) == "" {
		return errors.New("is required for object prizes")
	}
	return nil
}

// EventService is the event registry.
type EventService interface {
	Create(ctx context.Context, input CreateEventInput, creatorID uuid.UUID) (*model.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListAll(ctx context.Context) ([]model.Event, error)
	ListPublished(ctx context.Context) ([]model.Event, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Event, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	cache     *cache.Client
}

// NewEventService builds an EventService with repository and cache.
func NewEventService(eventRepo repository.EventRepository, cache *cache.Client) EventService {
	return &eventService{eventRepo: eventRepo, cache: cache}
}

// Create validates input before any write; new events start unpublished.
func (s *eventService) Create(ctx context.Context, input CreateEventInput, creatorID uuid.UUID) (*model.Event, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Game = strings.TrimSpace(input.Game)
	if err := input.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	event := &model.Event{
		Name:        input.Name,
		Type:        input.Type,
		Game:        input.Game,
		GameMode:    strings.TrimSpace(input.GameMode),
		PrizeType:   input.PrizeType,
		PrizeObject: input.PrizeObject,
		Fee:         input.Fee,
		Slots:       input.Slots,
		EventDate:   input.EventDate.UTC(),
		Description: strings.TrimSpace(input.Description),
		Published:   false,
		CreatorID:   creatorID,
	}
	if input.PrizeMoney != nil {
		event.PrizeMoney = decimal.NewNullDecimal(*input.PrizeMoney)
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	_ = s.cache.Invalidate(ctx, publishedEventsKey)
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListAll(ctx context.Context) ([]model.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *eventService) ListPublished(ctx context.Context) ([]model.Event, error) {
	var cached []model.Event
	if s.cache.GetJSON(ctx, publishedEventsKey, &cached) {
		return cached, nil
	}

	gen, cacheable := s.cache.Generation(ctx, publishedEventsKey)
	events, err := s.eventRepo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		_ = s.cache.SetJSONAtGeneration(ctx, publishedEventsKey, events, publishedEventsTTL, gen)
	}
	return events, nil
}

// SetPublished is idempotent.
func (s *eventService) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*model.Event, error) {
	event, err := s.eventRepo.SetPublished(ctx, id, published)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("set published: %w", err)
	}
	_ = s.cache.Invalidate(ctx, publishedEventsKey)
	return event, nil
}
