package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository/memory"
)

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func stringPtr(s string) *string {
	return &s
}

func summerCup() CreateEventInput {
	return CreateEventInput{
		Name:       "Summer Cup",
		Type:       model.EventTypeTournament,
		Game:       "valorant",
		PrizeType:  model.PrizeTypeMoney,
		PrizeMoney: decimalPtr(500),
		Fee:        decimal.NewFromInt(25),
		Slots:      16,
		EventDate:  time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestEventService_CreateValidation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*CreateEventInput)
		expectedField string
	}{
		{name: "valid money prize", mutate: func(*CreateEventInput) {}},
		{name: "valid object prize", mutate: func(in *CreateEventInput) {
			in.Type = model.EventTypeRaffle
			in.PrizeType = model.PrizeTypeObject
			in.PrizeMoney = nil
			in.PrizeObject = stringPtr(`Skin "Glitchpop"`)
		}},
		{name: "free event", mutate: func(in *CreateEventInput) { in.Fee = decimal.Zero }},
		{name: "money prize missing", mutate: func(in *CreateEventInput) { in.PrizeMoney = nil }, expectedField: "prizeMoney"},
		{name: "money prize not positive", mutate: func(in *CreateEventInput) { in.PrizeMoney = decimalPtr(0) }, expectedField: "prizeMoney"},
		{name: "object prize missing", mutate: func(in *CreateEventInput) {
			in.PrizeType = model.PrizeTypeObject
			in.PrizeMoney = nil
		}, expectedField: "prizeObject"},
		{name: "object set on money prize", mutate: func(in *CreateEventInput) { in.PrizeObject = stringPtr("mouse") }, expectedField: "prizeObject"},
		{name: "money set on object prize", mutate: func(in *CreateEventInput) {
			in.PrizeType = model.PrizeTypeObject
			in.PrizeObject = stringPtr("mouse")
		}, expectedField: "prizeMoney"},
		{name: "negative fee", mutate: func(in *CreateEventInput) { in.Fee = decimal.NewFromInt(-1) }, expectedField: "fee"},
		{name: "one slot", mutate: func(in *CreateEventInput) { in.Slots = 1 }, expectedField: "slots"},
		{name: "short name", mutate: func(in *CreateEventInput) { in.Name = "Cup" }, expectedField: "name"},
		{name: "unknown type", mutate: func(in *CreateEventInput) { in.Type = "league" }, expectedField: "type"},
		{name: "unknown prize type", mutate: func(in *CreateEventInput) { in.PrizeType = "token" }, expectedField: "prizeType"},
		{name: "missing game", mutate: func(in *CreateEventInput) { in.Game = "  " }, expectedField: "game"},
		{name: "missing date", mutate: func(in *CreateEventInput) { in.EventDate = time.Time{} }, expectedField: "eventDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewEventRepository()
			service := NewEventService(repo, nil)
			input := summerCup()
			tt.mutate(&input)

			event, err := service.Create(context.Background(), input, uuid.New())
			if tt.expectedField == "" {
				require.NoError(t, err)
				assert.False(t, event.Published)
				assert.NotEqual(t, uuid.Nil, event.ID)
				return
			}

			require.Error(t, err)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.expectedField)

			all, err := repo.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all, "nothing is written on validation failure")
		})
	}
}

func TestEventService_PublishScenario(t *testing.T) {
	service := NewEventService(memory.NewEventRepository(), nil)
	ctx := context.Background()
	admin := uuid.New()

	event, err := service.Create(ctx, summerCup(), admin)
	require.NoError(t, err)
	assert.False(t, event.Published)
	assert.Equal(t, admin, event.CreatorID)
	assert.True(t, event.PrizeMoney.Valid)

	published, err := service.ListPublished(ctx)
	require.NoError(t, err)
	assert.Empty(t, published)

	_, err = service.SetPublished(ctx, event.ID, true)
	require.NoError(t, err)
	published, err = service.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, event.ID, published[0].ID)

	_, err = service.SetPublished(ctx, event.ID, false)
	require.NoError(t, err)
	published, err = service.ListPublished(ctx)
	require.NoError(t, err)
	assert.Empty(t, published)

	all, err := service.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEventService_NotFound(t *testing.T) {
	service := NewEventService(memory.NewEventRepository(), nil)
	ctx := context.Background()

	_, err := service.SetPublished(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)

	_, err = service.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}
