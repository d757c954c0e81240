package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventType distinguishes tournaments from raffles.
type EventType string

const (
	EventTypeTournament EventType = "tournament"
	EventTypeRaffle     EventType = "raffle"
)

// PrizeType tells which prize field of an event is populated.
type PrizeType string

const (
	PrizeTypeMoney  PrizeType = "money"
	PrizeTypeObject PrizeType = "object"
)

// Event is a tournament or raffle customers join by submitting payment evidence.
type Event struct {
	ID          uuid.UUID           `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string              `json:"name" gorm:"size:255;not null"`
	Type        EventType           `json:"type" gorm:"type:varchar(20);not null"`
	Game        string              `json:"game" gorm:"size:100;not null"`
	GameMode    string              `json:"gameMode,omitempty" gorm:"size:100"`
	PrizeType   PrizeType           `json:"prizeType" gorm:"type:varchar(20);not null"`
	PrizeMoney  decimal.NullDecimal `json:"prizeMoney" gorm:"type:decimal(20,2)"`
	PrizeObject *string             `json:"prizeObject,omitempty" gorm:"size:255"`
	Fee         decimal.Decimal     `json:"fee" gorm:"type:decimal(20,2);not null"`
	Slots       int                 `json:"slots" gorm:"not null"`
	EventDate   time.Time           `json:"eventDate" gorm:"not null;index"`
	Description string              `json:"description,omitempty" gorm:"type:text"`
	Published   bool                `json:"published" gorm:"default:false;index"`
	CreatorID   uuid.UUID           `json:"creatorId" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
