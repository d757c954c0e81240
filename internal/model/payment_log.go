package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentLog is an append-only audit entry for a payment decision.
type PaymentLog struct {
	ID        uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	PaymentID uuid.UUID     `json:"paymentId" gorm:"type:char(36);not null;index"`
	Status    PaymentStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	ActorID   uuid.UUID     `json:"actorId" gorm:"type:char(36);not null"`
	Note      string        `json:"note,omitempty" gorm:"type:text"`
	CreatedAt time.Time     `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (pl *PaymentLog) BeforeCreate(tx *gorm.DB) error {
	if pl.ID == uuid.Nil {
		pl.ID = uuid.New()
	}
	return nil
}
