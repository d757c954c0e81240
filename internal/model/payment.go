package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus represents the validation status of a payment evidence submission.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusApproved || s == PaymentStatusRejected
}

// Payment is a customer's claim of having paid an event's entry fee.
type Payment struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index"`
	Username    string          `json:"user" gorm:"size:100"`
	EventID     uuid.UUID       `json:"eventId" gorm:"type:char(36);not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	SubmittedAt time.Time       `json:"submittedAt" gorm:"not null"`
	EvidenceRef string          `json:"evidenceUrl" gorm:"size:512;not null"`
	Status      PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	DecidedBy   *uuid.UUID      `json:"decidedBy,omitempty" gorm:"type:char(36)"`
	DecidedAt   *time.Time      `json:"decidedAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PaymentSummary aggregates the ledger for the admin dashboard.
type PaymentSummary struct {
	Pending      int64           `json:"pending"`
	Approved     int64           `json:"approved"`
	Rejected     int64           `json:"rejected"`
	Revenue      decimal.Decimal `json:"revenue"`
	Participants int64           `json:"participants"`
}
