package repository

import "gorm.io/gorm"

// Set bundles the repositories the services are built from.
type Set struct {
	Users       UserRepository
	Events      EventRepository
	Payments    PaymentRepository
	PaymentLogs PaymentLogRepository
}

// NewGormSet builds every repository on one GORM connection.
func NewGormSet(db *gorm.DB) Set {
	return Set{
		Users:       NewUserRepository(db),
		Events:      NewEventRepository(db),
		Payments:    NewPaymentRepository(db),
		PaymentLogs: NewPaymentLogRepository(db),
	}
}
