package memory

import "tourneyhub/internal/repository"

// NewSet returns a repository.Set backed entirely by memory.
func NewSet() repository.Set {
	return repository.Set{
		Users:       NewUserRepository(),
		Events:      NewEventRepository(),
		Payments:    NewPaymentRepository(),
		PaymentLogs: NewPaymentLogRepository(),
	}
}
