package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

// PaymentRepository is an in-memory repository.PaymentRepository.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]model.Payment
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)

// NewPaymentRepository creates an empty payment ledger.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[uuid.UUID]model.Payment)}
}

func (r *PaymentRepository) Create(_ context.Context, payment *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.UpdatedAt = time.Now().UTC()
	r.payments[payment.ID] = *payment
	return nil
}

func (r *PaymentRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &payment, nil
}

func (r *PaymentRepository) ListByStatus(_ context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payments := make([]model.Payment, 0)
	for _, payment := range r.payments {
		if payment.Status == status {
			payments = append(payments, payment)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].SubmittedAt.Before(payments[j].SubmittedAt) })
	return payments, nil
}

func (r *PaymentRepository) Decide(_ context.Context, id uuid.UUID, status model.PaymentStatus, actorID uuid.UUID, at time.Time) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if payment.Status != model.PaymentStatusPending {
		return nil, repository.ErrNotPending
	}

	actor := actorID
	decidedAt := at
	payment.Status = status
	payment.DecidedBy = &actor
	payment.DecidedAt = &decidedAt
	payment.UpdatedAt = at
	r.payments[id] = payment
	return &payment, nil
}

func (r *PaymentRepository) Summary(_ context.Context) (model.PaymentSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := model.PaymentSummary{Revenue: decimal.Zero}
	participants := make(map[uuid.UUID]struct{})
	for _, payment := range r.payments {
		switch payment.Status {
		case model.PaymentStatusPending:
			summary.Pending++
		case model.PaymentStatusApproved:
			summary.Approved++
			summary.Revenue = summary.Revenue.Add(payment.Amount)
			participants[payment.UserID] = struct{}{}
		case model.PaymentStatusRejected:
			summary.Rejected++
		}
	}
	summary.Participants = int64(len(participants))
	return summary, nil
}

// PaymentLogRepository is an in-memory repository.PaymentLogRepository.
type PaymentLogRepository struct {
	mu   sync.RWMutex
	logs []model.PaymentLog
}

var _ repository.PaymentLogRepository = (*PaymentLogRepository)(nil)

// NewPaymentLogRepository creates an empty audit log.
func NewPaymentLogRepository() *PaymentLogRepository {
	return &PaymentLogRepository{}
}

func (r *PaymentLogRepository) Create(ctx context.Context, log *model.PaymentLog) error {
	return r.CreateBatch(ctx, []model.PaymentLog{*log})
}

func (r *PaymentLogRepository) CreateBatch(_ context.Context, logs []model.PaymentLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, log := range logs {
		if log.ID == uuid.Nil {
			log.ID = uuid.New()
		}
		if log.CreatedAt.IsZero() {
			log.CreatedAt = time.Now().UTC()
		}
		r.logs = append(r.logs, log)
	}
	return nil
}

func (r *PaymentLogRepository) ListByPayment(_ context.Context, paymentID uuid.UUID) ([]model.PaymentLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := make([]model.PaymentLog, 0)
	for _, log := range r.logs {
		if log.PaymentID == paymentID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}
