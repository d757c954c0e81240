package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
	"tourneyhub/internal/storage"
)

const (
	logBatchSize     = 10
	logFlushInterval = time.Second
	logQueueSize     = 100
)

// SubmitInput is a customer's payment evidence for an event.
type SubmitInput struct {
	UserID   uuid.UUID
	Username string
	EventID  uuid.UUID
	Amount   decimal.Decimal
	Evidence io.Reader
}

// PaymentService is the payment ledger.
type PaymentService interface {
	Submit(ctx context.Context, input SubmitInput) (*model.Payment, error)
	ListPending(ctx context.Context) ([]model.Payment, error)
	Decide(ctx context.Context, id uuid.UUID, decision model.PaymentStatus, actorID uuid.UUID) (*model.Payment, error)
	Summary(ctx context.Context) (model.PaymentSummary, error)
	Close()
}

type paymentService struct {
	eventRepo      repository.EventRepository
	paymentRepo    repository.PaymentRepository
	paymentLogRepo repository.PaymentLogRepository
	evidence       storage.EvidenceStore
	now            func() time.Time

	logChannel chan model.PaymentLog
	logMu      sync.RWMutex
	logClosed  bool
	workerDone chan struct{}
}

// NewPaymentService creates the ledger and starts its audit worker. Call Close
// to flush pending audit entries.
func NewPaymentService(
	eventRepo repository.EventRepository,
	paymentRepo repository.PaymentRepository,
	paymentLogRepo repository.PaymentLogRepository,
	evidence storage.EvidenceStore,
) PaymentService {
	service := &paymentService{
		eventRepo:      eventRepo,
		paymentRepo:    paymentRepo,
		paymentLogRepo: paymentLogRepo,
		evidence:       evidence,
		now:            func() time.Time { return time.Now().UTC() },
		logChannel:     make(chan model.PaymentLog, logQueueSize),
		workerDone:     make(chan struct{}),
	}

	go service.logWorker()

	return service
}

// logWorker writes audit entries in batches until the queue is closed.
func (s *paymentService) logWorker() {
	defer close(s.workerDone)

	batch := make([]model.PaymentLog, 0, logBatchSize)
	ticker := time.NewTicker(logFlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.paymentLogRepo.CreateBatch(context.Background(), batch); err != nil {
			zap.L().Error("failed to write payment audit batch", zap.Int("entries", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case log, ok := <-s.logChannel:
			if !ok {
				flush()
				return
			}
			batch = append(batch, log)
			if len(batch) >= logBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Close stops the audit worker after draining its queue.
func (s *paymentService) Close() {
	s.logMu.Lock()
	if !s.logClosed {
		s.logClosed = true
		close(s.logChannel)
	}
	s.logMu.Unlock()
	<-s.workerDone
}

// Submit validates the claim against the event before storing the evidence, so
// rejected submissions leave nothing behind.
func (s *paymentService) Submit(ctx context.Context, input SubmitInput) (*model.Payment, error) {
	if input.Evidence == nil {
		return nil, apperrors.Validation("invalid input", map[string]string{"file": "is required"})
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.Validation("invalid input", map[string]string{"amount": "must be greater than 0"})
	}

	event, err := s.eventRepo.FindByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Validation("invalid input", map[string]string{"eventId": "does not reference a published event"})
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	if !event.Published {
		return nil, apperrors.Validation("invalid input", map[string]string{"eventId": "does not reference a published event"})
	}
	if !input.Amount.Equal(event.Fee) {
		return nil, apperrors.Validation("invalid input", map[string]string{
			"amount": fmt.Sprintf("must equal the event fee of %s", event.Fee.StringFixed(2)),
		})
	}

	ref, err := s.evidence.Put(ctx, input.Evidence)
	if err != nil {
		return nil, evidenceError(err)
	}

	payment := &model.Payment{
		UserID:      input.UserID,
		Username:    strings.TrimSpace(input.Username),
		EventID:     event.ID,
		Amount:      input.Amount,
		SubmittedAt: s.now(),
		EvidenceRef: ref,
		Status:      model.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return payment, nil
}

func evidenceError(err error) error {
	switch {
	case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrEmpty):
		return apperrors.Validation("invalid input", map[string]string{"file": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		zap.L().Error("failed to store payment evidence", zap.Error(err))
		return apperrors.ErrEvidenceStoreUnavailable
	}
}

func (s *paymentService) ListPending(ctx context.Context) ([]model.Payment, error) {
	return s.paymentRepo.ListByStatus(ctx, model.PaymentStatusPending)
}

// Decide moves a pending payment to a terminal status. The repository applies
// it as a compare-and-set on the pending status, so at most one decision per
// payment ever succeeds, across goroutines and processes alike; later ones
// fail with ErrPaymentAlreadyDecided.
func (s *paymentService) Decide(ctx context.Context, id uuid.UUID, decision model.PaymentStatus, actorID uuid.UUID) (*model.Payment, error) {
	if !decision.Terminal() {
		return nil, apperrors.Validation("invalid input", map[string]string{"status": "must be one of approved, rejected"})
	}

	payment, err := s.paymentRepo.Decide(ctx, id, decision, actorID, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.ErrPaymentNotFound
		case errors.Is(err, repository.ErrNotPending):
			return nil, apperrors.ErrPaymentAlreadyDecided
		default:
			return nil, fmt.Errorf("decide payment: %w", err)
		}
	}

	s.logDecision(ctx, model.PaymentLog{
		PaymentID: payment.ID,
		Status:    payment.Status,
		ActorID:   actorID,
		CreatedAt: s.now(),
	})
	return payment, nil
}

func (s *paymentService) Summary(ctx context.Context) (model.PaymentSummary, error) {
	return s.paymentRepo.Summary(ctx)
}

// logDecision queues an audit entry, writing it inline when the queue is full
// or closed.
func (s *paymentService) logDecision(ctx context.Context, log model.PaymentLog) {
	s.logMu.RLock()
	defer s.logMu.RUnlock()

	if !s.logClosed {
		select {
		case s.logChannel <- log:
			return
		default:
		}
	}
	if err := s.paymentLogRepo.Create(context.WithoutCancel(ctx), &log); err != nil {
		zap.L().Error("failed to write payment audit entry", zap.String("payment_id", log.PaymentID.String()), zap.Error(err))
	}
}
