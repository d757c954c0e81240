package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tourneyhub/internal/model"
)

// PaymentRepository defines payment persistence operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	ListByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error)
	// Decide moves a pending payment to status. It fails with ErrNotFound for an
	// unknown id and ErrNotPending when the record is already terminal.
	Decide(ctx context.Context, id uuid.UUID, status model.PaymentStatus, actorID uuid.UUID, at time.Time) (*model.Payment, error)
	Summary(ctx context.Context) (model.PaymentSummary, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record.
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// FindByID finds a payment by ID.
func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, notFound(err)
	}
	return &payment, nil
}

// ListByStatus lists payments in a status, oldest submission first.
func (r *paymentRepository) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("submitted_at").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Decide uses a compare-and-set on status so concurrent deciders across
// processes cannot both succeed.
func (r *paymentRepository) Decide(ctx context.Context, id uuid.UUID, status model.PaymentStatus, actorID uuid.UUID, at time.Time) (*model.Payment, error) {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": actorID,
			"decided_at": at,
			"updated_at": at,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	payment, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotPending
	}
	return payment, nil
}

type statusTotal struct {
	Status model.PaymentStatus
	Count  int64
	Total  decimal.Decimal
}

// Summary aggregates counts per status, approved revenue and distinct approved participants.
func (r *paymentRepository) Summary(ctx context.Context) (model.PaymentSummary, error) {
	var rows []statusTotal
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Select("status, count(*) as count, coalesce(sum(amount), 0) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return model.PaymentSummary{}, err
	}

	summary := model.PaymentSummary{Revenue: decimal.Zero}
	for _, row := range rows {
		switch row.Status {
		case model.PaymentStatusPending:
			summary.Pending = row.Count
		case model.PaymentStatusApproved:
			summary.Approved = row.Count
			summary.Revenue = row.Total
		case model.PaymentStatusRejected:
			summary.Rejected = row.Count
		}
	}

	err = r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("status = ?", model.PaymentStatusApproved).
		Distinct("user_id").
		Count(&summary.Participants).Error
	if err != nil {
		return model.PaymentSummary{}, err
	}
	return summary, nil
}

// PaymentLogRepository defines payment log persistence operations.
type PaymentLogRepository interface {
	Create(ctx context.Context, log *model.PaymentLog) error
	CreateBatch(ctx context.Context, logs []model.PaymentLog) error
	ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]model.PaymentLog, error)
}

type paymentLogRepository struct {
	db *gorm.DB
}

// NewPaymentLogRepository creates a new payment log repository.
func NewPaymentLogRepository(db *gorm.DB) PaymentLogRepository {
	return &paymentLogRepository{db: db}
}

// Create creates a new payment log entry.
func (r *paymentLogRepository) Create(ctx context.Context, log *model.PaymentLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// CreateBatch creates multiple payment log entries in a single transaction.
func (r *paymentLogRepository) CreateBatch(ctx context.Context, logs []model.PaymentLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(logs, 100).Error
}

// ListByPayment returns the audit trail of a payment, oldest first.
func (r *paymentLogRepository) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]model.PaymentLog, error) {
	var logs []model.PaymentLog
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).Order("created_at").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
