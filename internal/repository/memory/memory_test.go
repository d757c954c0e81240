package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

func TestUserRepository_CreateRejectsDuplicateEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Username: "a", Email: "a@b.com", Role: model.RoleCustomer}))
	err := repo.Create(ctx, &model.User{Username: "b", Email: "A@B.com", Role: model.RoleCustomer})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := &model.User{Username: "emp", Email: "emp@b.com", Role: model.RoleEmployee}
	require.NoError(t, repo.Create(ctx, user))

	user.Username = "mutated"
	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "emp", found.Username)

	found.Permissions.ManageEvents = true
	again, err := repo.FindByEmail(ctx, "emp@b.com")
	require.NoError(t, err)
	assert.False(t, again.Permissions.ManageEvents)
}

func TestUserRepository_UpdatePermissions(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	_, err := repo.UpdatePermissions(ctx, uuid.New(), model.EmployeePermissions{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	user := &model.User{Username: "emp", Email: "emp@b.com", Role: model.RoleEmployee}
	require.NoError(t, repo.Create(ctx, user))

	updated, err := repo.UpdatePermissions(ctx, user.ID, model.EmployeePermissions{ValidatePayments: true})
	require.NoError(t, err)
	assert.True(t, updated.Permissions.ValidatePayments)

	employees, err := repo.ListByRole(ctx, model.RoleEmployee)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.True(t, employees[0].Permissions.ValidatePayments)
}

func TestEventRepository_PublishToggle(t *testing.T) {
	repo := NewEventRepository()
	ctx := context.Background()

	event := &model.Event{Name: "Summer Cup", Type: model.EventTypeTournament, EventDate: time.Now()}
	require.NoError(t, repo.Create(ctx, event))

	published, err := repo.ListPublished(ctx)
	require.NoError(t, err)
	assert.Empty(t, published)

	_, err = repo.SetPublished(ctx, event.ID, true)
	require.NoError(t, err)
	published, err = repo.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, event.ID, published[0].ID)

	// Same value twice is a no-op success.
	again, err := repo.SetPublished(ctx, event.ID, true)
	require.NoError(t, err)
	assert.True(t, again.Published)

	_, err = repo.SetPublished(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventRepository_ListPublishedSortedByDate(t *testing.T) {
	repo := NewEventRepository()
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []int{3, 1, 2} {
		event := &model.Event{Name: "event", EventDate: base.AddDate(0, 0, offset), Published: true}
		require.NoError(t, repo.Create(ctx, event))
	}

	events, err := repo.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.True(t, events[0].EventDate.Before(events[1].EventDate))
	assert.True(t, events[1].EventDate.Before(events[2].EventDate))
}

func newPendingPayment(t *testing.T, repo *PaymentRepository, userID uuid.UUID, amount int64) *model.Payment {
	t.Helper()
	payment := &model.Payment{
		UserID:      userID,
		EventID:     uuid.New(),
		Amount:      decimal.NewFromInt(amount),
		SubmittedAt: time.Now().UTC(),
		EvidenceRef: "/uploads/receipt.png",
		Status:      model.PaymentStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), payment))
	return payment
}

func TestPaymentRepository_DecideOnce(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()
	payment := newPendingPayment(t, repo, uuid.New(), 25)
	actor := uuid.New()

	decided, err := repo.Decide(ctx, payment.ID, model.PaymentStatusApproved, actor, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, actor, *decided.DecidedBy)

	_, err = repo.Decide(ctx, payment.ID, model.PaymentStatusRejected, actor, time.Now().UTC())
	assert.ErrorIs(t, err, repository.ErrNotPending)

	_, err = repo.Decide(ctx, uuid.New(), model.PaymentStatusRejected, actor, time.Now().UTC())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	pending, err := repo.ListByStatus(ctx, model.PaymentStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPaymentRepository_ConcurrentDecide(t *testing.T) {
	repo := NewPaymentRepository()
	payment := newPendingPayment(t, repo, uuid.New(), 25)

	var wins, losses int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := model.PaymentStatusApproved
			if i%2 == 0 {
				status = model.PaymentStatusRejected
			}
			_, err := repo.Decide(context.Background(), payment.ID, status, uuid.New(), time.Now().UTC())
			if err == nil {
				atomic.AddInt32(&wins, 1)
			} else if err == repository.ErrNotPending {
				atomic.AddInt32(&losses, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
	assert.Equal(t, int32(31), losses)
}

func TestPaymentRepository_Summary(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()
	customer := uuid.New()
	actor := uuid.New()

	first := newPendingPayment(t, repo, customer, 25)
	second := newPendingPayment(t, repo, customer, 10)
	third := newPendingPayment(t, repo, uuid.New(), 5)
	newPendingPayment(t, repo, uuid.New(), 7)

	_, err := repo.Decide(ctx, first.ID, model.PaymentStatusApproved, actor, time.Now())
	require.NoError(t, err)
	_, err = repo.Decide(ctx, second.ID, model.PaymentStatusApproved, actor, time.Now())
	require.NoError(t, err)
	_, err = repo.Decide(ctx, third.ID, model.PaymentStatusRejected, actor, time.Now())
	require.NoError(t, err)

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Pending)
	assert.Equal(t, int64(2), summary.Approved)
	assert.Equal(t, int64(1), summary.Rejected)
	assert.True(t, decimal.NewFromInt(35).Equal(summary.Revenue))
	assert.Equal(t, int64(1), summary.Participants)
}

func TestPaymentLogRepository_ListByPayment(t *testing.T) {
	repo := NewPaymentLogRepository()
	ctx := context.Background()
	paymentID := uuid.New()

	require.NoError(t, repo.CreateBatch(ctx, []model.PaymentLog{
		{PaymentID: paymentID, Status: model.PaymentStatusApproved},
		{PaymentID: uuid.New(), Status: model.PaymentStatusRejected},
	}))
	require.NoError(t, repo.Create(ctx, &model.PaymentLog{PaymentID: paymentID, Status: model.PaymentStatusApproved}))

	logs, err := repo.ListByPayment(ctx, paymentID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	for _, log := range logs {
		assert.NotEqual(t, uuid.Nil, log.ID)
	}
}
