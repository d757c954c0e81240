//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tourneyhub/internal/db"
	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
)

// setupPostgres starts a throwaway Postgres container and returns a migrated
// connection to it.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "docker not available")
	pool.MaxWait = 90 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=tourneyhub",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=tourneyhub",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("host=localhost port=%s user=tourneyhub password=secret dbname=tourneyhub sslmode=disable",
		resource.GetPort("5432/tcp"))

	var gormDB *gorm.DB
	err = pool.Retry(func() error {
		var err error
		gormDB, err = db.NewPostgres(dsn)
		if err != nil {
			return err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, false))
	return gormDB
}

func TestPostgres_DuplicateEmail(t *testing.T) {
	set := repository.NewGormSet(setupPostgres(t))
	ctx := context.Background()

	first := &model.User{Username: "ana", Email: "ana@test.com", PasswordHash: "x", Role: model.RoleCustomer}
	require.NoError(t, set.Users.Create(ctx, first))

	dup := &model.User{Username: "ana2", Email: "ana@test.com", PasswordHash: "x", Role: model.RoleCustomer}
	assert.ErrorIs(t, set.Users.Create(ctx, dup), repository.ErrDuplicateEmail)

	_, err := set.Users.FindByEmail(ctx, "nobody@test.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostgres_PermissionsUpdate(t *testing.T) {
	set := repository.NewGormSet(setupPostgres(t))
	ctx := context.Background()

	employee := &model.User{Username: "empleado", Email: "empleado@test.com", PasswordHash: "x", Role: model.RoleEmployee}
	require.NoError(t, set.Users.Create(ctx, employee))

	perms := model.EmployeePermissions{ValidatePayments: true}
	updated, err := set.Users.UpdatePermissions(ctx, employee.ID, perms)
	require.NoError(t, err)
	assert.Equal(t, perms, updated.Permissions)

	// Same values again must not look like a missing row.
	_, err = set.Users.UpdatePermissions(ctx, employee.ID, perms)
	assert.NoError(t, err)

	_, err = set.Users.UpdatePermissions(ctx, uuid.New(), perms)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostgres_DecideIsCompareAndSet(t *testing.T) {
	set := repository.NewGormSet(setupPostgres(t))
	ctx := context.Background()

	event := &model.Event{
		Name:       "Summer Cup",
		Type:       model.EventTypeTournament,
		Game:       "valorant",
		PrizeType:  model.PrizeTypeMoney,
		PrizeMoney: decimal.NewNullDecimal(decimal.NewFromInt(500)),
		Fee:        decimal.NewFromInt(25),
		Slots:      16,
		EventDate:  time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC),
		CreatorID:  uuid.New(),
	}
	require.NoError(t, set.Events.Create(ctx, event))

	payment := &model.Payment{
		UserID:      uuid.New(),
		Username:    "ana",
		EventID:     event.ID,
		Amount:      decimal.NewFromInt(25),
		SubmittedAt: time.Now().UTC(),
		EvidenceRef: "/uploads/receipt.png",
		Status:      model.PaymentStatusPending,
	}
	require.NoError(t, set.Payments.Create(ctx, payment))

	const deciders = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		rejected int
	)
	for i := 0; i < deciders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := set.Payments.Decide(ctx, payment.ID, model.PaymentStatusApproved, uuid.New(), time.Now().UTC())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, repository.ErrNotPending):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, deciders-1, rejected)

	_, err := set.Payments.Decide(ctx, uuid.New(), model.PaymentStatusRejected, uuid.New(), time.Now().UTC())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	summary, err := set.Payments.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Approved)
	assert.Equal(t, int64(1), summary.Participants)
	assert.True(t, decimal.NewFromInt(25).Equal(summary.Revenue))
}
