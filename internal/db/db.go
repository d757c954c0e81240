package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tourneyhub/internal/model"
	"tourneyhub/internal/repository"
	"tourneyhub/internal/repository/memory"
)

// Drivers accepted by Open.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// NewPostgres returns a connected GORM DB instance backed by pgx.
func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// Open connects with the named driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case DriverMySQL:
		return NewMySQL(dsn)
	case DriverPostgres:
		return NewPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// OpenRepositories returns the repository set for driver. The memory driver
// needs no DSN and keeps nothing across restarts. close releases the pool.
func OpenRepositories(driver, dsn string, reset bool) (set repository.Set, close func() error, err error) {
	if driver == DriverMemory {
		return memory.NewSet(), func() error { return nil }, nil
	}

	gormDB, err := Open(driver, dsn)
	if err != nil {
		return repository.Set{}, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return repository.Set{}, nil, fmt.Errorf("sql handle: %w", err)
	}
	if err := Migrate(gormDB, reset); err != nil {
		_ = sqlDB.Close()
		return repository.Set{}, nil, err
	}
	return repository.NewGormSet(gormDB), sqlDB.Close, nil
}

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Event{},
		&model.Payment{},
		&model.PaymentLog{},
	}
}

// Migrate creates or updates the schema. With reset it drops the tables first.
func Migrate(db *gorm.DB, reset bool) error {
	if reset {
		models := Models()
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
}
