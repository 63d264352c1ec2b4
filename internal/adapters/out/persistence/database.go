// Package persistence opens the database, migrates the schema and provides the
// GORM unit of work that the command handlers run in.
//
// Two dialects are supported: Postgres for deployments and SQLite for local
// runs and tests. On Postgres rows are locked with SELECT ... FOR UPDATE; on
// SQLite the single writer connection serialises transactions.
package persistence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/adapters/out/persistence/failurerepo"
	"marketplace/internal/adapters/out/persistence/orderrepo"
	"marketplace/internal/adapters/out/persistence/productrepo"
	"marketplace/internal/adapters/out/persistence/userrepo"

	"github.com/glebarez/sqlite"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string
	DSN    string

	// MaxOpenConns is ignored for SQLite, which always gets one connection.
	MaxOpenConns  int
	SlowThreshold time.Duration
}

// Open connects to the configured database. Postgres goes through lib/pq so
// that driver errors are *pq.Error values.
func Open(cfg Config, logger logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: cfg.DSN})
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case DriverSQLite:
		sqlDB.SetMaxOpenConns(1)
		if err = db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	default:
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
	}

	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userrepo.UserDTO{},
		&productrepo.CategoryDTO{},
		&productrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&failurerepo.FailureDTO{},
	)
}

// IsSerializationFailure reports whether err means the transaction lost a race
// and may succeed when run again.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
		return false
	}
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
