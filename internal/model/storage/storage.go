package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/user"
	"max.ks1230/earnings-tracker/internal/logger"
)

// Storage is the record store contract shared by the Postgres and in-memory stores.
type Storage interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, rec user.Record) (user.Record, error)
	EnsureTelegramUser(ctx context.Context, telegramID int64, name string) (int64, error)
	GetUserByID(ctx context.Context, id int64) (user.Record, error)
	GetUserByEmail(ctx context.Context, email string) (user.Record, error)
	UpdateUser(ctx context.Context, rec user.Record) error
	UpdatePassword(ctx context.Context, userID int64, hash string) error
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error

	ListSources(ctx context.Context) ([]record.Source, error)
	GetSource(ctx context.Context, id int64) (record.Source, error)
	GetSourceByName(ctx context.Context, name string) (record.Source, error)
	CreateSource(ctx context.Context, src record.Source) (record.Source, error)

	ListEarnings(ctx context.Context, userID int64, from, to *time.Time) ([]record.Earning, error)
	GetEarning(ctx context.Context, userID, id int64) (record.Earning, error)
	CreateEarning(ctx context.Context, e record.Earning) (record.Earning, error)
	UpdateEarning(ctx context.Context, e record.Earning) (record.Earning, error)
	DeleteEarning(ctx context.Context, userID, id int64) error

	ListExpenses(ctx context.Context, userID int64, from, to *time.Time) ([]record.Expense, error)
	GetExpense(ctx context.Context, userID, id int64) (record.Expense, error)
	CreateExpense(ctx context.Context, e record.Expense) (record.Expense, error)
	UpdateExpense(ctx context.Context, e record.Expense) (record.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
}

type openConfig interface {
	config
	Enabled() bool
	Migrate() bool
}

var (
	_ Storage = (*PostgresStorage)(nil)
	_ Storage = (*InMemStorage)(nil)
)

// Open connects to Postgres when it is configured and falls back to the in-memory store otherwise.
// The returned close func is never nil.
func Open(cfg openConfig) (Storage, func(), error) {
	if !cfg.Enabled() {
		logger.Warn("postgres is not configured, records are kept in memory")
		return NewInMemStorage(), func() {}, nil
	}

	db, err := NewPostgresStorage(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close postgres", zap.Error(err))
		}
	}
	if cfg.Migrate() {
		if err = RunMigrations(db.DB()); err != nil {
			closeDB()
			return nil, nil, errors.Wrap(err, "migrate")
		}
		logger.Info("migrations applied")
	}
	return db, closeDB, nil
}
