package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/user"
	"max.ks1230/earnings-tracker/internal/logger"
	"max.ks1230/earnings-tracker/internal/model/customerr"
)

const dsnTemplate = "user=%s password=%s host=%s port=%d dbname=%s sslmode=%s"

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Port() int
	Username() string
	Password() string
	Database() string
	SSLMode() string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Port(),
		config.Database(),
		config.SSLMode()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) DB() *sql.DB {
	return s.db
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.Error("error closing rows", zap.Error(err))
	}
}

// translate maps driver errors onto domain errors.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(customerr.ErrNotFound, op)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return errors.Wrap(customerr.ErrConflict, op)
		case foreignKeyViolation:
			return errors.Wrap(customerr.ErrNotFound, op)
		}
	}
	return errors.Wrap(err, op)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Users

var userColumns = []string{
	"id", "name", "COALESCE(email, '')", "phone_number", "password_hash",
	"profession", "role", "created_at", "last_login_at", "is_active", "telegram_id",
}

func scanUser(row sq.RowScanner) (user.Record, error) {
	var res user.Record
	var lastLogin sql.NullTime
	var telegramID sql.NullInt64
	err := row.Scan(&res.ID, &res.Name, &res.Email, &res.PhoneNumber, &res.PasswordHash,
		&res.Profession, &res.Role, &res.CreatedAt, &lastLogin, &res.IsActive, &telegramID)
	if lastLogin.Valid {
		res.LastLoginAt = &lastLogin.Time
	}
	if telegramID.Valid {
		res.TelegramID = &telegramID.Int64
	}
	return res, err
}

func (s *PostgresStorage) CreateUser(ctx context.Context, rec user.Record) (user.Record, error) {
	query := psql.Insert("users").
		Columns("name", "email", "phone_number", "password_hash", "profession", "role").
		Values(rec.Name, nullString(rec.Email), rec.PhoneNumber, rec.PasswordHash, rec.Profession, rec.Role).
		Suffix("RETURNING id")

	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&rec.ID)
	if err != nil {
		return user.Record{}, translate(err, "create user")
	}
	return s.GetUserByID(ctx, rec.ID)
}

// EnsureTelegramUser returns the id of the user linked to telegramID, creating one on first contact.
func (s *PostgresStorage) EnsureTelegramUser(ctx context.Context, telegramID int64, name string) (int64, error) {
	query := psql.Insert("users").
		Columns("telegram_id", "name").
		Values(telegramID, name).
		Suffix("ON CONFLICT (telegram_id) DO UPDATE SET telegram_id = EXCLUDED.telegram_id RETURNING id")

	var id int64
	if err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, translate(err, "ensure telegram user")
	}
	return id, nil
}

func (s *PostgresStorage) GetUserByID(ctx context.Context, id int64) (user.Record, error) {
	query := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id})

	res, err := scanUser(query.RunWith(s.db).QueryRowContext(ctx))
	if err != nil {
		return user.Record{}, translate(err, "get user")
	}
	return res, nil
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (user.Record, error) {
	query := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email})

	res, err := scanUser(query.RunWith(s.db).QueryRowContext(ctx))
	if err != nil {
		return user.Record{}, translate(err, "get user by email")
	}
	return res, nil
}

func (s *PostgresStorage) UpdateUser(ctx context.Context, rec user.Record) error {
	query := psql.Update("users").
		SetMap(map[string]interface{}{
			"name":         rec.Name,
			"phone_number": rec.PhoneNumber,
			"profession":   rec.Profession,
		}).
		Where(sq.Eq{"id": rec.ID})
	return s.execOne(ctx, query, "update user")
}

func (s *PostgresStorage) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	query := psql.Update("users").
		Set("password_hash", hash).
		Where(sq.Eq{"id": userID})
	return s.execOne(ctx, query, "update password")
}

func (s *PostgresStorage) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	query := psql.Update("users").
		Set("last_login_at", at).
		Where(sq.Eq{"id": userID})
	return s.execOne(ctx, query, "touch last login")
}

func (s *PostgresStorage) execOne(ctx context.Context, query sq.Sqlizer, op string) error {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, op)
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return translate(err, op)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, op)
	}
	if n == 0 {
		return errors.Wrap(customerr.ErrNotFound, op)
	}
	return nil
}

// Sources

func (s *PostgresStorage) ListSources(ctx context.Context) ([]record.Source, error) {
	query := psql.Select("id", "name", "description", "is_active", "created_at").
		From("sources").
		Where(sq.Eq{"is_active": true}).
		OrderBy("name")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get sources")
	}
	defer closeRows(rows)

	res := make([]record.Source, 0)
	for rows.Next() {
		var src record.Source
		if err = rows.Scan(&src.ID, &src.Name, &src.Description, &src.IsActive, &src.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "get sources")
		}
		res = append(res, src)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get sources")
	}
	return res, nil
}

func (s *PostgresStorage) GetSource(ctx context.Context, id int64) (record.Source, error) {
	query := psql.Select("id", "name", "description", "is_active", "created_at").
		From("sources").
		Where(sq.Eq{"id": id})

	var src record.Source
	err := query.RunWith(s.db).QueryRowContext(ctx).
		Scan(&src.ID, &src.Name, &src.Description, &src.IsActive, &src.CreatedAt)
	if err != nil {
		return record.Source{}, translate(err, "get source")
	}
	return src, nil
}

func (s *PostgresStorage) GetSourceByName(ctx context.Context, name string) (record.Source, error) {
	query := psql.Select("id", "name", "description", "is_active", "created_at").
		From("sources").
		Where("lower(name) = lower(?)", name)

	var src record.Source
	err := query.RunWith(s.db).QueryRowContext(ctx).
		Scan(&src.ID, &src.Name, &src.Description, &src.IsActive, &src.CreatedAt)
	if err != nil {
		return record.Source{}, translate(err, "get source by name")
	}
	return src, nil
}

func (s *PostgresStorage) CreateSource(ctx context.Context, src record.Source) (record.Source, error) {
	query := psql.Insert("sources").
		Columns("name", "description").
		Values(src.Name, src.Description).
		Suffix("RETURNING id, is_active, created_at")

	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&src.ID, &src.IsActive, &src.CreatedAt)
	if err != nil {
		return record.Source{}, translate(err, "create source")
	}
	return src, nil
}

// Earnings

func earningsQuery() sq.SelectBuilder {
	return psql.Select("e.id", "e.user_id", "e.date", "e.amount", "e.source_id",
		"COALESCE(s.name, '')", "e.type", "e.payment_method", "e.created_at").
		From("earnings e").
		LeftJoin("sources s ON s.id = e.source_id")
}

func scanEarning(row sq.RowScanner) (record.Earning, error) {
	var e record.Earning
	var sourceID sql.NullInt64
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Amount, &sourceID,
		&e.SourceName, &e.Type, &e.PaymentMethod, &e.CreatedAt)
	if sourceID.Valid {
		e.SourceID = &sourceID.Int64
	}
	e.Date = record.Day(e.Date)
	return e, err
}

func dateRange(column string, from, to *time.Time) sq.And {
	conds := sq.And{}
	if from != nil {
		conds = append(conds, sq.GtOrEq{column: record.Day(*from)})
	}
	if to != nil {
		conds = append(conds, sq.LtOrEq{column: record.Day(*to)})
	}
	return conds
}

func (s *PostgresStorage) ListEarnings(ctx context.Context, userID int64, from, to *time.Time) ([]record.Earning, error) {
	query := earningsQuery().
		Where(sq.Eq{"e.user_id": userID}).
		Where(dateRange("e.date", from, to)).
		OrderBy("e.date DESC", "e.id DESC")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get earnings")
	}
	defer closeRows(rows)

	res := make([]record.Earning, 0)
	for rows.Next() {
		e, err := scanEarning(rows)
		if err != nil {
			return nil, errors.Wrap(err, "get earnings")
		}
		res = append(res, e)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get earnings")
	}
	return res, nil
}

func (s *PostgresStorage) GetEarning(ctx context.Context, userID, id int64) (record.Earning, error) {
	query := earningsQuery().
		Where(sq.Eq{"e.id": id, "e.user_id": userID})

	e, err := scanEarning(query.RunWith(s.db).QueryRowContext(ctx))
	if err != nil {
		return record.Earning{}, translate(err, "get earning")
	}
	return e, nil
}

func (s *PostgresStorage) CreateEarning(ctx context.Context, e record.Earning) (record.Earning, error) {
	query := psql.Insert("earnings").
		Columns("user_id", "date", "amount", "source_id", "type", "payment_method").
		Values(e.UserID, record.Day(e.Date), e.Amount, e.SourceID, e.Type, e.PaymentMethod).
		Suffix("RETURNING id")

	var id int64
	if err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&id); err != nil {
		return record.Earning{}, translate(err, "create earning")
	}
	return s.GetEarning(ctx, e.UserID, id)
}

func (s *PostgresStorage) UpdateEarning(ctx context.Context, e record.Earning) (record.Earning, error) {
	query := psql.Update("earnings").
		SetMap(map[string]interface{}{
			"date":           record.Day(e.Date),
			"amount":         e.Amount,
			"source_id":      e.SourceID,
			"type":           e.Type,
			"payment_method": e.PaymentMethod,
		}).
		Where(sq.Eq{"id": e.ID, "user_id": e.UserID})

	if err := s.execOne(ctx, query, "update earning"); err != nil {
		return record.Earning{}, err
	}
	return s.GetEarning(ctx, e.UserID, e.ID)
}

func (s *PostgresStorage) DeleteEarning(ctx context.Context, userID, id int64) error {
	query := psql.Delete("earnings").
		Where(sq.Eq{"id": id, "user_id": userID})
	return s.execOne(ctx, query, "delete earning")
}

// Expenses

func expensesQuery() sq.SelectBuilder {
	return psql.Select("id", "user_id", "date", "amount", "category", "payment_method", "created_at").
		From("expenses")
}

func scanExpense(row sq.RowScanner) (record.Expense, error) {
	var e record.Expense
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Amount, &e.Category, &e.PaymentMethod, &e.CreatedAt)
	e.Date = record.Day(e.Date)
	return e, err
}

func (s *PostgresStorage) ListExpenses(ctx context.Context, userID int64, from, to *time.Time) ([]record.Expense, error) {
	query := expensesQuery().
		Where(sq.Eq{"user_id": userID}).
		Where(dateRange("date", from, to)).
		OrderBy("date DESC", "id DESC")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get expenses")
	}
	defer closeRows(rows)

	exps := make([]record.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, errors.Wrap(err, "get expenses")
		}
		exps = append(exps, e)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get expenses")
	}
	return exps, nil
}

func (s *PostgresStorage) GetExpense(ctx context.Context, userID, id int64) (record.Expense, error) {
	query := expensesQuery().
		Where(sq.Eq{"id": id, "user_id": userID})

	e, err := scanExpense(query.RunWith(s.db).QueryRowContext(ctx))
	if err != nil {
		return record.Expense{}, translate(err, "get expense")
	}
	return e, nil
}

func (s *PostgresStorage) CreateExpense(ctx context.Context, e record.Expense) (record.Expense, error) {
	query := psql.Insert("expenses").
		Columns("user_id", "date", "amount", "category", "payment_method").
		Values(e.UserID, record.Day(e.Date), e.Amount, e.Category, e.PaymentMethod).
		Suffix("RETURNING id, created_at")

	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return record.Expense{}, translate(err, "create expense")
	}
	e.Date = record.Day(e.Date)
	return e, nil
}

func (s *PostgresStorage) UpdateExpense(ctx context.Context, e record.Expense) (record.Expense, error) {
	query := psql.Update("expenses").
		SetMap(map[string]interface{}{
			"date":           record.Day(e.Date),
			"amount":         e.Amount,
			"category":       e.Category,
			"payment_method": e.PaymentMethod,
		}).
		Where(sq.Eq{"id": e.ID, "user_id": e.UserID})

	if err := s.execOne(ctx, query, "update expense"); err != nil {
		return record.Expense{}, err
	}
	return s.GetExpense(ctx, e.UserID, e.ID)
}

func (s *PostgresStorage) DeleteExpense(ctx context.Context, userID, id int64) error {
	query := psql.Delete("expenses").
		Where(sq.Eq{"id": id, "user_id": userID})
	return s.execOne(ctx, query, "delete expense")
}
