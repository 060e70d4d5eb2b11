package records

import (
	"context"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/logger"
	"max.ks1230/earnings-tracker/internal/model/customerr"
)

const maxSourceNameLen = 100

type recordsStorage interface {
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

	ListSources(ctx context.Context) ([]record.Source, error)
	GetSource(ctx context.Context, id int64) (record.Source, error)
	GetSourceByName(ctx context.Context, name string) (record.Source, error)
	CreateSource(ctx context.Context, src record.Source) (record.Source, error)
}

type analyticsInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

type eventPublisher interface {
	Publish(ctx context.Context, event record.ChangeEvent) error
}

// EarningInput is a create or update request. Empty enum fields take defaults.
type EarningInput struct {
	Date          time.Time
	Amount        decimal.Decimal
	SourceID      *int64
	Type          string
	PaymentMethod string
}

type ExpenseInput struct {
	Date          time.Time
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
}

type Service struct {
	storage   recordsStorage
	analytics analyticsInvalidator
	publisher eventPublisher
	policy    *bluemonday.Policy
	now       func() time.Time
}

// NewService builds the records service. publisher may be nil.
func NewService(storage recordsStorage, analytics analyticsInvalidator, publisher eventPublisher) *Service {
	return &Service{
		storage:   storage,
		analytics: analytics,
		publisher: publisher,
		policy:    bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

func (s *Service) ListEarnings(ctx context.Context, userID int64, from, to *time.Time) ([]record.Earning, error) {
	res, err := s.storage.ListEarnings(ctx, userID, from, to)
	return res, errors.Wrap(err, "list earnings")
}

func (s *Service) GetEarning(ctx context.Context, userID, id int64) (record.Earning, error) {
	res, err := s.storage.GetEarning(ctx, userID, id)
	return res, errors.Wrap(err, "get earning")
}

func (s *Service) CreateEarning(ctx context.Context, userID int64, in EarningInput) (record.Earning, error) {
	e, err := s.buildEarning(ctx, userID, in)
	if err != nil {
		return record.Earning{}, err
	}
	res, err := s.storage.CreateEarning(ctx, e)
	if err != nil {
		return record.Earning{}, errors.Wrap(err, "create earning")
	}
	s.changed(ctx, userID, record.KindEarning, record.ActionCreated)
	return res, nil
}

func (s *Service) UpdateEarning(ctx context.Context, userID, id int64, in EarningInput) (record.Earning, error) {
	e, err := s.buildEarning(ctx, userID, in)
	if err != nil {
		return record.Earning{}, err
	}
	e.ID = id
	res, err := s.storage.UpdateEarning(ctx, e)
	if err != nil {
		return record.Earning{}, errors.Wrap(err, "update earning")
	}
	s.changed(ctx, userID, record.KindEarning, record.ActionUpdated)
	return res, nil
}

func (s *Service) DeleteEarning(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteEarning(ctx, userID, id); err != nil {
		return errors.Wrap(err, "delete earning")
	}
	s.changed(ctx, userID, record.KindEarning, record.ActionDeleted)
	return nil
}

func (s *Service) buildEarning(ctx context.Context, userID int64, in EarningInput) (record.Earning, error) {
	if err := validateAmount(in.Amount); err != nil {
		return record.Earning{}, err
	}
	typ := record.DefaultEarningType
	if in.Type != "" {
		var ok bool
		if typ, ok = record.ParseEarningType(in.Type); !ok {
			return record.Earning{}, customerr.Invalid("type", in.Type, record.Names(record.EarningTypes)...)
		}
	}
	method, err := paymentMethod(in.PaymentMethod, record.DefaultEarningPayment)
	if err != nil {
		return record.Earning{}, err
	}
	if in.SourceID != nil {
		if _, err := s.storage.GetSource(ctx, *in.SourceID); err != nil {
			if errors.Is(err, customerr.ErrNotFound) {
				return record.Earning{}, customerr.Invalid("sourceId", "source does not exist")
			}
			return record.Earning{}, errors.Wrap(err, "check source")
		}
	}
	return record.Earning{
		UserID:        userID,
		Date:          s.day(in.Date),
		Amount:        in.Amount,
		SourceID:      in.SourceID,
		Type:          typ,
		PaymentMethod: method,
	}, nil
}

func (s *Service) ListExpenses(ctx context.Context, userID int64, from, to *time.Time) ([]record.Expense, error) {
	res, err := s.storage.ListExpenses(ctx, userID, from, to)
	return res, errors.Wrap(err, "list expenses")
}

func (s *Service) GetExpense(ctx context.Context, userID, id int64) (record.Expense, error) {
	res, err := s.storage.GetExpense(ctx, userID, id)
	return res, errors.Wrap(err, "get expense")
}

func (s *Service) CreateExpense(ctx context.Context, userID int64, in ExpenseInput) (record.Expense, error) {
	e, err := s.buildExpense(userID, in)
	if err != nil {
		return record.Expense{}, err
	}
	res, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return record.Expense{}, errors.Wrap(err, "create expense")
	}
	s.changed(ctx, userID, record.KindExpense, record.ActionCreated)
	return res, nil
}

func (s *Service) UpdateExpense(ctx context.Context, userID, id int64, in ExpenseInput) (record.Expense, error) {
	e, err := s.buildExpense(userID, in)
	if err != nil {
		return record.Expense{}, err
	}
	e.ID = id
	res, err := s.storage.UpdateExpense(ctx, e)
	if err != nil {
		return record.Expense{}, errors.Wrap(err, "update expense")
	}
	s.changed(ctx, userID, record.KindExpense, record.ActionUpdated)
	return res, nil
}

func (s *Service) DeleteExpense(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteExpense(ctx, userID, id); err != nil {
		return errors.Wrap(err, "delete expense")
	}
	s.changed(ctx, userID, record.KindExpense, record.ActionDeleted)
	return nil
}

func (s *Service) buildExpense(userID int64, in ExpenseInput) (record.Expense, error) {
	if err := validateAmount(in.Amount); err != nil {
		return record.Expense{}, err
	}
	category := record.DefaultCategory
	if in.Category != "" {
		var ok bool
		if category, ok = record.ParseCategory(in.Category); !ok {
			return record.Expense{}, customerr.Invalid("category", in.Category, record.Names(record.Categories)...)
		}
	}
	method, err := paymentMethod(in.PaymentMethod, record.DefaultExpensePayment)
	if err != nil {
		return record.Expense{}, err
	}
	return record.Expense{
		UserID:        userID,
		Date:          s.day(in.Date),
		Amount:        in.Amount,
		Category:      category,
		PaymentMethod: method,
	}, nil
}

func (s *Service) ListSources(ctx context.Context) ([]record.Source, error) {
	res, err := s.storage.ListSources(ctx)
	return res, errors.Wrap(err, "list sources")
}

func (s *Service) CreateSource(ctx context.Context, name, description string) (record.Source, error) {
	name = strings.TrimSpace(s.policy.Sanitize(name))
	if name == "" {
		return record.Source{}, customerr.Invalid("name", "must not be empty")
	}
	if len(name) > maxSourceNameLen {
		return record.Source{}, customerr.Invalid("name", "too long")
	}
	res, err := s.storage.CreateSource(ctx, record.Source{
		Name:        name,
		Description: strings.TrimSpace(s.policy.Sanitize(description)),
	})
	return res, errors.Wrap(err, "create source")
}

// SourceByName resolves a source by its name, creating it when missing.
func (s *Service) SourceByName(ctx context.Context, name string) (record.Source, error) {
	src, err := s.storage.GetSourceByName(ctx, strings.TrimSpace(name))
	if err == nil {
		return src, nil
	}
	if !errors.Is(err, customerr.ErrNotFound) {
		return record.Source{}, errors.Wrap(err, "get source by name")
	}
	return s.CreateSource(ctx, name, "")
}

func Categories() []string {
	return record.Names(record.Categories)
}

func paymentMethod(name string, fallback record.PaymentMethod) (record.PaymentMethod, error) {
	if name == "" {
		return fallback, nil
	}
	method, ok := record.ParsePaymentMethod(name)
	if !ok {
		return "", customerr.Invalid("paymentMethod", name, record.Names(record.PaymentMethods)...)
	}
	return method, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return customerr.Invalid("amount", "must be greater than zero")
	}
	return nil
}

func (s *Service) day(t time.Time) time.Time {
	if t.IsZero() {
		t = s.now()
	}
	return record.Day(t)
}

func (s *Service) changed(ctx context.Context, userID int64, kind record.Kind, action record.Action) {
	if err := s.analytics.Invalidate(ctx, userID); err != nil {
		logger.Warn("cannot invalidate analytics", zap.Int64("userID", userID), zap.Error(err))
	}
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, record.ChangeEvent{
		UserID: userID,
		Kind:   kind,
		Action: action,
		At:     s.now(),
	})
	if err != nil {
		logger.Warn("cannot publish change event", zap.Int64("userID", userID), zap.Error(err))
	}
}
