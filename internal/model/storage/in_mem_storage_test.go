package storage

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appconfig "max.ks1230/earnings-tracker/internal/config"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/user"
	"max.ks1230/earnings-tracker/internal/model/customerr"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Test_InMemStorage_ShouldScopeEarningsByUserAndRange(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()
	src, err := s.GetSourceByName(ctx, "salary")
	require.NoError(t, err)

	_, err = s.CreateEarning(ctx, record.Earning{UserID: 1, Date: day(2025, 1, 5), Amount: decimal.NewFromInt(10), SourceID: &src.ID})
	require.NoError(t, err)
	_, err = s.CreateEarning(ctx, record.Earning{UserID: 1, Date: time.Date(2025, 1, 10, 22, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	_, err = s.CreateEarning(ctx, record.Earning{UserID: 2, Date: day(2025, 1, 6), Amount: decimal.NewFromInt(40)})
	require.NoError(t, err)

	from, to := day(2025, 1, 1), day(2025, 1, 10)
	res, err := s.ListEarnings(ctx, 1, &from, &to)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, day(2025, 1, 10), res[0].Date)
	assert.Equal(t, "Salary", res[1].SourceName)

	to = day(2025, 1, 9)
	res, err = s.ListEarnings(ctx, 1, nil, &to)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func Test_InMemStorage_ShouldNotLeakRecordsAcrossUsers(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	e, err := s.CreateExpense(ctx, record.Expense{UserID: 1, Date: day(2025, 1, 5), Amount: decimal.NewFromInt(10), Category: record.Food})
	require.NoError(t, err)

	_, err = s.GetExpense(ctx, 2, e.ID)
	assert.True(t, errors.Is(err, customerr.ErrNotFound))
	err = s.DeleteExpense(ctx, 2, e.ID)
	assert.True(t, errors.Is(err, customerr.ErrNotFound))

	require.NoError(t, s.DeleteExpense(ctx, 1, e.ID))
	res, err := s.ListExpenses(ctx, 1, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func Test_InMemStorage_ShouldRejectDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	_, err := s.CreateUser(ctx, user.Record{Email: "a@b.c"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, user.Record{Email: "A@B.C"})
	assert.True(t, errors.Is(err, customerr.ErrConflict))
}

func Test_InMemStorage_EnsureTelegramUser_ShouldBeIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	first, err := s.EnsureTelegramUser(ctx, 42, "first")
	require.NoError(t, err)
	second, err := s.EnsureTelegramUser(ctx, 42, "second")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	u, err := s.GetUserByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "first", u.Name)
	require.NotNil(t, u.TelegramID)
	assert.Equal(t, int64(42), *u.TelegramID)
}

func Test_InMemStorage_EnsureTelegramUser_ShouldNotReuseRegisteredUser(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()
	alice, err := s.CreateUser(ctx, user.Record{Name: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	id, err := s.EnsureTelegramUser(ctx, alice.ID, "mallory")
	require.NoError(t, err)
	assert.NotEqual(t, alice.ID, id)

	bob, err := s.CreateUser(ctx, user.Record{Name: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, id, bob.ID)

	u, err := s.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
	assert.Nil(t, u.TelegramID)
}

func Test_Open_ShouldFallBackToMemory(t *testing.T) {
	st, closeFn, err := Open(&appconfig.PostgresConfig{})

	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &InMemStorage{}, st)
	assert.NoError(t, st.Ping(context.Background()))
}
