package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"max.ks1230/earnings-tracker/internal/clients/cache"
	"max.ks1230/earnings-tracker/internal/entity/record"
)

type storageMock struct {
	mock.Mock
}

func (m *storageMock) ListEarnings(ctx context.Context, userID int64, from, to *time.Time) ([]record.Earning, error) {
	args := m.Called(ctx, userID, from, to)
	res, _ := args.Get(0).([]record.Earning)
	return res, args.Error(1)
}

func (m *storageMock) ListExpenses(ctx context.Context, userID int64, from, to *time.Time) ([]record.Expense, error) {
	args := m.Called(ctx, userID, from, to)
	res, _ := args.Get(0).([]record.Expense)
	return res, args.Error(1)
}

func sameDay(want time.Time) interface{} {
	return mock.MatchedBy(func(got *time.Time) bool {
		return got != nil && got.Equal(want)
	})
}

func newTestService(st *storageMock) *Service {
	return NewService(st, cache.NewMemory(time.Minute), NewAggregator(fixedClock(date(2025, 1, 15))))
}

func Test_Service_Overview_ShouldFetchOneSnapshotCoveringTrends(t *testing.T) {
	ctx := context.Background()
	st := &storageMock{}
	st.On("ListEarnings", mock.Anything, int64(7), sameDay(date(2024, 8, 1)), sameDay(date(2025, 1, 31))).
		Return([]record.Earning{
			earning(date(2025, 1, 5), "100", "Salary"),
			earning(date(2024, 9, 2), "70", "Salary"),
		}, nil).Once()
	st.On("ListExpenses", mock.Anything, int64(7), sameDay(date(2024, 8, 1)), sameDay(date(2025, 1, 31))).
		Return([]record.Expense{
			expense(date(2025, 1, 7), "30", record.Food),
		}, nil).Once()

	start, end := date(2025, 1, 1), date(2025, 1, 31)
	res, err := newTestService(st).Overview(ctx, 7, &start, &end)

	require.NoError(t, err)
	assertDecimal(t, "100", res.TotalEarnings)
	assertDecimal(t, "70", res.NetIncome)
	assertDecimal(t, "70", res.MonthlyTrends[1].Earnings)
	st.AssertExpectations(t)
}

func Test_Service_ShouldServeRepeatedCallsFromCache(t *testing.T) {
	ctx := context.Background()
	st := &storageMock{}
	st.On("ListEarnings", mock.Anything, int64(7), mock.Anything, mock.Anything).
		Return([]record.Earning{earning(date(2025, 1, 13), "5", "Tips")}, nil).Once()
	st.On("ListExpenses", mock.Anything, int64(7), mock.Anything, mock.Anything).
		Return([]record.Expense{}, nil).Once()
	svc := newTestService(st)

	first, err := svc.WeeklyTrends(ctx, 7, 3)
	require.NoError(t, err)
	second, err := svc.WeeklyTrends(ctx, 7, 3)
	require.NoError(t, err)

	require.Len(t, second, 3)
	assert.Equal(t, first[2].Date, second[2].Date)
	assertDecimal(t, "5", second[2].Earnings)
	st.AssertExpectations(t)
}

func Test_Service_Invalidate_ShouldForceRecompute(t *testing.T) {
	ctx := context.Background()
	st := &storageMock{}
	st.On("ListEarnings", mock.Anything, int64(7), mock.Anything, mock.Anything).
		Return([]record.Earning{}, nil).Twice()
	st.On("ListExpenses", mock.Anything, int64(7), mock.Anything, mock.Anything).
		Return([]record.Expense{}, nil).Twice()
	svc := newTestService(st)

	_, err := svc.MonthlyTrends(ctx, 7, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(ctx, 7))
	_, err = svc.MonthlyTrends(ctx, 7, 2)
	require.NoError(t, err)

	st.AssertExpectations(t)
}

func Test_Service_ShouldWrapStorageErrors(t *testing.T) {
	ctx := context.Background()
	st := &storageMock{}
	dbErr := errors.New("connection refused")
	st.On("ListEarnings", mock.Anything, int64(7), mock.Anything, mock.Anything).
		Return(nil, dbErr)
	st.On("ListExpenses", mock.Anything, int64(7), mock.Anything, mock.Anything).
		Return([]record.Expense{}, nil).Maybe()

	_, err := newTestService(st).DailySummary(ctx, 7, date(2025, 1, 1), date(2025, 1, 2))

	require.Error(t, err)
	assert.Equal(t, dbErr, errors.Cause(err))
	assert.Contains(t, err.Error(), "daily summary")
}

func Test_Service_DailySummary_ShouldSkipStorageForInvertedRange(t *testing.T) {
	st := &storageMock{}

	res, err := newTestService(st).DailySummary(context.Background(), 7, date(2025, 1, 2), date(2025, 1, 1))

	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
	st.AssertNotCalled(t, "ListEarnings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
