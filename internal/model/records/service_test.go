package records

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/model/customerr"
	"max.ks1230/earnings-tracker/internal/model/storage"
)

type invalidatorMock struct {
	mock.Mock
}

func (m *invalidatorMock) Invalidate(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, event record.ChangeEvent) error {
	return m.Called(ctx, event).Error(0)
}

func newTestService(t *testing.T) (*Service, *invalidatorMock, *publisherMock) {
	t.Helper()
	inv := &invalidatorMock{}
	pub := &publisherMock{}
	s := NewService(storage.NewInMemStorage(), inv, pub)
	s.now = func() time.Time { return time.Date(2025, 1, 15, 18, 30, 0, 0, time.UTC) }
	return s, inv, pub
}

func Test_CreateExpense_ShouldApplyDefaultsAndNotify(t *testing.T) {
	ctx := context.Background()
	s, inv, pub := newTestService(t)
	inv.On("Invalidate", mock.Anything, int64(1)).Return(nil).Once()
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e record.ChangeEvent) bool {
		return e.UserID == 1 && e.Kind == record.KindExpense && e.Action == record.ActionCreated
	})).Return(nil).Once()

	res, err := s.CreateExpense(ctx, 1, ExpenseInput{Amount: decimal.RequireFromString("12.50")})

	require.NoError(t, err)
	assert.Equal(t, record.LPG, res.Category)
	assert.Equal(t, record.Cash, res.PaymentMethod)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), res.Date)
	inv.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func Test_CreateExpense_ShouldRejectUnknownCategory(t *testing.T) {
	s, inv, _ := newTestService(t)

	_, err := s.CreateExpense(context.Background(), 1, ExpenseInput{
		Amount:   decimal.NewFromInt(5),
		Category: "Yachts",
	})

	require.Error(t, err)
	assert.True(t, customerr.IsValidation(err))
	assert.Contains(t, err.Error(), "Valid values are: LPG")
	inv.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func Test_CreateEarning_ShouldRejectNonPositiveAmounts(t *testing.T) {
	s, _, _ := newTestService(t)

	for _, amount := range []string{"0", "-3"} {
		_, err := s.CreateEarning(context.Background(), 1, EarningInput{Amount: decimal.RequireFromString(amount)})
		assert.True(t, customerr.IsValidation(err), amount)
	}
}

func Test_CreateEarning_ShouldRejectMissingSource(t *testing.T) {
	s, _, _ := newTestService(t)
	missing := int64(999)

	_, err := s.CreateEarning(context.Background(), 1, EarningInput{Amount: decimal.NewFromInt(5), SourceID: &missing})

	assert.True(t, customerr.IsValidation(err))
}

func Test_CreateEarning_ShouldResolveSourceName(t *testing.T) {
	ctx := context.Background()
	s, inv, pub := newTestService(t)
	inv.On("Invalidate", mock.Anything, int64(1)).Return(nil)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	src, err := s.SourceByName(ctx, "rides")
	require.NoError(t, err)

	res, err := s.CreateEarning(ctx, 1, EarningInput{
		Amount:        decimal.NewFromInt(250),
		SourceID:      &src.ID,
		Type:          "tips",
		PaymentMethod: "card",
	})

	require.NoError(t, err)
	assert.Equal(t, "Rides", res.Source())
	assert.Equal(t, record.Tips, res.Type)
	assert.Equal(t, record.Card, res.PaymentMethod)
}

func Test_UpdateEarning_ShouldNotTouchOtherUsersRecords(t *testing.T) {
	ctx := context.Background()
	s, inv, pub := newTestService(t)
	inv.On("Invalidate", mock.Anything, mock.Anything).Return(nil)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	created, err := s.CreateEarning(ctx, 1, EarningInput{Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	_, err = s.UpdateEarning(ctx, 2, created.ID, EarningInput{Amount: decimal.NewFromInt(20)})

	assert.True(t, errors.Is(err, customerr.ErrNotFound))
	got, err := s.GetEarning(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(10)))
}

func Test_DeleteExpense_ShouldIgnoreNotificationFailures(t *testing.T) {
	ctx := context.Background()
	s, inv, pub := newTestService(t)
	inv.On("Invalidate", mock.Anything, int64(1)).Return(errors.New("cache down"))
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	created, err := s.CreateExpense(ctx, 1, ExpenseInput{Amount: decimal.NewFromInt(3), Category: "food"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteExpense(ctx, 1, created.ID))

	_, err = s.GetExpense(ctx, 1, created.ID)
	assert.True(t, errors.Is(err, customerr.ErrNotFound))
}

func Test_CreateSource_ShouldSanitizeName(t *testing.T) {
	s, _, _ := newTestService(t)

	src, err := s.CreateSource(context.Background(), "<b>Delivery</b>", "<script>x</script>food")

	require.NoError(t, err)
	assert.Equal(t, "Delivery", src.Name)
	assert.Equal(t, "food", src.Description)

	_, err = s.CreateSource(context.Background(), "<i></i>", "")
	assert.True(t, customerr.IsValidation(err))
}

func Test_NewService_ShouldWorkWithoutPublisher(t *testing.T) {
	inv := &invalidatorMock{}
	inv.On("Invalidate", mock.Anything, int64(1)).Return(nil).Once()
	s := NewService(storage.NewInMemStorage(), inv, nil)

	_, err := s.CreateExpense(context.Background(), 1, ExpenseInput{Amount: decimal.NewFromInt(1)})

	require.NoError(t, err)
	inv.AssertExpectations(t)
}
