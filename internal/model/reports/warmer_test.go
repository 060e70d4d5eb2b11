package reports

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	appconfig "max.ks1230/earnings-tracker/internal/config"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/entity/summary"
)

type analyticsMock struct {
	mock.Mock
}

func (m *analyticsMock) Invalidate(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *analyticsMock) Overview(ctx context.Context, userID int64, start, end *time.Time) (summary.Overview, error) {
	args := m.Called(ctx, userID, start, end)
	return summary.Overview{}, args.Error(0)
}

var nilTime *time.Time

func Test_HandleChange_ShouldInvalidateAndWarmDefaultOverview(t *testing.T) {
	am := &analyticsMock{}
	am.On("Invalidate", mock.Anything, int64(5)).Return(nil).Once()
	am.On("Overview", mock.Anything, int64(5), nilTime, nilTime).Return(nil).Once()
	w := NewWarmer(&appconfig.AppConfig{WarmOnChange: true}, am)

	err := w.HandleChange(context.Background(), record.ChangeEvent{UserID: 5})

	assert.NoError(t, err)
	am.AssertExpectations(t)
}

func Test_HandleChange_ShouldOnlyInvalidateWhenWarmingDisabled(t *testing.T) {
	am := &analyticsMock{}
	am.On("Invalidate", mock.Anything, int64(5)).Return(nil).Once()
	w := NewWarmer(&appconfig.AppConfig{}, am)

	err := w.HandleChange(context.Background(), record.ChangeEvent{UserID: 5})

	assert.NoError(t, err)
	am.AssertNotCalled(t, "Overview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func Test_HandleChange_ShouldStopOnInvalidateError(t *testing.T) {
	am := &analyticsMock{}
	am.On("Invalidate", mock.Anything, int64(5)).Return(errors.New("cache down"))
	w := NewWarmer(&appconfig.AppConfig{WarmOnChange: true}, am)

	err := w.HandleChange(context.Background(), record.ChangeEvent{UserID: 5})

	assert.EqualError(t, err, "invalidate: cache down")
	am.AssertNotCalled(t, "Overview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
