package tg

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"max.ks1230/earnings-tracker/internal/model/messages"
)

type handlerMock struct {
	mock.Mock
}

func (m *handlerMock) HandleIncomingMessage(ctx context.Context, msg messages.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func Test_listenOnce_ShouldForwardUserMessages(t *testing.T) {
	hm := &handlerMock{}
	hm.On("HandleIncomingMessage", mock.Anything, messages.Message{
		Text:     "/overview",
		UserID:   77,
		UserName: "Ravi",
	}).Return(nil).Once()

	(&Client{}).listenOnce(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: "/overview",
			From: &tgbotapi.User{ID: 77, FirstName: "Ravi"},
		},
	}, hm)

	hm.AssertExpectations(t)
}

func Test_listenOnce_ShouldSkipNonMessageUpdates(t *testing.T) {
	hm := &handlerMock{}

	(&Client{}).listenOnce(context.Background(), tgbotapi.Update{}, hm)

	hm.AssertNotCalled(t, "HandleIncomingMessage", mock.Anything, mock.Anything)
}

func Test_toMessage_ShouldPreferUserName(t *testing.T) {
	msg := toMessage(&tgbotapi.Message{Text: "hi", From: &tgbotapi.User{ID: 1, UserName: "ravi_k", FirstName: "Ravi"}})

	assert.Equal(t, "ravi_k", msg.UserName)
}
