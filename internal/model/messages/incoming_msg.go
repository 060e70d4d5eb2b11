package messages

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
)

type messageSender interface {
	SendMessage(text string, userID int64) error
}

type userStorage interface {
	EnsureTelegramUser(ctx context.Context, telegramID int64, name string) (int64, error)
}

type config interface {
	Location() *time.Location
}

type MessageHandler interface {
	HandleMessage(ctx context.Context, text string, userID int64) (string, error)
}

type Service struct {
	tgClient messageSender
	users    userStorage
	handler  MessageHandler
}

func NewService(tgClient messageSender, users userStorage, records recordsService, analytics analyticsService, config config) *Service {
	return &Service{
		tgClient: tgClient,
		users:    users,
		handler:  newHandler(records, analytics, config.Location()),
	}
}

// Message is an incoming chat message. UserID is the sender's Telegram id.
type Message struct {
	Text     string
	UserID   int64
	UserName string
}

func (s *Service) HandleIncomingMessage(ctx context.Context, msg Message) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handleMessage")
	defer span.Finish()

	start := time.Now()
	err := s.handle(ctx, msg)
	elapsed := time.Since(start)

	observeResponse(elapsed, err != nil)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) handle(ctx context.Context, msg Message) error {
	userID, err := s.users.EnsureTelegramUser(ctx, msg.UserID, msg.UserName)
	if err != nil {
		_ = s.tgClient.SendMessage("Sorry, something wrong happened...", msg.UserID)
		return errors.Wrap(err, "ensure user")
	}
	resp, err := s.handler.HandleMessage(ctx, msg.Text, userID)
	if err != nil {
		_ = s.tgClient.SendMessage("Sorry, something wrong happened...\n"+resp, msg.UserID)
		return err
	}
	return s.tgClient.SendMessage(resp, msg.UserID)
}
