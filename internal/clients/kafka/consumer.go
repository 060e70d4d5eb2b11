package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/entity/record"
	"max.ks1230/earnings-tracker/internal/logger"
)

type consumerConfig interface {
	producerConfig
	ConsumerGroup() string
}

type changeHandler interface {
	HandleChange(ctx context.Context, event record.ChangeEvent) error
}

type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	handler       changeHandler
}

func NewConsumer(cfg consumerConfig, handler changeHandler) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), cfg.ConsumerGroup(), config)
	if err != nil {
		return nil, errors.Wrap(err, "new consumer group")
	}
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.RecordsTopic(),
		handler:       handler,
	}, nil
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumerGroup.Close()
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - setup")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - cleanup")
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		c.process(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

// process never fails the claim: a broken or unhandled event is logged and skipped.
func (c *Consumer) process(ctx context.Context, message *sarama.ConsumerMessage) {
	var event record.ChangeEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		logger.Error("cannot unmarshal kafka message", zap.Error(err))
		return
	}
	logger.Info(
		"received change event",
		zap.ByteString("key", message.Key),
		zap.Int64("userID", event.UserID),
		zap.String("kind", string(event.Kind)),
		zap.String("action", string(event.Action)),
	)
	if err := c.handler.HandleChange(ctx, event); err != nil {
		logger.Error("failed to handle change event", zap.Int64("userID", event.UserID), zap.Error(err))
	}
}
