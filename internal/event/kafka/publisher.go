package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/shestoi/paygate/internal/service"
	platformkafka "github.com/shestoi/paygate/platform/kafka"
	platformobservability "github.com/shestoi/paygate/platform/observability"
)

// messageWriter - часть kafka.Writer, нужная publisher'у
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// paymentProcessedPayload - JSON-представление события payment.processed
type paymentProcessedPayload struct {
	EventID            string `json:"event_id"`
	EventType          string `json:"event_type"`
	EventVersion       int    `json:"event_version"`
	OccurredAt         string `json:"occurred_at"`
	PaymentID          string `json:"payment_id"`
	Status             string `json:"status"`
	Amount             int64  `json:"amount"`
	Currency           string `json:"currency"`
	CardNumberLastFour string `json:"card_last_four"`
}

// KafkaPaymentEventPublisher реализует service.PaymentEventPublisher используя Kafka
type KafkaPaymentEventPublisher struct {
	logger       *zap.Logger
	writer       messageWriter
	topic        string
	writeTimeout time.Duration
}

// NewKafkaPaymentEventPublisher создаёт publisher событий о платежах
func NewKafkaPaymentEventPublisher(logger *zap.Logger, cfg platformkafka.Config) *KafkaPaymentEventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{}, // один платёж всегда в одну партицию
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	return newPublisher(logger, writer, cfg.Topic, cfg.WriteTimeout)
}

func newPublisher(logger *zap.Logger, writer messageWriter, topic string, writeTimeout time.Duration) *KafkaPaymentEventPublisher {
	return &KafkaPaymentEventPublisher{
		logger:       logger,
		writer:       writer,
		topic:        topic,
		writeTimeout: writeTimeout,
	}
}

// Close закрывает Kafka writer
func (p *KafkaPaymentEventPublisher) Close() error {
	return p.writer.Close()
}

// PublishPaymentProcessed публикует событие об обработанном платеже.
// Ключ сообщения - ID платежа, trace context передаётся в заголовках.
func (p *KafkaPaymentEventPublisher) PublishPaymentProcessed(ctx context.Context, event service.PaymentProcessedEvent) error {
	logger := platformobservability.L(ctx, p.logger)

	msg, err := buildMessage(ctx, event)
	if err != nil {
		logger.Error("failed to marshal payment processed event",
			zap.Error(err),
			zap.String("payment_id", event.PaymentID),
		)
		return err
	}

	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", p.topic, err)
	}

	logger.Info("payment processed event published",
		zap.String("topic", p.topic),
		zap.String("event_id", event.EventID),
		zap.String("payment_id", event.PaymentID),
		zap.Stringer("status", event.Status),
	)

	return nil
}

// buildMessage собирает kafka.Message из события и внедряет trace context в заголовки
func buildMessage(ctx context.Context, event service.PaymentProcessedEvent) (kafka.Message, error) {
	value, err := json.Marshal(paymentProcessedPayload{
		EventID:            event.EventID,
		EventType:          event.EventType,
		EventVersion:       event.EventVersion,
		OccurredAt:         event.OccurredAt.UTC().Format(time.RFC3339),
		PaymentID:          event.PaymentID,
		Status:             event.Status.String(),
		Amount:             event.Amount,
		Currency:           event.Currency,
		CardNumberLastFour: event.CardNumberLastFour,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	msg := kafka.Message{
		Key:   []byte(event.PaymentID),
		Value: value,
	}
	otel.GetTextMapPropagator().Inject(ctx, platformobservability.NewKafkaHeadersCarrier(&msg.Headers))

	return msg, nil
}

// NoOpPaymentEventPublisher ничего не публикует; используется, когда события выключены
type NoOpPaymentEventPublisher struct {
	logger *zap.Logger
}

// NewNoOpPaymentEventPublisher создаёт no-op publisher
func NewNoOpPaymentEventPublisher(logger *zap.Logger) *NoOpPaymentEventPublisher {
	return &NoOpPaymentEventPublisher{logger: logger}
}

// PublishPaymentProcessed только пишет debug-лог
func (p *NoOpPaymentEventPublisher) PublishPaymentProcessed(ctx context.Context, event service.PaymentProcessedEvent) error {
	p.logger.Debug("payment events disabled, skipping publish",
		zap.String("payment_id", event.PaymentID),
	)
	return nil
}

var (
	_ service.PaymentEventPublisher = (*KafkaPaymentEventPublisher)(nil)
	_ service.PaymentEventPublisher = (*NoOpPaymentEventPublisher)(nil)
)
