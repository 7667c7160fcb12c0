// Package main читает события payment.processed из Kafka и пишет их в лог.
//
// Утилита для локальной отладки публикации событий шлюзом:
//   - конфигурация Kafka берётся из platform/kafka (KAFKA_BROKERS, KAFKA_TOPIC)
//   - trace context восстанавливается из заголовков сообщения, trace_id попадает в лог
//   - чтение начинается с последнего offset, EVENTS_TAIL_FROM_START=true читает топик целиком
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	eventkafka "github.com/shestoi/paygate/internal/event/kafka"
	platformkafka "github.com/shestoi/paygate/platform/kafka"
	platformlogging "github.com/shestoi/paygate/platform/logging"
	platformobservability "github.com/shestoi/paygate/platform/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: "events-tail",
		Env:         "local",
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      "console",
	})
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer platformlogging.Sync(logger)

	// Если переменные не заданы, используются дефолты (localhost:19092, payment.processed)
	cfg := platformkafka.DefaultConfig()
	if err := platformkafka.LoadEnv(&cfg); err != nil {
		logger.Error("failed to load kafka config", zap.Error(err))
		os.Exit(1)
	}

	otel.SetTextMapPropagator(propagation.TraceContext{})

	startOffset := kafka.LastOffset
	if os.Getenv("EVENTS_TAIL_FROM_START") == "true" {
		startOffset = kafka.FirstOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		StartOffset: startOffset,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
	})
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("failed to close kafka reader", zap.Error(err))
		}
	}()

	logger.Info("tailing payment events",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				logger.Info("stopping")
				return
			}
			logger.Error("failed to read message", zap.Error(err))
			continue
		}

		msgCtx, event, err := eventkafka.DecodePaymentProcessed(ctx, msg)
		if err != nil {
			logger.Warn("skipping message",
				zap.Error(err),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			continue
		}

		platformobservability.L(msgCtx, logger).Info("payment processed",
			zap.String("event_id", event.EventID),
			zap.String("payment_id", event.PaymentID),
			zap.Stringer("status", event.Status),
			zap.Int64("amount", event.Amount),
			zap.String("currency", event.Currency),
			zap.String("card_last_four", event.CardNumberLastFour),
			zap.Time("occurred_at", event.OccurredAt),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)
	}
}
