package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"github.com/shestoi/paygate/internal/repository"
	"github.com/shestoi/paygate/internal/service"
	platformobservability "github.com/shestoi/paygate/platform/observability"
)

// DecodePaymentProcessed разбирает сообщение payment.processed.
// Возвращённый контекст содержит trace context из заголовков сообщения.
func DecodePaymentProcessed(ctx context.Context, msg kafka.Message) (context.Context, service.PaymentProcessedEvent, error) {
	headers := msg.Headers
	ctx = otel.GetTextMapPropagator().Extract(ctx, platformobservability.NewKafkaHeadersCarrier(&headers))

	var payload paymentProcessedPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return ctx, service.PaymentProcessedEvent{}, fmt.Errorf("failed to unmarshal payment processed event: %w", err)
	}

	if payload.EventType != service.EventTypePaymentProcessed {
		return ctx, service.PaymentProcessedEvent{}, fmt.Errorf("unexpected event type %q", payload.EventType)
	}

	status, err := repository.ParseStatus(payload.Status)
	if err != nil {
		return ctx, service.PaymentProcessedEvent{}, err
	}

	occurredAt, err := time.Parse(time.RFC3339, payload.OccurredAt)
	if err != nil {
		return ctx, service.PaymentProcessedEvent{}, fmt.Errorf("invalid occurred_at: %w", err)
	}

	return ctx, service.PaymentProcessedEvent{
		EventID:            payload.EventID,
		EventType:          payload.EventType,
		EventVersion:       payload.EventVersion,
		OccurredAt:         occurredAt,
		PaymentID:          payload.PaymentID,
		Status:             status,
		Amount:             payload.Amount,
		Currency:           payload.Currency,
		CardNumberLastFour: payload.CardNumberLastFour,
	}, nil
}
