package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	platformobservability "github.com/shestoi/paygate/platform/observability"

	"github.com/shestoi/paygate/internal/repository"
)

const (
	// EventTypePaymentProcessed тип события об обработанном платеже
	EventTypePaymentProcessed = "payment.processed"
	eventVersion              = 1
)

// PaymentService содержит бизнес-логику обработки платежей:
// запрос в банк, вычисление статуса, маскирование карты и сохранение.
type PaymentService struct {
	logger    *zap.Logger
	bank      BankClient
	repo      repository.PaymentRepository
	publisher PaymentEventPublisher
}

// NewPaymentService создаёт новый экземпляр PaymentService
func NewPaymentService(
	logger *zap.Logger,
	bank BankClient,
	repo repository.PaymentRepository,
	publisher PaymentEventPublisher,
) *PaymentService {
	return &PaymentService{
		logger:    logger,
		bank:      bank,
		repo:      repo,
		publisher: publisher,
	}
}

// CreatePaymentInput содержит уже провалидированный запрос на оплату
type CreatePaymentInput struct {
	CardNumber  string
	ExpiryMonth int
	ExpiryYear  int
	Currency    string
	Amount      int64
	CVV         int
}

// CreatePayment отправляет платёж в банк и формирует запись о нём.
// Rejected платёж возвращается, но не сохраняется и позже не находится по ID.
// Ошибка возвращается только если не удалось сохранить запись.
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (repository.Payment, error) {
	logger := platformobservability.L(ctx, s.logger)

	lastFour := lastFourDigits(input.CardNumber)

	result := s.bank.ProcessPayment(ctx, BankRequest{
		CardNumber: input.CardNumber,
		ExpiryDate: ExpiryDate(input.ExpiryMonth, input.ExpiryYear),
		Currency:   input.Currency,
		Amount:     input.Amount,
		CVV:        strconv.Itoa(input.CVV),
	})

	payment := repository.Payment{
		ID:                 uuid.NewString(),
		ExpiryMonth:        input.ExpiryMonth,
		ExpiryYear:         input.ExpiryYear,
		Amount:             input.Amount,
		Currency:           input.Currency,
		CardNumberLastFour: lastFour,
		Status:             DeriveStatus(result),
	}

	fields := []zap.Field{
		zap.String("payment_id", payment.ID),
		zap.Stringer("status", payment.Status),
		zap.Int64("amount", payment.Amount),
		zap.String("currency", payment.Currency),
		zap.String("card_last_four", payment.CardNumberLastFour),
	}

	if payment.Status == repository.StatusRejected {
		logger.Warn("payment rejected, bank unavailable or returned invalid response", fields...)
		return payment, nil
	}

	if err := s.repo.Save(ctx, payment); err != nil {
		logger.Error("failed to save payment", append(fields, zap.Error(err))...)
		return repository.Payment{}, fmt.Errorf("failed to save payment: %w", err)
	}

	logger.Info("payment processed", fields...)

	s.publishProcessed(ctx, logger, payment)

	return payment, nil
}

// GetPayment получает платёж по ID.
// Для неизвестного ID возвращает ошибку, удовлетворяющую errors.Is(err, repository.ErrNotFound).
func (s *PaymentService) GetPayment(ctx context.Context, id string) (repository.Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Payment{}, fmt.Errorf("failed to get payment %s: %w", id, err)
	}
	return payment, nil
}

// publishProcessed отправляет событие; сбой публикации не влияет на результат платежа
func (s *PaymentService) publishProcessed(ctx context.Context, logger *zap.Logger, payment repository.Payment) {
	event := PaymentProcessedEvent{
		EventID:            uuid.NewString(),
		EventType:          EventTypePaymentProcessed,
		EventVersion:       eventVersion,
		OccurredAt:         time.Now().UTC(),
		PaymentID:          payment.ID,
		Status:             payment.Status,
		Amount:             payment.Amount,
		Currency:           payment.Currency,
		CardNumberLastFour: payment.CardNumberLastFour,
	}

	if err := s.publisher.PublishPaymentProcessed(ctx, event); err != nil {
		logger.Error("failed to publish payment processed event",
			zap.Error(err),
			zap.String("payment_id", payment.ID),
			zap.String("event_id", event.EventID),
		)
	}
}

// DeriveStatus переводит ответ банка в статус платежа:
// нет ответа/битый ответ -> Rejected, отказ -> Declined, одобрение -> Authorized.
func DeriveStatus(result BankResult) repository.Status {
	switch {
	case !result.Success:
		return repository.StatusRejected
	case !result.Authorized:
		return repository.StatusDeclined
	default:
		return repository.StatusAuthorized
	}
}

// ExpiryDate форматирует срок действия карты как MM/YYYY
func ExpiryDate(month, year int) string {
	return fmt.Sprintf("%02d/%04d", month, year)
}

func lastFourDigits(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}
