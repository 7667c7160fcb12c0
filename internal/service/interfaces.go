package service

import (
	"context"
	"time"

	"github.com/shestoi/paygate/internal/repository"
)

// BankRequest - запрос в эквайринговый банк, собирается на каждый вызов и нигде не хранится
type BankRequest struct {
	CardNumber string
	ExpiryDate string // MM/YYYY
	Currency   string
	Amount     int64
	CVV        string
}

// BankResult - результат обращения к банку.
// Authorized имеет смысл только при Success == true.
type BankResult struct {
	// Success - банк ответил 2xx с корректным телом
	Success bool
	// Authorized - решение банка
	Authorized bool
	// AuthorizationCode присутствует только при Authorized
	AuthorizationCode string
}

// BankClient определяет интерфейс обращения к эквайринговому банку.
// Реализация не возвращает ошибок: любой сбой транспорта или контракта даёт Success == false.
type BankClient interface {
	ProcessPayment(ctx context.Context, req BankRequest) BankResult
}

// PaymentProcessedEvent - событие об обработанном платеже (исходящее в Kafka).
// Публикуется только для сохранённых платежей (Authorized/Declined).
type PaymentProcessedEvent struct {
	EventID            string
	EventType          string // "payment.processed"
	EventVersion       int
	OccurredAt         time.Time
	PaymentID          string
	Status             repository.Status
	Amount             int64
	Currency           string
	CardNumberLastFour string
}

// PaymentEventPublisher определяет интерфейс публикации событий о платежах
type PaymentEventPublisher interface {
	PublishPaymentProcessed(ctx context.Context, event PaymentProcessedEvent) error
}
