package repository

import (
	"context"
	"errors"
)

// Payment представляет доменную модель обработанного платежа.
// Полный номер карты и CVV сюда не попадают: от карты остаются только последние 4 цифры.
// Запись неизменяема после создания.
type Payment struct {
	ID                 string
	ExpiryMonth        int
	ExpiryYear         int
	Amount             int64 // в минимальных единицах валюты
	Currency           string
	CardNumberLastFour string
	Status             Status
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=PaymentRepository --dir=. --output=./mocks --outpkg=mocks

// PaymentRepository определяет интерфейс хранилища платежей.
// Обновления и удаления нет.
type PaymentRepository interface {
	// Save сохраняет платёж под его ID.
	// ID генерирует сервис, коллизии не рассматриваются.
	Save(ctx context.Context, payment Payment) error

	// GetByID получает платёж по ID.
	// Возвращает ErrNotFound, если платёж не найден.
	GetByID(ctx context.Context, id string) (Payment, error)
}

// ErrNotFound возвращается, когда платёж не найден в хранилище
var ErrNotFound = errors.New("payment not found")
