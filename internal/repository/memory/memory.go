package memory

import (
	"context"
	"sync"

	"github.com/shestoi/paygate/internal/repository"
)

// MemoryRepository реализует PaymentRepository поверх map в памяти процесса.
// Записи живут до перезапуска сервиса.
type MemoryRepository struct {
	mu       sync.RWMutex
	payments map[string]repository.Payment // ключ = payment ID
}

// NewMemoryRepository создаёт пустой in-memory репозиторий
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		payments: make(map[string]repository.Payment),
	}
}

// Save сохраняет платёж под его ID.
// Запись под write lock, параллельные чтения ждут только на время вставки.
func (r *MemoryRepository) Save(ctx context.Context, payment repository.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payments[payment.ID] = payment
	return nil
}

// GetByID возвращает копию платежа или repository.ErrNotFound
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (repository.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, exists := r.payments[id]
	if !exists {
		return repository.Payment{}, repository.ErrNotFound
	}

	return payment, nil
}

// Len возвращает количество сохранённых платежей
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.payments)
}
