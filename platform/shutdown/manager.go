package shutdown

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Manager управляет graceful shutdown сервиса.
// Перехватывает SIGINT/SIGTERM и выполняет зарегистрированные функции
// в порядке, обратном регистрации.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger
	funcs   []shutdownFunc
	mu      sync.Mutex
}

type shutdownFunc struct {
	name string
	fn   func(context.Context) error
}

// New создаёт Manager; timeout ограничивает каждую функцию отдельно
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		timeout: timeout,
		logger:  logger,
		funcs:   make([]shutdownFunc, 0),
	}
}

// Add регистрирует shutdown функцию с указанным именем
func (m *Manager) Add(name string, fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs = append(m.funcs, shutdownFunc{name: name, fn: fn})
}

// Wait блокируется до SIGINT/SIGTERM или отмены ctx, затем вызывает Shutdown
func (m *Manager) Wait(ctx context.Context) {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	m.logger.Info("Received shutdown signal, starting graceful shutdown")

	m.Shutdown()
}

// Shutdown последовательно выполняет зарегистрированные функции (LIFO).
// Ошибка одной функции не останавливает остальные.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	funcs := make([]shutdownFunc, len(m.funcs))
	copy(funcs, m.funcs)
	m.mu.Unlock()

	for i := len(funcs) - 1; i >= 0; i-- {
		fn := funcs[i]
		m.logger.Info("Executing shutdown function", zap.String("name", fn.name))

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		start := time.Now()
		err := fn.fn(ctx)
		cancel()

		duration := time.Since(start)
		if err != nil {
			m.logger.Error("Shutdown function failed",
				zap.String("name", fn.name),
				zap.Error(err),
				zap.Duration("duration", duration))
			continue
		}
		m.logger.Info("Shutdown function completed",
			zap.String("name", fn.name),
			zap.Duration("duration", duration))
	}

	m.logger.Info("Graceful shutdown completed")
}

// ShutdownHTTPServer возвращает shutdown функцию для http.Server
func ShutdownHTTPServer(srv interface {
	Shutdown(context.Context) error
}) func(context.Context) error {
	return func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	}
}

// Close возвращает shutdown функцию для io.Closer (например, Kafka writer)
func Close(c io.Closer) func(context.Context) error {
	return func(ctx context.Context) error {
		return c.Close()
	}
}

// SetHealthNotServing возвращает shutdown функцию, переводящую readiness в NOT_SERVING
func SetHealthNotServing(health interface {
	SetNotServing(string)
}) func(context.Context) error {
	return func(ctx context.Context) error {
		health.SetNotServing("")
		return nil
	}
}
