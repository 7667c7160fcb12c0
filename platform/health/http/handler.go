package http

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Readiness хранит флаг готовности сервиса.
// Переключается в NOT_SERVING при graceful shutdown (см. shutdown.SetHealthNotServing).
type Readiness struct {
	serving atomic.Bool
}

// NewReadiness создаёт Readiness с начальным статусом serving
func NewReadiness(serving bool) *Readiness {
	r := &Readiness{}
	r.serving.Store(serving)
	return r
}

// SetServing переводит сервис в готовое состояние
func (r *Readiness) SetServing() {
	r.serving.Store(true)
}

// SetNotServing переводит сервис в неготовое состояние.
// Аргумент оставлен для совместимости с интерфейсом shutdown.SetHealthNotServing.
func (r *Readiness) SetNotServing(string) {
	r.serving.Store(false)
}

// Ready сообщает текущий статус
func (r *Readiness) Ready() bool {
	return r.serving.Load()
}

// Handler возвращает HTTP handler для health check endpoint.
// 200 {"status":"ok"}, если readiness == nil или возвращает true;
// 503 {"status":"not ready"} иначе.
func Handler(readiness func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if readiness != nil && !readiness() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
