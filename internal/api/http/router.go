package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shestoi/paygate/internal/api/http/middleware"
	platformhealth "github.com/shestoi/paygate/platform/health/http"
	platformobservability "github.com/shestoi/paygate/platform/observability"
)

// NewRouter создаёт и настраивает HTTP роутер платёжного шлюза.
// readiness - функция проверки готовности; при false health endpoint вернёт 503.
func NewRouter(handler *Handler, readiness func() bool, serviceName string, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	// Observability: trace context + span на каждый запрос, logger с trace_id в контексте
	router.Use(platformobservability.HTTPMiddleware(serviceName, logger))
	router.Use(middleware.AccessLog(logger))
	router.Use(chimiddleware.Recoverer)

	router.Route("/api/payments", func(r chi.Router) {
		r.Post("/", handler.PostPayments)
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			handler.GetPayment(w, r, id)
		})
	})

	router.Get("/health", platformhealth.Handler(readiness))

	return router
}
