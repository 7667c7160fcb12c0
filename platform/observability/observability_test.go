package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestKafkaHeadersCarrier_InjectExtract(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	var headers []kafka.Header
	prop := propagation.TraceContext{}
	prop.Inject(ctx, NewKafkaHeadersCarrier(&headers))

	require.Len(t, headers, 1)
	require.Equal(t, "traceparent", headers[0].Key)

	extracted := prop.Extract(context.Background(), NewKafkaHeadersCarrier(&headers))
	require.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(extracted).TraceID())
}

func TestKafkaHeadersCarrier_SetReplacesExisting(t *testing.T) {
	headers := []kafka.Header{{Key: "a", Value: []byte("1")}}
	c := NewKafkaHeadersCarrier(&headers)

	c.Set("a", "2")
	c.Set("b", "3")

	require.Equal(t, "2", c.Get("a"))
	require.Equal(t, "3", c.Get("b"))
	require.Equal(t, "", c.Get("missing"))
	require.ElementsMatch(t, []string{"a", "b"}, c.Keys())
}

func TestHTTPMiddleware_SpanNamedByRoutePattern(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	router := chi.NewRouter()
	router.Use(HTTPMiddleware("gateway", zap.NewNop()))

	var loggerInCtx *zap.Logger
	router.Get("/api/payments/{id}", func(w http.ResponseWriter, r *http.Request) {
		loggerInCtx = LoggerFromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/payments/abc", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, loggerInCtx)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "HTTP GET /api/payments/{id}", spans[0].Name())
}

func TestInit_DisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false, ServiceName: "gateway"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
