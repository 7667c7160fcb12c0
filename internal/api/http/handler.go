package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shestoi/paygate/internal/repository"
	"github.com/shestoi/paygate/internal/service"
	"github.com/shestoi/paygate/internal/validation"
	platformobservability "github.com/shestoi/paygate/platform/observability"
)

const maxRequestBodyBytes = 1 << 20

// Handler содержит HTTP-обработчики платёжного шлюза.
// Зависит от service слоя, но не знает о банке и хранилище.
type Handler struct {
	logger         *zap.Logger
	validator      *validation.Validator
	paymentService *service.PaymentService
}

// NewHandler создаёт новый HTTP handler
func NewHandler(logger *zap.Logger, validator *validation.Validator, paymentService *service.PaymentService) *Handler {
	return &Handler{
		logger:         logger,
		validator:      validator,
		paymentService: paymentService,
	}
}

// PaymentRequest представляет HTTP запрос на оплату.
// Указатели позволяют отличить отсутствующее поле от нулевого значения.
type PaymentRequest struct {
	CardNumber  *string `json:"cardNumber"`
	ExpiryMonth *int    `json:"expiryMonth"`
	ExpiryYear  *int    `json:"expiryYear"`
	Currency    *string `json:"currency"`
	Amount      *int64  `json:"amount"`
	CVV         *int    `json:"cvv"`
}

// PaymentResponse представляет HTTP ответ с информацией о платеже
type PaymentResponse struct {
	ID                 string            `json:"id"`
	ExpiryMonth        int               `json:"expiryMonth"`
	ExpiryYear         int               `json:"expiryYear"`
	Amount             int64             `json:"amount"`
	Currency           string            `json:"currency"`
	CardNumberLastFour string            `json:"cardNumberLastFour"`
	Status             repository.Status `json:"status"`
}

// PostPayments обрабатывает POST /api/payments
func (h *Handler) PostPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	var reqBody PaymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&reqBody); err != nil {
		logger.Info("failed to decode payment request", zap.Error(err))
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Request body is not a valid payment request.")
		return
	}

	// Валидация до любых обращений к банку
	if err := h.validator.Validate(toValidationRequest(reqBody)); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			logger.Info("payment request rejected by validation", zap.Strings("fields", fieldNames(verrs)))
			writeJSON(w, http.StatusUnprocessableEntity, verrs)
			return
		}
		logger.Error("unexpected validation error", zap.Error(err))
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	payment, err := h.paymentService.CreatePayment(ctx, service.CreatePaymentInput{
		CardNumber:  *reqBody.CardNumber,
		ExpiryMonth: *reqBody.ExpiryMonth,
		ExpiryYear:  *reqBody.ExpiryYear,
		Currency:    *reqBody.Currency,
		Amount:      *reqBody.Amount,
		CVV:         *reqBody.CVV,
	})
	if err != nil {
		logger.Error("payment creation failed", zap.Error(err))
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "The payment could not be recorded.")
		return
	}

	// Rejected: банк недоступен или ответил не по контракту, тело записи не отдаём
	if payment.Status == repository.StatusRejected {
		writeProblem(w, http.StatusBadGateway, "Payment Rejected", "The acquiring bank could not process the payment.")
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

// GetPayment обрабатывает GET /api/payments/{id}
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request, id string) {
	logger := h.requestLogger(r)

	// ID выдаёт сервер в виде UUID, другой формат не может существовать
	if _, err := uuid.Parse(id); err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "Payment not found.")
		return
	}

	payment, err := h.paymentService.GetPayment(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "Payment not found.")
			return
		}
		logger.Error("failed to get payment", zap.Error(err), zap.String("payment_id", id))
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *Handler) requestLogger(r *http.Request) *zap.Logger {
	if l := platformobservability.LoggerFromContext(r.Context()); l != nil {
		return l
	}
	return h.logger
}

func toValidationRequest(req PaymentRequest) validation.Request {
	return validation.Request{
		CardNumber:  req.CardNumber,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		Currency:    req.Currency,
		Amount:      req.Amount,
		CVV:         req.CVV,
	}
}

func toPaymentResponse(p repository.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                 p.ID,
		ExpiryMonth:        p.ExpiryMonth,
		ExpiryYear:         p.ExpiryYear,
		Amount:             p.Amount,
		Currency:           p.Currency,
		CardNumberLastFour: p.CardNumberLastFour,
		Status:             p.Status,
	}
}

func fieldNames(errs validation.Errors) []string {
	out := make([]string, 0, len(errs))
	for f := range errs {
		out = append(out, f)
	}
	return out
}
