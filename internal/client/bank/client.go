package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shestoi/paygate/internal/service"
	platformobservability "github.com/shestoi/paygate/platform/observability"
)

const (
	paymentsPath = "/payments"
	// maxResponseBytes ограничивает чтение тела ответа банка
	maxResponseBytes = 1 << 20
)

// paymentRequest - тело запроса в банк
type paymentRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	Currency   string `json:"currency"`
	Amount     int64  `json:"amount"`
	CVV        string `json:"cvv"`
}

// paymentResponse - тело успешного ответа банка
type paymentResponse struct {
	Authorized        bool   `json:"authorized"`
	AuthorizationCode string `json:"authorization_code"`
}

// Client реализует service.BankClient поверх HTTP API эквайрингового банка
type Client struct {
	logger  *zap.Logger
	baseURL string
	client  *http.Client
}

// NewClient создаёт клиента банка.
// timeout ограничивает каждый вызов целиком, включая чтение тела; повторов нет.
func NewClient(logger *zap.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: platformobservability.HTTPTransport(nil),
		},
	}
}

var _ service.BankClient = (*Client)(nil)

// ProcessPayment отправляет платёж в банк.
// Никогда не возвращает ошибку: сбой транспорта, не-2xx или битое тело дают Success == false.
func (c *Client) ProcessPayment(ctx context.Context, req service.BankRequest) service.BankResult {
	logger := platformobservability.L(ctx, c.logger)

	resp, err := c.do(ctx, req)
	if err != nil {
		logger.Warn("bank call failed",
			zap.Error(err),
			zap.String("currency", req.Currency),
			zap.Int64("amount", req.Amount),
		)
		return service.BankResult{}
	}

	logger.Debug("bank call completed", zap.Bool("authorized", resp.Authorized))

	return service.BankResult{
		Success:           true,
		Authorized:        resp.Authorized,
		AuthorizationCode: resp.AuthorizationCode,
	}
}

// do выполняет запрос и возвращает разобранный ответ или ошибку
func (c *Client) do(ctx context.Context, req service.BankRequest) (*paymentResponse, error) {
	body, err := json.Marshal(paymentRequest{
		CardNumber: req.CardNumber,
		ExpiryDate: req.ExpiryDate,
		Currency:   req.Currency,
		Amount:     req.Amount,
		CVV:        req.CVV,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+paymentsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		// тело не логируем: оно может содержать эхо реквизитов карты
		_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, maxResponseBytes))
		return nil, fmt.Errorf("bank status %d", httpResp.StatusCode)
	}

	var parsed *paymentResponse
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxResponseBytes)).Decode(&parsed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty bank response body")
		}
		return nil, fmt.Errorf("failed to decode bank response: %w", err)
	}
	if parsed == nil {
		return nil, errors.New("null bank response body")
	}

	return parsed, nil
}
