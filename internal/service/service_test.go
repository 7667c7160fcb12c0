package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/paygate/internal/repository"
	"github.com/shestoi/paygate/internal/repository/mocks"
)

// MockBankClient реализует BankClient для тестов (mockery-моки здесь дали бы цикл импортов)
type MockBankClient struct {
	mock.Mock
}

func (m *MockBankClient) ProcessPayment(ctx context.Context, req BankRequest) BankResult {
	args := m.Called(ctx, req)
	return args.Get(0).(BankResult)
}

// MockPaymentEventPublisher реализует PaymentEventPublisher для тестов
type MockPaymentEventPublisher struct {
	mock.Mock
}

func (m *MockPaymentEventPublisher) PublishPaymentProcessed(ctx context.Context, event PaymentProcessedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func validInput() CreatePaymentInput {
	return CreatePaymentInput{
		CardNumber:  "2222405343248877",
		ExpiryMonth: 4,
		ExpiryYear:  2030,
		Currency:    "GBP",
		Amount:      100,
		CVV:         123,
	}
}

func TestPaymentService_CreatePayment(t *testing.T) {
	ctx := context.Background()

	expectedBankRequest := BankRequest{
		CardNumber: "2222405343248877",
		ExpiryDate: "04/2030",
		Currency:   "GBP",
		Amount:     100,
		CVV:        "123",
	}

	tests := []struct {
		name             string
		bankResult       BankResult
		repoError        error
		publishError     error
		expectedStatus   repository.Status
		expectSave       bool
		expectPublish    bool
		expectedError    bool
		errorContains    string
	}{
		{
			name:           "authorized: saved and published",
			bankResult:     BankResult{Success: true, Authorized: true, AuthorizationCode: "0bb07405-6d44-4b50-a14f-7ae0beff13ad"},
			expectedStatus: repository.StatusAuthorized,
			expectSave:     true,
			expectPublish:  true,
		},
		{
			name:           "declined: saved and published",
			bankResult:     BankResult{Success: true, Authorized: false},
			expectedStatus: repository.StatusDeclined,
			expectSave:     true,
			expectPublish:  true,
		},
		{
			name:           "rejected: bank failure, not saved, not published",
			bankResult:     BankResult{Success: false},
			expectedStatus: repository.StatusRejected,
			expectSave:     false,
			expectPublish:  false,
		},
		{
			name:           "publish failure does not change outcome",
			bankResult:     BankResult{Success: true, Authorized: true, AuthorizationCode: "code"},
			publishError:   errors.New("kafka unavailable"),
			expectedStatus: repository.StatusAuthorized,
			expectSave:     true,
			expectPublish:  true,
		},
		{
			name:          "save failure returns error",
			bankResult:    BankResult{Success: true, Authorized: true, AuthorizationCode: "code"},
			repoError:     errors.New("storage unavailable"),
			expectSave:    true,
			expectPublish: false,
			expectedError: true,
			errorContains: "failed to save payment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mockBank := new(MockBankClient)
			mockPublisher := new(MockPaymentEventPublisher)
			mockRepo := mocks.NewPaymentRepository(t)

			svc := NewPaymentService(zap.NewNop(), mockBank, mockRepo, mockPublisher)

			mockBank.On("ProcessPayment", ctx, expectedBankRequest).Return(tt.bankResult).Once()

			var saved repository.Payment
			if tt.expectSave {
				mockRepo.On("Save", ctx, mock.AnythingOfType("repository.Payment")).
					Run(func(args mock.Arguments) { saved = args.Get(1).(repository.Payment) }).
					Return(tt.repoError).Once()
			}
			if tt.expectPublish {
				mockPublisher.On("PublishPaymentProcessed", ctx, mock.MatchedBy(func(e PaymentProcessedEvent) bool {
					return e.EventType == EventTypePaymentProcessed &&
						e.EventVersion == 1 &&
						e.EventID != "" &&
						e.PaymentID == saved.ID &&
						e.Status == tt.expectedStatus &&
						e.CardNumberLastFour == "8877"
				})).Return(tt.publishError).Once()
			}

			// Act
			payment, err := svc.CreatePayment(ctx, validInput())

			// Assert
			if tt.expectedError {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.errorContains)
				require.Equal(t, repository.Payment{}, payment)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.expectedStatus, payment.Status)
				require.Equal(t, "8877", payment.CardNumberLastFour)
				require.Equal(t, 4, payment.ExpiryMonth)
				require.Equal(t, 2030, payment.ExpiryYear)
				require.Equal(t, int64(100), payment.Amount)
				require.Equal(t, "GBP", payment.Currency)
				_, parseErr := uuid.Parse(payment.ID)
				require.NoError(t, parseErr)
				if tt.expectSave {
					require.Equal(t, payment, saved)
				}
			}

			if !tt.expectSave {
				mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			}
			if !tt.expectPublish {
				mockPublisher.AssertNotCalled(t, "PublishPaymentProcessed", mock.Anything, mock.Anything)
			}
			mockBank.AssertExpectations(t)
			mockPublisher.AssertExpectations(t)
		})
	}
}

func TestPaymentService_CreatePayment_GeneratesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	mockBank := new(MockBankClient)
	mockPublisher := new(MockPaymentEventPublisher)
	mockRepo := mocks.NewPaymentRepository(t)
	svc := NewPaymentService(zap.NewNop(), mockBank, mockRepo, mockPublisher)

	mockBank.On("ProcessPayment", ctx, mock.Anything).Return(BankResult{Success: false})

	first, err := svc.CreatePayment(ctx, validInput())
	require.NoError(t, err)
	second, err := svc.CreatePayment(ctx, validInput())
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
}

func TestPaymentService_GetPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mockRepo := mocks.NewPaymentRepository(t)
		svc := NewPaymentService(zap.NewNop(), new(MockBankClient), mockRepo, new(MockPaymentEventPublisher))

		stored := repository.Payment{
			ID:                 "9f0e6a3c-8d3b-4a55-9d8e-2d7b1f1c0a11",
			ExpiryMonth:        12,
			ExpiryYear:         2031,
			Amount:             60000,
			Currency:           "USD",
			CardNumberLastFour: "0001",
			Status:             repository.StatusDeclined,
		}
		mockRepo.On("GetByID", ctx, stored.ID).Return(stored, nil).Once()

		got, err := svc.GetPayment(ctx, stored.ID)
		require.NoError(t, err)
		require.Equal(t, stored, got)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := mocks.NewPaymentRepository(t)
		svc := NewPaymentService(zap.NewNop(), new(MockBankClient), mockRepo, new(MockPaymentEventPublisher))

		mockRepo.On("GetByID", ctx, "missing").Return(repository.Payment{}, repository.ErrNotFound).Once()

		_, err := svc.GetPayment(ctx, "missing")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDeriveStatus(t *testing.T) {
	require.Equal(t, repository.StatusRejected, DeriveStatus(BankResult{Success: false}))
	// authorized без success не учитывается
	require.Equal(t, repository.StatusRejected, DeriveStatus(BankResult{Success: false, Authorized: true}))
	require.Equal(t, repository.StatusDeclined, DeriveStatus(BankResult{Success: true, Authorized: false}))
	require.Equal(t, repository.StatusAuthorized, DeriveStatus(BankResult{Success: true, Authorized: true}))
}

func TestExpiryDate(t *testing.T) {
	require.Equal(t, "04/2030", ExpiryDate(4, 2030))
	require.Equal(t, "12/2031", ExpiryDate(12, 2031))
}
