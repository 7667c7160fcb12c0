package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }

func validRequest() Request {
	return Request{
		CardNumber:  strPtr("2222405343248877"),
		ExpiryMonth: intPtr(4),
		ExpiryYear:  intPtr(2030),
		Currency:    strPtr("GBP"),
		Amount:      int64Ptr(100),
		CVV:         intPtr(123),
	}
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *Request)
		expected Errors
	}{
		{
			name:   "valid request",
			mutate: func(r *Request) {},
		},
		{
			name:   "valid 14 digit card and 4 digit cvv",
			mutate: func(r *Request) { r.CardNumber = strPtr("12345678901234"); r.CVV = intPtr(9999) },
		},
		{
			name:   "valid 19 digit card and EUR",
			mutate: func(r *Request) { r.CardNumber = strPtr("1234567890123456789"); r.Currency = strPtr("EUR") },
		},
		{
			name:     "missing card number",
			mutate:   func(r *Request) { r.CardNumber = nil },
			expected: Errors{FieldCardNumber: {MsgCardNumberRequired}},
		},
		{
			name:     "empty card number",
			mutate:   func(r *Request) { r.CardNumber = strPtr("") },
			expected: Errors{FieldCardNumber: {MsgCardNumberRequired, MsgCardNumberLength}},
		},
		{
			name:     "card number too short",
			mutate:   func(r *Request) { r.CardNumber = strPtr("1234567890123") },
			expected: Errors{FieldCardNumber: {MsgCardNumberLength}},
		},
		{
			name:     "card number too long",
			mutate:   func(r *Request) { r.CardNumber = strPtr("12345678901234567890") },
			expected: Errors{FieldCardNumber: {MsgCardNumberLength}},
		},
		{
			name:     "card number with letters",
			mutate:   func(r *Request) { r.CardNumber = strPtr("2222405343248ABC") },
			expected: Errors{FieldCardNumber: {MsgCardNumberNumeric}},
		},
		{
			name:     "short card number with letters reports both",
			mutate:   func(r *Request) { r.CardNumber = strPtr("12ab") },
			expected: Errors{FieldCardNumber: {MsgCardNumberLength, MsgCardNumberNumeric}},
		},
		{
			name:     "missing expiry month",
			mutate:   func(r *Request) { r.ExpiryMonth = nil },
			expected: Errors{FieldExpiryMonth: {MsgExpiryMonthRequired}},
		},
		{
			name:     "expiry month zero",
			mutate:   func(r *Request) { r.ExpiryMonth = intPtr(0) },
			expected: Errors{FieldExpiryMonth: {MsgExpiryMonthRange}},
		},
		{
			name:     "expiry month thirteen",
			mutate:   func(r *Request) { r.ExpiryMonth = intPtr(13) },
			expected: Errors{FieldExpiryMonth: {MsgExpiryMonthRange}},
		},
		{
			name:     "missing expiry year",
			mutate:   func(r *Request) { r.ExpiryYear = nil },
			expected: Errors{FieldExpiryYear: {MsgExpiryYearRequired}},
		},
		{
			name:     "expiry in previous year",
			mutate:   func(r *Request) { r.ExpiryYear = intPtr(2025); r.ExpiryMonth = intPtr(12) },
			expected: Errors{FieldExpiryYear: {MsgExpiryInPast}},
		},
		{
			name:     "expiry equal to current month is expired",
			mutate:   func(r *Request) { r.ExpiryYear = intPtr(2026); r.ExpiryMonth = intPtr(6) },
			expected: Errors{FieldExpiryYear: {MsgExpiryInPast}},
		},
		{
			name:   "expiry next month is valid",
			mutate: func(r *Request) { r.ExpiryYear = intPtr(2026); r.ExpiryMonth = intPtr(7) },
		},
		{
			name:     "missing currency",
			mutate:   func(r *Request) { r.Currency = nil },
			expected: Errors{FieldCurrency: {MsgCurrencyRequired}},
		},
		{
			name:     "empty currency",
			mutate:   func(r *Request) { r.Currency = strPtr("") },
			expected: Errors{FieldCurrency: {MsgCurrencyRequired, MsgCurrencyNotAllowed}},
		},
		{
			name:     "currency not in allow list",
			mutate:   func(r *Request) { r.Currency = strPtr("JPY") },
			expected: Errors{FieldCurrency: {MsgCurrencyNotAllowed}},
		},
		{
			name:     "currency is case sensitive",
			mutate:   func(r *Request) { r.Currency = strPtr("gbp") },
			expected: Errors{FieldCurrency: {MsgCurrencyNotAllowed}},
		},
		{
			name:     "missing amount",
			mutate:   func(r *Request) { r.Amount = nil },
			expected: Errors{FieldAmount: {MsgAmountRequired}},
		},
		{
			name:     "zero amount",
			mutate:   func(r *Request) { r.Amount = int64Ptr(0) },
			expected: Errors{FieldAmount: {MsgAmountPositive}},
		},
		{
			name:     "negative amount",
			mutate:   func(r *Request) { r.Amount = int64Ptr(-5) },
			expected: Errors{FieldAmount: {MsgAmountPositive}},
		},
		{
			name:     "missing cvv",
			mutate:   func(r *Request) { r.CVV = nil },
			expected: Errors{FieldCVV: {MsgCVVRequired}},
		},
		{
			name:     "cvv too short",
			mutate:   func(r *Request) { r.CVV = intPtr(99) },
			expected: Errors{FieldCVV: {MsgCVVRange}},
		},
		{
			name:     "cvv too long",
			mutate:   func(r *Request) { r.CVV = intPtr(10000) },
			expected: Errors{FieldCVV: {MsgCVVRange}},
		},
	}

	v := NewValidator(fixedClock)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := v.Validate(req)

			if tt.expected == nil {
				require.NoError(t, err)
				return
			}

			var verrs Errors
			require.True(t, errors.As(err, &verrs))
			require.Equal(t, tt.expected, verrs)
		})
	}
}

func TestValidator_Validate_ReportsEveryViolation(t *testing.T) {
	v := NewValidator(fixedClock)

	err := v.Validate(Request{})

	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	require.Equal(t, Errors{
		FieldCardNumber:  {MsgCardNumberRequired},
		FieldExpiryMonth: {MsgExpiryMonthRequired},
		FieldExpiryYear:  {MsgExpiryYearRequired},
		FieldCurrency:    {MsgCurrencyRequired},
		FieldAmount:      {MsgAmountRequired},
		FieldCVV:         {MsgCVVRequired},
	}, verrs)
}

func TestValidator_Validate_InvalidMonthSkipsExpiryCheck(t *testing.T) {
	v := NewValidator(fixedClock)
	req := validRequest()
	req.ExpiryMonth = intPtr(13)
	req.ExpiryYear = intPtr(2020)

	err := v.Validate(req)

	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	require.Equal(t, Errors{FieldExpiryMonth: {MsgExpiryMonthRange}}, verrs)
}

func TestNewValidator_DefaultsToSystemClock(t *testing.T) {
	v := NewValidator(nil)
	req := validRequest()
	req.ExpiryYear = intPtr(time.Now().Year() + 5)

	require.NoError(t, v.Validate(req))
}

func TestErrors_Error(t *testing.T) {
	errs := Errors{
		FieldCVV:        {MsgCVVRange},
		FieldCardNumber: {MsgCardNumberRequired, MsgCardNumberLength},
	}

	require.Equal(t,
		"validation failed: cardNumber: Card number is required. Card number must be between 14-19 characters long.; cvv: CVV must be 3-4 characters long.",
		errs.Error(),
	)
}
