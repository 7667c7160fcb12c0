package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Имена полей совпадают с JSON-именами запроса, в таком виде они уходят клиенту
const (
	FieldCardNumber  = "cardNumber"
	FieldExpiryMonth = "expiryMonth"
	FieldExpiryYear  = "expiryYear"
	FieldCurrency    = "currency"
	FieldAmount      = "amount"
	FieldCVV         = "cvv"
)

const (
	MsgCardNumberRequired  = "Card number is required."
	MsgCardNumberLength    = "Card number must be between 14-19 characters long."
	MsgCardNumberNumeric   = "Card number must only contain numeric characters."
	MsgExpiryMonthRequired = "Expiry month is required."
	MsgExpiryMonthRange    = "Expiry month must be between 1-12."
	MsgExpiryYearRequired  = "Expiry year is required."
	MsgExpiryInPast        = "Card expiry must be in the future."
	MsgCurrencyRequired    = "Currency is required."
	MsgCurrencyNotAllowed  = "Currency must be GBP, USD or EUR."
	MsgAmountRequired      = "Amount is required."
	MsgAmountPositive      = "Amount must be an integer greater than 0."
	MsgCVVRequired         = "CVV is required."
	MsgCVVRange            = "CVV must be 3-4 characters long."
)

const (
	minCardNumberLength = 14
	maxCardNumberLength = 19
	minCVV              = 100
	maxCVV              = 9999
)

var allowedCurrencies = map[string]struct{}{
	"GBP": {},
	"USD": {},
	"EUR": {},
}

// Clock возвращает текущее время; подменяется в тестах
type Clock func() time.Time

// Request - платёж в том виде, в котором он пришёл от клиента.
// nil означает, что поле отсутствует в запросе.
type Request struct {
	CardNumber  *string
	ExpiryMonth *int
	ExpiryYear  *int
	Currency    *string
	Amount      *int64
	CVV         *int
}

// Errors - нарушения правил, сгруппированные по полю.
// Для одного поля может быть несколько сообщений.
type Errors map[string][]string

func (e Errors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Error реализует error; поля выводятся в отсортированном порядке
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator проверяет входящие запросы на оплату
type Validator struct {
	now Clock
}

// NewValidator создаёт Validator. Если now == nil, используется time.Now.
func NewValidator(now Clock) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Validate проверяет все правила и возвращает Errors со всеми нарушениями,
// или nil, если запрос корректен.
func (v *Validator) Validate(req Request) error {
	errs := Errors{}

	v.validateCardNumber(req.CardNumber, errs)
	v.validateExpiry(req.ExpiryMonth, req.ExpiryYear, errs)
	v.validateCurrency(req.Currency, errs)

	if req.Amount == nil {
		errs.add(FieldAmount, MsgAmountRequired)
	} else if *req.Amount < 1 {
		errs.add(FieldAmount, MsgAmountPositive)
	}

	if req.CVV == nil {
		errs.add(FieldCVV, MsgCVVRequired)
	} else if *req.CVV < minCVV || *req.CVV > maxCVV {
		errs.add(FieldCVV, MsgCVVRange)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *Validator) validateCardNumber(cardNumber *string, errs Errors) {
	if cardNumber == nil {
		errs.add(FieldCardNumber, MsgCardNumberRequired)
		return
	}

	n := *cardNumber
	if n == "" {
		errs.add(FieldCardNumber, MsgCardNumberRequired)
	}
	if len(n) < minCardNumberLength || len(n) > maxCardNumberLength {
		errs.add(FieldCardNumber, MsgCardNumberLength)
	}
	if n != "" && !isDigits(n) {
		errs.add(FieldCardNumber, MsgCardNumberNumeric)
	}
}

// validateExpiry: срок должен быть строго позже текущего месяца.
// Совместная проверка выполняется только если месяц и год по отдельности корректны.
func (v *Validator) validateExpiry(month, year *int, errs Errors) {
	monthValid := false
	if month == nil {
		errs.add(FieldExpiryMonth, MsgExpiryMonthRequired)
	} else if *month < 1 || *month > 12 {
		errs.add(FieldExpiryMonth, MsgExpiryMonthRange)
	} else {
		monthValid = true
	}

	if year == nil {
		errs.add(FieldExpiryYear, MsgExpiryYearRequired)
		return
	}

	if !monthValid {
		return
	}

	now := v.now()
	currentYear, currentMonth := now.Year(), int(now.Month())
	if *year < currentYear || (*year == currentYear && *month <= currentMonth) {
		errs.add(FieldExpiryYear, MsgExpiryInPast)
	}
}

func (v *Validator) validateCurrency(currency *string, errs Errors) {
	if currency == nil {
		errs.add(FieldCurrency, MsgCurrencyRequired)
		return
	}
	if *currency == "" {
		errs.add(FieldCurrency, MsgCurrencyRequired)
	}
	if _, ok := allowedCurrencies[*currency]; !ok {
		errs.add(FieldCurrency, MsgCurrencyNotAllowed)
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
