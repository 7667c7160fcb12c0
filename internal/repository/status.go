package repository

import (
	"encoding/json"
	"fmt"
)

// Status - итоговый статус платежа. Закрытое перечисление, переходов между статусами нет.
type Status uint8

const (
	// StatusAuthorized - банк одобрил платёж
	StatusAuthorized Status = iota + 1
	// StatusDeclined - банк ответил, но отказал
	StatusDeclined
	// StatusRejected - банк недоступен или нарушил контракт ответа
	StatusRejected
)

// String возвращает имя статуса в том виде, в котором оно уходит в API
func (s Status) String() string {
	switch s {
	case StatusAuthorized:
		return "Authorized"
	case StatusDeclined:
		return "Declined"
	case StatusRejected:
		return "Rejected"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// ParseStatus разбирает имя статуса
func ParseStatus(s string) (Status, error) {
	switch s {
	case "Authorized":
		return StatusAuthorized, nil
	case "Declined":
		return StatusDeclined, nil
	case "Rejected":
		return StatusRejected, nil
	}
	return 0, fmt.Errorf("unknown payment status %q", s)
}

// MarshalJSON кодирует статус строкой
func (s Status) MarshalJSON() ([]byte, error) {
	switch s {
	case StatusAuthorized, StatusDeclined, StatusRejected:
		return json.Marshal(s.String())
	}
	return nil, fmt.Errorf("invalid payment status %d", uint8(s))
}

// UnmarshalJSON разбирает статус из строки
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("payment status must be a string: %w", err)
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
