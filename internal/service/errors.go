package service

import "fmt"

// ValidationError - некорректный вход от клиента; сообщение
// содержит индекс или имя поля и безопасно для выдачи наружу
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
