package api

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибку API-клиента.
type Kind int

const (
	// KindUnknown — ошибка, не попавшая ни в одну категорию
	// (например, некорректное тело успешного ответа).
	KindUnknown Kind = iota
	// KindValidation — некорректные входные данные, запрос не отправлялся.
	KindValidation
	// KindTransport — ответ не получен: таймаут, обрыв соединения, отмена контекста.
	KindTransport
	// KindUnauthorized — ответ со статусом 401.
	KindUnauthorized
	// KindServer — прочие ответы вне диапазона 2xx.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error — нормализованная ошибка запроса. Содержит путь, HTTP-статус
// (0, если ответ не был получен) и человекочитаемое сообщение.
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int    // 0 — ответ не получен
	Message string
	Err     error // Исходная ошибка транспорта или декодера, может быть nil
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Path, e.Message, e.Status)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError извлекает *Error из цепочки ошибок.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized сообщает, является ли ошибка реакцией на статус 401.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindUnauthorized
}

// Message возвращает сообщение для показа пользователю.
// Для ошибок вне таксономии используется текст самой ошибки.
func Message(err error) string {
	if apiErr, ok := AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
