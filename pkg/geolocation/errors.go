package geolocation

import "fmt"

// ErrorCode различает причины отказа при получении местоположения.
type ErrorCode int

const (
	// CodePermissionDenied - доступ к источнику местоположения запрещен.
	CodePermissionDenied ErrorCode = iota + 1
	// CodePositionUnavailable - источник недоступен или не дает fix.
	CodePositionUnavailable
	// CodeTimeout - fix не получен за отведенное Options.Timeout время.
	CodeTimeout
	// CodeUnsupported - на данном хосте нет источника местоположения вообще.
	// Отличается от таймаута и от отказа в доступе: сообщается сразу,
	// без ожидания.
	CodeUnsupported
)

func (c ErrorCode) String() string {
	switch c {
	case CodePermissionDenied:
		return "permission_denied"
	case CodePositionUnavailable:
		return "position_unavailable"
	case CodeTimeout:
		return "timeout"
	case CodeUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// PositionError - ошибка получения местоположения с различимой причиной.
type PositionError struct {
	Code    ErrorCode
	Message string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("geolocation: %s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *PositionError {
	return &PositionError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
