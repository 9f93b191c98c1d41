package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode представляет код ошибки
type ErrorCode string

// Закрытый набор кодов: любой сбой запроса к API классифицируется ровно в один из них.
const (
	ErrCodeNetwork      ErrorCode = "NETWORK_ERROR"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeServer       ErrorCode = "SERVER_ERROR"
	ErrCodeUnknown      ErrorCode = "UNKNOWN_ERROR"
)

var knownCodes = []ErrorCode{
	ErrCodeNetwork,
	ErrCodeTimeout,
	ErrCodeNotFound,
	ErrCodeUnauthorized,
	ErrCodeForbidden,
	ErrCodeServer,
	ErrCodeUnknown,
}

// Codes возвращает все известные коды ошибок
func Codes() []ErrorCode {
	out := make([]ErrorCode, len(knownCodes))
	copy(out, knownCodes)
	return out
}

// Known сообщает, входит ли код в закрытый набор
func (c ErrorCode) Known() bool {
	for _, k := range knownCodes {
		if c == k {
			return true
		}
	}
	return false
}

// AppError представляет типизированную ошибку запроса
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Status     int                    `json:"status,omitempty"`
	ServerCode string                 `json:"server_code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Context    map[string]string      `json:"context,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	RequestID  string                 `json:"request_id,omitempty"`
	Cause      error                  `json:"-"`
}

// Error возвращает строковое представление ошибки
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap возвращает причину ошибки
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound проверяет, является ли ошибка ошибкой "не найдено"
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound
}

// IsUnauthorized проверяет, является ли ошибка ошибкой авторизации или доступа
func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeForbidden
}

// IsTimeout проверяет, истек ли срок запроса
func (e *AppError) IsTimeout() bool {
	return e.Code == ErrCodeTimeout
}

// WithContext добавляет контекст к ошибке
func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithDetail добавляет детальную информацию к ошибке
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID добавляет ID запроса к ошибке
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// WithStatus задает HTTP статус
func (e *AppError) WithStatus(status int) *AppError {
	e.Status = status
	return e
}

// WithServerCode сохраняет код, присланный сервером в теле ответа
func (e *AppError) WithServerCode(code string) *AppError {
	e.ServerCode = code
	return e
}

// New создает новую ошибку
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Status:    StatusFor(code),
		Timestamp: time.Now(),
	}
}

// Wrap оборачивает существующую ошибку
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf оборачивает существующую ошибку с форматированием
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// StatusFor возвращает HTTP статус, закрепленный за кодом, или 0
func StatusFor(code ErrorCode) int {
	switch code {
	case ErrCodeTimeout:
		return http.StatusRequestTimeout
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeServer:
		return http.StatusInternalServerError
	default:
		return 0
	}
}

// ClassifyStatus выбирает код по HTTP статусу ответа
func ClassifyStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case status == http.StatusForbidden:
		return ErrCodeForbidden
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusRequestTimeout:
		return ErrCodeTimeout
	case status >= 500 && status <= 599:
		return ErrCodeServer
	default:
		return ErrCodeUnknown
	}
}

// FromResponse строит ошибку для неуспешного ответа.
// Код из тела побеждает, если он входит в закрытый набор; иначе решает статус.
func FromResponse(status int, message, serverCode string) *AppError {
	code := ClassifyStatus(status)
	if c := ErrorCode(serverCode); c.Known() {
		code = c
	}
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "Неизвестная ошибка"
	}
	appErr := New(code, message).WithStatus(status)
	if serverCode != "" {
		appErr.ServerCode = serverCode
	}
	return appErr
}

// AsAppError приводит ошибку к AppError, просматривая всю цепочку
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err == nil {
		return nil, false
	}
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// IsAppError проверяет, является ли ошибка AppError
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// CodeOf возвращает код ошибки; для ошибок вне таксономии - UNKNOWN_ERROR
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeUnknown
}

// IsNotFound проверяет код NOT_FOUND в цепочке ошибок
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// Is сообщает, несет ли ошибка указанный код
func Is(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
