package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by slot stores when a slot holds no value.
	ErrNotFound = errors.New("not found")
	// ErrTokenMissing is returned when a login response carries no token field.
	ErrTokenMissing = errors.New("Token não encontrado na resposta do servidor")
	// ErrUserNotFound is returned when a user lookup yields no match.
	ErrUserNotFound = errors.New("Usuário não encontrado")
	// ErrNotAuthenticated is returned by operations that need an authenticated session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionChanged is returned when a result is discarded because the session moved on.
	ErrSessionChanged = errors.New("session changed while the operation was in flight")
	// ErrEventNotFound is returned when event details cannot be located in a response.
	ErrEventNotFound = errors.New("Evento não encontrado")
	// ErrInvalidInput wraps client-side validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorKind classifies request failures.
type ErrorKind int

const (
	// KindTransport means no usable response was received.
	KindTransport ErrorKind = iota + 1
	// KindHTTP means the backend answered with a non-2xx status.
	KindHTTP
	// KindApplication means a 2xx response carried erro: true.
	KindApplication
	// KindShape means the response parsed but matched no accepted envelope.
	KindShape
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindApplication:
		return "application"
	case KindShape:
		return "shape"
	default:
		return "unknown"
	}
}

// RequestError is the uniform failure surfaced for every backend call.
type RequestError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewTransportError builds the generic connection failure.
func NewTransportError(err error) *RequestError {
	return &RequestError{Kind: KindTransport, Message: MsgConnectionError, Err: err}
}

// NewHTTPError builds a failure for a non-2xx response.
func NewHTTPError(status int, message string) *RequestError {
	if message == "" {
		message = fmt.Sprintf("Erro %d", status)
	}
	return &RequestError{Kind: KindHTTP, Status: status, Message: message}
}

// NewApplicationError builds a failure for a 2xx response flagged with erro: true.
func NewApplicationError(message, fallback string) *RequestError {
	if message == "" {
		message = fallback
	}
	return &RequestError{Kind: KindApplication, Message: message}
}

// NewShapeError builds a failure for an unrecognised response shape.
func NewShapeError(message string) *RequestError {
	return &RequestError{Kind: KindShape, Message: message}
}

// IsKind reports whether err is a RequestError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Kind == kind
}

// Messages shown to operators. The backend speaks Portuguese, so do we.
const (
	MsgConnectionError = "Erro de conexão. Verifique sua internet."
	MsgInvalidShape    = "Formato de resposta inválido"
)
