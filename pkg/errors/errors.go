package errors

import "fmt"

// Error codes
const (
	CodeAppError   = "APP_ERROR"
	CodeTransport  = "TRANSPORT_ERROR"
	CodeParse      = "PARSE_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeStore      = "STORE_ERROR"
	CodeService    = "SERVICE_ERROR"
)

// Parse error kinds
const (
	ParseKindNoStructuredData = "no_structured_data"
	ParseKindMalformedJSON    = "malformed_json"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// TransportError signals a network/auth/quota failure talking to the
// generative completion endpoint or the catalog API.
type TransportError struct {
	*AppError
	Provider string
}

func NewTransportError(message, provider string, cause error) *TransportError {
	return &TransportError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeTransport,
			StatusCode: 502,
			Context: map[string]any{
				"provider": provider,
			},
			Cause: cause,
		},
		Provider: provider,
	}
}

// ParseError signals that a model response did not contain a parseable
// JSON payload of the expected shape.
type ParseError struct {
	*AppError
	Kind string
}

func NewParseError(message, kind string, cause error) *ParseError {
	return &ParseError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeParse,
			StatusCode: 502,
			Context: map[string]any{
				"kind": kind,
			},
			Cause: cause,
		},
		Kind: kind,
	}
}

// IsParseKind reports whether err is a ParseError with the given kind.
func IsParseKind(err error, kind string) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Kind == kind
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// StoreError signals a profile persistence failure.
type StoreError struct {
	*AppError
	Operation string
}

func NewStoreError(message, operation string, cause error) *StoreError {
	return &StoreError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeStore,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
			},
			Cause: cause,
		},
		Operation: operation,
	}
}

// HTTPStatus maps an error to the status code and machine code an HTTP
// handler should report. Unknown errors map to 500/APP_ERROR.
func HTTPStatus(err error) (int, string) {
	switch e := err.(type) {
	case *TransportError:
		return e.StatusCode, e.Code
	case *ParseError:
		return e.StatusCode, e.Code
	case *ValidationError:
		return e.StatusCode, e.Code
	case *CacheError:
		return e.StatusCode, e.Code
	case *StoreError:
		return e.StatusCode, e.Code
	case *ServiceError:
		return e.StatusCode, e.Code
	case *AppError:
		return e.StatusCode, e.Code
	}
	return 500, CodeAppError
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}
