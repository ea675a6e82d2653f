package errors

import (
	stderrors "errors"
	"maps"
)

// Domain is the error domain reported in ErrorInfo details.
const Domain = "github.com/louisbranch/millionaire"

// Error is an application failure. Code is what clients see, Message is for
// logs and Params fill the localized message template of Code.
type Error struct {
	Code    Code
	Message string
	Params  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so sentinel errors compare by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New returns an error with code and an internal message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap is New with a cause kept in the chain.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// With returns a copy of e with the template param key set to value.
func (e *Error) With(key, value string) *Error {
	return e.WithParams(map[string]string{key: value})
}

// WithParams returns a copy of e with params merged over its own.
func (e *Error) WithParams(params map[string]string) *Error {
	out := *e
	out.Params = make(map[string]string, len(e.Params)+len(params))
	maps.Copy(out.Params, e.Params)
	maps.Copy(out.Params, params)
	return &out
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// ParamsOf returns the template params of the first *Error in err's chain.
func ParamsOf(err error) map[string]string {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Params
	}
	return nil
}
