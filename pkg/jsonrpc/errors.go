package jsonrpc

import (
	"fmt"

	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// Error is the JSON-RPC error object, keyed by the shared a2a.ErrorCode
// space (reserved -32700..-32603 plus the server's domain codes).
type Error struct {
	Code    a2a.ErrorCode `json:"code"`
	Message string        `json:"message"`
	Data    any           `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewError builds an Error with the canonical message for code.
func NewError(code a2a.ErrorCode, data any) *Error {
	return &Error{Code: code, Message: code.Message(), Data: data}
}

// WithMessage returns a copy of e with Message replaced, leaving the
// shared package-level errors below untouched.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

var (
	ErrParseError     = NewError(a2a.ErrorCodeParseError, nil)
	ErrInvalidRequest = NewError(a2a.ErrorCodeInvalidRequest, nil)
	ErrMethodNotFound = NewError(a2a.ErrorCodeMethodNotFound, nil)
	ErrInvalidParams  = NewError(a2a.ErrorCodeInvalidParams, nil)
	ErrInternal       = NewError(a2a.ErrorCodeInternalError, nil)
)
