// Package errors classifies the failures of a livebox run.
//
// Every failure carries a Code. Callers branch on the code with the
// package sentinels:
//
//	if errors.Is(err, errors.ErrAuth) {
//	    // the router answered and refused
//	}
package errors

import (
	"context"
	stderrors "errors"
	"net"
	"strings"
)

// Code is the category of a failure.
type Code int

const (
	CodeInternal Code = iota
	CodeConfig
	CodeValidation
	// CodeNetwork: no response was received (timeout, refused, cancelled).
	CodeNetwork
	// CodeAuth: the router answered with an HTTP error status.
	CodeAuth
	// CodeProtocol: the response could not be understood.
	CodeProtocol
	CodeCredentials
)

var codeNames = map[Code]string{
	CodeInternal:    "internal error",
	CodeConfig:      "configuration error",
	CodeValidation:  "validation error",
	CodeNetwork:     "network error",
	CodeAuth:        "invalid or denied",
	CodeProtocol:    "unexpected response",
	CodeCredentials: "invalid credentials",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown error"
}

// Sentinels for errors.Is. Only the code is compared.
var (
	ErrConfig      = &Error{Code: CodeConfig}
	ErrValidation  = &Error{Code: CodeValidation}
	ErrNetwork     = &Error{Code: CodeNetwork}
	ErrAuth        = &Error{Code: CodeAuth}
	ErrProtocol    = &Error{Code: CodeProtocol}
	ErrCredentials = &Error{Code: CodeCredentials}
)

// Error is a classified failure.
type Error struct {
	Code Code
	// Op names the router call that failed, e.g. "NMC.getWANStatus".
	Op      string
	Message string
	Cause   error
}

// Error renders "op: message: cause", leaving out empty parts. Without a
// message the code name is used.
func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	} else {
		parts = append(parts, e.Code.String())
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Timeout reports whether a network failure was caused by a deadline.
func (e *Error) Timeout() bool {
	if e.Code != CodeNetwork || e.Cause == nil {
		return false
	}
	if stderrors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(e.Cause, &netErr) && netErr.Timeout()
}

// WithOp returns a copy of e attributed to op.
func (e *Error) WithOp(op string) *Error {
	c := *e
	c.Op = op
	return &c
}

func newError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func NewConfigError(message string, cause error) *Error {
	return newError(CodeConfig, message, cause)
}

func NewValidationError(message string, cause error) *Error {
	return newError(CodeValidation, message, cause)
}

// NewNetworkError is for a request that never got a response.
func NewNetworkError(message string, cause error) *Error {
	return newError(CodeNetwork, message, cause)
}

// NewAuthError is for a request the router refused.
func NewAuthError(message string, cause error) *Error {
	return newError(CodeAuth, message, cause)
}

func NewProtocolError(message string, cause error) *Error {
	return newError(CodeProtocol, message, cause)
}

func NewCredentialsError(message string, cause error) *Error {
	return newError(CodeCredentials, message, cause)
}

func NewInternalError(message string, cause error) *Error {
	return newError(CodeInternal, message, cause)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
