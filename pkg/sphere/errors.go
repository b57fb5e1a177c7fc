// Copyright (C) 2025 SkillSphere Learning (opensource@skillsphere.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sphere

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// -----------------------------------------------------------------------------
// Error Kinds
// -----------------------------------------------------------------------------

// ErrorKind categorizes API failures for programmatic handling.
//
// Every failed operation in this module resolves to exactly one kind so
// callers can branch on it (show "username taken" vs. "log in again")
// without string matching.
type ErrorKind int

const (
	// KindAuthRequired indicates a gated operation was attempted without a
	// valid session. No request is sent in this case.
	KindAuthRequired ErrorKind = iota

	// KindAuthError indicates a credential failure during login or token
	// validation (401).
	KindAuthError

	// KindConflict indicates a duplicate resource, e.g. a taken username (409).
	KindConflict

	// KindForbidden indicates the caller is authenticated but does not own
	// the entity, or the server rejected the action for policy reasons (403).
	KindForbidden

	// KindValidation indicates the payload failed client-side validation.
	// The request never left the process.
	KindValidation

	// KindNetwork indicates a transport failure or an unexpected server
	// response (5xx, malformed body, connection refused).
	KindNetwork
)

// String returns the kind as a stable identifier for logging.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthRequired:
		return "AUTH_REQUIRED"
	case KindAuthError:
		return "AUTH_ERROR"
	case KindConflict:
		return "CONFLICT"
	case KindForbidden:
		return "FORBIDDEN"
	case KindValidation:
		return "VALIDATION"
	case KindNetwork:
		return "NETWORK"
	default:
		return "UNKNOWN"
	}
}

// -----------------------------------------------------------------------------
// Error Type
// -----------------------------------------------------------------------------

// Error is the typed failure returned by every operation in this module.
type Error struct {
	// Kind categorizes the error for programmatic handling.
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// Detail carries the server's response body or transport detail.
	Detail string

	// Remediation suggests how the user can fix the issue.
	Remediation string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Unwrap enables errors.Is and errors.As through the chain.
func (e *Error) Unwrap() error { return e.Wrapped }

// FullError returns a detailed message including remediation, suitable for
// terminal display.
func (e *Error) FullError() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString("\n\nDetails: ")
		b.WriteString(e.Detail)
	}
	if e.Remediation != "" {
		b.WriteString("\n\nTo fix:\n")
		b.WriteString(e.Remediation)
	}
	return b.String()
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// KindOf returns the kind of err, or KindNetwork when err is not a *Error.
// A nil err panics; callers check for success first.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindNetwork
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

// ErrAuthRequired builds the error returned when an operation needs a
// session token and none is present.
func ErrAuthRequired(op string) *Error {
	return &Error{
		Kind:        KindAuthRequired,
		Message:     fmt.Sprintf("%s requires a signed-in session", op),
		Remediation: "Run `sphere login` and retry.",
	}
}

// ErrValidation builds a client-side validation failure.
func ErrValidation(detail string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "invalid input",
		Detail:  detail,
	}
}

// errFromStatus maps an HTTP status and response body to a typed error.
//
// The mapping follows the backend contract: 401 means bad or expired
// credentials, 403 means an ownership or policy violation, 409 means a
// duplicate resource. Everything else that is not 2xx is a network-class
// failure because the client cannot act on it more specifically.
func errFromStatus(status int, body string) *Error {
	body = strings.TrimSpace(body)
	switch status {
	case http.StatusUnauthorized:
		return &Error{
			Kind:        KindAuthError,
			Message:     "authentication failed",
			Detail:      body,
			Remediation: "Check your credentials, or run `sphere login` to start a new session.",
		}
	case http.StatusForbidden:
		return &Error{
			Kind:    KindForbidden,
			Message: "not allowed",
			Detail:  body,
		}
	case http.StatusConflict:
		return &Error{
			Kind:        KindConflict,
			Message:     "already exists",
			Detail:      body,
			Remediation: "Pick a different username.",
		}
	case http.StatusBadRequest:
		// The backend uses 400 for business rules like repeated votes.
		return &Error{
			Kind:    KindForbidden,
			Message: "rejected by server",
			Detail:  body,
		}
	default:
		return &Error{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("unexpected server response (%d)", status),
			Detail:  body,
		}
	}
}

// errTransport wraps a transport-level failure (DNS, refused connection,
// timeout) as a network error.
func errTransport(err error) *Error {
	return &Error{
		Kind:        KindNetwork,
		Message:     "could not reach the SkillSphere server",
		Wrapped:     err,
		Remediation: "Check the server URL in ~/.skillsphere/config.yaml and your connection.",
	}
}
