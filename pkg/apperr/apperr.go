// Package apperr defines the error taxonomy shared by services and the HTTP
// surface. Every user-visible failure is a single message plus a Kind; the
// Kind decides the HTTP status.
//
//	if errors.Is(err, apperr.ErrDuplicateEmail) { ... }
//	status := apperr.Status(err)
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindDatabase Kind = iota
	KindValidation
	KindDuplicateEmail
	KindEmptyCart
	KindInvalidLineItem
	KindInvalidCredentials
	KindUnauthenticated
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindEmptyCart:
		return "empty_cart"
	case KindInvalidLineItem:
		return "invalid_line_item"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	default:
		return "database_error"
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on Kind so callers can compare against the sentinels below
// regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "Invalid input."}
	ErrDuplicateEmail     = &Error{Kind: KindDuplicateEmail, Message: "E-mail already exists."}
	ErrEmptyCart          = &Error{Kind: KindEmptyCart, Message: "Cart is empty."}
	ErrInvalidLineItem    = &Error{Kind: KindInvalidLineItem, Message: "Invalid order line."}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Email or password is incorrect."}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "Not logged in."}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "Not found."}
	ErrDatabase           = &Error{Kind: KindDatabase, Message: "Database error."}
)

// Validation returns a ValidationError carrying msg.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// InvalidLineItem returns an InvalidLineItem error carrying msg.
func InvalidLineItem(msg string) error {
	return &Error{Kind: KindInvalidLineItem, Message: msg}
}

// NotFound returns a NotFound error carrying msg.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Database wraps an infrastructure failure. The cause is kept for logging;
// clients only ever see the generic message.
func Database(cause error) error {
	return &Error{Kind: KindDatabase, Message: ErrDatabase.Message, cause: cause}
}

// As extracts the *Error from err. Unclassified errors come back as a
// DatabaseError wrapping err.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindDatabase, Message: ErrDatabase.Message, cause: err}
}

// IsClassified reports whether err already carries a Kind.
func IsClassified(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch As(err).Kind {
	case KindValidation, KindDuplicateEmail, KindEmptyCart, KindInvalidLineItem:
		return http.StatusBadRequest
	case KindInvalidCredentials, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to show a client.
func PublicMessage(err error) string {
	e := As(err)
	if e.Kind == KindDatabase {
		return ErrDatabase.Message
	}
	return e.Message
}
