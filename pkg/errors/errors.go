// Package errors defines the closed error taxonomy shared by the attribution
// pipeline and the sync store. Every failure a handler can see is one of these
// kinds, so callers branch on Kind instead of matching message strings.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
)

// Kind identifies the failure class.
type Kind string

const (
	// KindLinkage - the CRM data is missing a required link (no person on the
	// deal, no primary email on the person). A user-data problem, not transient.
	KindLinkage Kind = "linkage"
	// KindNotFound - no remote contact, no tracking history, or no qualifying
	// page-visit event; also a sync record that does not exist yet.
	KindNotFound Kind = "not_found"
	// KindInvalidKey - a contact identifier that normalizes to an empty key.
	KindInvalidKey Kind = "invalid_key"
	// KindUpstream - a non-2xx response from a vendor API, carrying the
	// vendor's own message.
	KindUpstream Kind = "upstream"
)

// Error is a classified bridge error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewLinkage(format string, args ...any) *Error {
	return &Error{Kind: KindLinkage, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidKey(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidKey, Message: fmt.Sprintf(format, args...)}
}

func NewUpstream(format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf(format, args...)}
}

// GetKind returns the Kind of err, or "" if err is not a bridge error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a bridge error of the given kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// ToHTTPError maps a bridge error onto the HTTP boundary.
func (e *Error) ToHTTPError() *httperror.HTTPError {
	status := http.StatusInternalServerError
	switch e.Kind {
	case KindInvalidKey:
		status = http.StatusBadRequest
	case KindNotFound:
		status = http.StatusNotFound
	case KindLinkage:
		status = http.StatusUnprocessableEntity
	case KindUpstream:
		status = http.StatusBadGateway
	}
	return httperror.NewHTTPError(status, e.Message).AddMetaValue("kind", string(e.Kind))
}

// IsBridgeError reports whether err belongs to the taxonomy.
func IsBridgeError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// ToBridgeError returns err as *Error when it belongs to the taxonomy.
func ToBridgeError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
