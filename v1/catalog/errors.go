package catalog

import (
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/scholar-index/v1/articles"
)

var (
	ErrCollectionAlreadyExists = errors.New("collection already exists")
	ErrCollectionDoesNotExist  = errors.New("collection does not exist")
	ErrDocumentDoesNotExist    = errors.New("document does not exist")

	// ErrInvalidRequest marks a structurally invalid request: out of range
	// sizes, wrong vector length, unsupported filter value types.
	ErrInvalidRequest = errors.New("invalid request")

	// Payload rule violations, shared with the articles validator.
	ErrInputData         = articles.ErrInputData
	ErrInvalidDateFormat = articles.ErrInvalidDateFormat
)

// Error is a domain failure with the message shown to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func collectionExists(name string) error {
	return newError(ErrCollectionAlreadyExists, "Collection with name %s already exists.", name)
}

func collectionMissing(name string) error {
	return newError(ErrCollectionDoesNotExist, "Collection '%s' not found.", name)
}

func documentMissing(documentID string) error {
	return newError(ErrDocumentDoesNotExist, "Item with document id '%s' not found.", documentID)
}

// Kind names the category of err, for logs, metrics and response bodies.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCollectionAlreadyExists):
		return "collection_already_exists"
	case errors.Is(err, ErrCollectionDoesNotExist):
		return "collection_does_not_exist"
	case errors.Is(err, ErrDocumentDoesNotExist):
		return "document_does_not_exist"
	case errors.Is(err, ErrInvalidDateFormat):
		return "invalid_date_format"
	case errors.Is(err, ErrInputData):
		return "input_data_error"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return "internal"
	}
}

// Message returns the client-facing text of a domain error, or "" when err
// is not one.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	var ve *articles.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return ""
}
