package articles

import "errors"

var (
	// ErrInputData marks a payload that is structurally valid but violates a
	// field-level or cross-field rule (empty field, author/affiliation mismatch,
	// created after modified).
	ErrInputData = errors.New("input data error")

	// ErrInvalidDateFormat marks a date string that is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

const (
	msgEmptyField         = "At least one mandatory field is empty."
	msgAuthorsMismatch    = "Number of authors and affiliations do not match."
	msgCreatedAfterModify = "Created date is newer than modified date."
	msgInvalidDate        = "Date must be in YYYY-MM-DD format."
)

// ValidationError carries the client-facing message of a rejected payload
// together with its kind (ErrInputData or ErrInvalidDateFormat).
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Kind }

func inputError(msg string) error {
	return &ValidationError{Kind: ErrInputData, Message: msg}
}

func dateError() error {
	return &ValidationError{Kind: ErrInvalidDateFormat, Message: msgInvalidDate}
}
