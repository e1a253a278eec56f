package ledger

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey is returned when an insert violates the primary key.
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrInvalidData is returned when a row does not meet the model rules.
	ErrInvalidData = errors.New("invalid data")
)

// TranslateError maps gorm errors onto the package sentinels, keeping
// the original error in the chain. Unknown errors are returned unchanged.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrInvalidData):
		return errors.Join(ErrInvalidData, err)
	}
	return err
}
