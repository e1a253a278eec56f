package catalog

import "unicode/utf8"

const (
	MaxCollectionNameLength = 64
	MaxVectorSize           = 1024
)

// ValidateCollectionName checks that name has 1 to 64 characters.
func ValidateCollectionName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > MaxCollectionNameLength {
		return newError(ErrInvalidRequest, "Collection name must be between 1 and %d characters.", MaxCollectionNameLength)
	}
	return nil
}

// ValidateVectorSize checks 1 <= size <= 1024.
func ValidateVectorSize(size int) error {
	if size < 1 || size > MaxVectorSize {
		return newError(ErrInvalidRequest, "Vector size must be between 1 and %d.", MaxVectorSize)
	}
	return nil
}

// ValidateVector checks the length of a vector sent by a client.
func ValidateVector(vector []float32) error {
	if len(vector) < 1 || len(vector) > MaxVectorSize {
		return newError(ErrInvalidRequest, "Vector must have between 1 and %d elements.", MaxVectorSize)
	}
	return nil
}

func checkDimension(vector []float32, dim int) error {
	if len(vector) != dim {
		return newError(ErrInvalidRequest, "Vector has %d elements, collection expects %d.", len(vector), dim)
	}
	return nil
}
