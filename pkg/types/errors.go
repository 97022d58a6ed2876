package types

import "errors"

// Domain errors for document handling and spec validation
var (
	// Source errors
	ErrSourceNotFound = errors.New("source document not found")
	ErrEmptySource    = errors.New("source document is empty")

	// Boundary errors
	ErrSectionNotFound   = errors.New("section start marker not found")
	ErrNoResourcesMarker = errors.New("document has no Resources: marker")
	ErrInvalidSpan       = errors.New("span start must be >= 0 and <= end")

	// Spec errors
	ErrEmptyName        = errors.New("section name cannot be empty")
	ErrInvalidName      = errors.New("section name must contain only letters, digits, '.', '_' or '-'")
	ErrEmptyStartMarker = errors.New("section start marker cannot be empty")
	ErrDuplicateOutput  = errors.New("two sections map to the same output file")
)
