package analysis

import "errors"

var (
	// ErrStoreRequired is returned when a record store is not provided.
	ErrStoreRequired = errors.New("record store required")

	// ErrFinderRequired is returned when a related-opinion finder is not provided.
	ErrFinderRequired = errors.New("related opinion finder required")

	// ErrClassifierRequired is returned when a classifier is not provided.
	ErrClassifierRequired = errors.New("classifier required")
)
