package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals malformed search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrDocumentNotFound signals an index hit with no catalog record behind it.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrIndexUnavailable signals a failed batched call to the search index.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrSubjectsUnavailable signals that the subject set could not be loaded.
	ErrSubjectsUnavailable = errors.New("subjects unavailable")
)
