package domain

import "errors"

var (
	// ErrInvalidRequest signals malformed search or ingest parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingUnavailable signals that the query embedding could not be obtained.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrNotFound signals a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
