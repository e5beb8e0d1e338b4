package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals a malformed or empty request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIndexUnavailable signals that the vector index storage cannot be reached.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrLLMProvider signals a chat completion provider failure.
	ErrLLMProvider = errors.New("llm provider error")
	// ErrIntentUnrecognized signals that the classifier produced an unknown label.
	ErrIntentUnrecognized = errors.New("unrecognized intent label")
)
