package domain

import "context"

// KeyPrefix namespaces every Redis key owned by this service.
const KeyPrefix = "unisearch:"

// VectorDimensions is the fixed embedding vector length.
const VectorDimensions = 384

// EmbeddingResult is a computed embedding with provider token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by embedders that can verify provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
