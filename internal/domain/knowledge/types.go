package knowledge

import (
	"context"
	"errors"
)

// Partition names a logical subdivision of the semantic index. Each partition
// isolates one content corpus from the others.
type Partition string

// Hit is one retrieved passage with enough metadata to be cited.
type Hit struct {
	Source     string  `json:"source"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}

// ErrBackendUnavailable is returned when the embedding service or the vector
// index cannot be reached. The message is fixed and must not leak internal
// endpoint details; callers use it to distinguish a backend outage from a
// legitimate zero-hit result.
var ErrBackendUnavailable = errors.New("knowledge backend unavailable")

// Embedder converts free text into the index's vector space.
type Embedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float64, error)
}

// Index issues a similarity search scoped to exactly one named partition.
type Index interface {
	Query(ctx context.Context, partition Partition, vector []float64, topK int) ([]Hit, error)
}
