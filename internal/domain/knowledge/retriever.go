package knowledge

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultTopK is the number of passages returned when the caller does not ask
// for a specific count. Tunable, not a hard contract.
const DefaultTopK = 3

// Retriever converts a free text query into a ranked set of passages from the
// semantic index, scoped by a named partition.
type Retriever struct {
	embedder Embedder
	index    Index
	topK     int
	log      zerolog.Logger
}

// NewRetriever wires the retriever against the embedding and index clients.
func NewRetriever(embedder Embedder, index Index, topK int, log zerolog.Logger) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
		log:      log.With().Str("component", "knowledge-retriever").Logger(),
	}
}

// Retrieve embeds the query and runs a similarity search against one
// partition. Hits come back in descending similarity order with ties broken by
// ascending source label so results are stable across runs. A backend outage
// surfaces as ErrBackendUnavailable, never as a silent empty result.
func (r *Retriever) Retrieve(ctx context.Context, query string, partition Partition) ([]Hit, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		r.log.Error().Err(err).Str("partition", string(partition)).Msg("embed query")
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	hits, err := r.index.Query(ctx, partition, vector, r.topK)
	if err != nil {
		r.log.Error().Err(err).Str("partition", string(partition)).Msg("similarity query")
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Source < hits[j].Source
	})

	return hits, nil
}

// RenderHits formats retrieved passages as one citable line per hit, the shape
// the reasoning loop hands to the model.
func RenderHits(hits []Hit) string {
	lines := make([]string, 0, len(hits))
	for _, hit := range hits {
		lines = append(lines, fmt.Sprintf(
			"Source: %s, Text: %s, Similarity: %g",
			hit.Source, hit.Text, hit.Similarity,
		))
	}
	return strings.Join(lines, "\n")
}
