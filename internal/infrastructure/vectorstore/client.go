package vectorstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"pulse-server/services/advisor-api/internal/domain/knowledge"
	"pulse-server/services/advisor-api/internal/infrastructure/metrics"
)

// Client issues partition-scoped similarity queries against the vector index
// service. It implements knowledge.Index.
type Client struct {
	httpClient *resty.Client
}

type queryRequest struct {
	Partition string    `json:"partition"`
	Vector    []float64 `json:"vector"`
	TopK      int       `json:"top_k"`
}

type queryMatch struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

// NewClient creates a Resty-backed vector index client.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetTimeout(10 * time.Second),
	}
}

// Query runs a similarity search against one partition.
func (c *Client) Query(ctx context.Context, partition knowledge.Partition, vector []float64, topK int) ([]knowledge.Hit, error) {
	var result queryResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(queryRequest{Partition: string(partition), Vector: vector, TopK: topK}).
		SetResult(&result).
		Post("/query")
	if err != nil {
		metrics.RetrievalsTotal.WithLabelValues(string(partition), "error").Inc()
		return nil, fmt.Errorf("vector index query failed: %w", err)
	}
	if resp.IsError() {
		metrics.RetrievalsTotal.WithLabelValues(string(partition), "error").Inc()
		return nil, fmt.Errorf("vector index query error (%d): %s", resp.StatusCode(), resp.String())
	}

	metrics.RetrievalsTotal.WithLabelValues(string(partition), "ok").Inc()
	hits := make([]knowledge.Hit, 0, len(result.Matches))
	for _, match := range result.Matches {
		hits = append(hits, knowledge.Hit{
			Source:     match.Source,
			Text:       match.Text,
			Similarity: match.Score,
		})
	}
	return hits, nil
}

var _ knowledge.Index = (*Client)(nil)
