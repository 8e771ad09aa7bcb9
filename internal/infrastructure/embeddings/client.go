package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"pulse-server/services/advisor-api/internal/domain/knowledge"
)

// Client converts query text into the index's vector space via the embedding
// service. It implements knowledge.Embedder.
type Client struct {
	httpClient *resty.Client
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewClient creates a Resty-backed embeddings client.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(10 * time.Second),
	}
}

// EmbedQuery embeds one query string.
func (c *Client) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	var result embedResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(embedRequest{Text: query}).
		SetResult(&result).
		Post("/embed")
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("embeddings error (%d): %s", resp.StatusCode(), resp.String())
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("embeddings returned an empty vector")
	}
	return result.Embedding, nil
}

var _ knowledge.Embedder = (*Client)(nil)
