// Package clip talks to the CLIP embedding sidecar. The sidecar serves the
// OpenAI embeddings API shape, so the regular OpenAI client pointed at its
// base URL does the wire work; the input is the base64-encoded image.
package clip

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Provider produces a fixed-dimension normalized vector for an image, or no
// vector at all. A failed provider never takes matching down: callers treat
// any error as "image similarity unavailable for this report".
type Provider interface {
	Embed(ctx context.Context, imagePath string) ([]float32, error)
}

type Client struct {
	api   *openai.Client
	model string
	dim   int
}

// NewClient builds a provider against baseURL (e.g. http://localhost:8090/v1).
// Remote embedding is a blocking call, so the HTTP client carries a timeout.
func NewClient(baseURL, model string, dim int, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(os.Getenv("CLIP_API_KEY"))
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
		dim:   dim,
	}
}

func (c *Client) Embed(ctx context.Context, imagePath string) ([]float32, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", imagePath, err)
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{base64.StdEncoding.EncodeToString(data)},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embed image %s: %w", imagePath, err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embed image %s: empty embedding", imagePath)
	}
	embedding := resp.Data[0].Embedding
	if c.dim > 0 && len(embedding) != c.dim {
		return nil, fmt.Errorf("embed image %s: got %d dimensions, want %d", imagePath, len(embedding), c.dim)
	}

	return embedding, nil
}
