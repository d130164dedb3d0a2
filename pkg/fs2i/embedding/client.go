package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// Client calls an OpenAI-compatible /v1/embeddings endpoint with the whole
// batch in one request.
type Client struct {
	BaseURL string // full endpoint URL
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Embed implements Provider.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.BaseURL == "" || c.Model == "" {
		return nil, fmt.Errorf("embedding: base URL and model required")
	}
	payload, err := c.send(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("embedding: empty response")
	}

	if len(payload.Data) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d texts, got %d vectors", ErrLengthMismatch, len(texts), len(payload.Data))
	}

	sort.SliceStable(payload.Data, func(i, j int) bool {
		return payload.Data[i].Index < payload.Data[j].Index
	})
	out := make([][]float32, len(payload.Data))
	dim := len(payload.Data[0].Embedding)
	for i, d := range payload.Data {
		// After sorting, indices must be exactly 0..n-1.
		if d.Index != i {
			return nil, fmt.Errorf("embedding: response indices are not 0..%d (got %d at position %d)", len(texts)-1, d.Index, i)
		}
		if len(d.Embedding) == 0 || len(d.Embedding) != dim {
			return nil, fmt.Errorf("embedding: vector %d has dimension %d, want %d", i, len(d.Embedding), dim)
		}
		out[i] = d.Embedding
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, texts []string) (*embedResponse, error) {
	reqBody, err := json.Marshal(embedRequest{Model: c.Model, Input: texts})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("embedding: decode response (status %d): %w", resp.StatusCode, err)
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("embedding error: %s", payload.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding: unexpected status %d", resp.StatusCode)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}
