package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	service "github.com/okian/duet/internal/app"
	"github.com/okian/duet/internal/domain/model"
)

// Client submits rosters to a running pairing service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type pairingsRequest struct {
	Now      *int64            `json:"now,omitempty"`
	Expected *int              `json:"expected,omitempty"`
	Records  []model.RawRecord `json:"records"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Pair posts records to /v1/pairings.
func (c *Client) Pair(ctx context.Context, f File) (service.Outcome, error) {
	var out service.Outcome
	err := c.post(ctx, "/v1/pairings", pairingsRequest{Now: f.Now, Records: f.Records}, &out)
	return out, err
}

// Progress posts records to /v1/progress.
func (c *Client) Progress(ctx context.Context, f File, expected int) (service.Progress, error) {
	var out service.Progress
	err := c.post(ctx, "/v1/progress", pairingsRequest{Now: f.Now, Expected: &expected, Records: f.Records}, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path string, body, into any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrRemote, err)
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Code != "" {
			return fmt.Errorf("%w: %s %d %s: %s", ErrRemote, path, resp.StatusCode, e.Code, e.Message)
		}
		return fmt.Errorf("%w: %s %d", ErrRemote, path, resp.StatusCode)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrRemote, path, err)
	}
	return nil
}
