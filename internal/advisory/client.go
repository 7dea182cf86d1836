package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const maxResponseBytes = 1 << 20

// Advisor assesses a profile projection. Tests substitute a fake.
type Advisor interface {
	Assess(ctx context.Context, req Request) (*Result, error)
}

// AdvisorFunc adapts a function to Advisor.
type AdvisorFunc func(ctx context.Context, req Request) (*Result, error)

func (f AdvisorFunc) Assess(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}

// Client calls the advisory service over HTTP: POST the Request as JSON,
// receive a Result as JSON. No retries; callers decide when to ask again.
type Client struct {
	endpoint string
	http     *http.Client
	log      *slog.Logger
}

// NewClient returns a Client for endpoint. A zero timeout means none.
func NewClient(endpoint string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

func (c *Client) Assess(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("advisory: encoding request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("advisory: building request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("advisory: calling service: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("advisory response", "request_id", requestID, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("advisory: service returned %s", resp.Status)
	}

	var res Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&res); err != nil {
		return nil, fmt.Errorf("advisory: decoding response: %w", err)
	}
	if res.Flags == nil {
		res.Flags = []Flag{}
	}
	return &res, nil
}
