// Package scoring is the HTTP client for the fraud-scoring service. It is the
// gateway's only external collaborator; everything the service can tell us
// comes back through Analyze or Health.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrTransport marks failures where the service never produced a usable
// response: connection refused, DNS failure, timeout, or an unparseable body.
// Callers distinguish these from ServiceError with errors.Is / errors.As.
var ErrTransport = errors.New("scoring service transport failure")

// ServiceError means the service was reached and reported a failure itself.
type ServiceError struct {
	StatusCode int
	Message    string // from the response's "error" field, may be empty
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("scoring service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("scoring service returned status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the scoring service.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the service at baseURL. Every request is
// bounded by timeout in addition to whatever deadline the caller's context
// carries.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Analyze submits one address for scoring via POST /api/analyze.
func (c *Client) Analyze(ctx context.Context, addr string) (*Result, error) {
	body, err := json.Marshal(map[string]string{"address": addr})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &errResp) // body may not be JSON at all
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrTransport, err)
	}

	c.logger.Debug("address analyzed",
		"address", addr,
		"verdict", result.Verdict,
		"confidence", result.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &result, nil
}

// Health probes the service's root endpoint. A nil return means the service
// is up and answering.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode != http.StatusOK {
		return &ServiceError{StatusCode: resp.StatusCode}
	}
	return nil
}
