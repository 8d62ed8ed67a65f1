package categorizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxErrorBody = 512

// Categorizer assigns ranked categories to questions.
type Categorizer interface {
	Categorize(ctx context.Context, questions []Question, categories []Category) ([]Result, error)
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("categorize: unexpected status %s", e.Status)
	}
	return fmt.Sprintf("categorize: unexpected status %s: %s", e.Status, e.Body)
}

type categorizeRequest struct {
	Questions  []Question `json:"questions"`
	Categories []Category `json:"categories"`
}

// Client calls the remote categorization endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   zerolog.Logger
}

// NewClient builds a client for the configured endpoint.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	cfg.ApplyDefaults()
	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout()},
		logger:   logger.With().Str("component", "client").Logger(),
	}
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Categorize sends every question and category in one request and returns the decoded results.
// The response is not reconciled against the request.
func (c *Client) Categorize(ctx context.Context, questions []Question, categories []Category) ([]Result, error) {
	if questions == nil {
		questions = []Question{}
	}
	if categories == nil {
		categories = []Category{}
	}
	body, err := json.Marshal(categorizeRequest{Questions: questions, Categories: categories})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With().Str("request_id", requestID).Logger()
	log.Debug().
		Int("questions", len(questions)).
		Int("categories", len(categories)).
		Str("endpoint", c.endpoint).
		Msg("sending categorization request")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("categorize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn().Int("status", resp.StatusCode).Msg("categorization endpoint returned an error")
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, errors.New("decode response: empty body")
	}
	var results []Result
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if results == nil {
		results = []Result{}
	}
	log.Debug().
		Int("results", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("categorization response received")
	return results, nil
}
