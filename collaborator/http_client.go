package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hotgigs/automation/action"
	"github.com/hotgigs/automation/autoapply"
	"github.com/hotgigs/automation/logger"
	"go.uber.org/zap"
)

const (
	ANALYZE_PATH       = "/analyze"
	SCREEN_PATH        = "/screen"
	COMPATIBILITY_PATH = "/compatibility"

	DEFAULT_TIMEOUT        = 10 * time.Second
	DEFAULT_RETRY_INTERVAL = 200 * time.Millisecond
)

var _ action.Analyzer = new(HTTPClient)
var _ action.Screener = new(HTTPClient)
var _ autoapply.CompatibilityScorer = new(HTTPClient)

// HTTPClient talks JSON to the AI service. Transport errors and 5xx responses are retried;
// other non-2xx responses fail at once.
type HTTPClient struct {
	url           string
	client        *http.Client
	retries       uint64
	retryInterval time.Duration
}

type ClientOption func(*HTTPClient)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

func WithRetryInterval(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryInterval = d
	}
}

func NewHTTPClient(url string, retries int, opts ...ClientOption) *HTTPClient {
	if retries < 0 {
		retries = 0
	}
	c := &HTTPClient{
		url:           strings.TrimRight(url, "/"),
		client:        &http.Client{Timeout: DEFAULT_TIMEOUT},
		retries:       uint64(retries),
		retryInterval: DEFAULT_RETRY_INTERVAL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type analyzeRequest struct {
	AnalysisType string         `json:"analysis_type"`
	Data         map[string]any `json:"data"`
}

func (c *HTTPClient) Analyze(ctx context.Context, analysisType string, data map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, ANALYZE_PATH, analyzeRequest{AnalysisType: analysisType, Data: data}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

type screenRequest struct {
	CandidateId string         `json:"candidate_id"`
	JobId       string         `json:"job_id"`
	Criteria    map[string]any `json:"criteria"`
}

func (c *HTTPClient) Score(ctx context.Context, candidateId string, jobId string, criteria map[string]any) (action.ScreeningResult, error) {
	var out action.ScreeningResult
	err := c.post(ctx, SCREEN_PATH, screenRequest{CandidateId: candidateId, JobId: jobId, Criteria: criteria}, &out)
	return out, err
}

type compatibilityRequest struct {
	Profile autoapply.CandidateProfile `json:"profile"`
	Job     autoapply.JobDescription   `json:"job"`
}

func (c *HTTPClient) ScoreCompatibility(ctx context.Context, profile autoapply.CandidateProfile, job autoapply.JobDescription) (autoapply.Compatibility, error) {
	var out autoapply.Compatibility
	err := c.post(ctx, COMPATIBILITY_PATH, compatibilityRequest{Profile: profile, Job: job}, &out)
	return out, err
}

func (c *HTTPClient) post(ctx context.Context, path string, body any, out any) error {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	attempt := 0
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryInterval), c.retries), ctx)
	return backoff.Retry(func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewReader(requestBody))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			logger.Warn("ai service request failed", zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
			return fmt.Errorf("failed to make request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			logger.Warn("ai service unavailable", zap.String("path", path), zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))
			return fmt.Errorf("ai service %s: status code %d", path, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("ai service %s: status code %d", path, resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response body: %w", err))
		}
		return nil
	}, b)
}
