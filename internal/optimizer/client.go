package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
	"github.com/michaelkatsweb/Heronix-Application-sub012/pkg/config"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

// Client is the protocol facade over the external constraint-solving engine.
// It holds no mutable state and is safe to share across concurrent pipelines.
type Client struct {
	baseURL       string
	client        *http.Client
	healthTimeout time.Duration
	logger        *zap.Logger
}

// NewClient constructs a Client with sane defaults.
func NewClient(cfg config.OptimizerConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	healthTimeout := cfg.HealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = 2 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		client:        &http.Client{Timeout: timeout},
		healthTimeout: healthTimeout,
		logger:        logger,
	}
}

// HealthCheck probes the optimizer. It never returns an error: any
// connectivity failure reads as unhealthy. The probe is bounded by its own
// short timeout so availability checks stay responsive when the engine is
// unreachable.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("optimizer health probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close() //nolint:errcheck
	return resp.StatusCode == http.StatusOK
}

// Export pushes the problem snapshot. Transport failures surface as
// OPTIMIZER_UNAVAILABLE, malformed payloads as OPTIMIZER_REJECTED; a
// business-level rejection comes back as success=false with a message.
func (c *Client) Export(ctx context.Context, payload dto.ExportPayload) (*dto.ExportResult, error) {
	var result dto.ExportResult
	if err := c.postJSON(ctx, "/api/export", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RequestGeneration submits an asynchronous generation job and returns its
// opaque identifier. Parameters are validated locally before any network
// call.
func (c *Client) RequestGeneration(ctx context.Context, req dto.GenerationJobRequest) (string, error) {
	if req.OptimizationTimeSeconds <= 0 {
		return "", appErrors.Clone(appErrors.ErrOptimizerRejected, "optimizationTimeSeconds must be positive")
	}
	if !req.OptimizationMode.Valid() {
		return "", appErrors.Clone(appErrors.ErrOptimizerRejected, fmt.Sprintf("unknown optimization mode %q", req.OptimizationMode))
	}

	var result struct {
		JobID string `json:"jobId"`
	}
	if err := c.postJSON(ctx, "/api/generate", req, &result); err != nil {
		return "", err
	}
	if result.JobID == "" {
		return "", appErrors.Clone(appErrors.ErrOptimizerRejected, "optimizer returned no job id")
	}
	return result.JobID, nil
}

// JobStatus fetches the latest known status for a job. It never blocks
// waiting for a state change; an unknown or expired jobId maps to
// UNKNOWN_JOB.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*dto.JobStatus, error) {
	var status dto.JobStatus
	if err := c.getJSON(ctx, "/api/status/"+jobID, jobID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Result fetches the solved timetable for a completed job.
func (c *Client) Result(ctx context.Context, jobID string) (*dto.OptimizerResult, error) {
	var result dto.OptimizerResult
	if err := c.getJSON(ctx, "/api/result/"+jobID, jobID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode optimizer payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build optimizer request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, "", dest)
}

func (c *Client) getJSON(ctx context.Context, path, jobID string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build optimizer request")
	}
	return c.do(req, jobID, dest)
}

func (c *Client) do(req *http.Request, jobID string, dest interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrOptimizerUnavailable.Code, appErrors.ErrOptimizerUnavailable.Status, "optimizer is unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound && jobID != "":
		return appErrors.Clone(appErrors.ErrUnknownJob, fmt.Sprintf("job %s is unknown to the optimizer", jobID))
	case resp.StatusCode >= http.StatusInternalServerError:
		return appErrors.Clone(appErrors.ErrOptimizerUnavailable, fmt.Sprintf("optimizer returned status %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		return appErrors.Clone(appErrors.ErrOptimizerRejected, remoteMessage(resp.Body, resp.StatusCode))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrOptimizerUnavailable.Code, appErrors.ErrOptimizerUnavailable.Status, "decode optimizer response")
	}
	return nil
}

func remoteMessage(body io.Reader, statusCode int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("optimizer rejected the request with status %d", statusCode)
}
