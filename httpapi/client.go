package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sitesmith/sitesmith"
)

// Interface compliance check.
var _ sitesmith.Service = (*Client)(nil)

// StatusError is a non-2xx response received before streaming began. The
// pipeline stays unchanged when it occurs; Message carries the server's
// structured error payload when one was present.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("httpapi: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("httpapi: HTTP %d", e.StatusCode)
}

// Client implements [sitesmith.Service] over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client. Callers wanting a per-request
// idle timeout configure it here; the protocol has no heartbeat guarantee.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate opens the streamed generation call and returns a
// [sitesmith.EventStream] of decoded records. A non-2xx status before
// streaming begins returns a [*StatusError].
func (c *Client) Generate(ctx context.Context, req sitesmith.GenerateRequest) (sitesmith.EventStream, error) {
	body, err := json.Marshal(apiGenerateRequest{
		Description: req.Description,
		Template:    req.Template,
		ThreadID:    req.ThreadID,
		Messages:    convertMessages(req.Messages),
	})
	if err != nil {
		return nil, fmt.Errorf("httpapi: %w", err)
	}

	requestID := uuid.NewString()
	resp, err := c.post(ctx, generatePath, requestID, body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	logger := c.logger.With(zap.String("request_id", requestID))
	logger.Debug("generation stream opened", zap.String("thread_id", req.ThreadID))
	return newStream(resp.Body, logger), nil
}

// Update posts one edit instruction and returns the proposed change.
func (c *Client) Update(ctx context.Context, req sitesmith.UpdateRequest) (sitesmith.UpdateResult, error) {
	body, err := json.Marshal(apiUpdateRequest{
		Pages:       req.Pages,
		GlobalCSS:   req.GlobalCSS,
		EditRequest: req.EditRequest,
		FolderPath:  req.FolderPath,
	})
	if err != nil {
		return sitesmith.UpdateResult{}, fmt.Errorf("httpapi: %w", err)
	}

	resp, err := c.post(ctx, updatePath, uuid.NewString(), body)
	if err != nil {
		return sitesmith.UpdateResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return sitesmith.UpdateResult{}, parseHTTPError(resp)
	}

	var out apiUpdateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return sitesmith.UpdateResult{}, fmt.Errorf("httpapi: decode update response: %w", err)
	}
	return sitesmith.UpdateResult{
		UpdatedPages:     out.UpdatedPages,
		UpdatedGlobalCSS: out.UpdatedGlobalCSS,
		ChangesSummary:   out.ChangesSummary,
	}, nil
}

func (c *Client) post(ctx context.Context, path, requestID string, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpapi: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("httpapi: %w", err)
	}
	return resp, nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error == "" {
		return &StatusError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
}
