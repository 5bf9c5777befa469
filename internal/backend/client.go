package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jorge-barreto/quill/internal/outline"
)

const maxErrorBody = 4 * 1024

// Client is the HTTP implementation of Backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient returns a client for the service at baseURL. timeout bounds each
// request; zero means no bound beyond the caller's context.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func processPath(processID, suffix string) string {
	return "/api/process/" + url.PathEscape(processID) + suffix
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, "health", http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProcess(ctx context.Context, in CreateProcessInput) (*ProcessCreationResponse, error) {
	var out ProcessCreationResponse
	if err := c.do(ctx, "create process", http.MethodPost, "/api/process/start", in, &out); err != nil {
		return nil, err
	}
	if out.ProcessID == "" || out.InitialOutline == nil || out.InitialOutline.ID == "" {
		return nil, fmt.Errorf("create process: %w: missing process id or outline root", ErrMalformedResponse)
	}
	return &out, nil
}

func (c *Client) UpdateOutline(ctx context.Context, processID string, tree *outline.Node) (*OutlineUpdateResponse, error) {
	var out OutlineUpdateResponse
	req := OutlineUpdateRequest{Outline: tree}
	if err := c.do(ctx, "update outline", http.MethodPost, processPath(processID, "/outline"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StartRetrieval(ctx context.Context, processID string, opts RetrievalOptions) (*RetrievalStartResponse, error) {
	var out RetrievalStartResponse
	if err := c.do(ctx, "start retrieval", http.MethodPost, processPath(processID, "/retrieval/start"), opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRetrievalStatus(ctx context.Context, processID string) (*RetrievalStatusResponse, error) {
	var out RetrievalStatusResponse
	if err := c.do(ctx, "retrieval status", http.MethodGet, processPath(processID, "/retrieval/status"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StartComposition(ctx context.Context, processID string) (*CompositionStartResponse, error) {
	var out CompositionStartResponse
	if err := c.do(ctx, "start composition", http.MethodPost, processPath(processID, "/compose/start"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetArticle(ctx context.Context, processID string) (*ArticleResponse, error) {
	var out ArticleResponse
	if err := c.do(ctx, "get article", http.MethodGet, processPath(processID, "/article"), nil, &out); err != nil {
		return nil, err
	}
	if out.CompositionStatus == "" {
		return nil, fmt.Errorf("get article: %w: missing composition_status", ErrMalformedResponse)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	c.log.Debug("request", zap.String("op", op), zap.String("method", method), zap.String("path", path))
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("op", op), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	c.log.Debug("response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Op: op, StatusCode: resp.StatusCode, Detail: errorDetail(data)}
		c.log.Warn("backend error", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.String("detail", apiErr.Detail))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	return nil
}

// errorDetail extracts the message from a {"detail": ...} body. Structured
// validation details are returned as compact JSON.
func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		return string(payload.Detail)
	}
	return strings.TrimSpace(string(body))
}
