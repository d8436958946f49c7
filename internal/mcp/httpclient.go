package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/fitlife/internal/models"
)

// HTTPClient implements DataSource by calling the FitLife REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// history lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, userID int, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-User-ID", strconv.Itoa(userID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func limitParams(limit int) url.Values {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

// ListSessions fetches completed sessions from /api/v1/history/sessions.
func (c *HTTPClient) ListSessions(ctx context.Context, userID, limit int) ([]models.SessionRecord, error) {
	body, err := c.get(ctx, "/api/v1/history/sessions", userID, limitParams(limit))
	if err != nil {
		return nil, err
	}
	var out []models.SessionRecord
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return out, nil
}

// ListCardio fetches stopped cardio activities from /api/v1/history/cardio.
func (c *HTTPClient) ListCardio(ctx context.Context, userID, limit int) ([]models.CardioRecord, error) {
	body, err := c.get(ctx, "/api/v1/history/cardio", userID, limitParams(limit))
	if err != nil {
		return nil, err
	}
	var out []models.CardioRecord
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("httpclient: decode cardio: %w", err)
	}
	return out, nil
}
