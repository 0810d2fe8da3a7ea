// Package sentry is a thin client for the Sentry REST API (/api/0).
//
// Every exported fetch issues exactly one GET. Single resources decode to a
// payload.Object; listings are normalized to []payload.Object regardless of
// whether Sentry answered with a bare array or a {"data": [...]} envelope.
package sentry

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/go-querystring/query"

	"github.com/rpggio/sentry-mcp/internal/payload"
)

// DefaultHost is the SaaS Sentry installation.
const DefaultHost = "https://sentry.io"

const defaultTimeout = 30 * time.Second

// Config holds the connection settings. It is not modified after New.
type Config struct {
	APIToken     string
	Organization string
	Host         string
	HTTPClient   *http.Client
	Logger       *slog.Logger
}

// Client talks to one Sentry organization.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client. Host defaults to DefaultHost.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIToken) == "" || strings.TrimSpace(cfg.Organization) == "" {
		return nil, ErrMissingConfig
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	cfg.Host = strings.TrimRight(cfg.Host, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		cfg:     cfg,
		baseURL: cfg.Host + "/api/0",
		http:    httpClient,
		logger:  logger,
	}, nil
}

// Organization returns the organization slug used in project paths.
func (c *Client) Organization() string {
	return c.cfg.Organization
}

// BaseURL returns the API root, e.g. https://sentry.io/api/0.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) projectPath(slug, suffix string) string {
	return "/projects/" + url.PathEscape(c.cfg.Organization) + "/" + url.PathEscape(slug) + "/" + suffix
}

func issuePath(issueID, suffix string) string {
	return "/issues/" + url.PathEscape(issueID) + "/" + suffix
}

// get performs the request and returns the validated JSON body.
func (c *Client) get(ctx context.Context, endpoint string, params any) ([]byte, string, error) {
	u := c.baseURL + endpoint
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return nil, u, errors.Wrap(err, "encode query")
		}
		if len(values) > 0 {
			u += "?" + values.Encode()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, u, &TransportError{URL: u, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID := RequestID(ctx)
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("sentry request failed", "url", u, "request_id", requestID, "error", err)
		return nil, u, &TransportError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("sentry response read failed", "url", u, "request_id", requestID, "error", err)
		return nil, u, &TransportError{URL: u, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, URL: u, Body: truncate(string(body), 512)}
		switch resp.StatusCode {
		case http.StatusNotFound:
			c.logger.Error("resource not found; the project may not exist in this organization or the organization is wrong",
				"url", u, "organization", c.cfg.Organization, "request_id", requestID)
		case http.StatusBadRequest:
			c.logger.Error("bad request; parameters may be invalid or the project may not exist in this organization",
				"url", u, "organization", c.cfg.Organization, "request_id", requestID)
		default:
			c.logger.Error("sentry http error", "status", resp.StatusCode, "url", u, "request_id", requestID)
		}
		return nil, u, statusErr
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, u, &ParseError{URL: u, Reason: "empty body"}
	}
	if !jx.Valid(body) {
		c.logger.Error("sentry response is not valid JSON", "url", u, "request_id", requestID)
		return nil, u, &ParseError{URL: u, Reason: "invalid JSON"}
	}
	if jx.DecodeBytes(body).Next() == jx.Null {
		c.logger.Warn("sentry returned null body", "url", u, "request_id", requestID)
		return nil, u, &ParseError{URL: u, Reason: "null body"}
	}

	c.logger.Debug("sentry response", "url", u, "status", resp.StatusCode, "request_id", requestID, "body", truncate(string(body), 200))
	return body, u, nil
}

// getObject fetches a single JSON object.
func (c *Client) getObject(ctx context.Context, endpoint string, params any) (payload.Object, error) {
	body, u, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	if jx.DecodeBytes(body).Next() != jx.Object {
		return nil, &ParseError{URL: u, Reason: "expected JSON object"}
	}
	var obj payload.Object
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, &ParseError{URL: u, Reason: "decode object", Err: err}
	}
	return obj, nil
}

// getList fetches a listing and normalizes its shape.
func (c *Client) getList(ctx context.Context, endpoint string, params any) ([]payload.Object, error) {
	body, u, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	items, ok, err := normalizeList(body)
	if err != nil {
		return nil, &ParseError{URL: u, Reason: "decode list", Err: err}
	}
	if !ok {
		c.logger.Warn("unexpected response format, expected array or {data: [...]}", "url", u)
	}
	return items, nil
}

// getValue fetches a JSON document of any shape.
func (c *Client) getValue(ctx context.Context, endpoint string, params any) (any, error) {
	body, u, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, &ParseError{URL: u, Reason: "decode value", Err: err}
	}
	return v, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
