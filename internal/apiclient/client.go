// Package apiclient talks to the remote booking REST API. It is the only
// place that knows the API's paths and envelope; everything else works with
// the types in package model.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	circuit "github.com/rubyist/circuitbreaker"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/session"
)

// maxBody caps how much of a response body is read.
const maxBody = 8 << 20

// Client calls the booking API. Requests go through a circuit breaker; the
// caller's bearer token is taken from the session in the request context.
type Client struct {
	baseURL string
	http    *circuit.HTTPClient
}

// New builds a Client from configuration.
func New(cfg config.APIConfig) *Client {
	hc := circuit.NewHTTPClient(cfg.Timeout, cfg.BreakerThreshold, &http.Client{Timeout: cfg.Timeout})
	return NewWithHTTPClient(cfg.BaseURL, hc)
}

// NewWithHTTPClient builds a Client around an existing breaker client.
func NewWithHTTPClient(baseURL string, hc *circuit.HTTPClient) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// envelope is the API's response wrapper. Some endpoints answer bare JSON;
// decode falls back to the whole body when data is absent.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// do sends one request. in, when non-nil, is sent as the JSON body. out,
// when non-nil, receives the decoded payload.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	raw, err := c.send(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// send performs the request and returns the unwrapped payload bytes.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, in any) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s, err := session.From(ctx); err == nil && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)
	if resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	if len(env.Data) > 0 {
		return env.Data, nil
	}
	return raw, nil
}

// get is a shorthand for GET requests.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}
