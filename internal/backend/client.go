// Package backend is the typed client for the Betelgeuse assignment API. The
// console performs no assignment logic of its own; every data-bearing view is
// a thin fetch through this client and every edit a single mutating call.
//
// Calls are fire-once: no retries, no queuing. Each request carries the
// backend session cookie held by the caller's console session, a bounded
// timeout, and a trace span named after the logical operation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"betelgeuse-console/internal/session"
	request "betelgeuse-console/pkg/platform/middleware/request"
)

// Client issues HTTP requests against the configured backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New builds a backend client. The timeout applies per request; a hung backend
// call must fail rather than pin a poller or handler indefinitely.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		tracer:  otel.Tracer("betelgeuse-console/backend"),
	}
}

// do performs one backend call. Absent path identifiers are caller bugs and
// are rejected before any network traffic. On 2xx the response body is decoded
// into out (which may be nil); anything else becomes an *APIError carrying the
// status and the best message the response body offered.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "backend."+op, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	))
	defer span.End()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := request.GetRequestID(ctx); requestID != "" {
		req.Header.Set(request.HeaderRequestID, requestID)
	}
	if sess := session.FromContext(ctx); sess != nil && sess.BackendCookie != "" {
		req.Header.Set("Cookie", sess.BackendCookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		c.logger.WarnContext(ctx, "backend request failed",
			"operation", op,
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
		return &APIError{Message: "backend unreachable", cause: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, resp.Status)
		return newAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.SetStatus(codes.Error, "bad response body")
		return &APIError{StatusCode: resp.StatusCode, Message: "malformed backend response", cause: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	return c.do(ctx, op, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPut, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, op, path string, out any) error {
	return c.do(ctx, op, http.MethodDelete, path, nil, nil, out)
}
