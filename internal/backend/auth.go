package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/codes"

	request "betelgeuse-console/pkg/platform/middleware/request"
)

// LoginResult carries the authenticated user payload and the backend session
// cookie the console must replay on subsequent calls for this user.
type LoginResult struct {
	User          UserAccount
	BackendCookie string
}

// Login authenticates against the backend. Unlike every other operation it
// runs outside a console session, and it must capture the Set-Cookie header,
// so it does not go through do().
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	ctx, span := c.tracer.Start(ctx, "backend.login")
	defer span.End()

	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if requestID := request.GetRequestID(ctx); requestID != "" {
		req.Header.Set(request.HeaderRequestID, requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		return nil, &APIError{Message: "backend unreachable", cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, resp.Status)
		return nil, newAPIError(resp)
	}

	var body struct {
		Message string      `json:"message"`
		User    UserAccount `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "malformed backend response", cause: err}
	}

	var backendCookie string
	for _, cookie := range resp.Cookies() {
		// The backend issues exactly one session cookie; replay whatever we got.
		backendCookie = cookie.Name + "=" + cookie.Value
	}

	return &LoginResult{User: body.User, BackendCookie: backendCookie}, nil
}

// Logout invalidates the backend session for the current console session.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "logout", "/api/auth/logout", nil, nil)
}

// Me fetches the current user as the backend sees it.
func (c *Client) Me(ctx context.Context) (*UserAccount, error) {
	var out struct {
		User UserAccount `json:"user"`
	}
	if err := c.get(ctx, "me", "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword updates the current user's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	return c.post(ctx, "change_password", "/api/auth/change-password", body, nil)
}
