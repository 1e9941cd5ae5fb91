// Package authapi is the HTTP client for the hosted auth service. Account
// creation is an opaque external endpoint; sign-in, session probe and
// sign-out live on the same base URL.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kostromin/fittrack/internal/domain"
)

// Client talks to the auth service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the auth service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type userPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type authResponse struct {
	User  *userPayload `json:"user"`
	Error string       `json:"error"`
	Code  string       `json:"code"`
}

func (c *Client) post(ctx context.Context, path string, body any) (*authResponse, int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("POST %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeResponse(resp)
}

func (c *Client) get(ctx context.Context, path string) (*authResponse, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeResponse(resp)
}

func decodeResponse(resp *http.Response) (*authResponse, int, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	var parsed authResponse
	if len(data) > 0 {
		if err := json.Unmarshal(data, &parsed); err != nil {
			// Proxies and gateways answer errors with HTML bodies; on a
			// non-2xx status the caller classifies by status alone.
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil, resp.StatusCode, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
			}
			parsed = authResponse{}
		}
	}
	return &parsed, resp.StatusCode, nil
}

func (r *authResponse) user() *domain.User {
	if r.User == nil {
		return nil
	}
	return domain.NewUser(r.User.ID, r.User.Email, r.User.Username)
}

func (r *authResponse) message(fallback string) string {
	if r.Error != "" {
		return r.Error
	}
	return fallback
}

// Register calls the external account-creation endpoint. Any non-2xx status
// is a registration failure carrying the server's error string.
func (c *Client) Register(ctx context.Context, email, password, username string) (*domain.User, error) {
	resp, status, err := c.post(ctx, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"username": username,
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &domain.RegistrationError{Msg: resp.message(fmt.Sprintf("unexpected status %d", status))}
	}
	return resp.user(), nil
}

// SignIn exchanges credentials for a session. A conflict response (the
// account already has an active server-side session) maps to
// domain.ErrSessionActive so callers can recover by fetching that session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	resp, status, err := c.post(ctx, "/api/auth/sign-in", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if status == http.StatusConflict || resp.Code == "session_active" {
		return nil, domain.ErrSessionActive
	}
	if status < 200 || status >= 300 {
		return nil, &domain.AuthError{Msg: resp.message(fmt.Sprintf("unexpected status %d", status))}
	}
	if resp.User == nil {
		return nil, &domain.AuthError{Msg: "sign-in response missing user"}
	}
	return resp.user(), nil
}

// CurrentSession probes for an existing session. Returns nil when no
// session exists; that is not an error.
func (c *Client) CurrentSession(ctx context.Context) (*domain.User, error) {
	resp, status, err := c.get(ctx, "/api/auth/session")
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || status == http.StatusUnauthorized {
		return nil, nil
	}
	if status < 200 || status >= 300 {
		return nil, &domain.AuthError{Msg: resp.message(fmt.Sprintf("unexpected status %d", status))}
	}
	return resp.user(), nil
}

// SignOut ends the current server-side session.
func (c *Client) SignOut(ctx context.Context) error {
	resp, status, err := c.post(ctx, "/api/auth/sign-out", nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &domain.AuthError{Msg: resp.message(fmt.Sprintf("unexpected status %d", status))}
	}
	return nil
}
