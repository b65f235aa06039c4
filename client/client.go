// Package client is the Go client for the UniNotes backend. It carries the
// two stateful browser-side flows: the passwordless OTP login flow and the
// document viewer loader.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kundanmehta01/UniNotes-sub001/domain"
)

// AuthAPI is the slice of the backend the auth flow depends on.
type AuthAPI interface {
	CheckExists(ctx context.Context, email string) (bool, error)
	SendLoginOTP(ctx context.Context, email string) error
	SendRegisterOTP(ctx context.Context, email, firstName, lastName string) error
	VerifyOTP(ctx context.Context, email, code string) (*Credentials, error)
}

// DocumentFetcher is the slice the document viewer depends on.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) ([]byte, error)
}

// Credentials is the payload of a successful OTP verification.
type Credentials struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user"`
}

// APIError carries the HTTP status and the server's message so callers can
// classify failures.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token attached to authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope matches the backend's response shape; only the fields a given
// call cares about are populated.
type envelope struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Error        string          `json:"error"`
	Exists       bool            `json:"exists"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	User         json.RawMessage `json:"user"`
}

func (c *Client) post(ctx context.Context, path string, payload any) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = resp.Status
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &env, nil
}

func (c *Client) CheckExists(ctx context.Context, email string) (bool, error) {
	env, err := c.post(ctx, "/auth/check-exists", map[string]string{"email": email})
	if err != nil {
		return false, err
	}
	return env.Exists, nil
}

func (c *Client) SendLoginOTP(ctx context.Context, email string) error {
	_, err := c.post(ctx, "/auth/otp/login", map[string]string{"email": email})
	return err
}

func (c *Client) SendRegisterOTP(ctx context.Context, email, firstName, lastName string) error {
	_, err := c.post(ctx, "/auth/otp/register", map[string]string{
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
	})
	return err
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*Credentials, error) {
	env, err := c.post(ctx, "/auth/otp/verify", map[string]string{
		"email": email,
		"code":  code,
	})
	if err != nil {
		return nil, err
	}

	creds := &Credentials{
		AccessToken:  env.AccessToken,
		RefreshToken: env.RefreshToken,
	}
	if len(env.User) > 0 {
		var user domain.User
		if err := json.Unmarshal(env.User, &user); err == nil {
			creds.User = &user
		}
	}
	return creds, nil
}

// FetchDocument downloads a PDF binary with the bearer token attached.
// A non-2xx response is returned as an *APIError with the HTTP status text.
func (c *Client) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}
	return io.ReadAll(resp.Body)
}
