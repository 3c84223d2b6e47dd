// Package rest implements the platform API ports over its HTTP surface.
package rest

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

	"github.com/golang-jwt/jwt/v5"

	"brandmize/internal/metrics"
	platform "brandmize/internal/platform"
)

// expiryMargin is how long before token expiry we re-authenticate.
const expiryMargin = 30 * time.Second

type Config struct {
	BaseURL  string
	Email    string
	Password string
	// Token, when set, is used as-is and login is never attempted.
	Token   string
	Timeout time.Duration
}

// Client talks to the platform backend with a bearer session.
type Client struct {
	baseURL    string
	email      string
	password   string
	httpClient *http.Client
	metrics    *metrics.Metrics

	mu     sync.Mutex
	token  string
	expiry time.Time
	static bool
}

// Ensure interface conformance
var (
	_ platform.PaymentReader  = (*Client)(nil)
	_ platform.SpendReader    = (*Client)(nil)
	_ platform.LeadDirectory  = (*Client)(nil)
	_ platform.LeadSink       = (*Client)(nil)
	_ platform.NumberCatalog  = (*Client)(nil)
	_ platform.CallLog        = (*Client)(nil)
	_ platform.AssistantStore = (*Client)(nil)
)

func NewClient(cfg Config, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		email:      cfg.Email,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
	if cfg.Token != "" {
		c.token = cfg.Token
		c.static = true
		c.expiry = tokenExpiry(cfg.Token)
	}
	return c
}

// APIError is a non-2xx response from the platform backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("platform api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("platform api: %d: %s", e.Status, e.Message)
}

// session returns a valid bearer token, logging in again when the
// current one is missing or about to expire. Static tokens are never
// refreshed.
func (c *Client) session(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.static {
		return c.token, nil
	}
	if c.token != "" && (c.expiry.IsZero() || time.Now().Add(expiryMargin).Before(c.expiry)) {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return "", fmt.Errorf("login: marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("login: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(resp)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("login: decode: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("login: empty token in response")
	}
	c.token = out.Token
	c.expiry = tokenExpiry(out.Token)
	return c.token, nil
}

// Teardown drops the session so the next request authenticates again.
func (c *Client) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.static {
		c.token = ""
		c.expiry = time.Time{}
	}
}

// tokenExpiry peeks at the exp claim without verifying the signature.
// The backend signs its own tokens; we only need the expiry to know
// when to re-authenticate. Returns the zero time when unreadable.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// do performs an authenticated request and decodes a JSON response into
// out (which may be nil for no-content endpoints).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	token, err := c.session(ctx)
	if err != nil {
		c.count(path, "auth_error")
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: marshal: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.count(path, "transport_error")
		return fmt.Errorf("%s %s: send: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.count(path, fmt.Sprintf("http_%d", resp.StatusCode))
		return decodeAPIError(resp)
	}
	c.count(path, "ok")

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

func (c *Client) count(endpoint, outcome string) {
	if c.metrics != nil {
		c.metrics.UpstreamCalls.WithLabelValues(endpoint, outcome).Inc()
	}
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
