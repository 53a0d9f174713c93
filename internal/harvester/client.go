// Package harvester is the HTTP client for the Harvester control plane.
//
// It exposes the small capability surface reconciliation consumes: get,
// create and delete by name+namespace for each resource kind, plus the
// KubeVirt power verbs for virtual machines. A lookup miss surfaces as
// NotFoundError; everything else propagates unchanged.
package harvester

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/hciops/harvesterctl/internal/config"
)

// loginPath is the Rancher local-provider login endpoint used to exchange a
// username/password pair for a bearer token.
const loginPath = "/v3-public/localProviders/local?action=login"

// Client is an authenticated session against one Harvester endpoint. It is
// scoped to a single invocation: create it, reconcile, Close it.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string

	username string
	password string

	log *slog.Logger
}

// New builds a client from a validated connection config. When the config
// carries username/password instead of a token, Authenticate must be called
// before any resource operation.
func New(cfg *config.ConnectionConfig, log *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid host URL %q: %w", cfg.Host, err)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.TLSVerify()},
	}

	return &Client{
		base: base,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		token:    cfg.Token,
		username: cfg.Username,
		password: cfg.Password,
		log:      log,
	}, nil
}

// Authenticate exchanges username/password credentials for a session token.
// It is a no-op when a token is already set.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.token != "" {
		return nil
	}

	body := map[string]string{
		"username":     c.username,
		"password":     c.password,
		"responseType": "token",
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, loginPath, body, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return &AuthenticationError{Message: "login response carried no token"}
	}

	c.token = resp.Token
	return nil
}

// Close releases the transport. Safe to call regardless of how the
// invocation ended.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// do performs one request. body and out may be nil; non-2xx responses are
// mapped to the error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid request path %q: %w", path, err)
	}
	endpoint := c.base.ResolveReference(ref)

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to serialize request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	c.log.Debug("harvester API request",
		"method", method, "path", ref.Path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFrom(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorFrom maps a non-2xx response to the error taxonomy. 404 becomes a
// bare APIError here; resource clients convert it to a NotFoundError that
// names the resource.
func (c *Client) errorFrom(resp *http.Response) error {
	message := resp.Status
	data, err := io.ReadAll(resp.Body)
	if err == nil && len(data) > 0 {
		var status struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &status) == nil && status.Message != "" {
			message = status.Message
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{Message: message}
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}
}
