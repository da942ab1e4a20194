package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrEthical07/goGate/session"
)

// ErrUnavailable is an exported constant or variable used by the bootstrap engine.
var ErrUnavailable = errors.New("identity service unavailable")

// Client is the identity-provider transport consumed by the Engine.
type Client interface {
	FetchSession(ctx context.Context) (session.Payload, error)
	Logout(ctx context.Context) error
}

// Config defines a public type used by goGate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	BaseURL     string
	SessionPath string
	LogoutPath  string
	Timeout     time.Duration
	// Verifier, when non-nil, switches the session endpoint to signed
	// assertion mode: the response body is a JWT instead of plain JSON.
	Verifier *Verifier
}

// HTTPClient is the standard [Client] implementation over net/http.
type HTTPClient struct {
	base        *url.URL
	sessionPath string
	logoutPath  string
	httpClient  *http.Client
	verifier    *Verifier
}

// NewHTTPClient describes the newhttpclient operation and its observable behavior.
//
// NewHTTPClient may return an error when input validation, dependency calls, or security checks fail.
// NewHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.New("identity base URL must be absolute")
	}
	if !strings.HasPrefix(cfg.SessionPath, "/") {
		return nil, errors.New("identity session path must begin with /")
	}
	if !strings.HasPrefix(cfg.LogoutPath, "/") {
		return nil, errors.New("identity logout path must begin with /")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPClient{
		base:        base,
		sessionPath: cfg.SessionPath,
		logoutPath:  cfg.LogoutPath,
		httpClient:  &http.Client{Timeout: timeout},
		verifier:    cfg.Verifier,
	}, nil
}

// FetchSession issues the single bootstrap request to the session endpoint and
// decodes the payload. Any transport error or non-2xx status is a failure; the
// caller treats it as terminal.
func (c *HTTPClient) FetchSession(ctx context.Context) (session.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(c.sessionPath), nil)
	if err != nil {
		return session.Payload{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return session.Payload{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return session.Payload{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if c.verifier != nil {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err != nil {
			return session.Payload{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return c.verifier.Verify(strings.TrimSpace(string(body)))
	}

	var payload session.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return session.Payload{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return payload, nil
}

// Logout invalidates the remote session. The response payload is ignored by
// contract; only transport-level failure is reported.
func (c *HTTPClient) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.logoutPath), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u.String()
}
