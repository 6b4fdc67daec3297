package livebox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maksimkurb/livebox-wan/src/internal/credentials"
	"github.com/maksimkurb/livebox-wan/src/internal/errors"
	"github.com/maksimkurb/livebox-wan/src/internal/log"
	"github.com/maksimkurb/livebox-wan/src/internal/utils"
)

// HTTPClient interface for dependency injection in tests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the router's /ws endpoint.
//
// A Client starts unauthenticated. Authenticate stores the context token
// that every later request carries; until then no other call reaches the
// network. A Client is meant for a single goroutine.
type Client struct {
	httpClient HTTPClient
	endpoint   string
	timeout    time.Duration
	logger     *log.Logger
	contextID  string
}

// NewClient creates a client for the router at baseURL using the default
// HTTP client.
//
// A non-positive timeout is replaced by DefaultTimeout and a warning is
// logged. If logger is nil, messages are discarded.
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) (*Client, error) {
	return NewClientWithHTTPClient(baseURL, timeout, nil, logger)
}

// NewClientWithHTTPClient is NewClient with a custom transport.
//
// The per-request timeout is enforced through the request context, so it
// also applies to transports that have no timeout of their own.
func NewClientWithHTTPClient(baseURL string, timeout time.Duration, httpClient HTTPClient, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	endpoint, err := EndpointURL(baseURL)
	if err != nil {
		return nil, err
	}

	if timeout <= 0 {
		logger.Warnf("invalid network timeout (%v), fallback to %v", timeout, DefaultTimeout)
		timeout = DefaultTimeout
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// EndpointURL resolves the /ws endpoint against baseURL the way a browser
// resolves a relative link.
func EndpointURL(baseURL string) (string, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", errors.NewConfigError(fmt.Sprintf("invalid router url %q", baseURL), err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", errors.NewConfigError(fmt.Sprintf("invalid router url %q: scheme and host are required", baseURL), nil)
	}
	return base.ResolveReference(&url.URL{Path: wsPath}).String(), nil
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Authenticated returns true once a context token has been obtained.
func (c *Client) Authenticated() bool {
	return c.contextID != ""
}

// ContextID returns the current context token, empty before login.
func (c *Client) ContextID() string {
	return c.contextID
}

// Authenticate exchanges creds for a context token.
//
// Network failures and unreadable responses are logged as errors, a
// refusal by the router as a warning. Each returns false and leaves the
// client unauthenticated; there is no retry.
func (c *Client) Authenticate(ctx context.Context, creds credentials.Credentials) bool {
	contextID, err := c.CreateContext(ctx, creds)
	if err != nil {
		var domainErr *errors.Error
		switch {
		case errors.Is(err, errors.ErrAuth):
			c.logger.Warnf("authentication failed: invalid or denied (%v)", err)
		case errors.As(err, &domainErr) && domainErr.Timeout():
			c.logger.Errorf("authentication failed: no answer within %v (%v)", c.timeout, err)
		default:
			c.logger.Errorf("authentication failed: %v", err)
		}
		return false
	}

	c.contextID = contextID
	c.logger.Debugf("authenticated as %s", creds.Login)
	return true
}

// CreateContext performs the login call and returns the context token
// without storing it.
func (c *Client) CreateContext(ctx context.Context, creds credentials.Credentials) (string, error) {
	request := Request{
		Service: serviceDeviceInformation,
		Method:  methodCreateContext,
		Parameters: CreateContextParameters{
			ApplicationName: applicationName,
			Username:        creds.Login,
			Password:        creds.Password,
		},
	}

	var response LoginResponse
	headers := map[string]string{"Authorization": loginAuthorization}
	if err := c.call(ctx, request, headers, &response); err != nil {
		return "", err
	}

	if response.Data.ContextID == "" {
		return "", errors.NewProtocolError("login response has no contextID", nil).WithOp(serviceDeviceInformation + "." + methodCreateContext)
	}
	return response.Data.ContextID, nil
}

// WANStatus fetches the WAN connection status.
//
// Any failure, including calling it before a successful Authenticate, is
// logged and yields an empty, non-nil status.
func (c *Client) WANStatus(ctx context.Context) WANStatus {
	status, err := c.GetWANStatus(ctx)
	if err != nil {
		c.logger.Errorf("info request failed: %v", err)
		return WANStatus{}
	}
	return status
}

// GetWANStatus is WANStatus with the failure reason.
func (c *Client) GetWANStatus(ctx context.Context) (WANStatus, error) {
	if !c.Authenticated() {
		return nil, errors.NewAuthError("not authenticated", nil)
	}

	request := Request{
		Service:    serviceNMC,
		Method:     methodGetWANStatus,
		Parameters: struct{}{},
	}

	var response wanStatusResponse
	if err := c.call(ctx, request, nil, &response); err != nil {
		return nil, err
	}

	status := make(WANStatus, len(response.Data))
	for field, raw := range response.Data {
		if value, ok := rawToText(raw); ok {
			status[field] = value
		}
	}
	c.logger.Debugf("received %d WAN status fields", len(status))
	return status, nil
}

// call posts request and decodes the response body into out.
func (c *Client) call(ctx context.Context, request Request, headers map[string]string, out interface{}) error {
	name := request.Service + "." + request.Method

	body, err := json.Marshal(request)
	if err != nil {
		return errors.NewInternalError("failed to encode request", err).WithOp(name)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.NewInternalError("failed to build request", err).WithOp(name)
	}
	req.Header.Set("Content-Type", contentType)
	if c.contextID != "" {
		req.Header.Set(ContextHeader, c.contextID)
		req.AddCookie(&http.Cookie{Name: ContextCookie, Value: c.contextID})
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	c.logger.Debugf("POST %s %s", c.endpoint, name)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewNetworkError("", err).WithOp(name)
	}
	defer utils.CloseOrWarn(resp.Body, c.logger)

	if resp.StatusCode >= http.StatusBadRequest {
		return errors.NewAuthError("HTTP "+resp.Status, nil).WithOp(name)
	}

	data, err := utils.ReadAtMost(resp.Body, maxResponseSize)
	if err != nil {
		return errors.NewNetworkError("failed to read response", err).WithOp(name)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewProtocolError("failed to parse response", err).WithOp(name)
	}
	return nil
}

func rawToText(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s, true
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed), true
	}
	return compact.String(), true
}
