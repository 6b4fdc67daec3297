package livebox

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/maksimkurb/livebox-wan/src/internal/credentials"
	liveboxerrors "github.com/maksimkurb/livebox-wan/src/internal/errors"
	"github.com/maksimkurb/livebox-wan/src/internal/livebox/liveboxtest"
	"github.com/maksimkurb/livebox-wan/src/internal/log"
	"github.com/maksimkurb/livebox-wan/src/internal/mocks"
)

var testCreds = credentials.Credentials{Login: "admin", Password: "secret"}

func newTestClient(t *testing.T, baseURL string, httpClient HTTPClient, logger *log.Logger) *Client {
	t.Helper()
	client, err := NewClientWithHTTPClient(baseURL, time.Second, httpClient, logger)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestClient_MockedTransport(t *testing.T) {
	mock := mocks.NewSequenceHTTPClient(
		mocks.JSONResponse(http.StatusOK, `{"data":{"contextID":"X"}}`),
		mocks.JSONResponse(http.StatusOK, `{"data":{"IPAddress":"1.2.3.4"}}`),
	)
	client := newTestClient(t, "http://livebox", mock, nil)

	if !client.Authenticate(context.Background(), credentials.Credentials{Login: "a", Password: "b"}) {
		t.Fatal("Expected authentication to succeed")
	}
	if client.ContextID() != "X" {
		t.Errorf("Expected context ID X, got %q", client.ContextID())
	}

	ip, ok := client.WANStatus(context.Background()).Get(FieldIPAddress)
	if !ok || ip != "1.2.3.4" {
		t.Errorf("Expected IPAddress 1.2.3.4, got %q (found=%v)", ip, ok)
	}
}

func TestClient_AuthenticateFailureSkipsStatus(t *testing.T) {
	mock := &mocks.MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return mocks.JSONResponse(http.StatusUnauthorized, `{"status":1,"data":{}}`), nil
		},
	}
	var buf bytes.Buffer
	client := newTestClient(t, "http://livebox", mock, log.New(&buf))

	if client.Authenticate(context.Background(), testCreds) {
		t.Fatal("Expected authentication to fail")
	}
	if client.Authenticated() {
		t.Error("Client must stay unauthenticated")
	}
	if !strings.Contains(buf.String(), "[WRN]") || !strings.Contains(buf.String(), "invalid or denied") {
		t.Errorf("Expected a warning about invalid credentials, got %q", buf.String())
	}

	status := client.WANStatus(context.Background())
	if status == nil || len(status) != 0 {
		t.Errorf("Expected empty status, got %v", status)
	}

	requests := mock.Requests()
	if len(requests) != 1 {
		t.Fatalf("Expected only the login request, got %d requests", len(requests))
	}
	if _, method, _ := requests[0].Envelope(); method != methodCreateContext {
		t.Errorf("Expected createContext, got %s", method)
	}
}

func TestClient_LoginRequest(t *testing.T) {
	mock := mocks.NewSequenceHTTPClient(mocks.JSONResponse(http.StatusOK, `{"status":0,"data":{"contextID":"ctx"}}`))
	client := newTestClient(t, "http://192.168.1.1", mock, nil)

	if !client.Authenticate(context.Background(), credentials.Credentials{Login: "a", Password: "b"}) {
		t.Fatal("Expected authentication to succeed")
	}

	req := mock.Requests()[0]
	if req.Method != http.MethodPost {
		t.Errorf("Expected POST, got %s", req.Method)
	}
	if req.URL != "http://192.168.1.1/ws" {
		t.Errorf("Expected http://192.168.1.1/ws, got %s", req.URL)
	}
	if got := req.Header.Get("Authorization"); got != "X-Sah-Login" {
		t.Errorf("Expected Authorization X-Sah-Login, got %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/x-sah-ws-4-call+json" {
		t.Errorf("Unexpected Content-Type %q", got)
	}
	if req.Header.Get(ContextHeader) != "" {
		t.Error("Login request must not carry a context token")
	}

	want := `{"service":"sah.Device.Information","method":"createContext","parameters":{"applicationName":"so_sdkut","username":"a","password":"b"}}`
	if string(req.Body) != want {
		t.Errorf("Unexpected body:\n got  %s\n want %s", req.Body, want)
	}
}

func TestClient_StatusRequestCarriesContext(t *testing.T) {
	mock := mocks.NewSequenceHTTPClient(
		mocks.JSONResponse(http.StatusOK, `{"data":{"contextID":"token-42"}}`),
		mocks.JSONResponse(http.StatusOK, `{"status":true,"data":{}}`),
	)
	client := newTestClient(t, "http://livebox", mock, nil)

	if !client.Authenticate(context.Background(), testCreds) {
		t.Fatal("Expected authentication to succeed")
	}
	client.WANStatus(context.Background())

	requests := mock.Requests()
	if len(requests) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(requests))
	}
	req := requests[1]
	if got := req.Header.Get(ContextHeader); got != "token-42" {
		t.Errorf("Expected X-Context token-42, got %q", got)
	}
	if got := req.Header.Get("Cookie"); got != "sah/contextId=token-42" {
		t.Errorf("Expected context cookie, got %q", got)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Status request must not carry the login authorization")
	}
	if want := `{"service":"NMC","method":"getWANStatus","parameters":{}}`; string(req.Body) != want {
		t.Errorf("Unexpected body:\n got  %s\n want %s", req.Body, want)
	}
}

func TestClient_WANStatusBeforeAuthenticate(t *testing.T) {
	mock := &mocks.MockHTTPClient{}
	var buf bytes.Buffer
	client := newTestClient(t, "http://livebox", mock, log.New(&buf))

	status := client.WANStatus(context.Background())
	if len(status) != 0 {
		t.Errorf("Expected empty status, got %v", status)
	}
	if len(mock.Requests()) != 0 {
		t.Errorf("Expected no request before authentication, got %d", len(mock.Requests()))
	}
	if !strings.Contains(buf.String(), "not authenticated") {
		t.Errorf("Expected error to be logged, got %q", buf.String())
	}

	_, err := client.GetWANStatus(context.Background())
	if !errors.Is(err, liveboxerrors.ErrAuth) {
		t.Errorf("Expected auth error, got %v", err)
	}
}

func TestClient_NetworkError(t *testing.T) {
	mock := &mocks.MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp 192.168.1.1:80: connect: connection refused")
		},
	}
	var buf bytes.Buffer
	client := newTestClient(t, "http://livebox", mock, log.New(&buf))

	_, err := client.CreateContext(context.Background(), testCreds)
	if !errors.Is(err, liveboxerrors.ErrNetwork) {
		t.Errorf("Expected network error, got %v", err)
	}

	if client.Authenticate(context.Background(), testCreds) {
		t.Fatal("Expected authentication to fail")
	}
	if !strings.Contains(buf.String(), "[ERR] authentication failed") {
		t.Errorf("Expected error to be logged, got %q", buf.String())
	}
}

func TestClient_MissingContextID(t *testing.T) {
	mock := mocks.NewSequenceHTTPClient(mocks.JSONResponse(http.StatusOK, `{"status":0,"data":{}}`))
	client := newTestClient(t, "http://livebox", mock, nil)

	_, err := client.CreateContext(context.Background(), testCreds)
	if !errors.Is(err, liveboxerrors.ErrProtocol) {
		t.Errorf("Expected protocol error, got %v", err)
	}
}

func TestClient_InvalidJSON(t *testing.T) {
	mock := mocks.NewSequenceHTTPClient(mocks.JSONResponse(http.StatusOK, `<html>login</html>`))
	client := newTestClient(t, "http://livebox", mock, nil)

	if client.Authenticate(context.Background(), testCreds) {
		t.Fatal("Expected authentication to fail on a non-JSON body")
	}
}

func TestClient_StatusHTTPFailure(t *testing.T) {
	mock := mocks.NewSequenceHTTPClient(
		mocks.JSONResponse(http.StatusOK, `{"data":{"contextID":"X"}}`),
		mocks.JSONResponse(http.StatusForbidden, `{"status":1}`),
	)
	var buf bytes.Buffer
	client := newTestClient(t, "http://livebox", mock, log.New(&buf))

	if !client.Authenticate(context.Background(), testCreds) {
		t.Fatal("Expected authentication to succeed")
	}
	status := client.WANStatus(context.Background())
	if status == nil || len(status) != 0 {
		t.Errorf("Expected empty non-nil status, got %v", status)
	}
	if !strings.Contains(buf.String(), "[ERR] info request failed") {
		t.Errorf("Expected error to be logged, got %q", buf.String())
	}
}

func TestClient_StatusValueConversion(t *testing.T) {
	mock := mocks.NewSequenceHTTPClient(
		mocks.JSONResponse(http.StatusOK, `{"data":{"contextID":"X"}}`),
		mocks.JSONResponse(http.StatusOK, `{"data":{"IPAddress":"1.2.3.4","IPv6Address":null,"Enabled":true,"MTU":1500,"Servers":[ "a", "b" ]}}`),
	)
	client := newTestClient(t, "http://livebox", mock, nil)
	client.Authenticate(context.Background(), testCreds)

	status := client.WANStatus(context.Background())
	tests := map[string]string{
		"IPAddress": "1.2.3.4",
		"Enabled":   "true",
		"MTU":       "1500",
		"Servers":   `["a","b"]`,
	}
	for field, want := range tests {
		if got, ok := status.Get(field); !ok || got != want {
			t.Errorf("%s: expected %q, got %q (found=%v)", field, want, got, ok)
		}
	}
	if _, ok := status.Get(FieldIPv6Address); ok {
		t.Error("Null values must be reported as absent")
	}
}

func TestClient_FakeRouter(t *testing.T) {
	server := liveboxtest.NewServer("admin", "secret")
	defer server.Close()
	server.SetContextID("abc/123+xyz=")

	client, err := NewClient(server.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if !client.Authenticate(context.Background(), testCreds) {
		t.Fatal("Expected authentication to succeed against the fake router")
	}
	status := client.WANStatus(context.Background())

	for _, field := range WANStatusFields {
		if _, ok := status.Get(field); !ok {
			t.Errorf("Expected field %s in status", field)
		}
	}
	if ip, _ := status.Get(FieldIPAddress); ip != "203.0.113.7" {
		t.Errorf("Expected 203.0.113.7, got %q", ip)
	}
	if got := server.CallCount("NMC", "getWANStatus"); got != 1 {
		t.Errorf("Expected 1 status call, got %d", got)
	}
}

func TestClient_FakeRouterWrongPassword(t *testing.T) {
	server := liveboxtest.NewServer("admin", "secret")
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if client.Authenticate(context.Background(), credentials.Credentials{Login: "admin", Password: "wrong"}) {
		t.Fatal("Expected authentication to fail")
	}
	if got := server.CallCount("NMC", "getWANStatus"); got != 0 {
		t.Errorf("Expected no status call, got %d", got)
	}
}

func TestClient_Timeout(t *testing.T) {
	server := liveboxtest.NewServer("admin", "secret")
	defer server.Close()
	server.SetDelay(500 * time.Millisecond)

	var buf bytes.Buffer
	client, err := NewClient(server.URL, 20*time.Millisecond, log.New(&buf))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	start := time.Now()
	if client.Authenticate(context.Background(), testCreds) {
		t.Fatal("Expected authentication to time out")
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("Timeout not enforced, took %v", elapsed)
	}
	if !strings.Contains(buf.String(), "no answer within 20ms") {
		t.Errorf("Expected timeout to be logged, got %q", buf.String())
	}
}

func TestClient_CancelledContext(t *testing.T) {
	server := liveboxtest.NewServer("admin", "secret")
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.CreateContext(ctx, testCreds)
	if !errors.Is(err, liveboxerrors.ErrNetwork) {
		t.Errorf("Expected network error for a cancelled context, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in the chain, got %v", err)
	}
}

func TestNewClient_TimeoutFallback(t *testing.T) {
	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		var buf bytes.Buffer
		client, err := NewClient(DefaultURL, timeout, log.New(&buf))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if client.Timeout() != DefaultTimeout {
			t.Errorf("Expected fallback to %v, got %v", DefaultTimeout, client.Timeout())
		}
		if !strings.Contains(buf.String(), "[WRN] invalid network timeout") {
			t.Errorf("Expected a warning, got %q", buf.String())
		}
	}
}

func TestNewClient_KeepsPositiveTimeout(t *testing.T) {
	var buf bytes.Buffer
	client, err := NewClient(DefaultURL, 3*time.Second, log.New(&buf))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client.Timeout() != 3*time.Second {
		t.Errorf("Expected 3s, got %v", client.Timeout())
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no warning, got %q", buf.String())
	}
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{base: "http://192.168.1.1", want: "http://192.168.1.1/ws"},
		{base: "http://192.168.1.1/", want: "http://192.168.1.1/ws"},
		{base: "https://livebox.home:8443", want: "https://livebox.home:8443/ws"},
		{base: "http://router/api/", want: "http://router/api/ws"},
		{base: "http://router/index.html", want: "http://router/ws"},
		{base: "192.168.1.1", wantErr: true},
		{base: "", wantErr: true},
		{base: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := EndpointURL(tt.base)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %s", got)
				}
				if !errors.Is(err, liveboxerrors.ErrConfig) {
					t.Errorf("Expected config error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EndpointURL(%q) = %s, want %s", tt.base, got, tt.want)
			}
		})
	}
}

func TestIsWANStatusField(t *testing.T) {
	if !IsWANStatusField("IPv6Address") {
		t.Error("IPv6Address should be a known field")
	}
	if IsWANStatusField("ipaddress") {
		t.Error("Field names are case sensitive")
	}
	if len(WANStatusFields) != 12 {
		t.Errorf("Expected 12 fields, got %d", len(WANStatusFields))
	}
}
