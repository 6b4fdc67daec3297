// Package mocks provides mock implementations for testing.
//
// This package should ONLY be imported in test files (_test.go).
// The Go toolchain will automatically exclude this package from production builds
// since it's not imported in any production code.
package mocks

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
)

// MockHTTPClient is a mock implementation of the livebox HTTPClient interface.
//
// It records every request it receives. If DoFunc is nil, each request gets
// an empty 200 response.
//
// Example usage:
//
//	mock := &MockHTTPClient{
//	    DoFunc: func(req *http.Request) (*http.Response, error) {
//	        return JSONResponse(http.StatusUnauthorized, `{"status":1}`), nil
//	    },
//	}
//	client, _ := livebox.NewClientWithHTTPClient("http://livebox", time.Second, mock, nil)
type MockHTTPClient struct {
	// DoFunc is called by Do if not nil
	DoFunc func(req *http.Request) (*http.Response, error)

	mu       sync.Mutex
	requests []RecordedRequest
}

// RecordedRequest is a request seen by MockHTTPClient, with its body read.
type RecordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Envelope decodes the JSON body of the request.
func (r RecordedRequest) Envelope() (service, method string, err error) {
	var envelope struct {
		Service string `json:"service"`
		Method  string `json:"method"`
	}
	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		return "", "", err
	}
	return envelope.Service, envelope.Method, nil
}

// Do records req and delegates to DoFunc.
func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	m.mu.Unlock()

	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return JSONResponse(http.StatusOK, `{}`), nil
}

// Requests returns the requests received so far.
func (m *MockHTTPClient) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// JSONResponse builds a response with the given status code and body.
func JSONResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Status:     http.StatusText(code),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// NewSequenceHTTPClient returns a mock answering each request with the next
// response in order. Requests past the end get a 500.
func NewSequenceHTTPClient(responses ...*http.Response) *MockHTTPClient {
	var mu sync.Mutex
	next := 0
	return &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			mu.Lock()
			defer mu.Unlock()
			if next >= len(responses) {
				return JSONResponse(http.StatusInternalServerError, `{}`), nil
			}
			resp := responses[next]
			next++
			return resp, nil
		},
	}
}
