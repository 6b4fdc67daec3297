// Package liveboxtest provides an in-process fake router for tests.
package liveboxtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Call is a request received by the fake router.
type Call struct {
	Service    string
	Method     string
	Parameters map[string]interface{}
	Header     http.Header
}

// Server answers createContext and getWANStatus like a Livebox.
//
// Fields may be changed between requests; access is serialized.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	login     string
	password  string
	contextID string
	status    map[string]interface{}
	delay     time.Duration
	calls     []Call
}

// DefaultWANStatus is what a connected fibre line reports.
func DefaultWANStatus() map[string]interface{} {
	return map[string]interface{}{
		"WanState":            "up",
		"LinkType":            "gpon",
		"LinkState":           "up",
		"GponState":           "O5_Operation",
		"MACAddress":          "AA:BB:CC:DD:EE:FF",
		"Protocol":            "dhcp",
		"ConnectionState":     "Bound",
		"LastConnectionError": "None",
		"IPAddress":           "203.0.113.7",
		"RemoteGateway":       "203.0.113.1",
		"DNSServers":          "192.0.2.53,192.0.2.54",
		"IPv6Address":         "2001:db8::7",
		"IPv6DelegatedPrefix": "2001:db8:100::/56",
	}
}

// NewServer starts a fake router accepting login/password.
func NewServer(login, password string) *Server {
	s := &Server{
		login:     login,
		password:  password,
		contextID: "fake-context-id",
		status:    DefaultWANStatus(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/ws", s.handleWS)

	s.Server = httptest.NewServer(r)
	return s
}

// SetContextID changes the token issued on login.
func (s *Server) SetContextID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contextID = id
}

// SetWANStatus replaces the data returned by getWANStatus.
func (s *Server) SetWANStatus(status map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// SetDelay makes every response wait d before being written.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns how many times service.method was called.
func (s *Server) CallCount(service, method string) int {
	count := 0
	for _, call := range s.Calls() {
		if call.Service == service && call.Method == method {
			count++
		}
	}
	return count
}

type envelope struct {
	Service    string                 `json:"service"`
	Method     string                 `json:"method"`
	Parameters map[string]interface{} `json:"parameters"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	var req envelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"status": 1, "errors": []string{err.Error()}})
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Service:    req.Service,
		Method:     req.Method,
		Parameters: req.Parameters,
		Header:     r.Header.Clone(),
	})
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-sah-ws-4-call+json") {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]interface{}{"status": 1})
		return
	}

	switch {
	case req.Service == "sah.Device.Information" && req.Method == "createContext":
		s.handleCreateContext(w, r, req)
	case req.Service == "NMC" && req.Method == "getWANStatus":
		s.handleGetWANStatus(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"status": 1})
	}
}

func (s *Server) handleCreateContext(w http.ResponseWriter, r *http.Request, req envelope) {
	s.mu.Lock()
	login, password, contextID := s.login, s.password, s.contextID
	s.mu.Unlock()

	username, _ := req.Parameters["username"].(string)
	pass, _ := req.Parameters["password"].(string)
	app, _ := req.Parameters["applicationName"].(string)

	if r.Header.Get("Authorization") != "X-Sah-Login" || app != "so_sdkut" ||
		username != login || pass != password {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"status": 1,
			"data":   map[string]interface{}{},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": 0,
		"data": map[string]interface{}{
			"contextID": contextID,
			"username":  username,
			"groups":    "http,admin",
		},
	})
}

func (s *Server) handleGetWANStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	contextID, status := s.contextID, s.status
	s.mu.Unlock()

	if r.Header.Get("X-Context") != contextID || !hasContextCookie(r, contextID) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"status": 1})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": true,
		"data":   status,
	})
}

// hasContextCookie looks at the raw header: net/http drops cookie names
// containing '/' when parsing.
func hasContextCookie(r *http.Request, contextID string) bool {
	for _, header := range r.Header.Values("Cookie") {
		for _, part := range strings.Split(header, ";") {
			if strings.TrimSpace(part) == "sah/contextId="+contextID {
				return true
			}
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
