package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MockPostServer simulates the syndication endpoint, post pages, and a
// media CDN behind a single httptest server.
type MockPostServer struct {
	server         *httptest.Server
	mu             sync.RWMutex
	syndication    map[string][]byte // post ID -> syndication JSON
	pages          map[string][]byte // post ID -> page HTML
	mirrors        map[string][]byte // post ID -> mirror API JSON
	media          map[string][]byte // media path -> file bytes
	errorResponses map[string]int    // path prefix -> status code
	delays         map[string]time.Duration
	requestCount   int32
}

// NewMockPostServer creates a new mock post server
func NewMockPostServer() *MockPostServer {
	m := &MockPostServer{
		syndication:    make(map[string][]byte),
		pages:          make(map[string][]byte),
		mirrors:        make(map[string][]byte),
		media:          make(map[string][]byte),
		errorResponses: make(map[string]int),
		delays:         make(map[string]time.Duration),
	}

	mux := http.NewServeMux()

	// Syndication endpoint
	mux.HandleFunc("/tweet-result", m.handleSyndication)

	// Third-party mirror API
	mux.HandleFunc("/mirror", m.handleMirror)

	// Media downloads (simulated CDN)
	mux.HandleFunc("/media/", m.handleMedia)

	// Everything else is treated as a post page path
	mux.HandleFunc("/", m.handlePage)

	m.server = httptest.NewServer(mux)
	return m
}

// handleSyndication serves the configured syndication JSON for a post ID
func (m *MockPostServer) handleSyndication(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	id := r.URL.Query().Get("id")
	m.applyDelay("/tweet-result")

	if code := m.errorFor("/tweet-result"); code > 0 {
		w.WriteHeader(code)
		return
	}

	m.mu.RLock()
	body, ok := m.syndication[id]
	m.mu.RUnlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"tweet not found"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// handleMirror serves the configured mirror JSON for a post ID
func (m *MockPostServer) handleMirror(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	id := r.URL.Query().Get("id")
	m.applyDelay("/mirror")

	if code := m.errorFor("/mirror"); code > 0 {
		w.WriteHeader(code)
		return
	}

	m.mu.RLock()
	body, ok := m.mirrors[id]
	m.mu.RUnlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// handlePage serves the configured page HTML for /<handle>/status/<id>
func (m *MockPostServer) handlePage(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	var id string
	for i, p := range parts {
		if p == "status" && i+1 < len(parts) {
			id = parts[i+1]
		}
	}

	if code := m.errorFor("/status/" + id); code > 0 {
		w.WriteHeader(code)
		return
	}

	m.mu.RLock()
	body, ok := m.pages[id]
	m.mu.RUnlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

// handleMedia serves configured media bytes
func (m *MockPostServer) handleMedia(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	m.applyDelay(r.URL.Path)

	if code := m.errorFor(r.URL.Path); code > 0 {
		w.WriteHeader(code)
		return
	}

	m.mu.RLock()
	body, ok := m.media[r.URL.Path]
	m.mu.RUnlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(r.URL.Path))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.Write(body)
}

func contentTypeFor(path string) string {
	switch {
	case strings.HasSuffix(path, ".mp4"):
		return "video/mp4"
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// AddSyndication registers syndication JSON for a post ID
func (m *MockPostServer) AddSyndication(id string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syndication[id] = body
}

// AddPage registers page HTML for a post ID
func (m *MockPostServer) AddPage(id string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[id] = body
}

// AddMirror registers mirror API JSON for a post ID
func (m *MockPostServer) AddMirror(id string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mirrors[id] = body
}

// AddMedia registers media bytes under a /media/ path and returns its
// absolute URL on the mock server
func (m *MockPostServer) AddMedia(path string, body []byte) string {
	if !strings.HasPrefix(path, "/media/") {
		path = "/media/" + strings.TrimPrefix(path, "/")
	}
	m.mu.Lock()
	m.media[path] = body
	m.mu.Unlock()
	return m.server.URL + path
}

// SetErrorResponse configures a path to return a specific status code
func (m *MockPostServer) SetErrorResponse(path string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[path] = code
}

// ClearErrorResponse removes error configuration for a path
func (m *MockPostServer) ClearErrorResponse(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.errorResponses, path)
}

// SetDelay configures a response delay for a path
func (m *MockPostServer) SetDelay(path string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[path] = delay
}

func (m *MockPostServer) errorFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for prefix, code := range m.errorResponses {
		if strings.HasPrefix(path, prefix) {
			return code
		}
	}
	return 0
}

func (m *MockPostServer) applyDelay(path string) {
	m.mu.RLock()
	delay := m.delays[path]
	m.mu.RUnlock()
	if delay > 0 {
		time.Sleep(delay)
	}
}

// URL returns the base URL of the mock server
func (m *MockPostServer) URL() string {
	return m.server.URL
}

// RequestCount returns the total number of requests served
func (m *MockPostServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// ResetCounters resets the request counter
func (m *MockPostServer) ResetCounters() {
	atomic.StoreInt32(&m.requestCount, 0)
}

// Close shuts down the mock server
func (m *MockPostServer) Close() {
	m.server.Close()
}
