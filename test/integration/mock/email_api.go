package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// EmailAPI is a stand-in for the Resend HTTP API. It records every request
// body and answers with a scripted status, 200 by default.
type EmailAPI struct {
	mu       sync.Mutex
	server   *httptest.Server
	requests map[string][]map[string]any
	statuses map[string]int
}

func NewEmailAPI() *EmailAPI {
	return &EmailAPI{
		requests: map[string][]map[string]any{},
		statuses: map[string]int{},
	}
}

func (e *EmailAPI) Start() {
	e.server = httptest.NewServer(http.HandlerFunc(e.handle))
}

func (e *EmailAPI) URL() string {
	return e.server.URL
}

func (e *EmailAPI) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	body, _ := io.ReadAll(r.Body)
	payload := map[string]any{}
	_ = json.Unmarshal(body, &payload)

	e.mu.Lock()
	e.requests[key] = append(e.requests[key], payload)
	sequence := len(e.requests[key])
	status, ok := e.statuses[key]
	e.mu.Unlock()

	if !ok {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status >= http.StatusBadRequest {
		_, _ = fmt.Fprintf(w, `{"statusCode":%d,"name":"application_error","message":"scripted failure"}`, status)
		return
	}
	_, _ = fmt.Fprintf(w, `{"id":"email-%d"}`, sequence)
}

// FailWith makes every later request to method and path answer with status.
func (e *EmailAPI) FailWith(method, path string, status int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statuses[method+" "+path] = status
}

// Reset forgets recorded requests and scripted statuses.
func (e *EmailAPI) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = map[string][]map[string]any{}
	e.statuses = map[string]int{}
}

// RequestCount returns how many requests reached method and path.
func (e *EmailAPI) RequestCount(method, path string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.requests[method+" "+path])
}

// RequestBody returns the decoded JSON body of the index-th request, or nil.
func (e *EmailAPI) RequestBody(method, path string, index int) map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	received := e.requests[method+" "+path]
	if index < 0 || index >= len(received) {
		return nil
	}
	return received[index]
}
