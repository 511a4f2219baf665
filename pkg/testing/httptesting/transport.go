package httptesting

import (
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type RoundTripFunc func(req *http.Request) (*http.Response, error)

// MockTransport dispatches the requests to the handlers registered by method and path,
// every request it receives is kept for assertions.
type MockTransport struct {
	mu       sync.Mutex
	handlers map[string]map[string]RoundTripFunc
	requests []*http.Request
}

func (transport *MockTransport) Handle(method, path string, f RoundTripFunc) {
	transport.mu.Lock()
	defer transport.mu.Unlock()

	if transport.handlers == nil {
		transport.handlers = make(map[string]map[string]RoundTripFunc)
	}

	method = strings.ToUpper(method)
	if transport.handlers[method] == nil {
		transport.handlers[method] = make(map[string]RoundTripFunc)
	}

	transport.handlers[method][path] = f
}

func (transport *MockTransport) GET(path string, f RoundTripFunc) {
	transport.Handle(http.MethodGet, path, f)
}

func (transport *MockTransport) POST(path string, f RoundTripFunc) {
	transport.Handle(http.MethodPost, path, f)
}

func (transport *MockTransport) DELETE(path string, f RoundTripFunc) {
	transport.Handle(http.MethodDelete, path, f)
}

func (transport *MockTransport) PUT(path string, f RoundTripFunc) {
	transport.Handle(http.MethodPut, path, f)
}

// Requests returns the requests received so far.
func (transport *MockTransport) Requests() []*http.Request {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	return append([]*http.Request(nil), transport.requests...)
}

// LastRequest returns the latest received request, nil if there is none.
func (transport *MockTransport) LastRequest() *http.Request {
	transport.mu.Lock()
	defer transport.mu.Unlock()

	if len(transport.requests) == 0 {
		return nil
	}

	return transport.requests[len(transport.requests)-1]
}

func (transport *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport.mu.Lock()
	transport.requests = append(transport.requests, req)
	f, ok := transport.handlers[strings.ToUpper(req.Method)][req.URL.Path]
	transport.mu.Unlock()

	if !ok {
		return nil, errors.Errorf("roundtrip mock to %s %s is not defined", req.Method, req.URL.Path)
	}

	resp, err := f(req)
	if resp != nil && resp.Request == nil {
		resp.Request = req
	}

	return resp, err
}

func MockWithJsonReply(url string, rawData interface{}) *http.Client {
	tripFunc := func(_ *http.Request) (*http.Response, error) {
		return BuildResponseJson(http.StatusOK, rawData), nil
	}

	transport := &MockTransport{}
	transport.DELETE(url, tripFunc)
	transport.GET(url, tripFunc)
	transport.POST(url, tripFunc)
	transport.PUT(url, tripFunc)
	return &http.Client{Transport: transport}
}
