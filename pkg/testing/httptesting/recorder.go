package httptesting

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"sync"
	"time"
)

// credentialHeaderPattern matches the headers that must never be written into a record file
var credentialHeaderPattern = regexp.MustCompile(`(?i)^(authorization|cookie|secret|access[-_]token|(x[-_])?api[-_]?key|x[-_]mbx[-_]apikey)$`)

// signedQueryKeys are stripped from the recorded urls since they change on every request
var signedQueryKeys = []string{"signature", "timestamp"}

type RecordEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Request   *RequestRecord  `json:"request"`
	Response  *ResponseRecord `json:"response"`
	Error     string          `json:"error,omitempty"`
}

type RequestRecord struct {
	Method string      `json:"method"`
	URL    string      `json:"url"`
	Header http.Header `json:"header"`
	Body   string      `json:"body,omitempty"`
}

type ResponseRecord struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header"`
	Body       string      `json:"body,omitempty"`
}

// Recorder is a http.RoundTripper that records the request and response pairs of the underlying transport.
// The records can be saved into a file and replayed through a MockTransport.
type Recorder struct {
	mu        sync.Mutex
	entries   []RecordEntry
	transport http.RoundTripper
}

func NewRecorder(transport http.RoundTripper) *Recorder {
	return &Recorder{transport: transport}
}

func (r *Recorder) Entries() []RecordEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordEntry(nil), r.entries...)
}

func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	reqBody := drainBody(&req.Body)

	resp, err := r.transport.RoundTrip(req)
	r.record(req, reqBody, resp, err)
	return resp, err
}

func (r *Recorder) record(req *http.Request, reqBody []byte, resp *http.Response, err error) {
	header := req.Header.Clone()
	for key := range header {
		if credentialHeaderPattern.MatchString(key) {
			header.Del(key)
		}
	}

	entry := RecordEntry{
		Timestamp: time.Now(),
		Request: &RequestRecord{
			Method: req.Method,
			URL:    sanitizeURL(req.URL),
			Header: header,
			Body:   string(reqBody),
		},
	}

	if resp != nil {
		entry.Response = &ResponseRecord{
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       string(drainBody(&resp.Body)),
		}
	}

	if err != nil {
		entry.Error = err.Error()
	}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

func (r *Recorder) Save(filename string) error {
	data, err := json.MarshalIndent(r.Entries(), "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}

func (r *Recorder) Load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	var entries []RecordEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
	return nil
}

// LoadFromRecorder registers the recorded responses by their method and path.
// When a path was recorded more than once, the latest response wins.
func (transport *MockTransport) LoadFromRecorder(recorder *Recorder) error {
	for _, entry := range recorder.Entries() {
		if entry.Request == nil || entry.Response == nil {
			continue
		}

		u, err := url.Parse(entry.Request.URL)
		if err != nil {
			return err
		}

		respRec := entry.Response
		transport.Handle(entry.Request.Method, u.Path, func(_ *http.Request) (*http.Response, error) {
			resp := BuildResponseString(respRec.StatusCode, respRec.Body)
			resp.Header = respRec.Header.Clone()
			return resp, nil
		})
	}

	return nil
}

func sanitizeURL(u *url.URL) string {
	clone := *u
	query := clone.Query()
	for _, key := range signedQueryKeys {
		query.Del(key)
	}

	clone.RawQuery = query.Encode()
	return clone.String()
}

// drainBody reads the body and puts back a fresh reader so that the caller can still consume it
func drainBody(body *io.ReadCloser) []byte {
	if *body == nil || *body == http.NoBody {
		return nil
	}

	data, _ := io.ReadAll(*body)
	_ = (*body).Close()
	*body = io.NopCloser(bytes.NewReader(data))
	return data
}
