package mock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// DefaultBody is the envelope returned when no response has been configured:
// a successful request with no result sets.
const DefaultBody = `{"success":true,"errors":[],"messages":[],"result":[]}`

// MockClient is an in-memory HTTP transport for D1 client tests. It records
// every request and returns configured responses; it never performs network I/O.
//
// revive:disable:exported // Name mirrors package for discoverability; stutter is acceptable here.
type MockClient struct {
	mu sync.Mutex

	// responses maps "METHOD URL" keys to predefined responses.
	responses map[string]*Response

	// defaultResponse is returned when no method/URL-specific response exists.
	defaultResponse *Response

	calls []Call
}

// revive:enable:exported

// Response describes a synthetic HTTP response used by the mock.
type Response struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int
	// Body is the raw payload returned to callers.
	Body []byte
	// Header holds headers to include in the response.
	Header http.Header
	// Error, when set, is returned instead of a response.
	Error error
}

// Call captures a single request issued through the mock.
type Call struct {
	// Method is the HTTP method used.
	Method string
	// URL is the requested URL string.
	URL string
	// Body contains the request body, if provided.
	Body []byte
	// Header holds the request headers.
	Header http.Header
}

// Config controls construction of a MockClient.
type Config struct {
	// DefaultResponse is used when no specific response has been configured.
	DefaultResponse *Response
}

// New creates a new mock transport.
func New(config Config) *MockClient {
	defaultResp := config.DefaultResponse
	if defaultResp == nil {
		defaultResp = &Response{
			StatusCode: http.StatusOK,
			Body:       []byte(DefaultBody),
		}
	}

	return &MockClient{
		responses:       make(map[string]*Response),
		defaultResponse: defaultResp,
	}
}

// Calls returns a copy of the recorded requests, in order.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// On starts configuration of a response for a given method and URL.
func (m *MockClient) On(method, url string) *ResponseBuilder {
	return &ResponseBuilder{client: m, key: method + " " + url}
}

// Do records req and returns the configured response.
func (m *MockClient) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		body = b
	}

	url := req.URL.String()

	m.mu.Lock()
	m.calls = append(m.calls, Call{
		Method: req.Method,
		URL:    url,
		Body:   body,
		Header: req.Header.Clone(),
	})
	resp, ok := m.responses[req.Method+" "+url]
	if !ok {
		resp = m.defaultResponse
	}
	m.mu.Unlock()

	if resp.Error != nil {
		return nil, resp.Error
	}
	return toHTTPResponse(req, resp), nil
}

func toHTTPResponse(req *http.Request, r *Response) *http.Response {
	code := r.StatusCode
	if code == 0 {
		code = http.StatusOK
	}

	header := make(http.Header)
	for k, values := range r.Header {
		for _, v := range values {
			header.Add(k, v)
		}
	}
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", code, http.StatusText(code)),
		StatusCode:    code,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}
}

// ResponseBuilder configures a response for a specific method and URL.
type ResponseBuilder struct {
	client *MockClient
	key    string
}

// Return sets the response for the configured method and URL.
func (r *ResponseBuilder) Return(response *Response) *MockClient {
	r.client.mu.Lock()
	r.client.responses[r.key] = response
	r.client.mu.Unlock()
	return r.client
}

// ReturnJSON encodes v as the 200 OK response body for the configured method and URL.
// It panics if v cannot be encoded.
func (r *ResponseBuilder) ReturnJSON(v any) *MockClient {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("mock: encoding response: %v", err))
	}
	return r.Return(&Response{StatusCode: http.StatusOK, Body: b})
}

// ReturnError configures a transport failure for the configured method and URL.
func (r *ResponseBuilder) ReturnError(err error) *MockClient {
	return r.Return(&Response{Error: err})
}
