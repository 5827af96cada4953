package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/tarmac-project/d1/host"
	"github.com/tarmac-project/d1/hostmock"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
)

const queryURL = "https://api.cloudflare.com/client/v4/accounts/acc/d1/database/db/query"

// okResponse returns a 200 OK host response carrying a D1 envelope.
func okResponse() []byte {
	resp := &proto.HTTPClientResponse{
		Status: &sdkproto.Status{Status: "Host OK", Code: 200},
		Code:   200,
		Headers: map[string]*proto.Header{
			"Content-Type": {Values: []string{"application/json"}},
		},
		Body: []byte(`{"success":true,"errors":[],"messages":[],"result":[]}`),
	}
	b, _ := resp.MarshalVT()
	return b
}

func statusResponse(code int32, status string) func() []byte {
	return func() []byte {
		resp := &proto.HTTPClientResponse{Status: &sdkproto.Status{Status: status, Code: code}}
		b, _ := resp.MarshalVT()
		return b
	}
}

// requestValidator verifies method, URL, body, and headers on the protobuf payload.
func requestValidator(method, url string, body []byte, headers map[string]string) func([]byte) error {
	return func(payload []byte) error {
		var req proto.HTTPClient
		if err := req.UnmarshalVT(payload); err != nil {
			return fmt.Errorf("could not unmarshal payload: %w", err)
		}
		if req.GetMethod() != method {
			return fmt.Errorf("method mismatch: expected %s, got %s", method, req.GetMethod())
		}
		if req.GetUrl() != url {
			return fmt.Errorf("url mismatch: expected %s, got %s", url, req.GetUrl())
		}
		if !bytes.Equal(req.GetBody(), body) {
			return fmt.Errorf("body mismatch: expected %q, got %q", body, req.GetBody())
		}
		for k, v := range headers {
			h, ok := req.GetHeaders()[k]
			if !ok || len(h.GetValues()) != 1 || h.GetValues()[0] != v {
				return fmt.Errorf("header %s mismatch: expected %q, got %v", k, v, h.GetValues())
			}
		}
		return nil
	}
}

func newClientWith(t *testing.T, cfg hostmock.Config) *HostClient {
	t.Helper()

	m, err := hostmock.New(cfg)
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}
	c, err := New(Config{HostCall: m.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}

func TestNew_DefaultNamespace(t *testing.T) {
	t.Parallel()

	c, err := New(Config{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.cfg.Runtime.Namespace != host.DefaultNamespace {
		t.Fatalf("namespace mismatch: want %q, got %q", host.DefaultNamespace, c.cfg.Runtime.Namespace)
	}
	if c.hostCall == nil {
		t.Fatalf("expected default host call")
	}
}

func TestDo_HappyPath(t *testing.T) {
	t.Parallel()

	body := `{"sql":"SELECT 1"}`
	c := newClientWith(t, hostmock.Config{
		ExpectedNamespace:  host.DefaultNamespace,
		ExpectedCapability: capabilityName,
		ExpectedFunction:   fnCall,
		PayloadValidator: requestValidator(http.MethodPost, queryURL, []byte(body), map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer key",
		}),
		Response: okResponse,
	})

	req, err := http.NewRequest(http.MethodPost, queryURL, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer key")

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status mismatch: want 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type mismatch: got %q", got)
	}
	got, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(got), `"success":true`) {
		t.Fatalf("unexpected body: %s", got)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read failure") }

func TestDo_Errors(t *testing.T) {
	t.Parallel()

	newReq := func(t *testing.T) *http.Request {
		req, err := http.NewRequest(http.MethodPost, queryURL, strings.NewReader("{}"))
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		return req
	}

	tt := []struct {
		name    string
		cfg     hostmock.Config
		req     func(*testing.T) *http.Request
		wantErr error
	}{
		{
			name:    "nil request",
			req:     func(*testing.T) *http.Request { return nil },
			wantErr: ErrNilRequest,
		},
		{
			name: "missing host",
			req: func(t *testing.T) *http.Request {
				req := newReq(t)
				req.URL.Host = ""
				return req
			},
			wantErr: ErrInvalidURL,
		},
		{
			name: "body read failure",
			req: func(t *testing.T) *http.Request {
				req := newReq(t)
				req.Body = io.NopCloser(errReader{})
				return req
			},
			wantErr: ErrReadBody,
		},
		{
			name:    "host call failure",
			cfg:     hostmock.Config{Fail: true},
			req:     newReq,
			wantErr: host.ErrHostCall,
		},
		{
			name:    "garbage response",
			cfg:     hostmock.Config{Response: func() []byte { return []byte{0xff, 0xff, 0xff} }},
			req:     newReq,
			wantErr: ErrUnmarshalResponse,
		},
		{
			name:    "missing status",
			cfg:     hostmock.Config{Response: func() []byte { return nil }},
			req:     newReq,
			wantErr: host.ErrHostResponseInvalid,
		},
		{
			name:    "host error status",
			cfg:     hostmock.Config{Response: statusResponse(500, "upstream unreachable")},
			req:     newReq,
			wantErr: host.ErrHostError,
		},
		{
			name:    "unknown host status",
			cfg:     hostmock.Config{Response: statusResponse(302, "moved")},
			req:     newReq,
			wantErr: host.ErrHostResponseInvalid,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newClientWith(t, tc.cfg)
			resp, err := c.Do(tc.req(t))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if resp != nil {
				t.Fatalf("expected nil response on error")
			}
		})
	}
}
