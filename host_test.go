package d1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/tarmac-project/d1/host"
	"github.com/tarmac-project/d1/hostmock"
	"github.com/tarmac-project/d1/httpclient"
	"github.com/tarmac-project/d1/logging"
	"github.com/tarmac-project/d1/metrics"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
)

// fakeHost routes waPC calls by capability and records them.
type fakeHost struct {
	mu     sync.Mutex
	calls  map[string][]string
	status int32
	body   []byte
}

func newFakeHost(body []byte) *fakeHost {
	return &fakeHost{calls: map[string][]string{}, status: 200, body: body}
}

func (h *fakeHost) call(namespace, capability, function string, payload []byte) ([]byte, error) {
	if namespace != host.DefaultNamespace {
		return nil, fmt.Errorf("unexpected namespace %q", namespace)
	}

	h.mu.Lock()
	h.calls[capability] = append(h.calls[capability], function)
	h.mu.Unlock()

	if capability != "httpclient" {
		return nil, nil
	}

	var req proto.HTTPClient
	if err := req.UnmarshalVT(payload); err != nil {
		return nil, err
	}
	if req.GetMethod() != http.MethodPost || req.GetUrl() != testEndpoint {
		return nil, fmt.Errorf("unexpected request %s %s", req.GetMethod(), req.GetUrl())
	}
	if v := req.GetHeaders()["Authorization"].GetValues(); len(v) != 1 || v[0] != "Bearer api-key" {
		return nil, fmt.Errorf("unexpected authorization %v", v)
	}

	resp := &proto.HTTPClientResponse{
		Status: &sdkproto.Status{Status: "OK", Code: h.status},
		Code:   200,
		Body:   h.body,
	}
	return resp.MarshalVT()
}

func (h *fakeHost) functions(capability string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls[capability]...)
}

func newHostClient(t *testing.T, h *fakeHost) *Client {
	t.Helper()

	transport, err := httpclient.New(httpclient.Config{HostCall: h.call})
	if err != nil {
		t.Fatalf("httpclient: %v", err)
	}
	logger, err := logging.New(logging.Config{HostCall: h.call})
	if err != nil {
		t.Fatalf("logging: %v", err)
	}
	m, err := metrics.New(metrics.Config{HostCall: h.call})
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}

	cfg := validConfig()
	cfg.HTTPClient = transport
	cfg.Logger = logger
	cfg.Metrics = m
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}

func TestClient_OverHost(t *testing.T) {
	t.Parallel()

	h := newFakeHost(oneRowEnvelope())
	c := newHostClient(t, h)

	row, err := c.First(context.Background(), []string{"SELECT * FROM users WHERE id = ", ""}, 1)
	if err != nil {
		t.Fatalf("First returned error: %v", err)
	}
	if row["id"] != float64(1) {
		t.Fatalf("unexpected row: %v", row)
	}

	if got := h.functions("httpclient"); len(got) != 1 {
		t.Fatalf("expected 1 host HTTP call, got %v", got)
	}
	if got := h.functions("logging"); len(got) != 1 || got[0] != "Debug" {
		t.Fatalf("expected a single Debug entry, got %v", got)
	}
	want := []string{"counter", "gauge", "gauge", "histogram"}
	if got := h.functions("metrics"); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("metrics mismatch: want %v, got %v", want, got)
	}
}

func TestClient_OverHost_Failures(t *testing.T) {
	t.Parallel()

	t.Run("remote error", func(t *testing.T) {
		t.Parallel()

		h := newFakeHost(envelope(false, []QueryError{{Code: 7500, Message: "no such table: users"}}, nil))
		c := newHostClient(t, h)

		_, err := c.ExecRaw(context.Background(), "SELECT * FROM users", nil)
		if !errors.Is(err, ErrRemoteQuery) {
			t.Fatalf("expected ErrRemoteQuery, got %v", err)
		}
		if got := h.functions("logging"); len(got) != 2 || got[1] != "Error" {
			t.Fatalf("expected Debug then Error, got %v", got)
		}
		if got := h.functions("metrics"); len(got) != 5 || got[4] != "counter" {
			t.Fatalf("expected failure counter, got %v", got)
		}
	})

	t.Run("host error status", func(t *testing.T) {
		t.Parallel()

		h := newFakeHost(nil)
		h.status = 500
		c := newHostClient(t, h)

		_, err := c.ExecRaw(context.Background(), "SELECT 1", nil)
		if !errors.Is(err, ErrTransport) || !errors.Is(err, host.ErrHostError) {
			t.Fatalf("expected transport error wrapping ErrHostError, got %v", err)
		}
	})
}

func TestClient_HostMockTransport(t *testing.T) {
	t.Parallel()

	mock, err := hostmock.New(hostmock.Config{Fail: true})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}
	transport, err := httpclient.New(httpclient.Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("httpclient: %v", err)
	}

	cfg := validConfig()
	cfg.HTTPClient = transport
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = c.AllRaw(context.Background(), "SELECT 1", nil)
	if !errors.Is(err, ErrTransport) || !errors.Is(err, hostmock.ErrOperationFailed) {
		t.Fatalf("expected transport error wrapping the host failure, got %v", err)
	}
	if len(mock.Calls()) != 1 {
		t.Fatalf("expected exactly one host call, got %d", len(mock.Calls()))
	}
}
