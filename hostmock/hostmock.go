package hostmock

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tarmac-project/d1/host"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// ExpectedNamespace defines the namespace expected in the host call. Empty matches any.
	ExpectedNamespace string

	// ExpectedCapability defines the capability expected in the host call. Empty matches any.
	ExpectedCapability string

	// ExpectedFunction defines the function name expected in the host call. Empty matches any.
	ExpectedFunction string

	// Error is the error to return if the mock is configured to fail.
	Error error

	// PayloadValidator validates the payload passed to the host call.
	PayloadValidator func([]byte) error

	// Response defines the response to return for the host call.
	Response func() []byte

	// Fail indicates whether the mock should return an error.
	Fail bool
}

// Call records a single host invocation observed by the mock.
type Call struct {
	Namespace  string
	Capability string
	Function   string
	Payload    []byte
}

// Mock simulates a host call interface with validation and configurable responses.
type Mock struct {
	cfg Config

	mu    sync.Mutex
	calls []Call
}

// Ensure HostCall always matches the host call signature at compile time.
var _ host.Call = (*Mock)(nil).HostCall

// New creates a new instance of the Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	return &Mock{cfg: config}, nil
}

// Calls returns a copy of every invocation observed so far, in order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// HostCall simulates a host call, validating inputs and returning a response or error.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{
		Namespace:  namespace,
		Capability: capability,
		Function:   function,
		Payload:    append([]byte(nil), payload...),
	})
	m.mu.Unlock()

	if m.cfg.Fail {
		if m.cfg.Error != nil {
			return nil, m.cfg.Error
		}
		return nil, ErrOperationFailed
	}

	if want := m.cfg.ExpectedNamespace; want != "" && want != namespace {
		return nil, fmt.Errorf("%w: expected namespace %s, got %s", ErrUnexpectedNamespace, want, namespace)
	}

	if want := m.cfg.ExpectedCapability; want != "" && want != capability {
		return nil, fmt.Errorf("%w: expected capability %s, got %s", ErrUnexpectedCapability, want, capability)
	}

	if want := m.cfg.ExpectedFunction; want != "" && want != function {
		return nil, fmt.Errorf("%w: expected function %s, got %s", ErrUnexpectedFunction, want, function)
	}

	if m.cfg.PayloadValidator != nil {
		if err := m.cfg.PayloadValidator(payload); err != nil {
			return nil, err
		}
	}

	if m.cfg.Response != nil {
		return m.cfg.Response(), nil
	}

	return nil, nil
}
