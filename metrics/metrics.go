package metrics

import (
	"errors"
	"regexp"
	"time"

	"github.com/tarmac-project/d1/host"
	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
)

const (
	capabilityName = "metrics"
	fnCounter      = "counter"
	fnGauge        = "gauge"
	fnHistogram    = "histogram"
	actionInc      = "inc"
	actionDec      = "dec"
)

// Metric names emitted by QueryRecorder.
const (
	QueriesTotal     = "d1_queries_total"
	QueryErrorsTotal = "d1_query_errors_total"
	QueriesInflight  = "d1_queries_inflight"
	QueryDuration    = "d1_query_duration_ms"
)

var (
	// ErrInvalidMetricName indicates a metric name that does not match the supported format.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z0-9_:][a-zA-Z0-9_:]*$`)
)

// Client defines the metrics capability interface.
type Client interface {
	// NewCounter creates a named counter metric handle.
	NewCounter(name string) (*Counter, error)

	// NewGauge creates a named gauge metric handle.
	NewGauge(name string) (*Gauge, error)

	// NewHistogram creates a named histogram metric handle.
	NewHistogram(name string) (*Histogram, error)
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// Runtime provides the namespace used for host calls.
	Runtime host.RuntimeConfig

	// HostCall overrides the waPC host function used for metrics operations.
	HostCall host.Call
}

// HostMetrics is the metrics capability client implementation.
type HostMetrics struct {
	runtime  host.RuntimeConfig
	hostCall host.Call
}

// Counter is a named counter metric handle.
type Counter struct {
	name      string
	namespace string
	hostCall  host.Call
}

// Gauge is a named gauge metric handle.
type Gauge struct {
	name      string
	namespace string
	hostCall  host.Call
}

// Histogram is a named histogram metric handle.
type Histogram struct {
	name      string
	namespace string
	hostCall  host.Call
}

// Ensure HostMetrics satisfies the Client interface at compile time.
var _ Client = (*HostMetrics)(nil)

// New creates a metrics client with namespace defaults and optional host-call override.
func New(config Config) (*HostMetrics, error) {
	runtime, hostCall := host.Resolve(config.Runtime, config.HostCall)
	return &HostMetrics{runtime: runtime, hostCall: hostCall}, nil
}

// NewCounter creates a named counter metric handle.
func (c *HostMetrics) NewCounter(name string) (*Counter, error) {
	if !isMetricNameValid.MatchString(name) {
		return nil, ErrInvalidMetricName
	}

	return &Counter{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	payload, err := (&proto.MetricsCounter{Name: c.name}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = c.hostCall(c.namespace, capabilityName, fnCounter, payload)
}

// NewGauge creates a named gauge metric handle.
func (c *HostMetrics) NewGauge(name string) (*Gauge, error) {
	if !isMetricNameValid.MatchString(name) {
		return nil, ErrInvalidMetricName
	}

	return &Gauge{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

// Inc increments the gauge by one.
func (g *Gauge) Inc() {
	g.emit(actionInc)
}

// Dec decrements the gauge by one.
func (g *Gauge) Dec() {
	g.emit(actionDec)
}

func (g *Gauge) emit(action string) {
	payload, err := (&proto.MetricsGauge{Name: g.name, Action: action}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = g.hostCall(g.namespace, capabilityName, fnGauge, payload)
}

// NewHistogram creates a named histogram metric handle.
func (c *HostMetrics) NewHistogram(name string) (*Histogram, error) {
	if !isMetricNameValid.MatchString(name) {
		return nil, ErrInvalidMetricName
	}

	return &Histogram{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

// Observe records a value for the histogram.
func (h *Histogram) Observe(value float64) {
	payload, err := (&proto.MetricsHistogram{Name: h.name, Value: value}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = h.hostCall(h.namespace, capabilityName, fnHistogram, payload)
}

// QueryRecorder instruments D1 queries: total and failed counts, in-flight
// requests, and wall-clock duration in milliseconds.
type QueryRecorder struct {
	total    *Counter
	failed   *Counter
	inflight *Gauge
	duration *Histogram
}

// NewQueryRecorder creates the D1 query instruments on c.
func NewQueryRecorder(c Client) (*QueryRecorder, error) {
	total, err := c.NewCounter(QueriesTotal)
	if err != nil {
		return nil, err
	}
	failed, err := c.NewCounter(QueryErrorsTotal)
	if err != nil {
		return nil, err
	}
	inflight, err := c.NewGauge(QueriesInflight)
	if err != nil {
		return nil, err
	}
	duration, err := c.NewHistogram(QueryDuration)
	if err != nil {
		return nil, err
	}

	return &QueryRecorder{total: total, failed: failed, inflight: inflight, duration: duration}, nil
}

// Start marks a query as in flight. The returned func must be called exactly
// once with the query outcome.
func (r *QueryRecorder) Start() func(err error) {
	begin := time.Now()
	r.total.Inc()
	r.inflight.Inc()

	return func(err error) {
		r.inflight.Dec()
		r.duration.Observe(float64(time.Since(begin)) / float64(time.Millisecond))
		if err != nil {
			r.failed.Inc()
		}
	}
}
