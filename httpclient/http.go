package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tarmac-project/d1/host"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
)

const (
	capabilityName = "httpclient"
	fnCall         = "call"

	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

var (
	// ErrInvalidURL indicates a missing or host-less request URL.
	ErrInvalidURL = errors.New("invalid URL provided")

	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to create request")

	// ErrReadBody wraps failures while reading a request body stream.
	ErrReadBody = errors.New("failed to read request body")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")

	// ErrNilRequest indicates Do received a nil Request pointer.
	ErrNilRequest = errors.New("request is nil")
)

// Config configures the host HTTP client.
//
// Runtime supplies the namespace used when making waPC host calls; an empty
// namespace defaults to host.DefaultNamespace. InsecureSkipVerify controls TLS
// verification on the host side when supported by the runtime. HostCall lets
// tests inject a custom host function; when nil, wapc.HostCall is used.
type Config struct {
	// Runtime provides the runtime namespace for host calls.
	Runtime host.RuntimeConfig
	// InsecureSkipVerify disables TLS verification when supported.
	InsecureSkipVerify bool
	// HostCall overrides the waPC host function used for requests.
	HostCall host.Call
}

// HostClient sends standard library HTTP requests through the Tarmac host.
// It satisfies the transport interface expected by d1.Config.HTTPClient.
type HostClient struct {
	cfg      Config
	hostCall host.Call
}

// New creates a new host HTTP client with the provided configuration.
func New(config Config) (*HostClient, error) {
	runtime, hostCall := host.Resolve(config.Runtime, config.HostCall)
	config.Runtime = runtime
	return &HostClient{cfg: config, hostCall: hostCall}, nil
}

// Do sends req through the host and returns the host's response.
//
// The request context is not propagated; cancellation and timeouts are governed
// by the host runtime.
func (c *HostClient) Do(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	// Validate the URL before touching the body stream.
	if req.URL == nil || req.URL.Host == "" {
		return nil, ErrInvalidURL
	}

	var bodyBytes []byte
	if req.Body != nil {
		defer func() { _ = req.Body.Close() }()
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, errors.Join(ErrReadBody, err)
		}
	}

	pbReq := &proto.HTTPClient{
		Method:   req.Method,
		Url:      req.URL.String(),
		Insecure: c.cfg.InsecureSkipVerify,
		Body:     bodyBytes,
		Headers:  make(map[string]*proto.Header, len(req.Header)),
	}
	for key, values := range req.Header {
		pbReq.Headers[key] = &proto.Header{Values: values}
	}

	return c.call(req, pbReq)
}

// call marshals the protobuf request, performs the host call, and converts the
// host response into an *http.Response.
func (c *HostClient) call(req *http.Request, pbReq *proto.HTTPClient) (*http.Response, error) {
	b, err := pbReq.MarshalVT()
	if err != nil {
		return nil, errors.Join(ErrMarshalRequest, err)
	}

	raw, err := c.hostCall(c.cfg.Runtime.Namespace, capabilityName, fnCall, b)
	if err != nil {
		return nil, errors.Join(host.ErrHostCall, err)
	}

	var r proto.HTTPClientResponse
	if unmarshalErr := r.UnmarshalVT(raw); unmarshalErr != nil {
		return nil, errors.Join(ErrUnmarshalResponse, unmarshalErr)
	}

	if statusErr := validateStatus(r.GetStatus()); statusErr != nil {
		return nil, statusErr
	}

	code := int(r.GetCode())
	resp := &http.Response{
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		StatusCode: code,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     make(http.Header, len(r.GetHeaders())),
		Request:    req,
	}
	for name, header := range r.GetHeaders() {
		resp.Header[name] = header.GetValues()
	}

	body := r.GetBody()
	resp.ContentLength = int64(len(body))
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, nil
}

func validateStatus(status *sdkproto.Status) error {
	if status == nil {
		return host.ErrHostResponseInvalid
	}

	code := status.GetCode()
	switch code {
	case hostStatusOK, hostStatusPartial:
		return nil
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return errors.Join(host.ErrHostError, errors.New(detail))
	default:
		return errors.Join(
			host.ErrHostResponseInvalid,
			fmt.Errorf("unexpected host status code %d", code),
		)
	}
}
