package d1

import (
	"errors"
	"strings"
)

var (
	// ErrRemoteQuery indicates the D1 API answered with one or more errors in the envelope.
	ErrRemoteQuery = errors.New("remote query failed")

	// ErrTransport indicates the HTTP exchange or response decoding failed before an envelope was obtained.
	ErrTransport = errors.New("transport failed")

	// ErrEmptyResultSet is returned by All and First when the envelope carries no result sets.
	ErrEmptyResultSet = errors.New("empty result set")

	// ErrInvalidTemplateShape indicates the fragment count is not one more than the value count.
	ErrInvalidTemplateShape = errors.New("template must have exactly one more fragment than values")

	// ErrInvalidConfig indicates a required Config field is missing.
	ErrInvalidConfig = errors.New("config is invalid")
)

// RemoteQueryError carries the envelope of a request the D1 API rejected.
type RemoteQueryError struct {
	// Response is the full decoded envelope.
	Response *QueryResponse[Row]
	// Errors is the error list reported by the API.
	Errors []QueryError
}

func (e *RemoteQueryError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, qe := range e.Errors {
		msgs = append(msgs, qe.Message)
	}
	return "D1 error: " + strings.Join(msgs, ", ")
}

// Is matches ErrRemoteQuery.
func (e *RemoteQueryError) Is(target error) bool {
	return target == ErrRemoteQuery
}

// TransportError wraps the underlying failure of the HTTP exchange unmodified.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return ErrTransport.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both ErrTransport and the underlying cause to errors.Is and errors.As.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
