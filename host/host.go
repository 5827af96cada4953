package host

import (
	"errors"

	wapc "github.com/wapc/wapc-guest-tinygo"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "tarmac"

var (
	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the host returned an invalid or unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the host completed the call but reported a failure status.
	ErrHostError = errors.New("host returned an error status")
)

// Call is the waPC host function signature shared by every capability client.
type Call func(namespace, capability, function string, payload []byte) ([]byte, error)

// RuntimeConfig carries the settings shared by capability clients.
type RuntimeConfig struct {
	// Namespace is the function namespace used to scope host interactions.
	Namespace string
}

// Resolve applies defaults: an empty namespace becomes DefaultNamespace and a
// nil call becomes wapc.HostCall.
func Resolve(runtime RuntimeConfig, call Call) (RuntimeConfig, Call) {
	if runtime.Namespace == "" {
		runtime.Namespace = DefaultNamespace
	}
	if call == nil {
		call = wapc.HostCall
	}
	return runtime, call
}
