package logging

import (
	"github.com/tarmac-project/d1/host"
)

const capabilityName = "logging"

// Logger receives diagnostic messages from the D1 client.
type Logger interface {
	Debug(message string)
	Info(message string)
	Warn(message string)
	Error(message string)
}

// Config controls how a HostLogger interacts with the host runtime.
type Config struct {
	// Runtime provides the namespace used for host calls.
	Runtime host.RuntimeConfig

	// HostCall overrides the waPC host function used for logging operations.
	HostCall host.Call
}

// HostLogger implements Logger by forwarding entries to the host logging capability.
type HostLogger struct {
	runtime  host.RuntimeConfig
	hostCall host.Call
}

// Ensure HostLogger always satisfies the Logger interface at compile time.
var _ Logger = (*HostLogger)(nil)

// New creates a HostLogger that emits logs through the configured host capability.
func New(cfg Config) (*HostLogger, error) {
	runtime, hostCall := host.Resolve(cfg.Runtime, cfg.HostCall)
	return &HostLogger{runtime: runtime, hostCall: hostCall}, nil
}

func (l *HostLogger) Debug(message string) { l.log("Debug", message) }
func (l *HostLogger) Info(message string)  { l.log("Info", message) }
func (l *HostLogger) Warn(message string)  { l.log("Warn", message) }
func (l *HostLogger) Error(message string) { l.log("Error", message) }

// log is best effort; a failed host call drops the entry.
func (l *HostLogger) log(fn string, message string) {
	_, _ = l.hostCall(l.runtime.Namespace, capabilityName, fn, []byte(message))
}

type nop struct{}

func (nop) Debug(string) {}
func (nop) Info(string)  {}
func (nop) Warn(string)  {}
func (nop) Error(string) {}

// Nop returns a Logger that discards every entry.
func Nop() Logger { return nop{} }
