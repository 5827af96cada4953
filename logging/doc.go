/*
Package logging defines the Logger used by the D1 client for diagnostics.

Nop discards everything and is the client default. HostLogger forwards entries
to the Tarmac host runtime through the waPC logging capability, so a D1 client
embedded in a WebAssembly function logs alongside the host.
*/
package logging
