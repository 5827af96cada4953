/*
Package httpclient sends HTTP requests from a Tarmac WebAssembly function
through the host runtime.

HostClient.Do accepts a standard *http.Request, serializes it to protobuf, and
hands it to the host over waPC. The host's answer comes back as an
*http.Response, so HostClient can be used anywhere a Do-style HTTP transport is
accepted, including as the transport of a d1.Client. Errors join a sentinel
with the underlying cause and can be checked with errors.Is.
*/
package httpclient
