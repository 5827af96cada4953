/*
Package host holds the pieces shared by the waPC capability clients
(httpclient, logging, metrics): the default namespace, the host call
signature, and the sentinel errors used to report host failures.

Capability clients run inside a Tarmac WebAssembly function and reach the
outside world through waPC host calls. Errors returned by those clients join
one of the sentinels here with the underlying cause, so callers can check them
with errors.Is.
*/
package host
