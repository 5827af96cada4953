/*
Package d1 is a client for the Cloudflare D1 HTTP query API.

A Client sends one authenticated POST per call to

	https://api.cloudflare.com/client/v4/accounts/{accountId}/d1/database/{databaseId}/query

and unwraps the JSON envelope in one of three ways:

  - ExecRaw / Exec return the full QueryResponse.
  - AllRaw / All return the first result set.
  - FirstRaw / First return the first row of the first result set, or nil.

The Raw forms take SQL with positional placeholders (?1, ?2, ...) and a
parameter slice. The templated forms take literal fragments and the values
between them, the Go rendition of a tagged template:

	row, err := client.First(ctx, []string{"SELECT * FROM users WHERE id = ", ""}, 42)

Build turns fragments into a Statement; values are bound by position and never
inlined. ExecRawAs, AllRawAs, and FirstRawAs decode rows into a caller type.

Errors

A response with a non-empty errors list fails with *RemoteQueryError
(errors.Is ErrRemoteQuery), whatever its success flag says. Failures before an
envelope is decoded fail with *TransportError (errors.Is ErrTransport), which
unwraps to the underlying cause. All and First fail with ErrEmptyResultSet when
the envelope has no result sets; an empty row list is not an error.

Nothing is retried. Pass a context with a deadline to bound a call.

Transports

Config.HTTPClient accepts any Doer. Inside a Tarmac WebAssembly function use
httpclient.HostClient, which routes the request through the host runtime.
*/
package d1
