/*
Package hostmock provides a pretend host for waPC calls.

It lets the capability clients in this module (httpclient, logging, metrics)
be tested without a Tarmac host: the mock checks routing, hands the payload to
an optional validator, and returns scripted bytes or a failure.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "tarmac",
	  ExpectedCapability: "httpclient",
	  ExpectedFunction:   "call",
	  PayloadValidator: func(p []byte) error {
	    // Unmarshal and assert fields here
	    return nil
	  },
	  Response: func() []byte { return []byte("ok") },
	})

	resp, err := m.HostCall("tarmac", "httpclient", "call", []byte("payload"))

Behavior

  - Every invocation is recorded and available from Calls.
  - If Fail is true and Error is set, HostCall returns that error.
  - If Fail is true and Error is nil, HostCall returns ErrOperationFailed.
  - Otherwise, HostCall enforces the Expected* fields that are set and runs
    PayloadValidator when provided. Response (when set) provides the return
    bytes; otherwise it returns nil.
*/
package hostmock
