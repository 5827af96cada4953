/*
Package metrics provides counters, gauges, and histograms backed by the Tarmac
host metrics capability, plus QueryRecorder, which bundles the instruments the
D1 client emits when metrics are configured.

Emission methods follow Prometheus-style ergonomics: Inc/Dec/Observe are
best-effort and do not return errors. Marshal or host-call failures are
swallowed so they never change the outcome of a query.
*/
package metrics
