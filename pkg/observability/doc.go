/*
Package observability turns fixture run lifecycle events into Prometheus
metrics.

Metrics are registered on a caller-supplied prometheus.Registerer so tests and
embedders can keep them off the global registry.
*/
package observability
