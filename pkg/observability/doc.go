/*
Package observability turns session lifecycle hooks into logs, Prometheus
metrics and OpenTelemetry spans.

Each helper returns a domain.LifecycleHooks value; Combine merges them so the
session controller only ever holds one.
*/
package observability
