/*
Package observability provides tools for monitoring the ballpark engine.

Metrics are fed by the engine's lifecycle hooks and by the HTTP adapter, and
exposed in the Prometheus format. LogHooks turns the same events into
structured log records.
*/
package observability
