/*
Package observability provides Prometheus metrics for the narrator engine.

Metrics are fed through domain.LifecycleHooks, so the engine itself never
imports Prometheus. Each Metrics value owns its registry; the HTTP adapter
serves it on /metrics.
*/
package observability
