// Package prometheus provides a Prometheus adapter for
// github.com/abczzz13/weblog.
//
// The package exposes weblog options that install Prometheus-backed Metrics
// on a registry, using either the default registerer or a caller-provided
// registerer.
package prometheus
