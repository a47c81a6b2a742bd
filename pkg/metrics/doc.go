// Package metrics defines Prometheus metrics for ghinit and sortjson and
// exports them as node-exporter textfiles.
package metrics
