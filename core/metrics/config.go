package metrics

import "github.com/kilianp07/ecocommute/core/factory"

// Config defines the metrics sinks and the Prometheus endpoint.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr serves /metrics when non-empty, e.g. ":9100".
	PrometheusAddr string `json:"prometheus_addr"`
}
