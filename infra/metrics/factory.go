package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/ecocommute/core/factory"
	coremetrics "github.com/kilianp07/ecocommute/core/metrics"
)

// init registers the built-in sinks.
func init() {
	_ = coremetrics.RegisterScoreSink("prometheus", func(map[string]any) (coremetrics.ScoreSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterScoreSink("influx", func(conf map[string]any) (coremetrics.ScoreSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
