// Package metrics defines the observability interfaces for scored
// itineraries. Sinks such as PromSink and InfluxSink record score events and
// can be combined with NewMultiSink. NewScoreSink returns a MultiSink
// automatically when several sinks are configured.
package metrics
