package metrics

import "github.com/kilianp07/ecocommute/core/factory"

var sinkRegistry = factory.NewRegistry[ScoreSink]("metrics sink")

func init() {
	_ = RegisterScoreSink("nop", func(map[string]any) (ScoreSink, error) {
		return NopSink{}, nil
	})
}

// RegisterScoreSink adds a sink factory identified by name.
func RegisterScoreSink(name string, f factory.Factory[ScoreSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewScoreSink creates the configured sinks. No configuration yields NopSink.
func NewScoreSink(cfgs []factory.ModuleConfig) (ScoreSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]ScoreSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			NewMultiSink(sinks[:i]...).Close()
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
