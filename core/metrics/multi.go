package metrics

import "errors"

// MultiSink fans events out to several sinks. A failing sink does not stop
// delivery to the others.
type MultiSink struct {
	Sinks []ScoreSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...ScoreSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordScore forwards ev to all sinks and joins their errors.
func (m *MultiSink) RecordScore(ev ScoreEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordScore(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordSessionEvent forwards to sinks implementing SessionEventRecorder.
func (m *MultiSink) RecordSessionEvent(ev SessionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(SessionEventRecorder); ok {
			if err := rec.RecordSessionEvent(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordActiveSessions forwards to sinks implementing ActiveSessionsRecorder.
func (m *MultiSink) RecordActiveSessions(n int) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(ActiveSessionsRecorder); ok {
			if err := rec.RecordActiveSessions(n); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordInvalidLeg forwards to sinks implementing InvalidLegRecorder.
func (m *MultiSink) RecordInvalidLeg(reason string) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(InvalidLegRecorder); ok {
			if err := rec.RecordInvalidLeg(reason); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
