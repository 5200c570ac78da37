package metrics_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	metrics "github.com/kilianp07/ecocommute/core/metrics"
	"github.com/kilianp07/ecocommute/core/model"
)

type recordSink struct {
	scores   int
	sessions int
	active   int
	invalid  int
	err      error
}

func (r *recordSink) RecordScore(metrics.ScoreEvent) error {
	r.scores++
	return r.err
}

func (r *recordSink) RecordSessionEvent(metrics.SessionEvent) error {
	r.sessions++
	return nil
}

func (r *recordSink) RecordActiveSessions(n int) error {
	r.active = n
	return nil
}

func (r *recordSink) RecordInvalidLeg(string) error {
	r.invalid++
	return nil
}

type scoreOnly struct{ n int }

func (s *scoreOnly) RecordScore(metrics.ScoreEvent) error {
	s.n++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &scoreOnly{}
	m := metrics.NewMultiSink(s1, s2)
	if err := m.RecordScore(metrics.ScoreEvent{}); err != nil {
		t.Fatalf("record score: %v", err)
	}
	if err := m.RecordSessionEvent(metrics.SessionEvent{Kind: "created"}); err != nil {
		t.Fatalf("record session: %v", err)
	}
	if err := m.RecordActiveSessions(3); err != nil {
		t.Fatalf("record active: %v", err)
	}
	if err := m.RecordInvalidLeg("negative distance"); err != nil {
		t.Fatalf("record invalid: %v", err)
	}
	if s1.scores != 1 || s2.n != 1 || s1.sessions != 1 || s1.active != 3 || s1.invalid != 1 {
		t.Fatalf("events not forwarded: %+v %+v", s1, s2)
	}
}

type failingSink struct {
	err    error
	closed bool
}

func (f *failingSink) RecordScore(metrics.ScoreEvent) error          { return f.err }
func (f *failingSink) RecordSessionEvent(metrics.SessionEvent) error { return f.err }
func (f *failingSink) RecordActiveSessions(int) error                { return f.err }
func (f *failingSink) RecordInvalidLeg(string) error                 { return f.err }
func (f *failingSink) Close()                                        { f.closed = true }

func TestMultiSink_ContinuesAfterError(t *testing.T) {
	open := errors.New("circuit breaker is open")
	failing := &failingSink{err: open}
	rec := &recordSink{}
	m := metrics.NewMultiSink(failing, rec)

	if err := m.RecordScore(metrics.ScoreEvent{}); !errors.Is(err, open) {
		t.Fatalf("expected breaker error, got %v", err)
	}
	if err := m.RecordSessionEvent(metrics.SessionEvent{}); !errors.Is(err, open) {
		t.Fatalf("expected breaker error, got %v", err)
	}
	if err := m.RecordActiveSessions(2); !errors.Is(err, open) {
		t.Fatalf("expected breaker error, got %v", err)
	}
	if err := m.RecordInvalidLeg("negative distance"); !errors.Is(err, open) {
		t.Fatalf("expected breaker error, got %v", err)
	}
	if rec.scores != 1 || rec.sessions != 1 || rec.active != 2 || rec.invalid != 1 {
		t.Fatalf("second sink missed events: %+v", rec)
	}
}

func TestMultiSink_JoinsErrors(t *testing.T) {
	a, b := errors.New("a"), errors.New("b")
	m := metrics.NewMultiSink(&failingSink{err: a}, &failingSink{err: b})
	err := m.RecordScore(metrics.ScoreEvent{})
	if !errors.Is(err, a) || !errors.Is(err, b) {
		t.Fatalf("expected both errors, got %v", err)
	}
}

func TestMultiSink_Close(t *testing.T) {
	f1, f2 := &failingSink{}, &failingSink{}
	m := metrics.NewMultiSink(f1, &scoreOnly{}, f2)
	m.Close()
	if !f1.closed || !f2.closed {
		t.Fatalf("closable sinks not closed: %v %v", f1.closed, f2.closed)
	}
}

func TestNewScoreSink_YAML(t *testing.T) {
	data := `sinks:
  - type: nop
  - type: nop
`
	var cfg metrics.Config
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	s, err := metrics.NewScoreSink(cfg.Sinks)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.(*metrics.MultiSink); !ok {
		t.Fatalf("expected MultiSink got %T", s)
	}
}

func TestNewScoreSink_Defaults(t *testing.T) {
	s, err := metrics.NewScoreSink(nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink got %T", s)
	}
}

func TestNewScoreSink_Unknown(t *testing.T) {
	var cfg metrics.Config
	if err := json.Unmarshal([]byte(`{"sinks":[{"type":"missing"}]}`), &cfg); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if _, err := metrics.NewScoreSink(cfg.Sinks); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestNewScoreEvent(t *testing.T) {
	res, err := ecoscore.Default().Compute(model.Itinerary{
		{Mode: model.ModeCar, DistanceKm: 3},
		{Mode: model.ModeWalk, DistanceKm: 1},
	})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	at := time.Unix(1700000000, 0)
	ev := metrics.NewScoreEvent("s1", "leg_added", res, at)
	if ev.Legs != 2 || ev.DistanceKm != 4 || ev.Score != res.Score || !ev.Time.Equal(at) {
		t.Fatalf("unexpected event %+v", ev)
	}
	if len(ev.Recommendations) != len(res.Recommendations) || ev.Recommendations[0] != res.Recommendations[0].Tag {
		t.Fatalf("tags not copied: %v", ev.Recommendations)
	}
}
