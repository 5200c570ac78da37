package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	coremetrics "github.com/kilianp07/ecocommute/core/metrics"
	"github.com/kilianp07/ecocommute/core/model"
	"github.com/kilianp07/ecocommute/core/session"
	"github.com/kilianp07/ecocommute/internal/eventbus"
)

type captureSink struct {
	mu       sync.Mutex
	scores   []coremetrics.ScoreEvent
	sessions []string
	active   int
}

func (c *captureSink) RecordScore(ev coremetrics.ScoreEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores = append(c.scores, ev)
	return nil
}

func (c *captureSink) RecordSessionEvent(ev coremetrics.SessionEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = append(c.sessions, ev.Kind)
	return nil
}

func (c *captureSink) RecordActiveSessions(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = n
	return nil
}

func (c *captureSink) snapshot() ([]coremetrics.ScoreEvent, []string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]coremetrics.ScoreEvent(nil), c.scores...), append([]string(nil), c.sessions...), c.active
}

func TestStartScoreCollector(t *testing.T) {
	bus := eventbus.NewTyped[session.Event]()
	sink := &captureSink{}
	engine := ecoscore.Default()
	mgr := session.NewManager(engine, bus)

	done := StartScoreCollector(context.Background(), bus, engine, sink, func() int { return len(mgr.IDs()) })

	s := mgr.Create()
	_, err := s.AddLeg(model.Leg{Mode: model.ModeTrain, DistanceKm: 10})
	require.NoError(t, err)
	_, err = mgr.End(s.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		scores, _, _ := sink.snapshot()
		return len(scores) == 2
	}, time.Second, 10*time.Millisecond)

	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after bus close")
	}

	scores, sessions, active := sink.snapshot()
	assert.Equal(t, []string{"created", "leg_added", "ended"}, sessions)
	assert.Equal(t, "leg_added", scores[0].Trigger)
	assert.Equal(t, "ended", scores[1].Trigger)
	assert.Equal(t, 10.0, scores[1].ModeDistanceKm[model.ModeTrain])
	assert.InDelta(t, 100-0.03/0.19*100, scores[1].Score, 1e-9)
	assert.Equal(t, 0, active)
}

func TestStartScoreCollector_StopsOnCancel(t *testing.T) {
	bus := eventbus.NewTyped[session.Event]()
	ctx, cancel := context.WithCancel(context.Background())
	done := StartScoreCollector(ctx, bus, ecoscore.Default(), coremetrics.NopSink{}, nil)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestStartScoreCollector_NilArgs(t *testing.T) {
	done := StartScoreCollector(context.Background(), nil, nil, nil, nil)
	select {
	case <-done:
	default:
		t.Fatal("expected closed channel")
	}
}
