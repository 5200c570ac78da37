package metrics

import (
	"context"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	coremetrics "github.com/kilianp07/ecocommute/core/metrics"
	"github.com/kilianp07/ecocommute/core/model"
	"github.com/kilianp07/ecocommute/core/session"
	"github.com/kilianp07/ecocommute/infra/logger"
	"github.com/kilianp07/ecocommute/internal/eventbus"
)

// Scorer computes the result of an itinerary. *ecoscore.Engine implements it.
type Scorer interface {
	Compute(it model.Itinerary) (ecoscore.Result, error)
}

// StartScoreCollector subscribes to the session bus, scores the itinerary
// carried by each mutation and records it on sink. active, when non-nil,
// reports the live session count after every event. The returned channel is
// closed once the collector stops, on context cancellation or bus close.
func StartScoreCollector(ctx context.Context, bus *eventbus.Bus[session.Event], scorer Scorer, sink coremetrics.ScoreSink, active func() int) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || scorer == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("score-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				collect(ev, scorer, sink, active, log)
			}
		}
	}()
	return done
}

func collect(ev session.Event, scorer Scorer, sink coremetrics.ScoreSink, active func() int, log logger.Logger) {
	if r, ok := sink.(coremetrics.SessionEventRecorder); ok {
		if err := r.RecordSessionEvent(coremetrics.SessionEvent{SessionID: ev.SessionID, Kind: string(ev.Kind), Time: ev.Time}); err != nil {
			log.Warnf("record session event: %v", err)
		}
	}
	if active != nil {
		if r, ok := sink.(coremetrics.ActiveSessionsRecorder); ok {
			_ = r.RecordActiveSessions(active())
		}
	}
	if ev.Kind == session.EventCreated {
		return
	}
	res, err := scorer.Compute(ev.Itinerary)
	if err != nil {
		log.Errorf("score session %s: %v", ev.SessionID, err)
		return
	}
	if err := sink.RecordScore(coremetrics.NewScoreEvent(ev.SessionID, string(ev.Kind), res, ev.Time)); err != nil {
		log.Warnf("record score: %v", err)
	}
}
