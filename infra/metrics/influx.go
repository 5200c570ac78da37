package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sony/gobreaker/v2"

	coremetrics "github.com/kilianp07/ecocommute/core/metrics"
	"github.com/kilianp07/ecocommute/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// BreakerFailures opens the circuit after this many consecutive write
	// failures. Defaults to 5.
	BreakerFailures uint32 `json:"breaker_failures"`
	// BreakerCooldownSeconds is the time the circuit stays open. Defaults to 30.
	BreakerCooldownSeconds int `json:"breaker_cooldown_seconds"`
}

// InfluxSink writes score events to InfluxDB. Writes go through a circuit
// breaker so an unavailable database does not slow every request down.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	breaker  *gobreaker.CircuitBreaker[struct{}]
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldownSeconds <= 0 {
		cfg.BreakerCooldownSeconds = 30
	}
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	log := logger.New("influx-sink")
	failures := cfg.BreakerFailures
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "influx",
		MaxRequests: 1,
		Timeout:     time.Duration(cfg.BreakerCooldownSeconds) * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("circuit %s: %s -> %s", name, from, to)
		},
	})
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		breaker:  cb,
		log:      log,
	}
}

// NewInfluxSinkWithFallback pings the database and returns a NopSink when
// the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.ScoreSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) write(p *write.Point) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return struct{}{}, s.writeAPI.WritePoint(ctx, p)
	})
	return err
}

// RecordScore writes one itinerary_score point.
func (s *InfluxSink) RecordScore(ev coremetrics.ScoreEvent) error {
	p := write.NewPointWithMeasurement("itinerary_score").
		AddTag("session_id", ev.SessionID).
		AddTag("trigger", ev.Trigger).
		AddField("score", round3(ev.Score)).
		AddField("emissions_kg", round3(ev.EmissionsKg)).
		AddField("distance_km", round3(ev.DistanceKm)).
		AddField("legs", ev.Legs).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordSessionEvent writes one session_event point.
func (s *InfluxSink) RecordSessionEvent(ev coremetrics.SessionEvent) error {
	p := write.NewPointWithMeasurement("session_event").
		AddTag("session_id", ev.SessionID).
		AddTag("kind", ev.Kind).
		AddField("count", 1).
		SetTime(ev.Time)
	return s.write(p)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
