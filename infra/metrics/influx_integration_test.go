//go:build integration

package metrics

import (
	"context"
	"fmt"
	"testing"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	coremetrics "github.com/kilianp07/ecocommute/core/metrics"
)

const (
	itOrg    = "eco"
	itBucket = "scores"
	itToken  = "integration-token"
)

func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "admin",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "adminpassword",
			"DOCKER_INFLUXDB_INIT_ORG":         itOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      itBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": itToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestInfluxSink_Container(t *testing.T) {
	ctx := context.Background()
	cont, url := startInflux(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: url, Token: itToken, Org: itOrg, Bucket: itBucket})
	influx, ok := sink.(*InfluxSink)
	if !ok {
		t.Fatalf("expected influx sink, got %T", sink)
	}
	defer influx.Close()

	ev := coremetrics.ScoreEvent{SessionID: "it-1", Trigger: "ended", Legs: 2, DistanceKm: 12, EmissionsKg: 0.3, Score: 86.8, Time: time.Now()}
	if err := influx.RecordScore(ev); err != nil {
		t.Fatalf("write: %v", err)
	}

	client := influxdb2.NewClient(url, itToken)
	defer client.Close()
	flux := fmt.Sprintf(`from(bucket:%q) |> range(start: -1h) |> filter(fn: (r) => r._measurement == "itinerary_score" and r._field == "score")`, itBucket)
	res, err := client.QueryAPI(itOrg).Query(ctx, flux)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	found := false
	for res.Next() {
		if res.Record().ValueByKey("session_id") == "it-1" && res.Record().Value() == 86.8 {
			found = true
		}
	}
	if res.Err() != nil {
		t.Fatalf("query result: %v", res.Err())
	}
	if !found {
		t.Fatalf("score point not found")
	}
}
