// Package e2e drives a running service against real backing services.
package e2e

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient reads back the points written by the score sink.
type InfluxClient struct {
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

// NewInfluxClient creates a client for an already reachable server.
func NewInfluxClient(url, org, bucket, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{
		bucket: bucket,
		client: c,
		query:  c.QueryAPI(org),
	}
}

// SessionScores returns the score field values recorded for a session in
// the last hour, oldest first.
func (c *InfluxClient) SessionScores(ctx context.Context, sessionID string) ([]float64, error) {
	flux := fmt.Sprintf(`from(bucket:%q)
  |> range(start: -1h)
  |> filter(fn: (r) => r._measurement == "itinerary_score" and r._field == "score" and r.session_id == %q)
  |> group()
  |> sort(columns: ["_time"])`, c.bucket, sessionID)
	res, err := c.query.Query(ctx, flux)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	var out []float64
	for res.Next() {
		if v, ok := res.Record().Value().(float64); ok {
			out = append(out, v)
		}
	}
	return out, res.Err()
}

// WaitForScores polls until at least n scores exist for the session.
func (c *InfluxClient) WaitForScores(ctx context.Context, sessionID string, n int) ([]float64, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		scores, err := c.SessionScores(ctx, sessionID)
		if err == nil && len(scores) >= n {
			return scores, nil
		}
		select {
		case <-ctx.Done():
			return scores, fmt.Errorf("waiting for %d scores of %s: %w", n, sessionID, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Close releases the underlying client resources.
func (c *InfluxClient) Close() { c.client.Close() }
