package history

import (
	"context"
	"testing"
	"time"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/factory"
	"github.com/kilianp07/ecocommute/core/model"
)

func TestMemoryStore_Query(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	d := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"b", "a", "a"} {
		if err := s.Add(ctx, Record{SessionID: id, Time: d.Add(-time.Duration(i) * 24 * time.Hour), Score: float64(i)}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	all, err := s.Query(ctx, Query{})
	if err != nil || len(all) != 3 {
		t.Fatalf("query: %v len=%d", err, len(all))
	}
	if !all[0].Time.Before(all[2].Time) {
		t.Fatalf("records not ordered by time")
	}
	recs, _ := s.Query(ctx, Query{SessionID: "a", Start: d.Add(-36 * time.Hour)})
	if len(recs) != 1 || recs[0].Score != 1 {
		t.Fatalf("filter failed: %#v", recs)
	}
	empty, _ := s.Query(ctx, Query{SessionID: "zz"})
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice")
	}
}

func TestFromResult(t *testing.T) {
	res, err := ecoscore.Default().Compute(model.Itinerary{{Mode: model.ModeTrain, DistanceKm: 10}})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	r := FromResult("s1", at, res)
	if r.Legs != 1 || r.DistanceKm != 10 || r.Score != res.Score || r.Time.Location() != time.UTC {
		t.Fatalf("unexpected record %#v", r)
	}
}

func TestSummarize(t *testing.T) {
	d := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	recs := []Record{
		{Time: d, DistanceKm: 10, EmissionsKg: 1, Score: 80},
		{Time: d.Add(3 * time.Hour), DistanceKm: 30, EmissionsKg: 3, Score: 40},
		{Time: d.Add(-24 * time.Hour), Score: 100},
	}
	out := Summarize(recs)
	if len(out) != 2 {
		t.Fatalf("expected 2 days got %d", len(out))
	}
	if out[0].Score != 100 || out[0].Sessions != 1 {
		t.Fatalf("first day %#v", out[0])
	}
	if out[1].Sessions != 2 || out[1].DistanceKm != 40 || out[1].Score != 50 {
		t.Fatalf("second day %#v", out[1])
	}
}

func TestNewStore_Default(t *testing.T) {
	s, err := NewStore(factory.ModuleConfig{})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected memory store got %T", s)
	}
	if _, err := NewStore(factory.ModuleConfig{Type: "nope"}); err == nil {
		t.Fatal("expected unknown backend error")
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	at := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

	if _, ok, err := Snapshot(ctx, s, ecoscore.Default(), "empty", at, nil); err != nil || ok {
		t.Fatalf("empty itinerary should be skipped: ok=%v err=%v", ok, err)
	}

	it := model.Itinerary{{Mode: model.ModeBus, DistanceKm: 10}}
	rec, ok, err := Snapshot(ctx, s, ecoscore.Default(), "s1", at, it)
	if err != nil || !ok {
		t.Fatalf("snapshot: ok=%v err=%v", ok, err)
	}
	if rec.Legs != 1 || rec.DistanceKm != 10 {
		t.Fatalf("unexpected record %+v", rec)
	}
	got, _ := s.Query(ctx, Query{})
	if len(got) != 1 || got[0].SessionID != "s1" {
		t.Fatalf("record not stored: %+v", got)
	}

	bad := model.Itinerary{{Mode: model.ModeBus, DistanceKm: -1}}
	if _, _, err := Snapshot(ctx, s, ecoscore.Default(), "s2", at, bad); err == nil {
		t.Fatalf("expected error for invalid itinerary")
	}
}
