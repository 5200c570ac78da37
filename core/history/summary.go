package history

import (
	"sort"
	"time"
)

// DaySummary aggregates the records of one UTC day.
type DaySummary struct {
	Date        time.Time `json:"date"`
	Sessions    int       `json:"sessions"`
	DistanceKm  float64   `json:"distance_km"`
	EmissionsKg float64   `json:"emissions_kg"`
	// Score is the distance weighted mean of the session scores. Days
	// without distance report the plain mean.
	Score float64 `json:"score"`
}

// Summarize groups records by day, oldest first.
func Summarize(recs []Record) []DaySummary {
	type acc struct {
		DaySummary
		weighted float64
		plain    float64
	}
	days := map[time.Time]*acc{}
	for _, r := range recs {
		d := Day(r.Time)
		a := days[d]
		if a == nil {
			a = &acc{DaySummary: DaySummary{Date: d}}
			days[d] = a
		}
		a.Sessions++
		a.DistanceKm += r.DistanceKm
		a.EmissionsKg += r.EmissionsKg
		a.weighted += r.Score * r.DistanceKm
		a.plain += r.Score
	}
	out := make([]DaySummary, 0, len(days))
	for _, a := range days {
		s := a.DaySummary
		if a.DistanceKm > 0 {
			s.Score = a.weighted / a.DistanceKm
		} else {
			s.Score = a.plain / float64(a.Sessions)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
