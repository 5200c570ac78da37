// Package backfill imports exported CSV reports into the score history.
package backfill

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/ecocommute/core/history"
	"github.com/kilianp07/ecocommute/infra/logger"
	"github.com/kilianp07/ecocommute/pkg/export"
)

// Summary counts the outcome of an import.
type Summary struct {
	Files    int `json:"files"`
	Imported int `json:"imported"`
	// Skipped counts reports without legs.
	Skipped int `json:"skipped"`
	// Drifted counts reports whose recorded score differs from the score
	// recomputed with the current factors.
	Drifted int `json:"drifted"`
}

// Options tunes an import.
type Options struct {
	// At overrides the record time. The file modification time is used
	// otherwise.
	At     time.Time
	Logger logger.Logger
}

// Expand resolves directories to the CSV files they contain.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.csv"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

// Import rescores every report and adds it to store. The session id is
// taken from the file name, without the "ecocommute-" prefix written by the
// export endpoint.
func Import(ctx context.Context, store history.Store, scorer history.Scorer, paths []string, opts Options) (Summary, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	files, err := Expand(paths)
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Files++
		rep, at, err := read(path)
		if err != nil {
			return sum, fmt.Errorf("%s: %w", path, err)
		}
		if !opts.At.IsZero() {
			at = opts.At
		}
		id := SessionID(path)
		rec, ok, err := history.Snapshot(ctx, store, scorer, id, at, rep.Itinerary)
		if err != nil {
			return sum, fmt.Errorf("%s: %w", path, err)
		}
		if !ok {
			sum.Skipped++
			continue
		}
		sum.Imported++
		if rep.Total != nil && math.Abs(rep.Total.Score-rec.Score) > 0.06 {
			sum.Drifted++
			log.Warnf("%s: recorded score %.1f, recomputed %.1f", path, rep.Total.Score, rec.Score)
		}
	}
	return sum, nil
}

func read(path string) (export.CSVReport, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return export.CSVReport{}, time.Time{}, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return export.CSVReport{}, time.Time{}, err
	}
	rep, err := export.ReadCSV(f)
	return rep, info.ModTime(), err
}

// SessionID derives a session id from a report file name.
func SessionID(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimPrefix(base, "ecocommute-")
}
