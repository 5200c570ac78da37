package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
)

// TotalRow labels the summary row of a CSV report.
const TotalRow = "total"

var csvHeader = []string{"mode", "distance_km", "passengers", "emissions_kg", "score"}

// WriteCSV writes one row per leg followed by a summary row.
func WriteCSV(w io.Writer, it model.Itinerary, res ecoscore.Result) error {
	if err := checkLegs(it, res); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, l := range it {
		passengers := ""
		if l.Passengers > 0 {
			passengers = strconv.Itoa(l.Passengers)
		}
		rec := []string{
			l.Mode.String(),
			formatFloat(l.DistanceKm),
			passengers,
			formatFloat(round(res.Legs[i].EmissionsKg, 3)),
			formatFloat(round(res.Legs[i].Score, 1)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	total := []string{
		TotalRow,
		formatFloat(res.TotalDistanceKm),
		"",
		formatFloat(round(res.TotalEmissionsKg, 3)),
		formatFloat(round(res.Score, 1)),
	}
	if err := cw.Write(total); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CSVSummary holds the values of the summary row of a report.
type CSVSummary struct {
	DistanceKm  float64
	EmissionsKg float64
	Score       float64
}

// CSVReport is a parsed CSV export.
type CSVReport struct {
	Itinerary model.Itinerary
	// Total is nil when the file has no summary row.
	Total *CSVSummary
}

// ErrMalformedCSV is returned for files that are not EcoCommute reports.
var ErrMalformedCSV = errors.New("malformed csv report")

// ReadCSV parses a report written by WriteCSV.
func ReadCSV(r io.Reader) (CSVReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return CSVReport{}, fmt.Errorf("%w: header: %v", ErrMalformedCSV, err)
	}
	for i, h := range csvHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != h {
			return CSVReport{}, fmt.Errorf("%w: unexpected column %q", ErrMalformedCSV, header[i])
		}
	}
	var rep CSVReport
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return CSVReport{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if rep.Total != nil {
			return CSVReport{}, fmt.Errorf("%w: line %d after summary row", ErrMalformedCSV, line)
		}
		if strings.EqualFold(rec[0], TotalRow) {
			sum, err := parseSummary(rec)
			if err != nil {
				return CSVReport{}, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
			}
			rep.Total = &sum
			continue
		}
		leg, err := parseLeg(rec)
		if err != nil {
			return CSVReport{}, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		rep.Itinerary = append(rep.Itinerary, leg)
	}
	return rep, nil
}

func parseLeg(rec []string) (model.Leg, error) {
	mode := model.ParseMode(rec[0])
	if !mode.Valid() {
		return model.Leg{}, fmt.Errorf("unknown mode %q", rec[0])
	}
	dist, err := strconv.ParseFloat(rec[1], 64)
	if err != nil {
		return model.Leg{}, fmt.Errorf("distance: %w", err)
	}
	leg := model.Leg{Mode: mode, DistanceKm: dist}
	if rec[2] != "" {
		if leg.Passengers, err = strconv.Atoi(rec[2]); err != nil {
			return model.Leg{}, fmt.Errorf("passengers: %w", err)
		}
	}
	return leg, nil
}

func parseSummary(rec []string) (CSVSummary, error) {
	var (
		s   CSVSummary
		err error
	)
	if s.DistanceKm, err = strconv.ParseFloat(rec[1], 64); err != nil {
		return s, fmt.Errorf("distance: %w", err)
	}
	if s.EmissionsKg, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return s, fmt.Errorf("emissions: %w", err)
	}
	if s.Score, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return s, fmt.Errorf("score: %w", err)
	}
	return s, nil
}
