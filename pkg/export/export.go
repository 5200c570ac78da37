// Package export renders scored itineraries as CSV, JSON and PDF reports.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
)

// Format identifies an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a user supplied name to a Format. An empty name selects CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Report is the document written by every exporter.
type Report struct {
	Title     string
	Itinerary model.Itinerary
	Result    ecoscore.Result
}

// Write encodes rep to w in format f.
func Write(w io.Writer, f Format, rep Report) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, rep.Result)
	case FormatPDF:
		return WritePDF(w, rep)
	default:
		return WriteCSV(w, rep.Itinerary, rep.Result)
	}
}

// WriteJSON writes the full result, including recommendations and the
// transport mix, as indented JSON.
func WriteJSON(w io.Writer, res ecoscore.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func checkLegs(it model.Itinerary, res ecoscore.Result) error {
	if len(it) != len(res.Legs) {
		return fmt.Errorf("itinerary has %d legs but result has %d", len(it), len(res.Legs))
	}
	return nil
}
