package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/kilianp07/ecocommute/core/model"
)

// WritePDF renders a one page report: legs table, dashboard figures and
// recommendations.
func WritePDF(w io.Writer, rep Report) error {
	return writePDF(w, rep, time.Now())
}

func writePDF(w io.Writer, rep Report, at time.Time) error {
	res := rep.Result
	if err := checkLegs(rep.Itinerary, res); err != nil {
		return err
	}
	title := rep.Title
	if title == "" {
		title = "Commute report"
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetCreationDate(at)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Generated : "+at.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Eco-Score: %.1f / 100 (%s)", res.Score, res.Band))
	pdf.Ln(12)

	widths := []float64{50, 35, 30, 40, 25}
	pdf.SetFont("Helvetica", "B", 11)
	for i, h := range csvHeader {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 11)
	for i, l := range rep.Itinerary {
		passengers := "-"
		if l.Passengers > 0 {
			passengers = fmt.Sprint(l.Passengers)
		}
		row := []string{
			l.Mode.String(),
			fmt.Sprintf("%.2f", l.DistanceKm),
			passengers,
			fmt.Sprintf("%.3f", res.Legs[i].EmissionsKg),
			fmt.Sprintf("%.1f", res.Legs[i].Score),
		}
		for j, c := range row {
			align := "R"
			if j == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[j], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, s := range []string{
		fmt.Sprintf("Total distance      : %.2f km", res.TotalDistanceKm),
		fmt.Sprintf("Total emissions     : %.3f kg CO2e", res.TotalEmissionsKg),
		fmt.Sprintf("Solo car baseline   : %.3f kg CO2e", res.CarBaselineKg),
		fmt.Sprintf("Saved versus car    : %.3f kg CO2e", res.SavedVsCarKg),
		fmt.Sprintf("Trees to offset     : %d", res.TreesToOffset),
	} {
		pdf.Cell(0, 6, s)
		pdf.Ln(6)
	}
	if len(res.ModeDistanceKm) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Transport mix")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, m := range sortedModes(res.ModeDistanceKm) {
			share := res.ModeDistanceKm[m] / res.TotalDistanceKm * 100
			pdf.Cell(0, 6, fmt.Sprintf("%-14s %.2f km (%.0f%%)", m, res.ModeDistanceKm[m], share))
			pdf.Ln(6)
		}
	}
	if len(res.Recommendations) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Recommendations")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, r := range res.Recommendations {
			pdf.MultiCell(0, 6, "- "+r.Message, "", "", false)
		}
	}
	return pdf.Output(w)
}

func sortedModes(mix map[model.Mode]float64) []model.Mode {
	out := make([]model.Mode, 0, len(mix))
	for m := range mix {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
