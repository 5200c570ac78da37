package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
	"github.com/kilianp07/ecocommute/pkg/export"
)

const formatText = "text"

func newScoreCmd(opts *options) *cobra.Command {
	var (
		file   string
		format string
		output string
		title  string
	)
	c := &cobra.Command{
		Use:   "score [mode:distance[:passengers]...]",
		Short: "Score an itinerary",
		Example: `  ecocommute score walk:2 train:10
  ecocommute score car:24:3 --format json
  ecocommute score --file commute.yaml --format pdf -o report.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := parseLegArgs(args)
			if err != nil {
				return err
			}
			if file != "" {
				fromFile, err := readItinerary(file)
				if err != nil {
					return err
				}
				it = append(fromFile, it...)
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			engine, err := ecoscore.New(cfg.Scoring)
			if err != nil {
				return err
			}
			res, err := engine.Compute(it)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if format == formatText {
				return writeText(w, res)
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			return export.Write(w, f, export.Report{Title: title, Itinerary: it, Result: res})
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "yaml or json itinerary file")
	c.Flags().StringVar(&format, "format", formatText, "output format: text, csv, json or pdf")
	c.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	c.Flags().StringVar(&title, "title", "", "report title (pdf)")
	return c
}

// parseLegArgs reads legs written as mode:distance[:passengers].
func parseLegArgs(args []string) (model.Itinerary, error) {
	it := make(model.Itinerary, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("leg %q: want mode:distance[:passengers]", arg)
		}
		mode := model.ParseMode(parts[0])
		if !mode.Valid() {
			return nil, fmt.Errorf("leg %q: unknown mode %q", arg, parts[0])
		}
		dist, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("leg %q: distance: %w", arg, err)
		}
		leg := model.Leg{Mode: mode, DistanceKm: dist}
		if len(parts) == 3 {
			if leg.Passengers, err = strconv.Atoi(parts[2]); err != nil {
				return nil, fmt.Errorf("leg %q: passengers: %w", arg, err)
			}
		}
		it = append(it, leg)
	}
	return it, nil
}

// readItinerary accepts either a list of legs or a document with a legs key.
func readItinerary(path string) (model.Itinerary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var it model.Itinerary
	if err := yaml.Unmarshal(data, &it); err == nil {
		return it, nil
	}
	var doc struct {
		Legs model.Itinerary `yaml:"legs"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Legs, nil
}

func writeText(w io.Writer, res ecoscore.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "eco-score     %.1f (%s)\n", res.Score, res.Band)
	fmt.Fprintf(&b, "distance      %.2f km\n", res.TotalDistanceKm)
	fmt.Fprintf(&b, "emissions     %.3f kg CO2e\n", res.TotalEmissionsKg)
	fmt.Fprintf(&b, "car baseline  %.3f kg (saved %.3f kg)\n", res.CarBaselineKg, res.SavedVsCarKg)
	fmt.Fprintf(&b, "trees         %d\n", res.TreesToOffset)
	for _, rec := range res.Recommendations {
		fmt.Fprintf(&b, "  [%s] %s\n", rec.Tag, rec.Message)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
