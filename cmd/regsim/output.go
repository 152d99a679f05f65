package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"regsim/domain/core"
	"regsim/domain/regression"
	"regsim/internal/inference"
	"regsim/ports"
)

// textRenderer is implemented by every command result
type textRenderer interface {
	writeText(w io.Writer) error
}

func (c *cli) render(v textRenderer) error {
	return renderTo(c.out, v, c.jsonOutput)
}

func renderTo(w io.Writer, v textRenderer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return v.writeText(w)
}

type generateView struct {
	ID          core.SimulationID          `json:"id"`
	Seed        int64                      `json:"seed"`
	Params      regression.ModelParameters `json:"params"`
	Observed    regression.FitResult       `json:"observed"`
	Simulations int                        `json:"simulations"`
}

func newGenerateView(rec *regression.SimulationRecord) generateView {
	return generateView{
		ID:          rec.ID,
		Seed:        rec.Seed,
		Params:      rec.Params,
		Observed:    rec.Observed,
		Simulations: len(rec.SimulatedSlopes),
	}
}

func (v generateView) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "simulation %s\n  seed:               %d\n  simulations:        %d\n  observed slope:     %s\n  observed intercept: %s\n",
		v.ID, v.Seed, v.Simulations, formatFloat(v.Observed.Slope), formatFloat(v.Observed.Intercept))
	return err
}

type testView struct {
	*regression.HypothesisTestResult
}

func (v testView) writeText(w io.Writer) error {
	r := v.HypothesisTestResult
	if _, err := fmt.Fprintf(w, "%s test on %s (%d simulations)\n  observed:     %s\n  hypothesized: %s\n  p-value:      %s\n",
		r.TestType, r.Parameter, r.Simulations, formatFloat(r.ObservedStat), formatFloat(r.HypothesizedValue), formatFloat(r.PValue)); err != nil {
		return err
	}
	if r.RareEvent {
		_, err := fmt.Fprintf(w, "  rare event: p <= %g\n", regression.RareEventThreshold)
		return err
	}
	return nil
}

type intervalView struct {
	*regression.ConfidenceIntervalResult
}

func (v intervalView) writeText(w io.Writer) error {
	r := v.ConfidenceIntervalResult
	_, err := fmt.Fprintf(w, "%g%% interval for %s\n  interval:      [%s, %s]\n  mean estimate: %s\n  std estimate:  %s\n  observed:      %s\n  true value:    %s (included: %t)\n",
		r.ConfidenceLevel, r.Parameter, formatFloat(r.CILower), formatFloat(r.CIUpper),
		formatFloat(r.MeanEstimate), formatFloat(r.StdEstimate), formatFloat(r.ObservedStat),
		formatFloat(r.TrueValue), r.IncludesTrue)
	return err
}

type summaryView struct {
	*inference.DistributionSummary
}

func (v summaryView) writeText(w io.Writer) error {
	s := v.DistributionSummary
	if _, err := fmt.Fprintf(w, "%s over %d simulations\n  mean %s  std %s  median %s\n  min %s  max %s\n  observed %s  true %s\n",
		s.Parameter, s.Count, formatFloat(s.Mean), formatFloat(s.Std), formatFloat(s.Median),
		formatFloat(s.Min), formatFloat(s.Max), formatFloat(s.Observed), formatFloat(s.TrueValue)); err != nil {
		return err
	}

	peak := 0.0
	for _, c := range s.Histogram.Counts {
		peak = max(peak, c)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range s.Histogram.Counts {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("#", int(40*c/peak))
		}
		fmt.Fprintf(tw, "  [%s, %s)\t%d\t%s\n", formatFloat(s.Histogram.Edges[i]), formatFloat(s.Histogram.Edges[i+1]), int(c), bar)
	}
	return tw.Flush()
}

type exportView struct {
	ID   core.SimulationID `json:"id"`
	Path string            `json:"path"`
}

func (v exportView) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "exported %s to %s\n", v.ID, v.Path)
	return err
}

type listView []ports.SimulationSummary

func (v listView) writeText(w io.Writer) error {
	if len(v) == 0 {
		_, err := fmt.Fprintln(w, "no simulations")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tN\tS\tSLOPE\tINTERCEPT")
	for _, s := range v {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.Params.N, s.Params.S, formatFloat(s.Observed.Slope), formatFloat(s.Observed.Intercept))
	}
	return tw.Flush()
}

type messageView string

func (v messageView) writeText(w io.Writer) error {
	_, err := fmt.Fprintln(w, string(v))
	return err
}

func (v messageView) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"message": string(v)})
}
