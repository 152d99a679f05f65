package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"regsim/domain/regression"
	"regsim/internal/errors"
	"regsim/internal/inference"
	"regsim/ports"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook
const (
	SheetParameters  = "Parameters"
	SheetObserved    = "Observed"
	SheetSimulations = "Simulations"
	SheetHistogram   = "Histogram"
)

// Exporter writes simulation records as .xlsx workbooks
type Exporter struct {
	bins int
}

var _ ports.RecordExporter = (*Exporter)(nil)

// NewExporter creates an exporter; bins below 1 fall back to the default histogram size
func NewExporter(bins int) *Exporter {
	if bins < 1 {
		bins = inference.DefaultHistogramBins
	}
	return &Exporter{bins: bins}
}

// Export writes rec to path, creating parent directories as needed
func (e *Exporter) Export(ctx context.Context, rec *regression.SimulationRecord, path string) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return errors.ExportFailed(path, fmt.Errorf("workbook path must end in .xlsx"))
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetParameters); err != nil {
		return errors.ExportFailed(path, err)
	}
	steps := []struct {
		sheet string
		write func(*excelize.File, *regression.SimulationRecord) error
	}{
		{SheetParameters, e.writeParameters},
		{SheetObserved, e.writeObserved},
		{SheetSimulations, e.writeSimulations},
		{SheetHistogram, e.writeHistograms},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if step.sheet != SheetParameters {
			if _, err := f.NewSheet(step.sheet); err != nil {
				return errors.ExportFailed(path, err)
			}
		}
		if err := step.write(f, rec); err != nil {
			return errors.ExportFailed(path, fmt.Errorf("sheet %s: %w", step.sheet, err))
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.ExportFailed(path, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.ExportFailed(path, err)
	}
	return nil
}

func (e *Exporter) writeParameters(f *excelize.File, rec *regression.SimulationRecord) error {
	rows := [][]interface{}{
		{"name", "value"},
		{"id", rec.ID.String()},
		{"N", rec.Params.N},
		{"mu", rec.Params.Mu},
		{"beta0", rec.Params.Beta0},
		{"beta1", rec.Params.Beta1},
		{"sigma2", rec.Params.Sigma2},
		{"S", rec.Params.S},
		{"seed", rec.Seed},
		{"created_at", rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")},
		{"observed_slope", rec.Observed.Slope},
		{"observed_intercept", rec.Observed.Intercept},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetParameters, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeObserved(f *excelize.File, rec *regression.SimulationRecord) error {
	sw, err := f.NewStreamWriter(SheetObserved)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []interface{}{"x", "y"}); err != nil {
		return err
	}
	for i := range rec.ObservedData.X {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []interface{}{rec.ObservedData.X[i], rec.ObservedData.Y[i]}); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func (e *Exporter) writeSimulations(f *excelize.File, rec *regression.SimulationRecord) error {
	sw, err := f.NewStreamWriter(SheetSimulations)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []interface{}{"draw", "slope", "intercept"}); err != nil {
		return err
	}
	for i := range rec.SimulatedSlopes {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []interface{}{i + 1, rec.SimulatedSlopes[i], rec.SimulatedIntercepts[i]}); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// writeHistograms lays out one block per coefficient: lower edge, upper edge, count
func (e *Exporter) writeHistograms(f *excelize.File, rec *regression.SimulationRecord) error {
	sw, err := f.NewStreamWriter(SheetHistogram)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []interface{}{"parameter", "bin_lower", "bin_upper", "count"}); err != nil {
		return err
	}

	row := 2
	for _, param := range []regression.Parameter{regression.ParameterSlope, regression.ParameterIntercept} {
		summary, err := inference.SummarizeRecord(rec, param, e.bins)
		if err != nil {
			return err
		}
		h := summary.Histogram
		for i, count := range h.Counts {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := sw.SetRow(cell, []interface{}{string(param), h.Edges[i], h.Edges[i+1], int(count)}); err != nil {
				return err
			}
			row++
		}
	}
	return sw.Flush()
}
