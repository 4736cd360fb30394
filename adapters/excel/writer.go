// Package excel renders finished runs into an xlsx workbook, one sheet per
// statistic family.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"vegtrend/domain/report"
	"vegtrend/internal/errors"
)

const dateLayout = "2006-01-02"

// Writer renders a run into a workbook on disk.
type Writer struct {
	path string
}

// NewWriter creates a writer targeting the given file path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Export writes one workbook for the run: an overview sheet, per-statistic
// sheets, and a failures sheet. Indices with failed statistics still appear
// on every sheet their surviving results allow.
func (w *Writer) Export(ctx context.Context, run *report.RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeOverview(f, run); err != nil {
		return err
	}
	if err := w.writeTrends(f, run); err != nil {
		return err
	}
	if err := w.writeSpatial(f, run); err != nil {
		return err
	}
	if err := w.writeZones(f, run); err != nil {
		return err
	}
	if err := w.writeFailures(f, run); err != nil {
		return err
	}

	// Drop the default sheet excelize seeds the workbook with.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "removing default sheet")
	}

	if err := f.SaveAs(w.path); err != nil {
		return errors.Wrap(err, "saving workbook")
	}
	return nil
}

func (w *Writer) writeOverview(f *excelize.File, run *report.RunResult) error {
	const sheet = "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "creating overview sheet")
	}

	rows := [][]interface{}{
		{"Run", string(run.RunID)},
		{"Started", run.StartedAt.Time().Format("2006-01-02 15:04:05")},
		{"Finished", run.FinishedAt.Time().Format("2006-01-02 15:04:05")},
		{"Indices", len(run.Reports)},
		{},
		{"Index", "Dates", "First", "Last", "Mean", "Std", "CV %", "Failures"},
	}
	for _, rep := range run.Reports {
		row := []interface{}{rep.Key.String(), len(rep.Dates)}
		if len(rep.Dates) > 0 {
			row = append(row, rep.Dates[0].Format(dateLayout), rep.Dates[len(rep.Dates)-1].Format(dateLayout))
		} else {
			row = append(row, "", "")
		}
		if rep.Summary != nil {
			row = append(row, rep.Summary.Mean, rep.Summary.Std, rep.Summary.CV)
		} else {
			row = append(row, "", "", "")
		}
		row = append(row, len(rep.Failures))
		rows = append(rows, row)
	}
	return writeRows(f, sheet, rows)
}

func (w *Writer) writeTrends(f *excelize.File, run *report.RunResult) error {
	const sheet = "Trends"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "creating trends sheet")
	}

	rows := [][]interface{}{{
		"Index", "Slope/day", "Intercept", "R2", "p", "Classification",
		"Change %", "MK tau", "MK Z", "MK p", "MK classification",
		"Break date", "Pre slope", "Post slope", "Change type",
		"Period t", "Period p", "Period significant",
	}}
	for _, rep := range run.Reports {
		row := []interface{}{rep.Key.String()}
		if t := rep.Trend; t != nil {
			row = append(row, t.Slope, t.Intercept, t.RSquared, t.PValue, string(t.Classification), t.PercentChange)
		} else {
			row = append(row, "", "", "", "", "", "")
		}
		if mk := rep.MannKendall; mk != nil {
			row = append(row, mk.Tau, mk.Z, mk.PValue, string(mk.Classification))
		} else {
			row = append(row, "", "", "", "")
		}
		if bp := rep.Breakpoint; bp != nil && bp.Applicable {
			row = append(row, bp.Date.Format(dateLayout), bp.PreSlope, bp.PostSlope, string(bp.ChangeType))
		} else {
			row = append(row, "", "", "", "")
		}
		if p := rep.Periods; p != nil && p.TestPerformed {
			row = append(row, p.TStatistic, p.PValue, p.Significant)
		} else {
			row = append(row, "", "", "")
		}
		rows = append(rows, row)
	}
	return writeRows(f, sheet, rows)
}

func (w *Writer) writeSpatial(f *excelize.File, run *report.RunResult) error {
	const sheet = "Spatial"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "creating spatial sheet")
	}

	rows := [][]interface{}{{
		"Index", "Masked cells", "Hot", "Hot %", "Cold", "Cold %", "Flat",
		"Moran I", "Moran Z", "Moran p", "Pattern", "Clusters", "Inertia",
	}}
	for _, rep := range run.Reports {
		row := []interface{}{rep.Key.String()}
		if s := rep.Summary; s != nil {
			row = append(row, s.N)
		} else {
			row = append(row, "")
		}
		if hc := rep.HotCold; hc != nil {
			row = append(row, hc.Hot.Count, hc.HotPct, hc.Cold.Count, hc.ColdPct, hc.AllFlat)
		} else {
			row = append(row, "", "", "", "", "")
		}
		if m := rep.Moran; m != nil {
			row = append(row, m.I, m.Z, m.PValue, string(m.Classification))
		} else {
			row = append(row, "", "", "", "")
		}
		if c := rep.Clusters; c != nil {
			row = append(row, c.K, c.Inertia)
		} else {
			row = append(row, "", "")
		}
		rows = append(rows, row)
	}
	return writeRows(f, sheet, rows)
}

func (w *Writer) writeZones(f *excelize.File, run *report.RunResult) error {
	const sheet = "Zones"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "creating zones sheet")
	}

	rows := [][]interface{}{{
		"Index", "Zone", "Pixels", "Fraction", "Mean",
		"Slope/day", "p", "Classification", "Change %", "Error",
	}}
	for _, rep := range run.Reports {
		if rep.Zones == nil {
			continue
		}
		for _, z := range rep.Zones.Zones {
			row := []interface{}{rep.Key.String(), z.ID, z.PixelCount, z.Fraction, z.Mean}
			if z.Trend != nil {
				row = append(row, z.Trend.Slope, z.Trend.PValue, string(z.Trend.Classification), z.PercentChange, "")
			} else {
				row = append(row, "", "", "", "", z.TrendErrKind)
			}
			rows = append(rows, row)
		}
	}
	return writeRows(f, sheet, rows)
}

func (w *Writer) writeFailures(f *excelize.File, run *report.RunResult) error {
	const sheet = "Failures"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "creating failures sheet")
	}

	rows := [][]interface{}{{"Index", "Statistic", "Kind", "Message"}}
	for _, rep := range run.Reports {
		for _, fail := range rep.Failures {
			rows = append(rows, []interface{}{rep.Key.String(), fail.Statistic, fail.Kind, fail.Message})
		}
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+1)
		}
	}
	return nil
}
