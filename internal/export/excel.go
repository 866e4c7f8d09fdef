// Package export writes reconciliation results to workbooks and JSON.
package export

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gorecon/internal/criteria"
	"github.com/alexiusacademia/gorecon/internal/reconcile"
)

// Sheet names of the comparison workbook
const (
	SheetComparison = "Comparison"
	SheetSections   = "Sections"
)

// comparisonHeaders are the columns of the comparison sheet
var comparisonHeaders = []string{
	"Section", "Sector", "Outcome", "Label",
	"Design Bench", "As-Built Bench",
	"Design Crest Z", "As-Built Crest Z", "ΔZ",
	"Design Height", "Height", "Height Status",
	"Design Face", "Face Angle", "Face Status",
	"Design Berm", "Berm Width", "Berm Status",
	"Δ Crest", "Δ Toe",
	"Status",
}

var sectionHeaders = []string{
	"Section", "Sector", "Matches", "Missing", "Extra",
	"Inter-Ramp", "Inter-Ramp Status", "Overall", "Overall Status",
	"Status",
}

// WorkbookData is the content of a comparison workbook
type WorkbookData struct {
	RunID       string
	Comparisons []reconcile.SectionComparison
}

// GenerateExcel builds the comparison workbook and returns its bytes
func GenerateExcel(data WorkbookData) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteExcel(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteExcel writes the comparison workbook to w
func WriteExcel(w io.Writer, data WorkbookData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetComparison); err != nil {
		return fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(SheetSections); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetSections, err)
	}

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := writeComparisonSheet(f, st, data); err != nil {
		return err
	}
	if err := writeSectionsSheet(f, st, data); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write excel: %w", err)
	}
	return nil
}

type styles struct {
	header int
	cell   int
	status map[criteria.Status]int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(boxed(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	}))
	if err != nil {
		return styles{}, fmt.Errorf("create header style: %w", err)
	}

	cell, err := f.NewStyle(boxed(&excelize.Style{Font: &excelize.Font{Size: 10}}))
	if err != nil {
		return styles{}, fmt.Errorf("create cell style: %w", err)
	}

	st := styles{header: header, cell: cell, status: make(map[criteria.Status]int)}
	fills := map[criteria.Status]string{
		criteria.StatusComplies:     "#C6EFCE",
		criteria.StatusOutOfTol:     "#FFEB9C",
		criteria.StatusNonCompliant: "#FFC7CE",
	}
	for status, color := range fills {
		id, err := f.NewStyle(boxed(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 10},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}))
		if err != nil {
			return styles{}, fmt.Errorf("create %s style: %w", status, err)
		}
		st.status[status] = id
	}
	return st, nil
}

func writeHeader(f *excelize.File, sheet string, st styles, headers []string, widths float64) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell %d: %w", i, err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("set header %s: %w", h, err)
		}
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(sheet, "A", last, widths); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", st.header); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeComparisonSheet(f *excelize.File, st styles, data WorkbookData) error {
	sheet := SheetComparison
	if err := writeHeader(f, sheet, st, comparisonHeaders, 13); err != nil {
		return err
	}

	row := 2
	for _, c := range data.Comparisons {
		for _, r := range c.Records {
			values := comparisonRow(r)
			if err := setRow(f, sheet, row, values); err != nil {
				return err
			}
			if err := styleRow(f, sheet, st, row, len(values), map[int]*criteria.Status{
				12: evalStatus(r.Height),
				15: evalStatus(r.FaceAngle),
				18: evalStatus(bermEval(r)),
				21: statusPtr(r.Status()),
			}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeSectionsSheet(f *excelize.File, st styles, data WorkbookData) error {
	sheet := SheetSections
	if err := writeHeader(f, sheet, st, sectionHeaders, 14); err != nil {
		return err
	}

	row := 2
	for _, c := range data.Comparisons {
		sum := c.Summary()
		values := []any{
			quoteText(c.Section), quoteText(c.Sector),
			sum.Matches, sum.Missing, sum.Extra,
			measured(c.InterRamp), statusText(c.InterRamp),
			measured(c.Overall), statusText(c.Overall),
			string(c.Status()),
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		if err := styleRow(f, sheet, st, row, len(values), map[int]*criteria.Status{
			7:  evalStatus(c.InterRamp),
			9:  evalStatus(c.Overall),
			10: statusPtr(c.Status()),
		}); err != nil {
			return err
		}
		row++
	}

	if data.RunID != "" {
		row++
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, cell, "Run: "+data.RunID); err != nil {
			return fmt.Errorf("set run id: %w", err)
		}
	}
	return nil
}

func comparisonRow(r reconcile.ComparisonRecord) []any {
	var designBench, asBuiltBench, designZ, asBuiltZ any
	if r.Design != nil {
		designBench, designZ = r.Design.BenchNumber, round(r.Design.CrestElevation)
	}
	if r.AsBuilt != nil {
		asBuiltBench, asBuiltZ = r.AsBuilt.BenchNumber, round(r.AsBuilt.CrestElevation)
	}
	berm := bermEval(r)
	return []any{
		quoteText(r.Section), quoteText(r.Sector), string(r.Outcome), r.Label,
		designBench, asBuiltBench,
		designZ, asBuiltZ, value(r.ElevationDiff),
		designValue(r.Height), measured(r.Height), statusText(r.Height),
		designValue(r.FaceAngle), measured(r.FaceAngle), statusText(r.FaceAngle),
		designValue(berm), measured(berm), statusText(berm),
		value(r.DeltaCrest), value(r.DeltaToe),
		string(r.Status()),
	}
}

// bermEval returns the berm verdict, or the ramp width verdict on ramps
func bermEval(r reconcile.ComparisonRecord) *reconcile.Evaluation {
	if r.BermWidth != nil {
		return r.BermWidth
	}
	return r.RampWidth
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

// styleRow borders the row and colors the status columns (1-based)
func styleRow(f *excelize.File, sheet string, st styles, row, cols int, statusCols map[int]*criteria.Status) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	if err := f.SetCellStyle(sheet, first, last, st.cell); err != nil {
		return fmt.Errorf("style row %d: %w", row, err)
	}
	for col, status := range statusCols {
		if status == nil {
			continue
		}
		id, ok := st.status[*status]
		if !ok {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col, row)
		if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
			return fmt.Errorf("style %s: %w", cell, err)
		}
	}
	return nil
}

func evalStatus(e *reconcile.Evaluation) *criteria.Status {
	if e == nil {
		return nil
	}
	return statusPtr(e.Status)
}

func statusPtr(s criteria.Status) *criteria.Status {
	return &s
}

func statusText(e *reconcile.Evaluation) any {
	if e == nil {
		return nil
	}
	return string(e.Status)
}

func measured(e *reconcile.Evaluation) any {
	if e == nil {
		return nil
	}
	return round(e.Measured)
}

func designValue(e *reconcile.Evaluation) any {
	if e == nil {
		return nil
	}
	return round(e.Design)
}

func value(v *float64) any {
	if v == nil {
		return nil
	}
	return round(*v)
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}

// formulaLeads are the first characters a spreadsheet reads as a formula
const formulaLeads = "=+-@\t\r|"

// quoteText keeps section and sector names from being evaluated
func quoteText(s string) string {
	if s != "" && strings.IndexByte(formulaLeads, s[0]) >= 0 {
		return "'" + s
	}
	return s
}

// boxed outlines every cell of a style with a thin black border
func boxed(st *excelize.Style) *excelize.Style {
	st.Border = make([]excelize.Border, 0, 4)
	for _, side := range [...]string{"left", "top", "right", "bottom"} {
		st.Border = append(st.Border, excelize.Border{Type: side, Color: "#000000", Style: 1})
	}
	return st
}
