package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// WriteXLSX writes a workbook with a summary sheet and one sheet per table.
func WriteXLSX(w io.Writer, rep *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	_ = f.SetCellValue(summarySheet, "A1", rep.Name)
	_ = f.SetCellStyle(summarySheet, "A1", "A1", bold)
	_ = f.SetCellValue(summarySheet, "A3", "Utility")
	_ = f.SetCellValue(summarySheet, "B3", "Annual cost ($)")
	_ = f.SetCellStyle(summarySheet, "A3", "B3", bold)
	row := 4
	for _, l := range rep.Summary {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), l.Label)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), l.Cost.InexactFloat64())
		row++
	}
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Total")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), rep.TotalCost.InexactFloat64())
	_ = f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), bold)
	_ = f.SetColWidth(summarySheet, "A", "A", 30)
	_ = f.SetColWidth(summarySheet, "B", "B", 18)

	for _, t := range rep.Tables {
		if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("adding sheet %q: %w", t.Name, err)
		}
		header := append([]any{""}, headers(t)...)
		if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
			return fmt.Errorf("writing %s header: %w", t.Name, err)
		}
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(t.Name, "A1", last, bold)

		for i, r := range t.Rows {
			cells := make([]any, 0, len(r.Values)+1)
			cells = append(cells, r.Label)
			for _, v := range r.Values {
				cells = append(cells, v.InexactFloat64())
			}
			start := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(t.Name, start, &cells); err != nil {
				return fmt.Errorf("writing %s row %d: %w", t.Name, i+1, err)
			}
			if r.Total {
				end, _ := excelize.CoordinatesToCellName(len(cells), i+2)
				_ = f.SetCellStyle(t.Name, start, end, bold)
			}
		}
		lastCol, _ := excelize.ColumnNumberToName(len(header))
		_ = f.SetColWidth(t.Name, "A", lastCol, 24)
	}

	return f.Write(w)
}

func headers(t Table) []any {
	h := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Header
	}
	return h
}

// WritePDF writes the summary followed by every table on an A4 landscape
// page.
func WritePDF(w io.Writer, rep *Report) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, fmt.Sprintf("Energy audit: %s", rep.Name))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 6, "Utility", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, "Annual cost ($)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, l := range rep.Summary {
		pdf.CellFormat(80, 6, l.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, l.Cost.StringFixed(cents), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 6, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, rep.TotalCost.StringFixed(cents), "1", 0, "R", false, 0, "")
	pdf.Ln(10)

	for _, t := range rep.Tables {
		labelWidth := 50.0
		width := (277 - labelWidth) / float64(len(t.Columns))
		if width > 45 {
			width = 45
		}

		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, t.Name)
		pdf.Ln(9)

		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(labelWidth, 6, "", "1", 0, "C", false, 0, "")
		for _, c := range t.Columns {
			pdf.CellFormat(width, 6, c.Header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		for _, r := range t.Rows {
			style := ""
			if r.Total {
				style = "B"
			}
			pdf.SetFont("Arial", style, 8)
			pdf.CellFormat(labelWidth, 6, r.Label, "1", 0, "L", false, 0, "")
			for i, v := range r.Values {
				pdf.CellFormat(width, 6, v.StringFixed(t.Columns[i].Places), "1", 0, "R", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	return pdf.Output(w)
}
