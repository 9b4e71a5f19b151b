package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Format enum
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "csv", "xlsx" and "excel"; empty defaults to csv.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", ErrUnsupportedFormat
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// File is a rendered download.
type File struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Table is a header, data rows and an optional totals row.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
	Totals []string
}

// CSV renders the table as comma-separated text.
func (t Table) CSV() (string, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(t.Header); err != nil {
		return "", err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	if len(t.Totals) > 0 {
		if err := w.Write(t.Totals); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// XLSX renders the table as a single-sheet workbook with a bold header row.
func (t Table) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Report"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}
	f.SetActiveSheet(index)

	writeRow := func(row int, values []string) error {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, row)
			if err != nil {
				return err
			}
			if n, err := strconv.ParseFloat(v, 64); err == nil && c > 0 {
				_ = f.SetCellValue(sheet, cell, n)
				continue
			}
			_ = f.SetCellValue(sheet, cell, v)
		}
		return nil
	}

	if err := writeRow(1, t.Header); err != nil {
		return nil, err
	}
	for r, row := range t.Rows {
		if err := writeRow(r+2, row); err != nil {
			return nil, err
		}
	}

	bold, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	if len(t.Header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
		_ = f.SetCellStyle(sheet, "A1", last, bold)
		lastCol, _ := excelize.ColumnNumberToName(len(t.Header))
		_ = f.SetColWidth(sheet, "A", lastCol, 18)
	}

	if len(t.Totals) > 0 {
		row := len(t.Rows) + 2
		if err := writeRow(row, t.Totals); err != nil {
			return nil, err
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(t.Totals), row)
		_ = f.SetCellStyle(sheet, first, last, bold)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render produces a File in the requested format named base.<ext>.
func (t Table) Render(format Format, base string) (File, error) {
	switch format {
	case FormatCSV:
		s, err := t.CSV()
		if err != nil {
			return File{}, fmt.Errorf("failed to render csv: %w", err)
		}
		return File{FileName: base + ".csv", ContentType: format.ContentType(), Data: []byte(s)}, nil
	case FormatXLSX:
		data, err := t.XLSX()
		if err != nil {
			return File{}, fmt.Errorf("failed to render xlsx: %w", err)
		}
		return File{FileName: base + ".xlsx", ContentType: format.ContentType(), Data: data}, nil
	}
	return File{}, ErrUnsupportedFormat
}
