// Package report renders report rows to an output destination.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pharmacy-counting-go/internal/types"
)

// Sink consumes the finished, ordered report.
type Sink interface {
	Write(rows []types.ReportRow) error
}

type csvSink struct {
	w io.Writer
}

// NewCSVSink writes one 'DRUG',count,total line per row and no header.
func NewCSVSink(w io.Writer) Sink {
	return &csvSink{w: w}
}

func (s *csvSink) Write(rows []types.ReportRow) error {
	bw := bufio.NewWriter(s.w)
	for _, row := range rows {
		if _, err := bw.WriteString(FormatLine(row)); err != nil {
			return fmt.Errorf("write row %q: %w", row.DrugName, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatLine renders a row without the trailing newline.
func FormatLine(row types.ReportRow) string {
	return "'" + row.DrugName + "'," + strconv.Itoa(row.UniquePrescribers) + "," + FormatCost(row.TotalCost)
}

// FormatCost renders the shortest decimal that parses back to v.
// Integral values keep a trailing ".0".
func FormatCost(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

const sheetName = "report"

type xlsxSink struct {
	w io.Writer
}

// NewXLSXSink writes the report as a single sheet workbook with a header row.
func NewXLSXSink(w io.Writer) Sink {
	return &xlsxSink{w: w}
}

func (s *xlsxSink) Write(rows []types.ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := []interface{}{"drug_name", "num_prescriber", "total_cost"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.DrugName, row.UniquePrescribers, row.TotalCost}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %q: %w", row.DrugName, err)
		}
	}
	if err := f.Write(s.w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// NewSink picks the sink for format, which is "csv" or "xlsx".
func NewSink(format string, w io.Writer) (Sink, error) {
	switch strings.ToLower(format) {
	case "", "csv", "txt":
		return NewCSVSink(w), nil
	case "xlsx":
		return NewXLSXSink(w), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
