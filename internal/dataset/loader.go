package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Source yields the fields of one input line per call and io.EOF when done.
// A *csv.ParseError describes a single malformed line; reading may continue after it.
// Line is the 1-based physical line the last returned row started on.
type Source interface {
	Next() ([]string, error)
	Line() int
}

type csvSource struct {
	r *csv.Reader
}

// NewCSVSource reads comma separated lines with standard quoting.
// Leading spaces in fields are dropped and rows may have any number of fields.
func NewCSVSource(r io.Reader) Source {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &csvSource{r: cr}
}

func (s *csvSource) Next() ([]string, error) {
	return s.r.Read()
}

func (s *csvSource) Line() int {
	line, _ := s.r.FieldPos(0)
	return line
}

// XLSXSource reads rows from the first sheet of a workbook.
type XLSXSource struct {
	f    *excelize.File
	rows *excelize.Rows
	row  int
}

func NewXLSXSource(r io.Reader) (*XLSXSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return &XLSXSource{f: f, rows: rows}, nil
}

func (s *XLSXSource) Next() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	s.row++
	return s.rows.Columns()
}

func (s *XLSXSource) Line() int { return s.row }

func (s *XLSXSource) Close() error {
	return errors.Join(s.rows.Close(), s.f.Close())
}

func isWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// Open wraps an already opened input file in the Source matching its extension.
// Closing the returned closer also closes f.
func Open(path string, f *os.File) (Source, io.Closer, error) {
	if !isWorkbook(path) {
		return NewCSVSource(f), f, nil
	}
	src, err := NewXLSXSource(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return src, closerFunc(func() error { return errors.Join(src.Close(), f.Close()) }), nil
}

type closerFunc func() error

func (fn closerFunc) Close() error { return fn() }
