// Package workorder decodes work-order rows from the scheduling workbook.
package workorder

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the work-order list.
const SheetName = "作業指示書 の一覧"

// Required column headers.
const (
	ColumnName  = "物件名"
	ColumnStart = "予定開始"
	ColumnEnd   = "予定終了"
)

// Record is one work-order row after validation. Invalid rows carry a non-nil
// Err and produce no document; they never abort the batch.
type Record struct {
	Row   int // 1-based worksheet row number
	Name  string
	Start time.Time
	End   time.Time
	Err   error
}

// Valid reports whether the record can produce a document.
func (r Record) Valid() bool {
	return r.Err == nil
}

// Workbook wraps an open xlsx workbook.
type Workbook struct {
	file *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{file: f}, nil
}

// OpenReader opens a workbook from a stream, e.g. an uploaded file.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Records reads all work-order rows from the given sheet. The first row is the
// header row and must contain the three required columns; a missing sheet or
// column is a run-aborting error. Data rows are returned in sheet order, one
// Record per row, valid or not.
func (w *Workbook) Records(sheet string) ([]Record, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	nameCol, startCol, endCol := -1, -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case ColumnName:
			nameCol = i
		case ColumnStart:
			startCol = i
		case ColumnEnd:
			endCol = i
		}
	}
	for header, idx := range map[string]int{ColumnName: nameCol, ColumnStart: startCol, ColumnEnd: endCol} {
		if idx == -1 {
			return nil, fmt.Errorf("sheet %q: missing column %q", sheet, header)
		}
	}

	var records []Record
	for i, row := range rows[1:] {
		records = append(records, decodeRow(i+2, row, nameCol, startCol, endCol))
	}
	return records, nil
}

func decodeRow(rowNum int, row []string, nameCol, startCol, endCol int) Record {
	rec := Record{Row: rowNum}

	rec.Name = strings.TrimSpace(cell(row, nameCol))
	if rec.Name == "" {
		rec.Err = errors.New("missing property name")
		return rec
	}

	start, err := parseDateTime(cell(row, startCol))
	if err != nil {
		rec.Err = fmt.Errorf("planned start: %w", err)
		return rec
	}
	end, err := parseDateTime(cell(row, endCol))
	if err != nil {
		rec.Err = fmt.Errorf("planned end: %w", err)
		return rec
	}

	rec.Start = start
	rec.End = end
	return rec
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// dateTimeLayouts are the forms excelize yields for date cells plus the literal
// layouts seen in hand-edited sheets.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"1/2/06 15:04",
	"01-02-06 15:04",
	"2006年1月2日 15:04",
	time.RFC3339,
}

func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing value")
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date-time %q", s)
}
