package sources

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

// XLSXSource reads glossary rows from a workbook sheet with the same header
// rules as the CSV source.
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource creates an XLSXSource. An empty sheet means the first one.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

// Name implements Source.
func (s *XLSXSource) Name() string {
	return "xlsx:" + s.path
}

// Load opens the workbook and reads the sheet.
func (s *XLSXSource) Load(ctx context.Context) (Result, error) {
	res := Result{Source: s.Name()}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return res, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return res, ErrNoRows
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return res, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return res, ErrNoRows
	}

	cols, ok := headerColumns(rows[0])
	if !ok {
		return res, fmt.Errorf("sheet %s lacks term and definition columns", sheet)
	}
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		e, ok := cols.entry(row)
		if !ok {
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, e)
	}

	if len(res.Entries) == 0 {
		return res, ErrNoRows
	}
	return res, nil
}

// WriteXLSX saves entries to a new workbook at path.
func WriteXLSX(path string, entries []glossary.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, e := range entries {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []interface{}{e.Term, e.Definition, e.ReferenceLink}); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}
