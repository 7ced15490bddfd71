package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

// CSVSource reads a glossary CSV from a local path or an http(s) URL. The
// first record is the header; see headerColumns for how columns are found.
type CSVSource struct {
	location string
}

// NewCSVSource creates a CSVSource for a file path or URL.
func NewCSVSource(location string) *CSVSource {
	return &CSVSource{location: location}
}

// Name implements Source.
func (s *CSVSource) Name() string {
	return "csv:" + s.location
}

// Load reads and parses the CSV.
func (s *CSVSource) Load(ctx context.Context) (Result, error) {
	var data []byte
	var err error
	if isURL(s.location) {
		data, err = fetch(ctx, newHTTPClient(30*time.Second), s.location, nil, nil)
	} else {
		data, err = os.ReadFile(s.location)
	}
	if err != nil {
		return Result{Source: s.Name()}, fmt.Errorf("reading glossary csv: %w", err)
	}

	res, err := ParseCSV(bytes.NewReader(data))
	res.Source = s.Name()
	return res, err
}

// ParseCSV parses glossary rows from r. Quoted fields may contain commas
// and doubled quotes. Rows without a term or definition are skipped and
// counted.
func ParseCSV(r io.Reader) (Result, error) {
	var res Result

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return res, ErrNoRows
	}
	if err != nil {
		return res, fmt.Errorf("reading csv header: %w", err)
	}
	cols, ok := headerColumns(header)
	if !ok {
		return res, fmt.Errorf("csv header %q lacks term and definition columns", strings.Join(header, ","))
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("reading csv: %w", err)
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

// WriteCSV writes entries with a term,definition,wikipedia_url header.
func WriteCSV(w io.Writer, entries []glossary.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Term, e.Definition, e.ReferenceLink}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
