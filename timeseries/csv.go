package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for dates (default: first of ds/date/DATE/Date/Month)
	ValueColumn string // Column name for values (default: "y")
	IDColumn    string // Column name for series ID (optional, for filtering)
	IDFilter    string // Value to filter by ID column
	DateFormat  string // Date format (default: "2006-01-02")
	Delimiter   rune   // Field delimiter (default: ',')
	SkipRows    int    // Number of rows to skip before the header
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		DateFormat:  "2006-01-02",
		Delimiter:   ',',
	}
}

var dateHeaders = []string{"ds", "date", "DATE", "Date", "Month", "observation_date"}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a long-format time series (one observation per row) from
// an io.Reader. Rows whose value is empty, "." or NA are skipped. NaN and ±Inf are
// read as values.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader, header, err := openCSV(r, opts)
	if err != nil {
		return nil, err
	}

	dateIdx := findDateColumn(header, opts)
	if dateIdx == -1 {
		return nil, errors.New("no date column found in CSV header")
	}
	valueIdx, idIdx := -1, -1
	for i, h := range header {
		switch {
		case h == opts.ValueColumn || (opts.ValueColumn == "" && (h == "y" || h == "value")):
			valueIdx = i
		case opts.IDColumn != "" && h == opts.IDColumn:
			idIdx = i
		}
	}
	if valueIdx == -1 {
		return nil, fmt.Errorf("value column %q not found in CSV header", opts.ValueColumn)
	}

	series := &Series{Timestamps: []time.Time{}, Values: []float64{}, Name: opts.ValueColumn}
	if opts.IDFilter != "" {
		series.Name = opts.IDFilter
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if opts.IDFilter != "" && idIdx >= 0 && idIdx < len(record) {
			if clean(record[idIdx]) != opts.IDFilter {
				continue
			}
		}
		if valueIdx >= len(record) || dateIdx >= len(record) {
			continue
		}

		val, ok := parseValue(record[valueIdx])
		if !ok {
			continue
		}
		ts, err := parseDate(record[dateIdx], opts.DateFormat)
		if err != nil {
			return nil, err
		}
		series.Timestamps = append(series.Timestamps, ts)
		series.Values = append(series.Values, val)
	}

	if series.Len() == 0 {
		return nil, errors.New("no valid data found in CSV")
	}
	return series, nil
}

// LoadTableCSV reads a wide CSV with one date column and one column per category.
// Empty and missing-value cells become absent slots. Rows must be in increasing
// monthly order.
func LoadTableCSV(r io.Reader, opts *CSVOptions) (*Table, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader, header, err := openCSV(r, opts)
	if err != nil {
		return nil, err
	}
	dateIdx := findDateColumn(header, opts)
	if dateIdx == -1 {
		return nil, errors.New("no date column found in CSV header")
	}

	var labels []string
	var cols []int
	for i, h := range header {
		if i != dateIdx {
			labels = append(labels, h)
			cols = append(cols, i)
		}
	}

	var index []time.Time
	values := make([][]float64, len(cols))
	present := make([][]bool, len(cols))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if dateIdx >= len(record) {
			continue
		}
		ts, err := parseDate(record[dateIdx], opts.DateFormat)
		if err != nil {
			return nil, err
		}
		index = append(index, MonthStart(ts))
		for j, c := range cols {
			var v float64
			ok := false
			if c < len(record) {
				v, ok = parseValue(record[c])
			}
			values[j] = append(values[j], v)
			present[j] = append(present[j], ok)
		}
	}

	if err := checkMonthly(index); err != nil {
		return nil, err
	}

	table := &Table{Index: index, Columns: make([]*Sparse, len(cols))}
	for j, label := range labels {
		table.Columns[j] = &Sparse{
			Timestamps: copyTimes(index),
			Values:     values[j],
			Present:    present[j],
			Name:       label,
		}
	}
	return table, nil
}

// SaveCSV saves a time series to a CSV file with a ds,y header.
func SaveCSV(series *Series, filename string) error {
	table := &Table{
		Index:   series.Timestamps,
		Columns: []*Sparse{denseColumn(series, "y")},
	}
	return saveTable(table, filename, "ds")
}

// SaveTableCSV saves a table to a wide CSV file. Absent slots are written empty.
func SaveTableCSV(table *Table, filename string) error {
	return saveTable(table, filename, "date")
}

// WriteTableCSV writes a table in wide CSV form to w.
func WriteTableCSV(w io.Writer, table *Table) error {
	return writeTable(w, table, "date")
}

func saveTable(table *Table, filename, dateHeader string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := writeTable(file, table, dateHeader); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeTable(w io.Writer, table *Table, dateHeader string) error {
	writer := csv.NewWriter(w)

	header := append([]string{dateHeader}, table.Labels()...)
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i, ts := range table.Index {
		record[0] = ts.Format("2006-01-02")
		for j, c := range table.Columns {
			record[j+1] = ""
			if v, ok := c.At(i); ok {
				record[j+1] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func denseColumn(s *Series, name string) *Sparse {
	col := NewSparse(name, s.Timestamps)
	for i, v := range s.Values {
		col.Set(i, v)
	}
	return col
}

func openCSV(r io.Reader, opts *CSVOptions) (*csv.Reader, []string, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, nil, err
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, nil, err
	}
	for i := range header {
		header[i] = clean(header[i])
	}
	return reader, header, nil
}

func findDateColumn(header []string, opts *CSVOptions) int {
	for i, h := range header {
		if opts.DateColumn != "" && h == opts.DateColumn {
			return i
		}
	}
	if opts.DateColumn != "" {
		return -1
	}
	for _, name := range dateHeaders {
		for i, h := range header {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func parseValue(field string) (float64, bool) {
	s := clean(field)
	switch s {
	case "", ".", "NA":
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(field, preferred string) (time.Time, error) {
	s := clean(field)
	formats := dateFormats
	if preferred != "" {
		formats = append([]string{preferred}, dateFormats...)
	}
	for _, f := range formats {
		if ts, err := time.Parse(f, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func clean(field string) string {
	return strings.TrimSpace(strings.Trim(field, "\""))
}
