package table

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/criterion/lang"
)

// Format identifies a table encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json" // decoded as YAML
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// Formats lists every supported format name.
func Formats() []string {
	return []string{
		string(FormatYAML),
		string(FormatJSON),
		string(FormatCSV),
		string(FormatTSV),
	}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON, FormatCSV, FormatTSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", lang.ErrInvalidFormat.With(slog.String("format", s))
	}
}

// FormatOf infers the format from a file name extension, defaulting to
// [FormatYAML].
func FormatOf(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatYAML
	}

	return f
}

// Table is a set of sample data rows.
type Table struct {
	// Columns holds every column name in order of first appearance.
	Columns []string

	// Rows holds one symbol table per row. A row holds no entry for a column
	// its source record omits.
	Rows []lang.Symbols
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// All returns an iterator over row indices and rows.
func (t *Table) All() iter.Seq2[int, lang.Symbols] {
	return func(yield func(int, lang.Symbols) bool) {
		for i, row := range t.Rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// Append adds the rows of other to t, extending t.Columns with any columns
// t has not seen.
func (t *Table) Append(other *Table) {
	if other == nil {
		return
	}

	seen := make(map[string]struct{}, len(t.Columns))
	for _, name := range t.Columns {
		seen[name] = struct{}{}
	}

	for _, name := range other.Columns {
		t.addColumn(seen, name)
	}

	t.Rows = append(t.Rows, other.Rows...)
}

// addColumn records name if it has not been seen.
func (t *Table) addColumn(seen map[string]struct{}, name string) {
	if _, ok := seen[name]; ok {
		return
	}

	seen[name] = struct{}{}
	t.Columns = append(t.Columns, name)
}

// Read decodes a table from r in the given format.
func Read(ctx context.Context, r io.Reader, format Format) (*Table, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err).
			With(slog.String("format", string(format)))
	}

	switch format {
	case FormatYAML, FormatJSON:
		return readYAML(ctx, data)

	case FormatCSV:
		return readDelimited(data, ',')

	case FormatTSV:
		return readDelimited(data, '\t')

	default:
		return nil, lang.ErrInvalidFormat.With(slog.String("format", string(format)))
	}
}

// readYAML accepts either a sequence of mappings, one per row, or a mapping
// with "columns" (a sequence of names) and "rows" (a sequence of sequences).
func readYAML(ctx context.Context, data []byte) (*Table, error) {
	var doc any

	err := yaml.UnmarshalContext(ctx, data, &doc, yaml.UseOrderedMap())
	if err != nil {
		return nil, lang.ErrInvalidFormat.Wrap(err).
			With(slog.String("format", string(FormatYAML)))
	}

	switch d := doc.(type) {
	case nil:
		return &Table{}, nil

	case []any:
		return recordRows(d)

	case yaml.MapSlice:
		return columnRows(d)

	default:
		return nil, lang.ErrInvalidFormat.With(
			slog.String("format", string(FormatYAML)),
			slog.String("issue", "expected a sequence of rows or a columns/rows mapping"),
		)
	}
}

func recordRows(records []any) (*Table, error) {
	t := &Table{Rows: make([]lang.Symbols, 0, len(records))}
	seen := make(map[string]struct{})

	for i, rec := range records {
		fields, ok := rec.(yaml.MapSlice)
		if !ok {
			return nil, rowError(i, "row is not a mapping")
		}

		row := make(lang.Symbols, len(fields))

		for _, item := range fields {
			name, err := columnName(item.Key)
			if err != nil {
				return nil, rowError(i, err.Error())
			}

			v, err := lang.ValueOf(item.Value)
			if err != nil {
				return nil, rowError(i, err.Error()).With(slog.String("column", name))
			}

			t.addColumn(seen, name)
			row[name] = v
		}

		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func columnRows(doc yaml.MapSlice) (*Table, error) {
	var columns, rows []any

	for _, item := range doc {
		switch item.Key {
		case "columns":
			columns, _ = item.Value.([]any)
		case "rows":
			var ok bool
			if rows, ok = item.Value.([]any); !ok && item.Value != nil {
				return nil, lang.ErrInvalidFormat.With(
					slog.String("issue", "\"rows\" is not a sequence"))
			}
		}
	}

	if columns == nil {
		return nil, lang.ErrInvalidFormat.With(
			slog.String("issue", "missing \"columns\" sequence"))
	}

	t := &Table{Rows: make([]lang.Symbols, 0, len(rows))}
	seen := make(map[string]struct{})

	for _, c := range columns {
		name, err := columnName(c)
		if err != nil {
			return nil, lang.ErrInvalidFormat.With(slog.String("issue", err.Error()))
		}

		t.addColumn(seen, name)
	}

	for i, r := range rows {
		cells, ok := r.([]any)
		if !ok {
			return nil, rowError(i, "row is not a sequence")
		}

		if len(cells) > len(t.Columns) {
			return nil, rowError(i, "more cells than columns")
		}

		row := make(lang.Symbols, len(t.Columns))

		for j, cell := range cells {
			v, err := lang.ValueOf(cell)
			if err != nil {
				return nil, rowError(i, err.Error()).
					With(slog.String("column", t.Columns[j]))
			}

			row[t.Columns[j]] = v
		}

		for _, name := range t.Columns[len(cells):] {
			row[name] = lang.Missing()
		}

		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func columnName(key any) (string, error) {
	switch k := key.(type) {
	case string:
		return k, nil
	case uint64:
		return strconv.FormatUint(k, 10), nil
	case int64:
		return strconv.FormatInt(k, 10), nil
	default:
		return "", errors.New("column name is not a scalar")
	}
}

// readDelimited reads a header row followed by data rows.
func readDelimited(data []byte, comma rune) (*Table, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = comma
	cr.FieldsPerRecord = 0
	cr.TrimLeadingSpace = comma == ','

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}

	if err != nil {
		return nil, lang.ErrInvalidFormat.Wrap(err)
	}

	t := &Table{}
	seen := make(map[string]struct{}, len(header))

	for _, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; dup {
			return nil, lang.ErrInvalidFormat.With(
				slog.String("issue", "duplicate column"),
				slog.String("column", name))
		}

		t.addColumn(seen, name)
	}

	for i := 0; ; i++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, lang.ErrInvalidFormat.Wrap(err).With(slog.Int("row", i+1))
		}

		row := make(lang.Symbols, len(header))
		for j, cell := range record {
			row[t.Columns[j]] = cellValue(cell)
		}

		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// cellValue interprets one delimited-text cell.
func cellValue(cell string) lang.Value {
	cell = strings.TrimSpace(cell)

	if cell == "" {
		return lang.Missing()
	}

	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return lang.Number(f)
	}

	return lang.Text(cell)
}

func rowError(i int, issue string) *lang.Error {
	return lang.ErrInvalidFormat.With(
		slog.Int("row", i+1),
		slog.String("issue", issue),
	)
}
