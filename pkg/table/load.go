package table

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/locvowork/brandsheet/internal/apperr"
)

// Format of a tabular input.
type Format int

const (
	FormatJSON Format = iota
	FormatCSV
	FormatTSV
)

// Stdin is the input path that means "JSON records on standard input".
const Stdin = "-"

// FormatFor picks the input format from the file extension. ok is false
// when the extension is not one of .json, .csv or .tsv.
func FormatFor(path string) (format Format, ok bool) {
	if path == Stdin {
		return FormatJSON, true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".csv":
		return FormatCSV, true
	case ".tsv":
		return FormatTSV, true
	}
	return FormatJSON, false
}

// Load reads the table at path. "-" reads JSON records from os.Stdin. A file
// with an unknown extension is accepted if its content is JSON records.
func Load(path string) (*Table, error) {
	format, known := FormatFor(path)
	if path == Stdin {
		return Read(os.Stdin, format)
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.WrapWith(apperr.ErrInputNotFound, err, "opening input", "path", path)
		}
		return nil, apperr.WrapWith(apperr.ErrIOFailure, err, "opening input", "path", path)
	}
	defer file.Close()

	t, err := Read(file, format)
	if err != nil && !known {
		return nil, apperr.WrapWith(apperr.ErrUnsupportedInputFormat, err,
			"unsupported input format; provide .json, .csv or .tsv, or JSON on stdin", "path", path)
	}
	return t, err
}

// Read decodes a table in the given format.
func Read(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return readDelimited(r, ',')
	case FormatTSV:
		return readDelimited(r, '\t')
	default:
		return readJSON(r)
	}
}

// readJSON reads an array of flat records. Column order is the key order of
// the first record, followed by keys first seen in later records.
func readJSON(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var (
		names   []string
		known   = map[string]int{}
		records []map[string]interface{}
	)
	for dec.More() {
		keys, rec, err := readRecord(dec)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if _, ok := known[k]; !ok {
				known[k] = len(names)
				names = append(names, k)
			}
		}
		records = append(records, rec)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(names))
		for k, v := range rec {
			row[known[k]] = jsonValue(v)
		}
		rows[i] = row
	}
	return New(names, rows), nil
}

func readRecord(dec *json.Decoder) ([]string, map[string]interface{}, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	var keys []string
	rec := map[string]interface{}{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, apperr.Wrap(apperr.ErrParseFailure, err, "reading record key")
		}
		key, _ := tok.(string)
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, nil, apperr.WrapWith(apperr.ErrParseFailure, err, "reading record value", "key", key)
		}
		if _, dup := rec[key]; !dup {
			keys = append(keys, key)
		}
		rec[key] = v
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return keys, rec, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return apperr.Wrap(apperr.ErrParseFailure, err, "reading JSON input")
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return apperr.Wrap(apperr.ErrParseFailure, nil, fmt.Sprintf("expected %q in JSON input, got %v", want, tok))
	}
	return nil
}

// jsonValue turns decoded numbers into int64 or float64. Nested values are
// kept as strings of their JSON form.
func jsonValue(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return val
	}
}

func readDelimited(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrParseFailure, err, "reading delimited input")
	}
	if len(records) == 0 {
		return New(nil, nil), nil
	}
	return FromStrings(records[0], records[1:]), nil
}

// FromStrings builds a table from string cells, such as the rows of an
// existing worksheet. A column whose non-empty cells all parse as numbers
// becomes numeric; empty cells become missing values.
func FromStrings(header []string, records [][]string) *Table {
	width := len(header)
	for _, rec := range records {
		width = max(width, len(rec))
	}
	names := make([]string, width)
	copy(names, header)

	numeric := make([]bool, width)
	for c := range numeric {
		numeric[c] = true
	}
	for _, rec := range records {
		for c, s := range rec {
			if s == "" {
				continue
			}
			if _, ok := parseNumber(s); !ok {
				numeric[c] = false
			}
		}
	}

	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, width)
		for c, s := range rec {
			switch {
			case s == "":
			case numeric[c]:
				row[c], _ = parseNumber(s)
			default:
				row[c] = s
			}
		}
		rows[i] = row
	}
	return New(names, rows)
}

func parseNumber(s string) (interface{}, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}
