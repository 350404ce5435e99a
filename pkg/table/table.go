// Package table holds the generic tabular input the rendering engine reads:
// ordered, uniquely named columns with a declared kind, and rows of cells.
package table

import (
	"fmt"
	"strconv"
	"time"
)

// Kind is the declared type of a column.
type Kind int

const (
	KindUnspecified Kind = iota
	KindNumeric
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "unspecified"
	}
}

// Column is a named, typed column in display order.
type Column struct {
	Name string
	Kind Kind
}

// Table is read-only once built. Every row has exactly len(Columns) cells;
// a nil cell is a missing value.
type Table struct {
	Columns []Column
	Rows    [][]interface{}
}

// New builds a table from column names and rows, inferring column kinds from
// the values. Short rows are padded with nil and long rows are truncated.
// Duplicate names get a ".N" suffix.
func New(names []string, rows [][]interface{}) *Table {
	names = uniqueNames(names)
	t := &Table{
		Columns: make([]Column, len(names)),
		Rows:    make([][]interface{}, len(rows)),
	}
	for i, row := range rows {
		r := make([]interface{}, len(names))
		copy(r, row)
		t.Rows[i] = r
	}
	for i, name := range names {
		t.Columns[i] = Column{Name: name, Kind: t.inferKind(i)}
	}
	return t
}

// Names returns the column names in display order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NumRows is the number of data rows, header excluded.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// inferKind: numeric when every present value is a number, unspecified when
// every present value is a boolean, text otherwise. A column with no values
// at all is text.
func (t *Table) inferKind(col int) Kind {
	var numbers, bools, present int
	for _, row := range t.Rows {
		v := row[col]
		if v == nil {
			continue
		}
		present++
		switch {
		case IsNumber(v):
			numbers++
		case isBool(v):
			bools++
		}
	}
	switch {
	case present == 0:
		return KindText
	case numbers == present:
		return KindNumeric
	case bools == present:
		return KindUnspecified
	default:
		return KindText
	}
}

// IsNumber reports whether v is a Go numeric value.
func IsNumber(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

func isBool(v interface{}) bool {
	_, ok := v.(bool)
	return ok
}

// String renders a cell the way it is displayed and measured.
func String(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

// uniqueNames suffixes repeated names with .1, .2 and so on. Blank names
// stay blank.
func uniqueNames(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
