package database

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// SelectBuilder builds the read-only queries used to pull a table out of
// Postgres. Identifiers are quoted; values are passed as $N arguments.
type SelectBuilder struct {
	table   string
	columns []string
	where   []string
	args    []interface{}
	orderBy []string
	limit   int
}

// NewSelectBuilder starts a query against table, which may be schema
// qualified ("sales.orders").
func NewSelectBuilder(table string) *SelectBuilder {
	return &SelectBuilder{table: table}
}

// Columns restricts the selected columns. No columns selects *.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.columns = append(b.columns, cols...)
	return b
}

// Where adds a condition using ? placeholders. Conditions are ANDed.
func (b *SelectBuilder) Where(condition string, args ...interface{}) *SelectBuilder {
	b.where = append(b.where, condition)
	b.args = append(b.args, args...)
	return b
}

func (b *SelectBuilder) OrderBy(cols ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, cols...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

// Build returns the SQL text and its arguments. It fails when the number of
// placeholders does not match the number of arguments.
func (b *SelectBuilder) Build() (string, []interface{}, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("table name is required")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(quoteAll(b.columns))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(quoteQualified(b.table))

	placeholders := 0
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		parts := strings.Split(strings.Join(b.where, " AND "), "?")
		for i, part := range parts {
			sb.WriteString(part)
			if i < len(parts)-1 {
				placeholders++
				fmt.Fprintf(&sb, "$%d", placeholders)
			}
		}
	}
	if placeholders != len(b.args) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", placeholders, len(b.args))
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(quoteAll(b.orderBy))
	}
	if b.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", b.limit)
	}

	return sb.String(), b.args, nil
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = pq.QuoteIdentifier(strings.TrimSpace(n))
	}
	return strings.Join(quoted, ", ")
}

func quoteQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(strings.TrimSpace(p))
	}
	return strings.Join(parts, ".")
}
