package table

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/locvowork/brandsheet/internal/apperr"
)

// Querier is the subset of *sql.DB the SQL source needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// FromSQL runs query and reads the full result set into a table. Column kinds
// come from the driver's database type name when it is known, and from the
// values otherwise.
func FromSQL(ctx context.Context, db Querier, query string, args ...interface{}) (*Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrIOFailure, err, "executing query")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrIOFailure, err, "getting columns")
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrIOFailure, err, "getting column types")
	}

	kinds := make([]Kind, len(columns))
	for i, ct := range columnTypes {
		kinds[i] = kindForDatabaseType(ct.DatabaseTypeName())
	}

	var data [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, apperr.Wrap(apperr.ErrIOFailure, err, "scanning row")
		}
		for i, v := range values {
			values[i] = sqlValue(v, kinds[i])
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.ErrIOFailure, err, "iterating rows")
	}

	t := New(columns, data)
	for i, k := range kinds {
		if k != KindUnspecified {
			t.Columns[i].Kind = k
		}
	}
	return t, nil
}

func kindForDatabaseType(name string) Kind {
	switch strings.ToUpper(name) {
	case "":
		return KindUnspecified
	case "INT2", "INT4", "INT8", "SMALLINT", "INTEGER", "INT", "BIGINT",
		"FLOAT4", "FLOAT8", "REAL", "DOUBLE PRECISION", "NUMERIC", "DECIMAL", "MONEY":
		return KindNumeric
	case "BOOL", "BOOLEAN":
		return KindUnspecified
	default:
		return KindText
	}
}

// sqlValue normalizes driver values. Postgres NUMERIC arrives as []byte.
func sqlValue(v interface{}, kind Kind) interface{} {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	if kind == KindNumeric {
		if f, err := strconv.ParseFloat(string(b), 64); err == nil {
			return f
		}
	}
	return string(b)
}
