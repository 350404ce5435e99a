package table

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/brandsheet/internal/apperr"
)

func TestFromSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	const query = `SELECT batch_id, amount, region FROM sales WHERE year = $1`
	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("batch_id").OfType("INT8", int64(0)),
		sqlmock.NewColumn("amount").OfType("NUMERIC", []byte{}),
		sqlmock.NewColumn("region").OfType("TEXT", ""),
	).
		AddRow(int64(1), []byte("1250.50"), "north").
		AddRow(int64(2), nil, []byte("south"))

	mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(2024).WillReturnRows(rows)

	tbl, err := FromSQL(context.Background(), db, query, 2024)
	require.NoError(t, err)

	assert.Equal(t, []Column{
		{Name: "batch_id", Kind: KindNumeric},
		{Name: "amount", Kind: KindNumeric},
		{Name: "region", Kind: KindText},
	}, tbl.Columns)
	assert.Equal(t, [][]interface{}{
		{int64(1), 1250.5, "north"},
		{int64(2), nil, "south"},
	}, tbl.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFromSQLQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection refused")
	mock.ExpectQuery("SELECT").WillReturnError(boom)

	_, err = FromSQL(context.Background(), db, "SELECT 1")
	assert.ErrorIs(t, err, apperr.ErrIOFailure)
	assert.ErrorIs(t, err, boom)
}
