package query

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testQuery = NamedQuery{
	Name: "records_by_device",
	SQL:  "SELECT id, response_text, timestamp FROM records WHERE device_number = ?",
}

func setupExecutor(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Executor) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewExecutor(db, zap.NewNop())
}

func TestRun_ConvertsResultSetToTable(t *testing.T) {
	db, mock, exec := setupExecutor(t)
	defer db.Close()

	ts := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "response_text", "timestamp"}).
		AddRow(int64(1), []byte("ok"), ts).
		AddRow(int64(2), nil, ts.Add(time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM records").
		WithArgs(12).
		WillReturnRows(rows)

	res := exec.Run(context.Background(), testQuery, 12)

	require.Empty(t, res.Err)
	assert.Equal(t, []string{"id", "response_text", "timestamp"}, res.Table.Columns)
	require.Len(t, res.Table.Rows, 2)
	assert.Equal(t, []string{"1", "ok", "2024-01-15 09:30:00"}, res.Table.Rows[0])
	// NULL cells render empty, not "<nil>"
	assert.Equal(t, "", res.Table.Rows[1][1])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_QueryFailureIsContainedNotRaised(t *testing.T) {
	db, mock, exec := setupExecutor(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM records").
		WillReturnError(errors.New("table 'records' doesn't exist"))

	res := exec.Run(context.Background(), testQuery, 12)

	// error surfaced as a panel message, table empty
	assert.Contains(t, res.Err, "records_by_device")
	assert.Contains(t, res.Err, "doesn't exist")
	assert.True(t, res.Table.Empty())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_RowIterationErrorIsContained(t *testing.T) {
	db, mock, exec := setupExecutor(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "response_text", "timestamp"}).
		AddRow(int64(1), "ok", "2024-01-15 09:30:00").
		RowError(0, errors.New("driver: bad connection"))

	mock.ExpectQuery("SELECT (.+) FROM records").WillReturnRows(rows)

	res := exec.Run(context.Background(), testQuery, 12)
	assert.NotEmpty(t, res.Err)
	assert.True(t, res.Table.Empty())
}

func TestTable_ColumnIndex(t *testing.T) {
	table := Table{Columns: []string{"id", "client_name"}}
	assert.Equal(t, 1, table.ColumnIndex("client_name"))
	assert.Equal(t, -1, table.ColumnIndex("missing"))
}
