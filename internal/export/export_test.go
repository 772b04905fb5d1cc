package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/technolab03/Technolab-dashboard/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sampleTable = query.Table{
	Columns: []string{"id", "response_text", "timestamp"},
	Rows: [][]string{
		{"7", "pH 7.9", "2024-01-30 18:00:00"},
		{"6", "valor con, coma", "2024-01-02 09:00:00"},
	},
}

func TestCSV_RoundTrip(t *testing.T) {
	payload, err := CSV(sampleTable)
	require.NoError(t, err)

	parsed, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)

	require.Len(t, parsed, 3) // header + 2 rows
	assert.Equal(t, sampleTable.Columns, parsed[0])
	assert.Equal(t, sampleTable.Rows[0], parsed[1])
	assert.Equal(t, sampleTable.Rows[1], parsed[2], "cells with commas survive the round trip")
}

func TestCSV_HeaderOnlyAndEmpty(t *testing.T) {
	payload, err := CSV(query.Table{Columns: []string{"id", "event_name"}})
	require.NoError(t, err)
	parsed, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	payload, err = CSV(query.Table{})
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "records_BIM12.csv", Filename("records", 12, "csv"))
	assert.Equal(t, "events_BIM3.xlsx", Filename("events", 3, "xlsx"))
}

func TestWorkbook(t *testing.T) {
	payload, err := Workbook("records", sampleTable)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Records"}, f.GetSheetList())

	header, err := f.GetCellValue("Records", "B1")
	require.NoError(t, err)
	assert.Equal(t, "response_text", header)

	cell, err := f.GetCellValue("Records", "B3")
	require.NoError(t, err)
	assert.Equal(t, "valor con, coma", cell)
}
