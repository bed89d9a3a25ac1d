package exceltable

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	// Data starts at B2 to test the removal of empty edges
	require.NoError(t, f.SetSheetRow("Sheet1", "B2", &[]any{"Name", " Price "}))
	require.NoError(t, f.SetSheetRow("Sheet1", "B3", &[]any{"Apple", 0.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "B4", &[]any{"Pear"}))

	_, err := f.NewSheet("Empty")
	require.NoError(t, err)

	_, err = f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"ID"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]any{1}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadRecords(t *testing.T) {
	ctx := context.Background()
	data := newWorkbook(t).Bytes()

	sheet, err := ReadRecords(ctx, bytes.NewReader(data), "")
	require.NoError(t, err)
	require.Equal(t, "Sheet1", sheet.Name)
	require.Equal(t, []string{"Name", "Price"}, sheet.Columns)
	require.Equal(t,
		[]Record{
			{"Name": "Apple", "Price": "0.5"},
			{"Name": "Pear", "Price": ""},
		},
		sheet.Records,
	)

	sheet, err = ReadRecords(ctx, bytes.NewReader(data), "Other")
	require.NoError(t, err)
	require.Equal(t, []Record{{"ID": "1"}}, sheet.Records)

	_, err = ReadRecords(ctx, bytes.NewReader(data), "Empty")
	require.ErrorIs(t, err, ErrEmptySheet)

	_, err = ReadRecords(ctx, bytes.NewReader(data), "Missing")
	var notExist ErrSheetNotExist
	require.ErrorAs(t, err, &notExist)
}

func TestReadSheets(t *testing.T) {
	sheets, err := ReadSheets(context.Background(), newWorkbook(t))
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	require.Equal(t, "Sheet1", sheets[0].Name)
	require.Equal(t, "Other", sheets[1].Name)
}

func Test_removeEmptyColumns(t *testing.T) {
	rows := removeEmptyColumns([][]string{
		{"", "a"},
		{"", "1", "2"},
	})
	require.Equal(t, [][]string{{"a", ""}, {"1", "2"}}, rows)
	require.Nil(t, removeEmptyColumns([][]string{{"", " "}}))
}
