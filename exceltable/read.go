// Package exceltable reads Excel files (.xlsx, .xlsm, .xltm, .xltx)
// as table records using github.com/xuri/excelize/v2.
//
// The first non empty row of a sheet is used as column names,
// empty rows and columns at the edges of the data are removed.
//
// Example usage:
//
//	file, _ := os.Open("data.xlsx")
//	defer file.Close()
//	sheet, err := exceltable.ReadRecords(ctx, file, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = table.SetData(sheet.Records...)
package exceltable

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is a sheet row keyed by the column names of the header row.
type Record map[string]string

// Sheet holds the records of an Excel sheet.
type Sheet struct {
	Name    string
	Columns []string
	Records []Record
}

// Options for reading sheets.
type Options struct {
	// RawCellValues returns the stored cell values
	// instead of the values formatted with the number
	// format of the cell.
	RawCellValues bool
}

// ReadRecords reads the named sheet from the Excel data of reader,
// an empty sheet name reads the first sheet.
func ReadRecords(ctx context.Context, reader io.Reader, sheet string, opts ...Options) (result *Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"}
		}
	}
	return readSheet(ctx, f, sheet, mergeOptions(opts))
}

// ReadSheets reads all non empty sheets from the Excel data of reader.
func ReadSheets(ctx context.Context, reader io.Reader, opts ...Options) (sheets []*Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	options := mergeOptions(opts)
	for _, name := range f.GetSheetList() {
		sheet, err := readSheet(ctx, f, name, options)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func mergeOptions(opts []Options) (merged Options) {
	for _, o := range opts {
		merged.RawCellValues = merged.RawCellValues || o.RawCellValues
	}
	return merged
}

func readSheet(ctx context.Context, f *excelize.File, sheet string, options Options) (*Sheet, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: options.RawCellValues})
	if err != nil {
		return nil, err
	}
	rows = removeEmptyRows(rows)
	rows = removeEmptyColumns(rows)
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	result := &Sheet{
		Name:    sheet,
		Columns: make([]string, len(rows[0])),
		Records: make([]Record, len(rows)-1),
	}
	for i, title := range rows[0] {
		result.Columns[i] = strings.TrimSpace(title)
	}
	for i, row := range rows[1:] {
		record := make(Record, len(result.Columns))
		for col, name := range result.Columns {
			if col < len(row) {
				record[name] = row[col]
			} else {
				record[name] = ""
			}
		}
		result.Records[i] = record
	}
	return result, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// removeEmptyRows removes empty rows at the top and bottom.
func removeEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 && isEmptyRow(rows[0]) {
		rows = rows[1:]
	}
	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// removeEmptyColumns removes empty columns at the left
// and pads the header row to the widest row.
func removeEmptyColumns(rows [][]string) [][]string {
	numCols := 0
	for _, row := range rows {
		numCols = max(numCols, len(row))
	}
	left := 0
	for ; left < numCols; left++ {
		empty := true
		for _, row := range rows {
			if left < len(row) && strings.TrimSpace(row[left]) != "" {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
	}
	if left == numCols {
		return nil
	}
	for i, row := range rows {
		rows[i] = row[min(left, len(row)):]
	}
	if len(rows[0]) < numCols-left {
		rows[0] = append(rows[0], make([]string, numCols-left-len(rows[0]))...)
	}
	return rows
}
