package htmltable

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	rowtable "github.com/domonda/go-rowtable"
)

type person struct {
	Name string
	Age  int
}

func newPersonRegistry() *rowtable.Registry[person] {
	reg := rowtable.NewRegistry[person]("Name", "Age")
	reg.AddColumn(&rowtable.ColumnDef[person]{Name: "Name", Pin: rowtable.PinStart})
	reg.AddColumn(&rowtable.ColumnDef[person]{Name: "Age"})
	reg.AddRow(&rowtable.RowDef[person]{Kind: rowtable.HeaderRow, Pin: rowtable.PinStart})
	reg.AddRow(&rowtable.RowDef[person]{Name: "person", Kind: rowtable.DataRow})
	reg.AddRow(&rowtable.RowDef[person]{Kind: rowtable.NoDataRow, Template: "No people"})
	return reg
}

func ExampleSurface() {
	ctx := context.Background()
	surface := NewWriter[person]().WithTableClass("people").NewSurface()
	table, err := rowtable.NewTable("people", newPersonRegistry(), surface)
	if err != nil {
		panic(err)
	}
	defer table.Close(ctx)

	err = table.SetData(person{"Alice", 30}, person{"Bob", 25})
	if err != nil {
		panic(err)
	}
	surface.Write(ctx, os.Stdout, "People")
	fmt.Println()

	err = table.SetData()
	if err != nil {
		panic(err)
	}
	surface.Write(ctx, os.Stdout, "")

	// Output:
	// <table class='people'>
	//   <caption>People</caption>
	//   <thead>
	//     <tr data-sticky='start' data-sticky-offset='0'><th data-sticky='start' data-sticky-offset='0'>Name</th><th>Age</th></tr>
	//   </thead>
	//   <tbody>
	//     <tr data-row='person'><td data-sticky='start' data-sticky-offset='0'>Alice</td><td>30</td></tr>
	//     <tr data-row='person'><td data-sticky='start' data-sticky-offset='0'>Bob</td><td>25</td></tr>
	//   </tbody>
	// </table>
	// <table class='people'>
	//   <thead>
	//     <tr data-sticky='start' data-sticky-offset='0'><th data-sticky='start' data-sticky-offset='0'>Name</th><th>Age</th></tr>
	//   </thead>
	//   <tbody>
	//     <tr><td colspan='2'>No people</td></tr>
	//   </tbody>
	// </table>
}

func TestSurface_BatchRollback(t *testing.T) {
	errBad := errors.New("bad name")
	writer := NewWriter[person]().
		WithColumnFormatterFunc("Name", func(ctx context.Context, cell *rowtable.Cell) (string, bool, error) {
			if cell.Value == "bad" {
				return "", false, errBad
			}
			return "", false, errors.ErrUnsupported
		})
	surface := writer.NewSurface()
	table, err := rowtable.NewTable("people", newPersonRegistry(), surface)
	require.NoError(t, err)

	require.NoError(t, table.SetData(person{"Alice", 30}))
	before := surface.String()
	require.Equal(t, 2, surface.NumRows())

	err = table.SetData(person{"Bob", 25}, person{"bad", 1})
	var bindingErr *rowtable.ViewBindingError
	require.ErrorAs(t, err, &bindingErr)
	require.Equal(t, "instantiate", bindingErr.Op)
	require.ErrorIs(t, err, errBad)

	require.Equal(t, before, surface.String(), "surface rolled back")
	snapshot := table.Snapshot()
	require.Len(t, snapshot, 2)
	require.Equal(t, "Alice", snapshot[1].Context.Record.Name)
	require.ErrorIs(t, table.Err(), errBad)

	require.NoError(t, table.SetData(person{"Bob", 25}))
	require.Contains(t, surface.String(), "<td>25</td>")
}

func TestSurface_Recycling(t *testing.T) {
	surface := NewSurface[person]()
	table, err := rowtable.NewTable("people", newPersonRegistry(), surface, rowtable.WithRecycling(4))
	require.NoError(t, err)
	recycling, ok := table.Engine().(*rowtable.RecyclingEngine[person])
	require.True(t, ok)

	require.NoError(t, table.SetData(person{"A", 1}, person{"B", 2}))
	require.Equal(t, 0, recycling.NumParked())

	require.NoError(t, table.SetData())
	require.True(t, table.NoDataVisible())
	require.Equal(t, 2, recycling.NumParked())

	require.NoError(t, table.SetData(person{"C", 3}))
	require.False(t, table.NoDataVisible())
	require.Equal(t, 2, recycling.NumParked(), "no-data view parked, person view reused")

	rows := surface.Rows()
	require.Len(t, rows, 2)
	require.Equal(t, "person", rows[1].Name)
	require.EqualValues(t, "C", rows[1].Cells[0].HTML)

	require.NoError(t, table.Close(context.Background()))
	require.Equal(t, 0, recycling.NumParked())
	require.Equal(t, 0, surface.NumRows())
}

func TestSurface_StickyMeasurement(t *testing.T) {
	reg := newPersonRegistry()
	reg.AddRow(&rowtable.RowDef[person]{Name: "units", Kind: rowtable.HeaderRow, Pin: rowtable.PinStart})
	reg.AddRow(&rowtable.RowDef[person]{Name: "total", Kind: rowtable.FooterRow, Pin: rowtable.PinEnd})
	surface := NewSurface[person]()
	surface.SetColumnWidth("Name", 120)
	table, err := rowtable.NewTable("people", reg, surface)
	require.NoError(t, err)

	require.NoError(t, table.SetData(person{"A", 1}))
	rows := table.Snapshot()
	require.Len(t, rows, 4)
	surface.SetRowHeight(rows[0].View, 30)
	surface.SetRowHeight(rows[3].View, 20)

	state, err := table.UpdateStickyPositions()
	require.NoError(t, err)
	require.Equal(t, rowtable.StickyOffset{Pin: rowtable.PinStart, Offset: 0}, state.Rows[0])
	require.Equal(t, rowtable.StickyOffset{Pin: rowtable.PinStart, Offset: 30}, state.Rows[1])
	require.Equal(t, rowtable.StickyOffset{Pin: rowtable.PinNone}, state.Rows[2])
	require.Equal(t, rowtable.StickyOffset{Pin: rowtable.PinEnd, Offset: 0}, state.Rows[3])
	require.Equal(t, rowtable.StickyOffset{Pin: rowtable.PinStart, Offset: 0}, state.Columns[2][0])
	require.Equal(t, state, table.Sticky())

	html := surface.String()
	require.Contains(t, html, "<tr data-row='units' data-sticky='start' data-sticky-offset='30'>")
	require.Contains(t, html, "<tfoot>")
}
