package tablemetrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	rowtable "github.com/domonda/go-rowtable"
	"github.com/domonda/go-rowtable/texttable"
)

type item struct {
	Name string
}

var errBroken = errors.New("broken")

func newTable(t *testing.T, collectors *Collectors) *rowtable.Table[item] {
	t.Helper()
	reg := rowtable.NewRegistry[item]("Name")
	reg.AddColumn(&rowtable.ColumnDef[item]{Name: "Name"})
	reg.AddRow(&rowtable.RowDef[item]{Kind: rowtable.HeaderRow})
	reg.AddRow(&rowtable.RowDef[item]{Kind: rowtable.DataRow})
	reg.AddRow(&rowtable.RowDef[item]{Kind: rowtable.NoDataRow, Template: "none"})

	surface := texttable.NewSurface[item](rowtable.CellFormatterFunc(func(ctx context.Context, cell *rowtable.Cell) (string, bool, error) {
		if cell.Value == "broken" {
			return "", false, errBroken
		}
		return "", false, errors.ErrUnsupported
	}))
	table, err := rowtable.NewTable("items", reg, surface, rowtable.WithObserver(collectors))
	require.NoError(t, err)
	t.Cleanup(func() { table.Close(context.Background()) })
	return table
}

func TestCollectors(t *testing.T) {
	collectors := NewCollectors("rowtable", nil)
	table := newTable(t, collectors)

	require.NoError(t, table.SetData(item{"a"}, item{"b"}))
	require.NoError(t, table.SetData())

	require.Equal(t, 2.0, testutil.ToFloat64(collectors.passes.WithLabelValues("items")))
	require.Equal(t, 4.0, testutil.ToFloat64(collectors.views.WithLabelValues("items", "create")))
	require.Equal(t, 2.0, testutil.ToFloat64(collectors.views.WithLabelValues("items", "destroy")))
	require.Equal(t, 2.0, testutil.ToFloat64(collectors.rows.WithLabelValues("items")))
	require.Equal(t, 1, testutil.CollectAndCount(collectors.duration))

	err := table.SetData(item{"broken"})
	require.ErrorIs(t, err, errBroken)
	require.Equal(t, 1.0, testutil.ToFloat64(collectors.failures.WithLabelValues("items", "instantiate")))
	require.Equal(t, 2.0, testutil.ToFloat64(collectors.passes.WithLabelValues("items")))

	collectors.RenderPassFailed("items", errors.New("other"))
	require.Equal(t, 1.0, testutil.ToFloat64(collectors.failures.WithLabelValues("items", "other")))
}

func TestCollectors_RegisterAll(t *testing.T) {
	logger, hook := test.NewNullLogger()
	registry := prometheus.NewRegistry()
	collectors := NewCollectors("rowtable", []float64{0.1, 1})

	collectors.RegisterAll(registry, logger)
	require.Empty(t, hook.Entries)
	collectors.RegisterAll(nil, logger)

	collectors.RenderPassCompleted("t", rowtable.RenderStats{Created: 1, Rows: 1})
	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.GetName()
	}
	require.Contains(t, names, "rowtable_render_passes_total")
	require.Contains(t, names, "rowtable_render_pass_duration_seconds")

	collectors.RegisterAll(registry, logger)
	require.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	collectors.UnregisterAll(registry)
	families, err = registry.Gather()
	require.NoError(t, err)
	require.Empty(t, families)
}
