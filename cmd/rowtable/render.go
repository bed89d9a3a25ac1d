package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	fs "github.com/ungerik/go-fs"

	rowtable "github.com/domonda/go-rowtable"
	"github.com/domonda/go-rowtable/cmd/rowtable/internal/env"
	"github.com/domonda/go-rowtable/csvtable"
	"github.com/domonda/go-rowtable/datasource"
	"github.com/domonda/go-rowtable/htmltable"
	"github.com/domonda/go-rowtable/tableconfig"
	"github.com/domonda/go-rowtable/texttable"
)

type renderCommandParams struct {
	config        string
	data          string
	sheet         string
	query         string
	format        string
	caption       string
	filter        string
	sort          string
	pageSize      int
	page          int
	multiTemplate bool
	logLevel      string
}

func newRenderCommand() *cobra.Command {
	var params renderCommandParams

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a data file as table",
		Long: `Render a data file as HTML, text or CSV table.

The rows and columns of the table are described by a YAML file passed with --config.
Without a config all columns of the data are rendered with a header row.

Supported data files are CSV (.csv, .tsv, .txt), Excel (.xlsx, .xlsm, .xltm, .xltx)
and SQLite (.db, .sqlite, .sqlite3) with a --query.

Every flag can be set with an environment variable named ROWTABLE_RENDER_<FLAG>,
for example ROWTABLE_RENDER_PAGE_SIZE=10.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.CheckEnvironmentVariables(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return render(cmd.Context(), &params, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&params.config, "config", "c", "", "YAML table config file")
	cmd.Flags().StringVarP(&params.data, "data", "d", "", "data file")
	cmd.Flags().StringVar(&params.sheet, "sheet", "", "Excel sheet name, default is the first sheet")
	cmd.Flags().StringVar(&params.query, "query", "", "SQL query for SQLite data files")
	cmd.Flags().StringVarP(&params.format, "format", "f", "text", "output format: html, text or csv")
	cmd.Flags().StringVar(&params.caption, "caption", "", "caption of the HTML table")
	cmd.Flags().StringVar(&params.filter, "filter", "", "only render records containing the filter text")
	cmd.Flags().StringVar(&params.sort, "sort", "", "sort by column, formatted as column[:asc|desc]")
	cmd.Flags().IntVar(&params.pageSize, "page-size", 0, "records per page, 0 renders all records")
	cmd.Flags().IntVar(&params.page, "page", 0, "zero based index of the rendered page")
	cmd.Flags().BoolVar(&params.multiTemplate, "multi-template", false, "render every matching data row of a record")
	cmd.Flags().StringVar(&params.logLevel, "log-level", "warning", "log level: debug, info, warning or error")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func render(ctx context.Context, params *renderCommandParams, out, errOut io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logrus.New()
	logger.SetOutput(errOut)
	level, err := logrus.ParseLevel(params.logLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	columns, records, err := loadRecords(ctx, fs.File(params.data), params.sheet, params.query)
	if err != nil {
		return err
	}
	logger.WithField("records", len(records)).Debug("loaded data")

	config, err := loadConfig(params.config, columns)
	if err != nil {
		return err
	}
	registry, err := tableconfig.NewRegistry[record](config, nil)
	if err != nil {
		return err
	}

	source := datasource.NewArrayDataSource(records...)
	source.SetSortingDataAccessor(datasource.ParsingSortingDataAccessor[record])
	source.SetFilter(params.filter)
	if params.sort != "" {
		column, dir, _ := strings.Cut(params.sort, ":")
		direction := datasource.Ascending
		if dir != "" {
			direction, err = datasource.ParseDirection(dir)
			if err != nil {
				return err
			}
		}
		source.SetSort(column, direction)
	}
	if params.pageSize > 0 {
		paginator := datasource.NewPaginator(params.pageSize)
		source.SetPaginator(paginator)
		paginator.SetPageIndex(params.page)
	}

	opts := append(config.TableOptions(), rowtable.WithLogger(logger))
	if params.multiTemplate {
		opts = append(opts, rowtable.WithMultiTemplateDataRows())
	}

	var write func() error
	var engine rowtable.ViewEngine[record]
	switch params.format {
	case "html":
		surface := htmltable.NewWriter[record]().WithTableClass(config.Name).NewSurface()
		engine = surface
		write = func() error { return surface.Write(ctx, out, params.caption) }
	case "text":
		surface := texttable.NewSurface[record]()
		engine = surface
		write = func() error { return surface.Write(out) }
	case "csv":
		surface := texttable.NewSurface[record]()
		engine = surface
		write = func() error { return csvtable.NewWriter().WriteRows(ctx, out, surface.Rows()) }
	default:
		return fmt.Errorf("invalid format %q", params.format)
	}

	name := config.Name
	if name == "" {
		name = "rowtable"
	}
	table, err := rowtable.NewTable(name, registry, engine, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if e := table.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()

	if err = table.SetDataSource(source); err != nil {
		return err
	}
	return write()
}

// loadConfig loads the config file or returns a config
// rendering all columns with a header and no-data row.
func loadConfig(file string, columns []string) (*tableconfig.Config, error) {
	if file != "" {
		return tableconfig.Load(fs.File(file))
	}
	config := &tableconfig.Config{
		Rows: []tableconfig.Row{
			{Kind: "header", Pin: "start"},
			{Kind: "data"},
			{Kind: "nodata", Template: "No data"},
		},
	}
	for _, col := range columns {
		config.Columns = append(config.Columns, tableconfig.Column{Name: col})
	}
	return config, nil
}
