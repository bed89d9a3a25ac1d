// Package htmltable renders table rows as HTML.
//
// Surface is a rowtable.ViewEngine keeping the formatted rows
// of a rowtable.Table in memory, Writer formats the cells of
// the rows and writes them as HTML table with <thead>, <tbody>
// and <tfoot> sections.
//
// Example usage:
//
//	surface := htmltable.NewWriter[Person]().
//	    WithTableClass("people").
//	    NewSurface()
//	table, err := rowtable.NewTable("people", registry, surface)
//	...
//	err = surface.Write(ctx, os.Stdout, "People")
package htmltable

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"maps"
	"reflect"

	rowtable "github.com/domonda/go-rowtable"
)

// Writer formats row cells and writes rows as HTML table.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
//
// HTML Escaping:
// By default, all cell values are HTML-escaped for safety.
// Formatters can return raw HTML by setting the raw return value to true.
type Writer[R any] struct {
	tableClass       string
	columnFormatters map[string]rowtable.CellFormatter
	typeFormatters   *rowtable.ReflectTypeCellFormatter
	nilValue         template.HTML
	headerTemplate   *template.Template
	rowTemplate      *template.Template
	footerTemplate   *template.Template
}

// NewWriter returns a Writer with the default templates,
// no formatters and empty nil values.
func NewWriter[R any]() *Writer[R] {
	return &Writer[R]{
		columnFormatters: make(map[string]rowtable.CellFormatter),
		typeFormatters:   nil, // OK to use nil *rowtable.ReflectTypeCellFormatter
		headerTemplate:   HeaderTemplate,
		rowTemplate:      RowTemplate,
		footerTemplate:   FooterTemplate,
	}
}

// WriteRows writes rows as HTML table to dest.
// Consecutive rows of the same section are grouped in
// <thead> for header rows, <tfoot> for footer rows and
// <tbody> for data and no-data rows.
func (w *Writer[R]) WriteRows(ctx context.Context, dest io.Writer, rows []Row, caption string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	templData := &RowTemplateContext{
		TemplateContext: TemplateContext{
			TableClass: w.tableClass,
			Caption:    caption,
		},
	}
	err := w.headerTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	section := ""
	for i := range rows {
		if s := sectionTag(rows[i].Kind); s != section {
			if section != "" {
				if _, err = fmt.Fprintf(dest, "  </%s>\n", section); err != nil {
					return err
				}
			}
			section = s
			if _, err = fmt.Fprintf(dest, "  <%s>\n", section); err != nil {
				return err
			}
		}
		templData.Section = rows[i].Kind
		templData.IsHeaderRow = rows[i].Kind == rowtable.HeaderRow
		templData.RowIndex = i
		templData.Row = &rows[i]
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
	}
	if section != "" {
		if _, err = fmt.Fprintf(dest, "  </%s>\n", section); err != nil {
			return err
		}
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

func sectionTag(kind rowtable.RowKind) string {
	switch kind {
	case rowtable.HeaderRow:
		return "thead"
	case rowtable.FooterRow:
		return "tfoot"
	default:
		return "tbody"
	}
}

// formatCells formats the cells of the columns projected by rc.
// Header and footer cells show the escaped Header and Footer
// texts of the columns, data cells go through the formatter cascade:
//  1. column formatter
//  2. type formatters
//  3. nil value
//  4. fmt.Sprint
func (w *Writer[R]) formatCells(ctx context.Context, rc *rowtable.RowContext[R], noData template.HTML) ([]Cell, error) {
	if rc.Kind == rowtable.NoDataRow {
		return []Cell{{HTML: noData, Colspan: max(len(rc.Columns), 1)}}, nil
	}
	cells := make([]Cell, len(rc.Columns))
	for i, col := range rc.Columns {
		cells[i] = Cell{Column: col.Name, Colspan: 1}
		switch rc.Kind {
		case rowtable.HeaderRow:
			cells[i].HTML = template.HTML(template.HTMLEscapeString(cmp.Or(col.Header, col.Name))) //#nosec G203
			continue
		case rowtable.FooterRow:
			cells[i].HTML = template.HTML(template.HTMLEscapeString(col.Footer)) //#nosec G203
			continue
		}
		cell := &rowtable.Cell{
			Kind:   rc.Kind,
			Column: col.Name,
			Row:    rc.RenderIndex,
			Record: rc.Record,
			Value:  col.Value(rc.Record),
		}
		str, isRaw, err := rowtable.FormatCell(ctx, cell, "",
			w.columnFormatters[col.Name],
			w.typeFormatters,
			w.nilValueFormatter(),
		)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		if !isRaw {
			str = template.HTMLEscapeString(str)
		}
		cells[i].HTML = template.HTML(str) //#nosec G203
	}
	return cells, nil
}

func (w *Writer[R]) nilValueFormatter() rowtable.CellFormatter {
	return rowtable.CellFormatterFunc(func(ctx context.Context, cell *rowtable.Cell) (string, bool, error) {
		if rowtable.IsNil(cell.Value) {
			return string(w.nilValue), true, nil
		}
		return "", false, errors.ErrUnsupported
	})
}

// noDataHTML returns the content of a no-data row.
// A template.HTML Template is used as is,
// other templates are printed and escaped.
func (w *Writer[R]) noDataHTML(def *rowtable.RowDef[R]) template.HTML {
	switch t := def.Template.(type) {
	case nil:
		return ""
	case template.HTML:
		return t
	default:
		return template.HTML(template.HTMLEscapeString(fmt.Sprint(t))) //#nosec G203
	}
}

func (w *Writer[R]) clone() *Writer[R] {
	c := new(Writer[R])
	*c = *w
	return c
}

// WithTableClass returns a new writer with the specified CSS class for the table element.
// The class will be rendered as: <table class='tableClass'>
func (w *Writer[R]) WithTableClass(tableClass string) *Writer[R] {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithColumnFormatter returns a new writer with the formatter registered for the named column.
// Column formatters take precedence over type formatters in the formatting cascade.
// If nil is passed as formatter, any previously registered formatter for this column is removed.
func (w *Writer[R]) WithColumnFormatter(column string, formatter rowtable.CellFormatter) *Writer[R] {
	mod := w.clone()
	mod.columnFormatters = maps.Clone(w.columnFormatters)
	if mod.columnFormatters == nil {
		mod.columnFormatters = make(map[string]rowtable.CellFormatter)
	}
	if formatter != nil {
		mod.columnFormatters[column] = formatter
	} else {
		delete(mod.columnFormatters, column)
	}
	return mod
}

// WithColumnFormatterFunc returns a new writer with the formatter function registered for the named column.
func (w *Writer[R]) WithColumnFormatterFunc(column string, formatterFunc rowtable.CellFormatterFunc) *Writer[R] {
	return w.WithColumnFormatter(column, formatterFunc)
}

// WithRawColumn returns a new writer that interprets the named column as raw HTML strings.
// Values in this column will not be HTML-escaped.
//
// Warning: Only use this for trusted content to avoid XSS vulnerabilities.
func (w *Writer[R]) WithRawColumn(column string) *Writer[R] {
	return w.WithColumnFormatter(column, rowtable.SprintCellFormatter(true))
}

// WithTypeFormatters returns a new writer with the specified type formatter set.
// This replaces all existing type-based formatters.
func (w *Writer[R]) WithTypeFormatters(formatter *rowtable.ReflectTypeCellFormatter) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = formatter
	return mod
}

// WithTypeFormatter returns a new writer with a formatter registered for the specified type.
// Type formatters are used when no column formatter is configured for a cell.
//
// Example:
//
//	// Format all time.Time values
//	writer := htmltable.NewWriter[Event]().
//	    WithTypeFormatter(reflect.TypeFor[time.Time](), timeFormatter)
func (w *Writer[R]) WithTypeFormatter(typ reflect.Type, fmt rowtable.CellFormatter) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithTypeFormatter(typ, fmt)
	return mod
}

// WithInterfaceTypeFormatter returns a new writer with a formatter for types implementing an interface.
func (w *Writer[R]) WithInterfaceTypeFormatter(typ reflect.Type, fmt rowtable.CellFormatter) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithInterfaceTypeFormatter(typ, fmt)
	return mod
}

// WithKindFormatter returns a new writer with a formatter for a specific reflect.Kind.
// Kind formatters are the most generic and are used as a last resort before fmt.Sprint.
func (w *Writer[R]) WithKindFormatter(kind reflect.Kind, fmt rowtable.CellFormatter) *Writer[R] {
	mod := w.clone()
	mod.typeFormatters = w.typeFormatters.WithKindFormatter(kind, fmt)
	return mod
}

// WithNilValue returns a new writer with the specified HTML to use for nil/null values.
// By default, nil values are rendered as empty strings.
func (w *Writer[R]) WithNilValue(nilValue template.HTML) *Writer[R] {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

// WithTemplate returns a new writer with custom templates for rendering the HTML table.
// The table and footer templates receive a TemplateContext,
// the row template a RowTemplateContext.
func (w *Writer[R]) WithTemplate(tableTemplate, rowTemplate, footerTemplate *template.Template) *Writer[R] {
	mod := w.clone()
	mod.headerTemplate = tableTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}

// TableClass returns the CSS class configured for the table element.
func (w *Writer[R]) TableClass() string {
	return w.tableClass
}

// NilValue returns the HTML configured to be rendered for nil/null values.
func (w *Writer[R]) NilValue() template.HTML {
	return w.nilValue
}
