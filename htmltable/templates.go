package htmltable

import (
	"html/template"

	rowtable "github.com/domonda/go-rowtable"
)

var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	RowTemplate = template.Must(template.New("row").Parse("" +
		`{{define "sticky"}}{{if .Pin}} data-sticky='{{.Pin}}' data-sticky-offset='{{.Offset}}'{{end}}{{end}}` +
		"    <tr{{if .Row.Name}} data-row='{{.Row.Name}}'{{end}}{{template \"sticky\" .Row.Sticky}}>" +
		"{{range $cell := .Row.Cells}}" +
		"{{if $.IsHeaderRow}}<th{{else}}<td{{end}}" +
		"{{if gt $cell.Colspan 1}} colspan='{{$cell.Colspan}}'{{end}}" +
		"{{template \"sticky\" $cell.Sticky}}>{{$cell.HTML}}" +
		"{{if $.IsHeaderRow}}</th>{{else}}</td>{{end}}" +
		"{{end}}</tr>\n",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"</table>",
	))
)

// TemplateContext is passed to the header and footer templates.
type TemplateContext struct {
	TableClass string
	Caption    string
}

// RowTemplateContext is passed to the row template.
type RowTemplateContext struct {
	TemplateContext

	Section     rowtable.RowKind
	IsHeaderRow bool
	RowIndex    int
	Row         *Row
}
