package htmltable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	rowtable "github.com/domonda/go-rowtable"
)

var (
	HTMLPreCellFormatter rowtable.CellFormatterFunc = func(ctx context.Context, cell *rowtable.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(fmt.Sprint(cell.Value))
		return "<pre>" + value + "</pre>", true, nil
	}

	HTMLCodeCellFormatter rowtable.CellFormatterFunc = func(ctx context.Context, cell *rowtable.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(fmt.Sprint(cell.Value))
		return "<code>" + value + "</code>", true, nil
	}

	// ValueAsHTMLAnchorCellFormatter formats the cell value using fmt.Sprint,
	// escapes it for HTML and returns an HTML anchor element with the
	// value as id and inner text.
	ValueAsHTMLAnchorCellFormatter rowtable.CellFormatterFunc = func(ctx context.Context, cell *rowtable.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(fmt.Sprint(cell.Value))
		return fmt.Sprintf("<a id='%[1]s'>%[1]s</a>", value), true, nil
	}

	_ rowtable.CellFormatter = JSONCellFormatter("")
	_ rowtable.CellFormatter = HTMLSpanClassCellFormatter("")
)

// JSONCellFormatter formats the cell value as indented JSON
// within a <pre> element. Strings and byte slices are
// interpreted as JSON text, other values are marshalled.
// Nil and empty values are formatted as empty string.
type JSONCellFormatter string

func (indent JSONCellFormatter) FormatCell(ctx context.Context, cell *rowtable.Cell) (str string, raw bool, err error) {
	var src []byte
	switch v := cell.Value.(type) {
	case nil:
		return "", false, nil
	case string:
		src = []byte(v)
	case []byte:
		src = v
	case json.RawMessage:
		src = v
	default:
		src, err = json.Marshal(v)
		if err != nil {
			return "", false, err
		}
	}
	if len(src) == 0 {
		return "", false, nil
	}
	buf := bytes.NewBufferString("<pre>")
	err = json.Indent(buf, src, "", string(indent))
	if err != nil {
		return "", false, err
	}
	buf.WriteString("</pre>")
	return buf.String(), true, nil
}

// HTMLSpanClassCellFormatter formats the cell value within an HTML span element
// with the class of the underlying string value.
type HTMLSpanClassCellFormatter string

func (class HTMLSpanClassCellFormatter) FormatCell(ctx context.Context, cell *rowtable.Cell) (str string, raw bool, err error) {
	text := template.HTMLEscapeString(fmt.Sprint(cell.Value))
	return fmt.Sprintf("<span class='%s'>%s</span>", class, text), true, nil
}
