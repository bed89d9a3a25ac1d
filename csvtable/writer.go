package csvtable

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-types/charset"
)

// Encoder encodes UTF-8 text, implemented by charset.Encoding.
type Encoder interface {
	Encode(utf8Str []byte) (encodedStr []byte, err error)
}

// Writer writes rendered table rows as CSV lines.
//
// A Writer is immutable, all With* methods return a modified copy.
type Writer struct {
	delimiter   rune
	newLine     string
	quoteAll    bool
	quoteEmpty  bool
	quoteEscape string
	encoder     Encoder
}

// NewWriter returns a Writer for UTF-8 CSV with
// semicolon delimiters and "\r\n" newlines.
func NewWriter() *Writer {
	return &Writer{
		delimiter:   ';',
		newLine:     "\r\n",
		quoteEscape: `""`,
	}
}

// NewFormatWriter returns a Writer producing CSV in format.
func NewFormatWriter(format *Format) (*Writer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	var encoder Encoder
	if format.Encoding != "UTF-8" {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		encoder = enc
	}
	delimiter, _ := utf8.DecodeRuneInString(format.Separator)
	return NewWriter().with(func(w *Writer) {
		w.delimiter = delimiter
		w.newLine = format.Newline
		w.encoder = encoder
	}), nil
}

func (w *Writer) with(modify func(*Writer)) *Writer {
	mod := *w
	modify(&mod)
	return &mod
}

// WithQuoteAllFields returns a Writer quoting every field.
func (w *Writer) WithQuoteAllFields(quote bool) *Writer {
	return w.with(func(m *Writer) { m.quoteAll = quote })
}

// WithQuoteEmptyFields returns a Writer writing empty fields as "".
func (w *Writer) WithQuoteEmptyFields(quote bool) *Writer {
	return w.with(func(m *Writer) { m.quoteEmpty = quote })
}

// WithEscapeQuotes returns a Writer replacing
// double quotes within quoted fields with escape.
func (w *Writer) WithEscapeQuotes(escape string) *Writer {
	return w.with(func(m *Writer) { m.quoteEscape = escape })
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	return w.with(func(m *Writer) { m.delimiter = delimiter })
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	return w.with(func(m *Writer) { m.newLine = newLine })
}

// WithEncoder returns a Writer encoding the UTF-8 lines with encoder,
// nil writes UTF-8.
func (w *Writer) WithEncoder(encoder Encoder) *Writer {
	return w.with(func(m *Writer) { m.encoder = encoder })
}

func (w *Writer) Delimiter() rune  { return w.delimiter }
func (w *Writer) NewLine() string  { return w.newLine }
func (w *Writer) Encoder() Encoder { return w.encoder }

// AppendRow appends the UTF-8 CSV line of row to line.
// Carriage returns are removed from fields,
// line feeds are kept within quotes.
func (w *Writer) AppendRow(line []byte, row []string) []byte {
	for i, field := range row {
		if i > 0 {
			line = utf8.AppendRune(line, w.delimiter)
		}
		field = strings.ReplaceAll(field, "\r", "")
		switch {
		case w.quoteAll || w.needsQuotes(field):
			line = append(line, '"')
			line = append(line, strings.ReplaceAll(field, `"`, w.quoteEscape)...)
			line = append(line, '"')
		case w.quoteEmpty && field == "":
			line = append(line, `""`...)
		default:
			line = append(line, field...)
		}
	}
	return append(line, w.newLine...)
}

func (w *Writer) needsQuotes(field string) bool {
	return strings.ContainsAny(field, "\n\"") || strings.ContainsRune(field, w.delimiter)
}

// WriteRows writes rows to dest, rows can have different lengths.
func (w *Writer) WriteRows(ctx context.Context, dest io.Writer, rows [][]string) error {
	var line []byte
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		line = w.AppendRow(line[:0], row)
		out := line
		if w.encoder != nil {
			var err error
			out, err = w.encoder.Encode(line)
			if err != nil {
				return err
			}
		}
		if _, err := dest.Write(out); err != nil {
			return err
		}
	}
	return nil
}
