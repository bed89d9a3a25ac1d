package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-types/charset"
)

// Record is a CSV row keyed by the column names of the header row.
type Record map[string]string

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat decodes data to UTF-8 and detects its format.
//
// The encoding is the first of config.Encodings that decodes
// the data so it contains one of config.EncodingTests.
// The newline is "\r\n" if the data contains it, else "\n".
// The separator is taken from a leading "sep=X" line or is the
// most frequent of comma, semicolon and tab, defaulting to comma.
//
// The returned data has the BOM and a "sep=X" line removed.
// A nil config uses NewDefaultFormatDetectionConfig.
func DetectFormat(data []byte, config *FormatDetectionConfig) (decoded []byte, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}
	format = new(Format)

	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}
	data, format.Encoding, err = charset.AutoDecode(data, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.ToValidUTF8(data, []byte(string(utf8.RuneError)))

	// Simple rule: if there are \r\n line endings
	// then take those because that's the standard
	if bytes.Contains(data, []byte{'\r', '\n'}) {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	firstLine, rest, _ := bytes.Cut(data, []byte(format.Newline))
	if sep := parseSepHeaderLine(firstLine); sep != "" {
		format.Separator = sep
		return rest, format, nil
	}

	var (
		commas     = bytes.Count(data, []byte{','})
		semicolons = bytes.Count(data, []byte{';'})
		tabs       = bytes.Count(data, []byte{'\t'})
	)
	switch {
	case semicolons > commas && semicolons > tabs:
		format.Separator = ";"
	case tabs > commas && tabs > semicolons:
		format.Separator = "\t"
	default:
		format.Separator = ","
	}
	return data, format, nil
}

// parseSepHeaderLine returns the separator declared
// by a line like "sep=;" or an empty string.
func parseSepHeaderLine(line []byte) (sep string) {
	line = bytes.TrimRight(line, "\r")
	if len(line) >= 2 && line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 {
		return ""
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return ""
	}
	return string(line[4:5])
}

// ReadRows parses UTF-8 CSV data with format.
// Quoted fields can contain separators, quotes and newlines,
// rows can have different numbers of fields.
func ReadRows(data []byte, format *Format) (rows [][]string, err error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	sep, _ := utf8.DecodeRuneInString(format.Separator)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// RemoveEmptyRows removes rows where all fields are empty
// or contain only whitespace.
func RemoveEmptyRows(rows [][]string) [][]string {
	result := rows[:0]
	for _, row := range rows {
		for _, field := range row {
			if strings.TrimSpace(field) != "" {
				result = append(result, row)
				break
			}
		}
	}
	return result
}

// ReadRecords detects the format of data and returns its rows
// as records keyed by the trimmed fields of the first non empty row.
// Missing fields of short rows are empty strings,
// fields beyond the header columns are ignored.
// A nil config uses NewDefaultFormatDetectionConfig.
func ReadRecords(data []byte, config *FormatDetectionConfig) (columns []string, records []Record, format *Format, err error) {
	data, format, err = DetectFormat(data, config)
	if err != nil {
		return nil, nil, nil, err
	}
	rows, err := ReadRows(data, format)
	if err != nil {
		return nil, nil, format, err
	}
	rows = RemoveEmptyRows(rows)
	if len(rows) == 0 {
		return nil, nil, format, nil
	}

	columns = make([]string, len(rows[0]))
	seen := make(map[string]bool, len(columns))
	for i, title := range rows[0] {
		title = strings.TrimSpace(title)
		if seen[title] {
			return nil, nil, format, fmt.Errorf("duplicate CSV column %q", title)
		}
		seen[title] = true
		columns[i] = title
	}

	records = make([]Record, len(rows)-1)
	for i, row := range rows[1:] {
		record := make(Record, len(columns))
		for col, name := range columns {
			if col < len(row) {
				record[name] = row[col]
			} else {
				record[name] = ""
			}
		}
		records[i] = record
	}
	return columns, records, format, nil
}
