// Package csvtable reads CSV files as table records
// with automatic detection of the encoding and separator.
package csvtable

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Format describes the encoding and structural format of a CSV file.
type Format struct {
	// Encoding of the CSV data as understood by
	// github.com/domonda/go-types/charset.
	Encoding string `json:"encoding"`
	// Separator is the field delimiter, a single character.
	Separator string `json:"separator"`
	// Newline is "\n" or "\r\n".
	Newline string `json:"newline"`
}

// NewFormat returns a UTF-8 Format with separator and "\r\n" newlines.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate returns an error if the format can't be used for reading.
// It can be called on a nil receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case utf8.RuneCountInString(f.Separator) != 1:
		return fmt.Errorf("invalid csvtable.Format.Separator %q", f.Separator)
	case f.Newline != "\n" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig configures the format detection of ReadRecords.
type FormatDetectionConfig struct {
	// Encodings are tried in order.
	Encodings []string `json:"encodings"`
	// EncodingTests are strings with characters that are
	// encoded differently by the Encodings. The first encoding
	// that decodes the data to contain one of them is used.
	EncodingTests []string `json:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig
// for European and Cyrillic CSV files.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
			"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
		},
	}
}
