package datasource

import (
	"fmt"
	"strings"
	"time"
)

// TimeFormats are the layouts tried by ParseTime in order.
var TimeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	formatBrowserLocalTime,
	time.RFC1123Z,
	time.RFC850,
	time.RFC1123,
	time.RubyDate,
	time.UnixDate,
	time.ANSIC,
	time.RFC822Z,
	time.RFC822,
	formatTimeString,
	time.DateTime,
	formatDateTimeMinute,
	time.DateOnly,
	formatDateTimeGerman,
	formatDateGerman,
}

const (
	formatDateTimeMinute   = "2006-01-02 15:04"
	formatDateTimeGerman   = "02.01.2006 15:04:05"
	formatDateGerman       = "02.01.2006"
	formatTimeString       = "2006-01-02 15:04:05.999999999 -0700 MST"
	formatBrowserLocalTime = "2006-01-02T15:04"
)

// ParseTime parses str with the first matching of TimeFormats
// and returns the parsed time with the matching layout.
func ParseTime(str string) (t time.Time, format string, err error) {
	str = strings.TrimSpace(str)
	for _, format := range TimeFormats {
		t, err = time.Parse(format, str)
		if err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("cannot parse %q as time", str)
}

// ParsingSortingDataAccessor is a sorting data accessor for records
// of strings like CSV files. In addition to the numbers of
// DefaultSortingDataAccessor it returns strings in one of the
// TimeFormats as time.Time and empty strings as nil.
func ParsingSortingDataAccessor[R any](record R, column string) any {
	val := DefaultSortingDataAccessor(record, column)
	str, ok := val.(string)
	if !ok {
		return val
	}
	if strings.TrimSpace(str) == "" {
		return nil
	}
	if t, _, err := ParseTime(str); err == nil {
		return t
	}
	return str
}
