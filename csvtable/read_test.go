package csvtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		want    Format
		wantCSV string
	}{
		{name: "comma", csv: "a,b\n1,2", want: Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"}, wantCSV: "a,b\n1,2"},
		{name: "semicolon crlf", csv: "a;b\r\n1;2", want: Format{Encoding: "UTF-8", Separator: ";", Newline: "\r\n"}, wantCSV: "a;b\r\n1;2"},
		{name: "tab", csv: "a\tb\n1\t2", want: Format{Encoding: "UTF-8", Separator: "\t", Newline: "\n"}, wantCSV: "a\tb\n1\t2"},
		{name: "sep header", csv: "sep=|\na|b", want: Format{Encoding: "UTF-8", Separator: "|", Newline: "\n"}, wantCSV: "a|b"},
		{name: "quoted sep header", csv: "\"sep=;\"\na;b", want: Format{Encoding: "UTF-8", Separator: ";", Newline: "\n"}, wantCSV: "a;b"},
		{name: "BOM", csv: "\xEF\xBB\xBFa,b", want: Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"}, wantCSV: "a,b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, format, err := DetectFormat([]byte(tt.csv), nil)
			require.NoError(t, err)
			require.Equal(t, tt.want, *format)
			require.Equal(t, tt.wantCSV, string(data))
		})
	}
}

func TestReadRecords(t *testing.T) {
	csv := "Name;City;Note\r\n" +
		"Müller;Wien;\"says \"\"hi\"\"; twice\"\r\n" +
		";;\r\n" +
		"Smith;London\r\n"

	columns, records, format, err := ReadRecords([]byte(csv), nil)
	require.NoError(t, err)
	require.Equal(t, ";", format.Separator)
	require.Equal(t, []string{"Name", "City", "Note"}, columns)
	require.Equal(t,
		[]Record{
			{"Name": "Müller", "City": "Wien", "Note": `says "hi"; twice`},
			{"Name": "Smith", "City": "London", "Note": ""},
		},
		records,
	)
}

func TestReadRecords_DuplicateColumn(t *testing.T) {
	_, _, _, err := ReadRecords([]byte("a,a\n1,2"), nil)
	require.Error(t, err)
}

func TestFormat_Validate(t *testing.T) {
	require.NoError(t, NewFormat(";").Validate())
	require.Error(t, (*Format)(nil).Validate())
	require.Error(t, NewFormat("").Validate())
	require.Error(t, (&Format{Encoding: "UTF-8", Separator: ",", Newline: "\r"}).Validate())
}
