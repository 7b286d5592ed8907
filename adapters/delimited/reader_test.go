package delimited

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netconvert/domain/table"
)

func parse(t *testing.T, text string) *Result {
	t.Helper()
	res, err := NewParser(DefaultConfig()).ParseText(text, "test.txt")
	require.NoError(t, err)
	return res
}

func TestParseDelimiterInvariance(t *testing.T) {
	// The same logical table must come back regardless of separator.
	for _, delim := range []string{",", "\t", ";", "|"} {
		t.Run(fmt.Sprintf("delim %q", delim), func(t *testing.T) {
			text := strings.Join([]string{
				strings.Join([]string{"Address", "Packets", "Bytes"}, delim),
				strings.Join([]string{"10.0.0.1", "100", "6400"}, delim),
				strings.Join([]string{"10.0.0.2", "50", "3200"}, delim),
			}, "\n")

			res := parse(t, text)
			assert.Equal(t, []string{"Address", "Packets", "Bytes"}, res.Table.Headers)
			require.Len(t, res.Table.Rows, 2)
			assert.Equal(t, "10.0.0.1", res.Table.Rows[0]["Address"])
			assert.Equal(t, "100", res.Table.Rows[0]["Packets"])
			assert.Equal(t, "50", res.Table.Rows[1]["Packets"])
		})
	}
}

func TestParseQuotedFields(t *testing.T) {
	res := parse(t, "City,Packets\n\"Los Angeles, CA\",100\n\"He said \"\"hi\"\"\",5\n")
	require.Len(t, res.Table.Rows, 2)
	assert.Equal(t, "Los Angeles, CA", res.Table.Rows[0]["City"])
	assert.Equal(t, "100", res.Table.Rows[0]["Packets"])
	assert.Equal(t, `He said "hi"`, res.Table.Rows[1]["City"])
}

func TestParseQuotedEmbeddedNewline(t *testing.T) {
	res := parse(t, "Name,Packets\n\"line one\nline two\",7\n")
	require.Len(t, res.Table.Rows, 1)
	assert.Equal(t, "line one\nline two", res.Table.Rows[0]["Name"])
}

func TestParseDiscardsProtocolLabelLine(t *testing.T) {
	tests := []struct {
		name  string
		first string
		hint  string
	}{
		{"bare label", "IPv4", "IPv4"},
		{"lowercase", "tcp", "TCP"},
		{"trailing colon", "Ethernet:", "Ethernet"},
		{"surrounding blanks", "\n\n  UDP  ", "UDP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, tt.first+"\nAddress,Packets\n10.0.0.1,3\n")
			assert.Equal(t, tt.hint, res.LabelHint)
			assert.Equal(t, []string{"Address", "Packets"}, res.Table.Headers)
			require.Len(t, res.Table.Rows, 1)
		})
	}
}

func TestParseLabelLookalikeRowIsNotDiscarded(t *testing.T) {
	// A delimited first line stays the header even if it starts with a
	// protocol name.
	res := parse(t, "TCP,Count\na,1\n")
	assert.Empty(t, res.LabelHint)
	assert.Equal(t, []string{"TCP", "Count"}, res.Table.Headers)
}

func TestParseHeaderIsUnconditional(t *testing.T) {
	// Whatever follows the (optional) label line becomes the header,
	// even if it looks like data.
	res := parse(t, "10.0.0.1,100\n10.0.0.2,50\n")
	assert.Equal(t, []string{"10.0.0.1", "100"}, res.Table.Headers)
	require.Len(t, res.Table.Rows, 1)
}

func TestParseRaggedRows(t *testing.T) {
	res := parse(t, "A,B,C\n1,2\n1,2,3,4\n")
	require.Len(t, res.Table.Rows, 2)

	// Short rows are padded with empty trailing fields.
	assert.Equal(t, "", res.Table.Rows[0]["C"])
	// Long rows are truncated to the header width.
	assert.Equal(t, "3", res.Table.Rows[1]["C"])
	assert.Len(t, res.Table.Rows[1], 3)
}

func TestParseDuplicateHeaders(t *testing.T) {
	res := parse(t, "Packets,Packets,Packets\n1,2,3\n")
	assert.Equal(t, []string{"Packets", "Packets_2", "Packets_3"}, res.Table.Headers)
	assert.Equal(t, "1", res.Table.Rows[0]["Packets"])
	assert.Equal(t, "2", res.Table.Rows[0]["Packets_2"])
	assert.Equal(t, "3", res.Table.Rows[0]["Packets_3"])
}

func TestParseHeaderTextPreserved(t *testing.T) {
	res := parse(t, "Packets ,bytes\n1,2\n")
	assert.Equal(t, []string{"Packets ", "bytes"}, res.Table.Headers)
}

func TestParseSectionsMultiProtocolExport(t *testing.T) {
	// The classic telemetry dump: several protocol sections stacked in
	// one file, columns aligned with whitespace instead of a separator.
	text := strings.Join([]string{
		"Ethernet",
		"Address  Port  Packets  Bytes  Tx Packets  Tx Bytes  Rx Packets  Rx Bytes",
		"aa:bb:cc:00:11:22 443 100 6400 60 3840 40 2560",
		"aa:bb:cc:00:11:33 80 50 3200 30 1920 20 1280",
		"",
		"IPv4",
		"Address Packets Bytes Tx Packets Tx Bytes Rx Packets Rx Bytes",
		"10.0.0.1 75 4800 40 2560 35 2240",
	}, "\n")

	results, err := NewParser(DefaultConfig()).ParseSections(text, "network_data.txt")
	require.NoError(t, err)
	require.Len(t, results, 2)

	eth := results[0]
	assert.Equal(t, "Ethernet", eth.LabelHint)
	assert.Equal(t, ' ', eth.Delimiter)
	assert.Equal(t,
		[]string{"Address", "Port", "Packets", "Bytes", "Tx Packets", "Tx Bytes", "Rx Packets", "Rx Bytes"},
		eth.Table.Headers)
	require.Len(t, eth.Table.Rows, 2)
	assert.Equal(t, "100", eth.Table.Rows[0]["Packets"])
	assert.Equal(t, "2560", eth.Table.Rows[0]["Rx Bytes"])

	// The single-space IPv4 header still resolves the multi-word
	// column names.
	ip4 := results[1]
	assert.Equal(t, "IPv4", ip4.LabelHint)
	assert.Equal(t,
		[]string{"Address", "Packets", "Bytes", "Tx Packets", "Tx Bytes", "Rx Packets", "Rx Bytes"},
		ip4.Table.Headers)
	require.Len(t, ip4.Table.Rows, 1)
	assert.Equal(t, "75", ip4.Table.Rows[0]["Packets"])
}

func TestParseSectionsSkipsLabelOnlySections(t *testing.T) {
	results, err := NewParser(DefaultConfig()).ParseSections(
		"Ethernet\nIPv4\nAddress,Packets\n10.0.0.1,3\n", "dump.txt")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "IPv4", results[0].LabelHint)
}

func TestParseAlignedRows(t *testing.T) {
	res := parse(t, strings.Join([]string{
		"Address  Packets  Description",
		"10.0.0.1 5 DNS resolver primary",
		"10.0.0.2 7",
	}, "\n"))

	assert.Equal(t, ' ', res.Delimiter)
	assert.Equal(t, []string{"Address", "Packets", "Description"}, res.Table.Headers)
	require.Len(t, res.Table.Rows, 2)
	// Tokens beyond the header width merge into the last column.
	assert.Equal(t, "DNS resolver primary", res.Table.Rows[0]["Description"])
	// Short rows pad like any other ragged row.
	assert.Equal(t, "", res.Table.Rows[1]["Description"])
}

func TestParseErrorOnEmptyInput(t *testing.T) {
	p := NewParser(DefaultConfig())
	for _, text := range []string{"", "\n\n   \n", "IPv4\n", "IPv4\n\n  \n"} {
		_, err := p.ParseText(text, "empty.txt")
		var parseErr *table.ParseError
		assert.ErrorAs(t, err, &parseErr, "input %q", text)
	}
}

func TestParseHeaderOnlyFile(t *testing.T) {
	// A lone header line is a valid zero-row table, not an error.
	res := parse(t, "Address,Packets\n")
	assert.Equal(t, []string{"Address", "Packets"}, res.Table.Headers)
	assert.Empty(t, res.Table.Rows)
}

func TestParseQuoteUnawareMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuoteAware = false
	res, err := NewParser(cfg).ParseText("City,Packets\n\"Los Angeles, CA\",100\n", "test.csv")
	require.NoError(t, err)

	// Without quote handling the embedded comma splits the field.
	assert.Equal(t, `"Los Angeles`, res.Table.Rows[0]["City"])
	assert.Equal(t, `CA"`, res.Table.Rows[0]["Packets"])
}

func TestParseWindowsLineEndings(t *testing.T) {
	res := parse(t, "Address,Packets\r\n10.0.0.1,5\r\n")
	require.Len(t, res.Table.Rows, 1)
	assert.Equal(t, "5", res.Table.Rows[0]["Packets"])
}
