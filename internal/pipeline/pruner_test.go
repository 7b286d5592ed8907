package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"netconvert/domain/table"
)

func geoTable(proto table.Protocol) *table.Table {
	t := table.NewTable([]string{"Address", "Packets", "country", "City", "Latitude", "Longitude", "AS Number", "AS Organization"})
	t.Protocol = proto
	t.Rows = []table.Row{{
		"Address": "10.0.0.1", "Packets": int64(5), "country": "US", "City": "LA",
		"Latitude": 34.05, "Longitude": -118.24, "AS Number": int64(64512), "AS Organization": "ExampleNet",
	}}
	return t
}

func TestPruneGeoColumnsForIPVersions(t *testing.T) {
	for _, proto := range []table.Protocol{table.ProtocolIPv4, table.ProtocolIPv6} {
		t.Run(string(proto), func(t *testing.T) {
			tbl := geoTable(proto)
			PruneColumns(tbl)

			// Case-insensitive removal, surviving order preserved.
			assert.Equal(t, []string{"Address", "Packets"}, tbl.Headers)
			assert.NotContains(t, tbl.Rows[0], "country")
			assert.NotContains(t, tbl.Rows[0], "Latitude")
			assert.Contains(t, tbl.Rows[0], "Packets")
		})
	}
}

func TestPrunePortColumnForTransportProtocols(t *testing.T) {
	for _, proto := range []table.Protocol{table.ProtocolTCP, table.ProtocolUDP} {
		t.Run(string(proto), func(t *testing.T) {
			tbl := table.NewTable([]string{"Address", "Port", "Packets"})
			tbl.Protocol = proto
			tbl.Rows = []table.Row{{"Address": "10.0.0.1", "Port": int64(443), "Packets": int64(9)}}

			PruneColumns(tbl)

			assert.Equal(t, []string{"Address", "Packets"}, tbl.Headers)
			assert.NotContains(t, tbl.Rows[0], "Port")
		})
	}
}

func TestPruneLeavesEthernetAndGenericAlone(t *testing.T) {
	for _, proto := range []table.Protocol{table.ProtocolEthernet, table.ProtocolGeneric} {
		tbl := table.NewTable([]string{"Address", "Port", "Latitude"})
		tbl.Protocol = proto
		PruneColumns(tbl)
		assert.Equal(t, []string{"Address", "Port", "Latitude"}, tbl.Headers)
	}
}

func TestPruneMissingColumnsIsNoError(t *testing.T) {
	tbl := table.NewTable([]string{"Address", "Packets"})
	tbl.Protocol = table.ProtocolIPv4
	PruneColumns(tbl)
	assert.Equal(t, []string{"Address", "Packets"}, tbl.Headers)
}
