package pipeline

import (
	"strings"

	"netconvert/domain/table"
)

// geoColumns are dropped from IPv4/IPv6 sheets: the geolocation and AS
// enrichment columns add nothing to per-address traffic concentration.
var geoColumns = []string{
	"Country",
	"City",
	"Latitude",
	"Longitude",
	"AS Number",
	"AS Organization",
}

// portColumns are dropped from TCP/UDP sheets.
var portColumns = []string{"Port"}

// PruneColumns removes the protocol-specific columns from the table in
// place. Matching is exact but case-insensitive; columns not present
// are skipped, and the order of the surviving columns is preserved.
func PruneColumns(t *table.Table) {
	var drop []string
	switch t.Protocol {
	case table.ProtocolIPv4, table.ProtocolIPv6:
		drop = geoColumns
	case table.ProtocolTCP, table.ProtocolUDP:
		drop = portColumns
	default:
		return
	}

	dropSet := make(map[string]struct{}, len(drop))
	for _, name := range drop {
		dropSet[strings.ToLower(name)] = struct{}{}
	}

	kept := t.Headers[:0]
	for _, header := range t.Headers {
		if _, gone := dropSet[strings.ToLower(strings.TrimSpace(header))]; gone {
			for _, row := range t.Rows {
				delete(row, header)
			}
			continue
		}
		kept = append(kept, header)
	}
	t.Headers = kept
}
