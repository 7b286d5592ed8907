package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"netconvert/domain/table"
)

func TestClassifyProtocol(t *testing.T) {
	tests := []struct {
		filename string
		hint     string
		want     table.Protocol
	}{
		{"ethernet_stats.txt", "", table.ProtocolEthernet},
		{"IPV4-export.csv", "", table.ProtocolIPv4},
		{"conv_ipv6_2024.txt", "", table.ProtocolIPv6},
		{"tcp.csv", "", table.ProtocolTCP},
		{"office_udp_dump.txt", "", table.ProtocolUDP},
		{"capture.txt", "", table.ProtocolGeneric},
		// Priority order when multiple names appear in the stem.
		{"ethernet_tcp.txt", "", table.ProtocolEthernet},
		{"ipv4_udp.csv", "", table.ProtocolIPv4},
		// Extension is not part of the stem.
		{"capture.tcp", "", table.ProtocolGeneric},
		// Label hint breaks a Generic filename.
		{"export.txt", "TCP", table.ProtocolTCP},
		{"export.txt", "ipv6", table.ProtocolIPv6},
		// Filename wins over the hint.
		{"udp.txt", "TCP", table.ProtocolUDP},
		// Unknown hints stay Generic.
		{"export.txt", "ICMP", table.ProtocolGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"/"+tt.hint, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyProtocol(tt.filename, tt.hint))
		})
	}
}

func TestGenericSheetName(t *testing.T) {
	assert.Equal(t, "Sheet", table.ProtocolGeneric.SheetName())
	assert.Equal(t, "TCP", table.ProtocolTCP.SheetName())
}
