package pipeline

import (
	"path/filepath"
	"strings"

	"netconvert/domain/table"
)

// ClassifyProtocol infers the protocol tag for a file. The filename stem
// is matched case-insensitively against the known protocol names in
// priority order (ethernet, ipv4, ipv6, tcp, udp); first match wins.
// When the filename is silent, the label hint — the discarded leading
// protocol line, if the parser saw one — breaks the tie. Anything else
// is Generic.
func ClassifyProtocol(filename, labelHint string) table.Protocol {
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	for _, p := range table.Protocols {
		if strings.Contains(stem, strings.ToLower(string(p))) {
			return p
		}
	}

	if labelHint != "" {
		return ProtocolFromLabel(labelHint)
	}

	return table.ProtocolGeneric
}

// ProtocolFromLabel maps a section-label line to its protocol tag,
// Generic when the label is unknown.
func ProtocolFromLabel(label string) table.Protocol {
	for _, p := range table.Protocols {
		if strings.EqualFold(label, string(p)) {
			return p
		}
	}
	return table.ProtocolGeneric
}
