// Package testkit generates deterministic synthetic protocol exports.
// It backs the selftest command and the end-to-end tests: the generated
// files exercise every delimiter, the protocol-label line, quoting, and
// the geo/port columns the pruner must drop.
package testkit

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExportConfig configures the synthetic export generator.
type ExportConfig struct {
	Rows int
	Seed int64
}

// DefaultExportConfig returns the generator defaults.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{Rows: 40, Seed: 42}
}

// ExportGenerator writes synthetic delimited traffic exports.
type ExportGenerator struct {
	config ExportConfig
	rng    *rand.Rand
}

// NewExportGenerator creates a generator seeded from the config.
func NewExportGenerator(config ExportConfig) *ExportGenerator {
	if config.Rows <= 0 {
		config.Rows = DefaultExportConfig().Rows
	}
	return &ExportGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// WriteSampleExports writes one export per protocol into dir and returns
// the file paths in lexical order. The files deliberately vary:
// ethernet uses tabs, ipv4 carries geo columns plus a label line, ipv6
// uses semicolons, tcp/udp carry a Port column, and udp includes a
// quoted field with an embedded comma.
func (g *ExportGenerator) WriteSampleExports(dir string) ([]string, error) {
	files := map[string]string{
		"ethernet.txt": g.ethernetExport(),
		"ipv4.txt":     g.ipv4Export(),
		"ipv6.csv":     g.ipv6Export(),
		"tcp.csv":      g.tcpExport(),
		"udp.csv":      g.udpExport(),
	}

	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write sample export %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	// Lexical order keeps the batch deterministic across runs.
	sort.Strings(paths)
	return paths, nil
}

func (g *ExportGenerator) ethernetExport() string {
	var b strings.Builder
	b.WriteString("Address\tPackets\tBytes\tTx Packets\tRx Packets\n")
	for i := 0; i < g.config.Rows; i++ {
		tx := g.rng.Intn(5000)
		rx := g.rng.Intn(5000)
		fmt.Fprintf(&b, "aa:bb:cc:%02x:%02x:%02x\t%d\t%d\t%d\t%d\n",
			g.rng.Intn(256), g.rng.Intn(256), g.rng.Intn(256),
			tx+rx, (tx+rx)*64, tx, rx)
	}
	return b.String()
}

func (g *ExportGenerator) ipv4Export() string {
	var b strings.Builder
	b.WriteString("IPv4\n")
	b.WriteString("Address,Packets,Bytes,Country,City,Latitude,Longitude,AS Number,AS Organization\n")
	for i := 0; i < g.config.Rows; i++ {
		fmt.Fprintf(&b, "10.0.%d.%d,%d,%d,US,Springfield,%0.4f,%0.4f,%d,ExampleNet\n",
			g.rng.Intn(256), g.rng.Intn(256),
			g.rng.Intn(10000), g.rng.Intn(10000)*64,
			30+g.rng.Float64()*10, -120+g.rng.Float64()*40,
			64512+g.rng.Intn(1000))
	}
	return b.String()
}

func (g *ExportGenerator) ipv6Export() string {
	var b strings.Builder
	b.WriteString("Address;Packets;Bytes;Country;City\n")
	for i := 0; i < g.config.Rows; i++ {
		fmt.Fprintf(&b, "2001:db8::%x;%d;%d;DE;Berlin\n",
			g.rng.Intn(65536), g.rng.Intn(10000), g.rng.Intn(10000)*64)
	}
	return b.String()
}

func (g *ExportGenerator) tcpExport() string {
	var b strings.Builder
	b.WriteString("Address,Port,Packets,Bytes\n")
	// One dominant talker so the cutoff lands predictably high.
	fmt.Fprintf(&b, "192.168.1.10,443,%d,%d\n", 400000, 400000*64)
	for i := 0; i < g.config.Rows; i++ {
		fmt.Fprintf(&b, "192.168.1.%d,%d,%d,%d\n",
			g.rng.Intn(254)+1, g.rng.Intn(65535),
			g.rng.Intn(2000), g.rng.Intn(2000)*64)
	}
	return b.String()
}

func (g *ExportGenerator) udpExport() string {
	var b strings.Builder
	b.WriteString("Address,Port,Packets,Description\n")
	fmt.Fprintf(&b, "172.16.0.1,53,%d,\"DNS resolver, primary\"\n", 90000)
	for i := 0; i < g.config.Rows; i++ {
		fmt.Fprintf(&b, "172.16.0.%d,%d,%d,stream\n",
			g.rng.Intn(254)+1, g.rng.Intn(65535), g.rng.Intn(3000))
	}
	return b.String()
}
