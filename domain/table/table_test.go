package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumeric(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{int64(5), 5, true},
		{3.25, 3.25, true},
		{7, 7, true},
		{"100", 0, false},
		{"", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := Numeric(tt.in)
		assert.Equal(t, tt.ok, ok, "input %#v", tt.in)
		assert.Equal(t, tt.want, got, "input %#v", tt.in)
	}
}

func TestSheetNames(t *testing.T) {
	assert.Equal(t, "Ethernet", ProtocolEthernet.SheetName())
	assert.Equal(t, "Sheet", ProtocolGeneric.SheetName())
	assert.Equal(t, "Sheet", Protocol("").SheetName())
}

func TestHasColumn(t *testing.T) {
	tbl := NewTable([]string{"Address", "Packets"})
	assert.True(t, tbl.HasColumn("Packets"))
	assert.False(t, tbl.HasColumn("packets"))
	assert.False(t, tbl.HasColumn("Bytes"))
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&ParseError{File: "a.txt", Reason: "no header-eligible line"}).Error(), "a.txt")
	assert.Contains(t, (&BatchError{}).Error(), "no input files")
}
