package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalWidth_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, defaultTermWidth, TerminalWidth(&buf))
}

func TestNewWrappingTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewWrappingTable(&buf, 20, 10)
	table.Header([]string{"Symbol", "Quantity"})
	require.NoError(t, table.Bulk([][]string{{"700.HK", "100"}}))
	require.NoError(t, table.Render())

	out := buf.String()
	assert.Contains(t, out, "700.HK")
	assert.Contains(t, out, "100")
}

func TestNewGroupedWrappingTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewGroupedWrappingTable(&buf, 20, 10)
	table.Header([]string{"Namespace", "Key", "Value"})
	require.NoError(t, table.Bulk([][]string{
		{"simulor", "__version__", "0.1.0"},
	}))
	require.NoError(t, table.Render())

	out := buf.String()
	assert.Contains(t, out, "simulor")
	assert.Contains(t, out, "__version__")
}
