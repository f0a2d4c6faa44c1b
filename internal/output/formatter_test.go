package output_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simulor-project/simulor/internal/output"
)

type fakeResult struct {
	Name string `json:"name"`
}

func (f *fakeResult) WriteTable(w io.Writer) error {
	_, err := w.Write([]byte("table:" + f.Name))
	return err
}

func (f *fakeResult) WritePlain(w io.Writer) error {
	_, err := w.Write([]byte("plain:" + f.Name))
	return err
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"table", "json", "plain"} {
		f, err := output.ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, output.Format(valid), f)
	}

	_, err := output.ParseFormat("xml")
	require.Error(t, err)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := output.Write(&buf, output.FormatJSON, &fakeResult{Name: "test"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"name"`)
	assert.Contains(t, buf.String(), `"test"`)
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	err := output.Write(&buf, output.FormatTable, &fakeResult{Name: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "table:hello", buf.String())
}

func TestWrite_Table_NotFormattable(t *testing.T) {
	var buf bytes.Buffer
	err := output.Write(&buf, output.FormatTable, struct{ X int }{X: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support table output")
}

func TestWrite_Plain(t *testing.T) {
	var buf bytes.Buffer
	err := output.Write(&buf, output.FormatPlain, &fakeResult{Name: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "plain:hello", buf.String())
}

func TestWrite_Plain_NotFormattable(t *testing.T) {
	var buf bytes.Buffer
	err := output.Write(&buf, output.FormatPlain, struct{ X int }{X: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support plain output")
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := output.Write(&buf, output.Format("xml"), &fakeResult{})
	require.Error(t, err)
}
