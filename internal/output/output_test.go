package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sample struct {
	Name  string `yaml:"name"  json:"name"`
	Count int    `yaml:"count" json:"count"`
}

func TestFprint_JSONCompactAndPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, sample{Name: "a<b", Count: 2}, false))
	assert.Equal(t, `{"name":"a<b","count":2}`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintJSON(&buf, sample{Name: "x"}, true))
	assert.Greater(t, strings.Count(buf.String(), "\n"), 1)
}

func TestPrintYAML_DecodesRawJSON(t *testing.T) {
	var buf bytes.Buffer
	raw := json.RawMessage(`{"workspaces":[{"name":"1","tilingSize":1}]}`)
	require.NoError(t, PrintYAML(&buf, raw))

	var decoded map[string][]map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded["workspaces"], 1)
	assert.Equal(t, "1", decoded["workspaces"][0]["name"])
}

func TestPrintStreamItem(t *testing.T) {
	var buf bytes.Buffer
	oldOut, oldFormat := Stdout, OutputFormat
	t.Cleanup(func() { Stdout, OutputFormat = oldOut, oldFormat })
	Stdout = &buf

	OutputFormat = FormatJSON
	require.NoError(t, PrintStreamItem(sample{Name: "a"}))
	require.NoError(t, PrintStreamItem(sample{Name: "b"}))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

	buf.Reset()
	OutputFormat = FormatYAML
	require.NoError(t, PrintStreamItem(sample{Name: "a"}))
	assert.True(t, strings.HasPrefix(buf.String(), "---\nname: a\n"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("agent")
	assert.Error(t, err)
}
