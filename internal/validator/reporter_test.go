package validator

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Result {
	r := &Result{}
	r.Add(Issue{Severity: SeverityError, Field: "vulkan_version", Message: "invalid version", Value: "1.3", Hint: "use latest"})
	r.AddWarning("optional_components", "unknown component", "com.example.thing")
	return r
}

func TestReporter_Text(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report(sample()))

	out := buf.String()
	assert.Contains(t, out, "1 error(s), 1 warning(s)")
	assert.Contains(t, out, "  • vulkan_version: invalid version [1.3]")
	assert.Contains(t, out, "    hint: use latest")
	assert.Contains(t, out, "Warnings:\n  • optional_components: unknown component [com.example.thing]")
}

func TestReporter_TextValid(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	r := &Result{}
	r.AddInfo("", "note", nil)
	require.NoError(t, NewReporter(&buf, FormatText).Report(r))
	assert.Equal(t, "✓ inputs are valid\n", buf.String())
}

func TestReporter_TextTruncatesValues(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	r := &Result{}
	r.AddError("destination", "invalid path", string(bytes.Repeat([]byte("a"), 80)))

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report(r))
	assert.Contains(t, buf.String(), string(bytes.Repeat([]byte("a"), 47))+"...]")
}

func TestReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatJSON).Report(sample()))

	var decoded struct {
		Issues []struct {
			Severity string `json:"severity"`
			Field    string `json:"field"`
			Hint     string `json:"hint"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Issues, 2)
	assert.Equal(t, "error", decoded.Issues[0].Severity)
	assert.Equal(t, "use latest", decoded.Issues[0].Hint)
	assert.Equal(t, "warning", decoded.Issues[1].Severity)
}

func TestReporter_Actions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatActions).Report(sample()))

	assert.Equal(t,
		"::error title=vulkan_version::vulkan_version: invalid version (got 1.3); use latest\n"+
			"::warning title=optional_components::optional_components: unknown component (got com.example.thing)\n",
		buf.String())
}

func TestReporter_Nil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report(nil))
	assert.Empty(t, buf.String())
}
