package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
)

func TestResult_Filters(t *testing.T) {
	var nilResult *Result
	assert.False(t, nilResult.HasErrors())
	assert.Nil(t, nilResult.Warnings())

	r := &Result{}
	assert.False(t, r.HasErrors())
	assert.False(t, r.HasWarnings())

	r.AddInfo("cache", "restored entries are never pruned", nil)
	r.AddWarning("stripdown", "has no effect without cache", true)
	r.AddError("vulkan_version", "invalid version", "1.3")

	assert.True(t, r.HasErrors())
	assert.True(t, r.HasWarnings())
	require.Len(t, r.Errors(), 1)
	assert.Equal(t, "vulkan_version", r.Errors()[0].Field)
	require.Len(t, r.Warnings(), 1)
	assert.Equal(t, "stripdown", r.Warnings()[0].Field)
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		issue Issue
		want  string
	}{
		{Issue{Message: "no inputs"}, "no inputs"},
		{Issue{Field: "cache_dir", Message: "invalid path"}, "cache_dir: invalid path"},
		{Issue{Field: "vulkan_version", Message: "invalid version", Value: "1.3"}, "vulkan_version: invalid version (got 1.3)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.issue.Error())
	}
}

func TestResult_Err(t *testing.T) {
	r := &Result{}
	r.AddWarning("stripdown", "has no effect without cache", true)
	assert.NoError(t, r.Err(), "warnings alone are not an error")

	r.Add(Issue{Severity: SeverityError, Field: "vulkan_version", Message: "invalid version", Hint: "use latest"})
	r.AddError("download_url", "not a URL", "::")

	err := r.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "vulkan_version")
	assert.Contains(t, errors.GetAllHints(err), "use latest")
}

func TestSeverity_MarshalText(t *testing.T) {
	b, err := SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(b))
	assert.Equal(t, "unknown", Severity(9).String())
}
