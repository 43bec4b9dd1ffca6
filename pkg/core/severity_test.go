package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in     string
		want   Severity
		wantOK bool
	}{
		{"error", SeverityError, true},
		{"WARNING", SeverityWarning, true},
		{"info", SeverityInfo, true},
		{"hint", SeverityHint, true},
		{" warn ", SeverityWarning, true},
		{"bogus", SeverityWarning, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSeverity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSeverityJSON(t *testing.T) {
	b, err := json.Marshal(RuleInfo{ID: "LT01", DefaultSeverity: SeverityError})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"default_severity":"error"`)

	var info RuleInfo
	require.NoError(t, json.Unmarshal(b, &info))
	assert.Equal(t, SeverityError, info.DefaultSeverity)
}

func TestSeverityJSON_Unknown(t *testing.T) {
	var info RuleInfo
	err := json.Unmarshal([]byte(`{"default_severity":"fatal"}`), &info)
	assert.ErrorContains(t, err, `unknown severity "fatal"`)
}

func TestSeverity_AtLeast(t *testing.T) {
	assert.True(t, SeverityError.AtLeast(SeverityWarning))
	assert.True(t, SeverityWarning.AtLeast(SeverityWarning))
	assert.False(t, SeverityHint.AtLeast(SeverityInfo))
}

func TestSeverities(t *testing.T) {
	assert.Equal(t, []string{"error", "warning", "info", "hint"}, Severities())
	assert.Equal(t, "unknown", Severity(7).String())
}
