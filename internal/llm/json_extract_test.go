package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractJSON tests extraction from the response shapes providers
// actually emit
func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "json code block",
			response: "Here is the analysis:\n```json\n{\"risk_score\": 5}\n```\nDone.",
			want:     `{"risk_score": 5}`,
		},
		{
			name:     "untagged code block",
			response: "```\n{\"findings\": []}\n```",
			want:     `{"findings": []}`,
		},
		{
			name:     "raw object with surrounding prose",
			response: `Sure! {"vulnerabilities": [], "risk_score": 2} Hope that helps.`,
			want:     `{"vulnerabilities": [], "risk_score": 2}`,
		},
		{
			name:     "raw array",
			response: `[{"technique_name": "Active Scanning"}]`,
			want:     `[{"technique_name": "Active Scanning"}]`,
		},
		{
			name:     "nested braces inside strings",
			response: `{"description": "uses {target} placeholder", "risk_score": 1}`,
			want:     `{"description": "uses {target} placeholder", "risk_score": 1}`,
		},
		{
			name:     "no json at all",
			response: "I could not complete the analysis.",
			wantErr:  true,
		},
		{
			name:     "unbalanced braces",
			response: `{"risk_score": 5`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestExtractJSONList tests list extraction for the bare-array and
// envelope shapes generators actually produce
func TestExtractJSONList(t *testing.T) {
	type step struct {
		TechniqueName string `json:"technique_name"`
	}

	tests := []struct {
		name     string
		response string
		want     []string
		wantErr  bool
	}{
		{
			name:     "bare array",
			response: `[{"technique_name": "Active Scanning"}, {"technique_name": "Brute Force"}]`,
			want:     []string{"Active Scanning", "Brute Force"},
		},
		{
			name:     "steps envelope",
			response: `{"steps": [{"technique_name": "Active Scanning"}]}`,
			want:     []string{"Active Scanning"},
		},
		{
			name:     "attack_paths envelope",
			response: "```json\n{\"attack_paths\": [{\"technique_name\": \"Brute Force\"}]}\n```",
			want:     []string{"Brute Force"},
		},
		{
			name:     "fenced array with prose",
			response: "Here is the plan:\n```json\n[{\"technique_name\": \"Active Scanning\"}]\n```\nGood luck.",
			want:     []string{"Active Scanning"},
		},
		{
			name:     "envelope without a known key",
			response: `{"plan": [{"technique_name": "Active Scanning"}]}`,
			wantErr:  true,
		},
		{
			name:     "no json at all",
			response: "I cannot produce a plan for this target.",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONList[step](tt.response, "steps", "attack_paths")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i, name := range tt.want {
				assert.Equal(t, name, got[i].TechniqueName)
			}
		})
	}
}

// TestExtractJSONAs tests typed extraction
func TestExtractJSONAs(t *testing.T) {
	type report struct {
		RiskScore float64 `json:"risk_score"`
	}

	got, err := ExtractJSONAs[report]("```json\n{\"risk_score\": 8.5}\n```")
	require.NoError(t, err)
	assert.Equal(t, 8.5, got.RiskScore)

	// Valid JSON of the wrong shape fails the unmarshal, not the
	// extraction.
	_, err = ExtractJSONAs[report](`{"risk_score": "high"}`)
	assert.Error(t, err)
}
