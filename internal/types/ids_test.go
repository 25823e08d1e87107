package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestID tests ID generation, parsing, and validation
func TestID(t *testing.T) {
	tests := []struct {
		name    string
		setup   func() ID
		wantErr bool
	}{
		{
			name:    "new ID generates valid UUID",
			setup:   NewID,
			wantErr: false,
		},
		{
			name: "parse valid UUID string",
			setup: func() ID {
				id := NewID()
				parsed, err := ParseID(id.String())
				require.NoError(t, err)
				return parsed
			},
			wantErr: false,
		},
		{
			name:    "empty ID fails validation",
			setup:   func() ID { return ID("") },
			wantErr: true,
		},
		{
			name:    "invalid UUID fails validation",
			setup:   func() ID { return ID("not-a-uuid") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.setup()
			err := id.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestID_JSONRoundTrip tests JSON serialization
func TestID_JSONRoundTrip(t *testing.T) {
	id := NewID()

	data, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded ID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}

// TestID_MarshalZero tests that a zero ID marshals as null
func TestID_MarshalZero(t *testing.T) {
	data, err := json.Marshal(ID(""))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

// TestID_UnmarshalInvalid tests that malformed IDs are rejected
func TestID_UnmarshalInvalid(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`"not-a-uuid"`), &id))
}

func TestID_IsZero(t *testing.T) {
	assert.True(t, ID("").IsZero())
	assert.False(t, NewID().IsZero())
}
