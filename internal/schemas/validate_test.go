package schemas

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldSelectionSchema_IsJSON(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(HoldSelectionSchema()), &doc))
	assert.Equal(t, "HoldSelection", doc["title"])
}

func TestValidateHoldSelection(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "full response",
			doc:  `{"name": "Crimp line", "summary": "short", "holds": [{"id": "12", "color": "#00FF00", "usage": "start"}]}`,
		},
		{
			name: "numeric ids",
			doc:  `{"holds": [{"id": 12}, {"id": 40, "color": "#FF00FF"}]}`,
		},
		{
			name: "extra fields allowed",
			doc:  `{"holds": [{"id": "A1", "coordinates": {"x": 1, "y": 2}}], "orientation": "0"}`,
		},
		{
			name: "empty holds is structurally valid",
			doc:  `{"holds": []}`,
		},
		{
			name:    "missing holds",
			doc:     `{"summary": "nothing"}`,
			wantErr: true,
		},
		{
			name:    "hold without id",
			doc:     `{"holds": [{"color": "#00FF00"}]}`,
			wantErr: true,
		},
		{
			name:    "empty id",
			doc:     `{"holds": [{"id": ""}]}`,
			wantErr: true,
		},
		{
			name:    "wrong color type",
			doc:     `{"holds": [{"id": "1", "color": 3}]}`,
			wantErr: true,
		},
		{
			name:    "holds not an array",
			doc:     `{"holds": {"id": "1"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHoldSelection(tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateHoldSelection_NotJSON(t *testing.T) {
	err := ValidateHoldSelection("not json")
	require.Error(t, err)

	var docErr *DocumentError
	assert.True(t, errors.As(err, &docErr))
	assert.Contains(t, err.Error(), "document is not valid JSON")

	var loadErr *SchemaLoadError
	assert.False(t, errors.As(err, &loadErr))
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 5}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "holds.0", Message: "id is required"}}}
	assert.Contains(t, err.Error(), "1. holds.0: id is required")
}
