package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
)

func TestJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"reasoning prefix", "<think>plan</think>\n{\"a\":{\"b\":2}}", `{"a":{"b":2}}`},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"trailing chatter", `Here you go: {"a":1} hope it helps`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSONObject(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONObject_NoBoundaries(t *testing.T) {
	for _, in := range []string{"", "no json here", `{"a":1`, `"a":1}`, "} reversed {"} {
		_, err := JSONObject(in)
		require.Error(t, err, in)
		assert.Equal(t, errors.ErrCodeExtraction, errors.CodeOf(err), in)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	obj := map[string]interface{}{
		"executiveSummary": "summary",
		"ikigaiAlignment":  map[string]interface{}{"passionScore": 85.0},
		"list":             []interface{}{"x", "y"},
	}
	raw, err := json.Marshal(obj)
	require.NoError(t, err)

	got, err := Decode("prefix " + string(raw) + " suffix")
	require.NoError(t, err)
	assert.Equal(t, obj, got)
}

func TestDecode_TrailingComma(t *testing.T) {
	_, err := Decode(`{"a": 1, "b": [1,2,],}`)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeParse, errors.CodeOf(err))
}

func TestDecode_MissingBrace(t *testing.T) {
	_, err := Decode(`"a": 1`)
	assert.Equal(t, errors.ErrCodeExtraction, errors.CodeOf(err))
}
