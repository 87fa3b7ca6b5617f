// Package extract pulls a JSON object out of free-form model output.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
)

// JSONObject returns the text between the first '{' and the last '}',
// inclusive. Nothing is validated.
func JSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.NewExtractionError("no JSON boundaries found")
	}
	return text[start : end+1], nil
}

// Decode extracts and strictly decodes a JSON object from text.
func Decode(text string) (map[string]interface{}, error) {
	candidate, err := JSONObject(text)
	if err != nil {
		return nil, err
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, errors.NewParseError("Invalid JSON in model response", err)
	}
	return out, nil
}
