// internal/models/analysis.go
package models

import "strings"

// Analysis is the decoded model output. It is stored as-is; accessors read
// the handful of fields the service derives from it.
type Analysis map[string]interface{}

// Scores are the four Ikigai alignment scores.
type Scores struct {
	Passion    *float64 `json:"passionScore"`
	Mission    *float64 `json:"missionScore"`
	Vocation   *float64 `json:"vocationScore"`
	Profession *float64 `json:"professionScore"`
}

func (a Analysis) Scores() Scores {
	alignment := a.Object("ikigaiAlignment")
	return Scores{
		Passion:    number(alignment["passionScore"]),
		Mission:    number(alignment["missionScore"]),
		Vocation:   number(alignment["vocationScore"]),
		Profession: number(alignment["professionScore"]),
	}
}

// Object returns a nested object section, or nil.
func (a Analysis) Object(key string) map[string]interface{} {
	m, _ := a[key].(map[string]interface{})
	return m
}

// Value returns the raw section value, or nil.
func (a Analysis) Value(key string) interface{} {
	return a[key]
}

// FirstString follows a dotted path and returns the first string found there.
// Array segments take their first element, e.g. "careerRecommendations.title".
func (a Analysis) FirstString(path string) string {
	var cur interface{} = map[string]interface{}(a)
	for _, key := range strings.Split(path, ".") {
		cur = first(cur)
		m, ok := cur.(map[string]interface{})
		if !ok {
			return ""
		}
		cur = m[key]
	}
	s, _ := first(cur).(string)
	return s
}

func first(v interface{}) interface{} {
	if arr, ok := v.([]interface{}); ok {
		if len(arr) == 0 {
			return nil
		}
		return arr[0]
	}
	return v
}

func number(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	default:
		return nil
	}
}
