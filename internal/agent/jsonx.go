package agent

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ExtractJSON pulls a JSON object out of free-form model output. Models
// wrap structured answers in prose ("Sure! Here's the JSON: {...}"), so the
// span from the first '{' to the last '}' is tried first, then repaired
// when malformed. Extraction never fails: text with no salvageable object
// comes back under a "raw_response" key.
//
// The first-to-last brace span assumes a single object; a response with two
// separate top-level objects falls through to raw_response.
func ExtractJSON(response string) map[string]any {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		span := response[start : end+1]
		var out map[string]any
		if err := json.Unmarshal([]byte(span), &out); err == nil {
			return out
		}
		if fixed, err := jsonrepair.JSONRepair(span); err == nil {
			if err := json.Unmarshal([]byte(fixed), &out); err == nil {
				return out
			}
		}
	}
	return map[string]any{"raw_response": response}
}

// CoerceCategory normalizes a model's category answer to one of the allowed
// values, comparing case-insensitively after trimming whitespace and
// surrounding quotes. Anything outside the set becomes fallback, so model
// chatter never leaks into stored categories.
func CoerceCategory(answer string, allowed []string, fallback string) string {
	cleaned := strings.ToLower(strings.Trim(strings.TrimSpace(answer), `"'.`))
	for _, c := range allowed {
		if cleaned == strings.ToLower(c) {
			return c
		}
	}
	return fallback
}
