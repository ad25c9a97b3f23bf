package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonFenceRE  = regexp.MustCompile(`(?i)^` + "```" + `(?:json)?`)
	jsonObjectRE = regexp.MustCompile(`(?s)\{.*\}`)
)

// parseJSONReply decodes a model reply that should be a JSON object.
// Models love wrapping JSON in markdown fences or padding it with prose,
// so the fence is stripped first and the outermost {...} is retried when
// a direct decode fails.
func parseJSONReply(raw string) (map[string]any, bool) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return nil, false
	}
	if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimSpace(jsonFenceRE.ReplaceAllString(candidate, ""))
		candidate = strings.TrimSpace(strings.TrimSuffix(candidate, "```"))
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(candidate), &data); err == nil {
		return data, true
	}
	if match := jsonObjectRE.FindString(candidate); match != "" {
		if err := json.Unmarshal([]byte(match), &data); err == nil {
			return data, true
		}
	}
	return nil, false
}
