package identify

import (
	"regexp"
	"strings"
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSONObject pulls the JSON object out of a model reply that may wrap
// it in markdown fences or surrounding prose.
func extractJSONObject(responseText string) string {
	if matches := jsonObjectPattern.FindString(responseText); matches != "" {
		responseText = matches
	}

	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
	}

	return strings.TrimSpace(responseText)
}

// extractJSONArray pulls a JSON array out of a model reply; a bare object is
// wrapped into a single-element array.
func extractJSONArray(responseText string) string {
	responseText = strings.TrimSpace(responseText)

	startIdx := strings.Index(responseText, "[")
	endIdx := strings.LastIndex(responseText, "]")
	if startIdx == -1 || endIdx == -1 || startIdx > endIdx {
		startIdx = strings.Index(responseText, "{")
		endIdx = strings.LastIndex(responseText, "}")
		if startIdx == -1 || endIdx == -1 || startIdx > endIdx {
			return responseText
		}
		return "[" + responseText[startIdx:endIdx+1] + "]"
	}

	return responseText[startIdx : endIdx+1]
}
