package llm

import (
	"strings"
)

// StripThinking removes any <think>...</think> block some local models emit
// before their answer.
func StripThinking(s string) string {
	cleaned := strings.TrimSpace(s)
	for {
		start := strings.Index(cleaned, "<think>")
		if start == -1 {
			return cleaned
		}
		end := strings.Index(cleaned, "</think>")
		if end == -1 || end < start {
			return cleaned
		}
		cleaned = strings.TrimSpace(cleaned[:start] + cleaned[end+len("</think>"):])
	}
}

// ExtractJSONObject returns the span from the first '{' to the last '}' of a
// model response, or "" when there is none.
func ExtractJSONObject(s string) string {
	cleaned := StripThinking(s)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return cleaned[start : end+1]
}
