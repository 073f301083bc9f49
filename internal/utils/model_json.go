package utils

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// CleanModelResponse returns the body of the first fenced code block in a
// model response, or the trimmed response when there is none.
func CleanModelResponse(response string) string {
	if m := fencedBlockPattern.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}

// ParseJSONWithFallback decodes a model response into T. Any failure returns
// fallback unchanged; it never panics.
func ParseJSONWithFallback[T any](response string, fallback T) (result T) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("[ModelJSON] Recovered while parsing model response",
				slog.Any("panic", r))
			result = fallback
		}
	}()

	cleaned := CleanModelResponse(response)
	if cleaned == "" {
		return fallback
	}

	var parsed T
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		slog.Debug("[ModelJSON] Failed to parse model response, using fallback",
			slog.String("error", err.Error()),
			getPreview(cleaned))
		return fallback
	}
	return parsed
}

func getPreview(raw string) slog.Attr {
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
