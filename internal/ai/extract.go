// extract.go - Recovering JSON objects from freeform model output

package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON recovers a JSON object from noisy model output. It tries, in
// order: the content of a fenced code block (optionally tagged json), then the
// first balanced {...} substring. Returns nil when neither parses. This is the
// single trust boundary between model text and structured data, so it never
// panics and swallows every parse failure.
func ExtractJSON(text string) map[string]interface{} {
	if text == "" {
		return nil
	}

	if m := fencedBlockPattern.FindStringSubmatch(text); m != nil {
		if obj := parseObject(m[1]); obj != nil {
			return obj
		}
	}

	if candidate := firstBalancedObject(text); candidate != "" {
		if obj := parseObject(candidate); obj != nil {
			return obj
		}
	}

	return nil
}

// parseObject attempts to unmarshal a candidate string, repairing common
// escaping mistakes (literal newlines inside string values) on the second try.
func parseObject(candidate string) map[string]interface{} {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || candidate[0] != '{' {
		return nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
		return obj
	}

	repaired := fixJSONEscaping(candidate)
	if err := json.Unmarshal([]byte(repaired), &obj); err == nil {
		return obj
	}

	return nil
}

// firstBalancedObject returns the first {...} substring with balanced braces,
// ignoring braces inside string literals. Returns "" if none is found.
func firstBalancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}

// fixJSONEscaping escapes literal control characters that models sometimes
// emit inside JSON string values, which Go's parser rejects.
func fixJSONEscaping(jsonStr string) string {
	re := regexp.MustCompile(`"([^"]*(?:\\.[^"]*)*)"`)

	return re.ReplaceAllStringFunc(jsonStr, func(match string) string {
		if len(match) < 2 {
			return match
		}

		content := match[1 : len(match)-1]

		// Order matters: fix invalid escapes before inserting new ones
		content = strings.ReplaceAll(content, "\\ ", "\\\\ ")
		content = strings.ReplaceAll(content, "\n", "\\n")
		content = strings.ReplaceAll(content, "\r", "\\r")
		content = strings.ReplaceAll(content, "\t", "\\t")
		content = strings.ReplaceAll(content, "\f", "\\f")
		content = strings.ReplaceAll(content, "\b", "\\b")

		var builder strings.Builder
		for _, ch := range content {
			if ch < 0x20 {
				builder.WriteString(fmt.Sprintf("\\u%04x", ch))
			} else {
				builder.WriteRune(ch)
			}
		}

		return `"` + builder.String() + `"`
	})
}

// StripCodeFences removes a surrounding markdown code fence from model text.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
