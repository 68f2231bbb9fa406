package estimate

import (
	"encoding/json"
	"strings"
)

// extractObject locates and parses the first balanced JSON object in text.
// A ```json fenced block is tried first, then a bracket-matching scan over
// the whole text. Models routinely wrap the object in prose or fences, so
// both paths tolerate surrounding noise.
func extractObject(text string) (map[string]any, bool) {
	if obj, ok := extractFromCodeBlock(text); ok {
		return obj, true
	}
	return extractByBracketMatch(text)
}

// extractFromCodeBlock scans ```json (or bare ```) fenced blocks and parses
// the first one holding a JSON object.
func extractFromCodeBlock(text string) (map[string]any, bool) {
	const fence = "```"
	remaining := text

	for {
		openIdx := strings.Index(remaining, fence)
		if openIdx == -1 {
			return nil, false
		}

		blockStart := openIdx + len(fence)
		// Skip an optional language tag up to the first newline.
		if nl := strings.IndexByte(remaining[blockStart:], '\n'); nl >= 0 {
			blockStart += nl + 1
		}

		closeIdx := strings.Index(remaining[blockStart:], fence)
		if closeIdx == -1 {
			return nil, false
		}

		block := strings.TrimSpace(remaining[blockStart : blockStart+closeIdx])
		var obj map[string]any
		if err := json.Unmarshal([]byte(block), &obj); err == nil && obj != nil {
			return obj, true
		}

		remaining = remaining[blockStart+closeIdx+len(fence):]
	}
}

// extractByBracketMatch walks forward over every '{' in text, isolates the
// balanced object starting there via matchBraces, and returns the first one
// that parses.
func extractByBracketMatch(text string) (map[string]any, bool) {
	offset := 0
	for {
		braceIdx := strings.IndexByte(text[offset:], '{')
		if braceIdx == -1 {
			return nil, false
		}
		raw := text[offset+braceIdx:]

		if end, ok := matchBraces(raw); ok {
			var obj map[string]any
			if err := json.Unmarshal([]byte(raw[:end+1]), &obj); err == nil && obj != nil {
				return obj, true
			}
		}

		offset += braceIdx + 1
	}
}

// matchBraces returns the index of the closing '}' that matches the opening
// '{' at position 0, handling string literals (including escaped quotes),
// nested objects, and arrays. Curly-brace depth and square-bracket depth are
// tracked independently. Returns (index, true) on success or (0, false) if
// unmatched.
func matchBraces(s string) (int, bool) {
	if len(s) == 0 || s[0] != '{' {
		return 0, false
	}

	braceDepth := 0
	bracketDepth := 0
	inString := false
	i := 0

	for i < len(s) {
		ch := s[i]

		if inString {
			if ch == '\\' {
				// Skip the escaped character.
				i += 2
				continue
			}
			if ch == '"' {
				inString = false
			}
			i++
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			braceDepth++
		case '}':
			braceDepth--
			if braceDepth == 0 && bracketDepth == 0 {
				return i, true
			}
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
		}
		i++
	}

	return 0, false
}

// excerpt truncates s for inclusion in error messages.
func excerpt(s string) string {
	const max = 120
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
