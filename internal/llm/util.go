// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock strips markdown fences, conversational preamble and trailing
// chatter around the JSON value in a model response. When the prose itself
// contains brackets, the longest bracketed span wins. If the value is never
// closed, everything from its opening bracket is returned so a repair pass
// can finish it.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	start, end := locateJSON(text)
	if start < 0 {
		return text
	}
	return text[start:end]
}

// locateJSON returns the bounds of the longest balanced object or array in
// text, or of the unterminated remainder from the first bracket that never
// closes. Candidates nested inside an earlier span are skipped.
func locateJSON(text string) (int, int) {
	bestStart, bestEnd := -1, -1
	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		end := len(text)
		if span := extractBalanced(text[i:]); span != "" {
			end = i + len(span)
		}
		if end-i > bestEnd-bestStart {
			bestStart, bestEnd = i, end
		}
		i = end - 1
	}
	return bestStart, bestEnd
}

func stripCodeFence(text string) string {
	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// extractBalanced returns the bracketed value at the start of s, or "" if it
// never closes. Brackets inside strings and comments are ignored.
func extractBalanced(s string) string {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
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
		case '/':
			if i+1 < len(s) && s[i+1] == '/' {
				nl := strings.IndexByte(s[i:], '\n')
				if nl < 0 {
					return ""
				}
				i += nl
			} else if i+1 < len(s) && s[i+1] == '*' {
				closeAt := strings.Index(s[i+2:], "*/")
				if closeAt < 0 {
					return ""
				}
				i += closeAt + 3
			}
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
