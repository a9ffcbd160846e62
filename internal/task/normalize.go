package task

import (
	"regexp"
	"strings"
)

// Generated text arrives wrapped in markdown fences and narration often
// enough that cleanup is part of the planner's contract, not incidental
// string handling. The rules are deterministic:
//
//  1. If the text contains a triple-backtick fence, the content of the first
//     fenced block is taken and everything outside it is discarded. A
//     language tag on the opening fence line is dropped.
//  2. Otherwise, a single leading narration line ("here is the code:",
//     "sure, ..." and similar) is removed.
//
// Trailing and leading blank space is trimmed either way.

var preamblePattern = regexp.MustCompile(`(?i)^(here('s| is)|sure|certainly|below is|this is)\b.*[:.!]\s*$`)

// Normalize strips markdown fences and leading narration from generated
// source text.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if block, ok := firstFencedBlock(text); ok {
		return strings.TrimRight(block, "\n") + "\n"
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 1 && preamblePattern.MatchString(strings.TrimSpace(lines[0])) {
		lines = lines[1:]
	}

	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

// firstFencedBlock extracts the body of the first ``` block. An unterminated
// fence runs to the end of the text.
func firstFencedBlock(text string) (string, bool) {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			start = i
			break
		}
	}
	if start == -1 {
		return "", false
	}

	var body []string
	for _, line := range lines[start+1:] {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			break
		}
		body = append(body, line)
	}

	return strings.Join(body, "\n"), true
}
