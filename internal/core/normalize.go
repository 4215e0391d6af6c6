package core

import "strings"

// SplitLines splits a transcription into trimmed, non-empty lines.
// The model may wrap the table in narrative text; those lines are kept and
// left for layout validation to catch.
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(strings.TrimSuffix(l, "\r"))
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// NormalizeLines is SplitLines plus the minimum-size check.
func NormalizeLines(text string) ([]string, error) {
	lines := SplitLines(text)
	if len(lines) < MinLines {
		return nil, &InsufficientDataError{Lines: len(lines)}
	}
	return lines, nil
}
