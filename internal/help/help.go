// Package help holds the embedded usage text of the terminal front end.
package help

import (
	_ "embed"
	"strings"
)

//go:embed USAGE.md
var Usage string

// Topics returns the section titles of Usage in order.
func Topics() []string {
	var topics []string
	for _, line := range strings.Split(Usage, "\n") {
		if title, ok := strings.CutPrefix(line, "## "); ok {
			topics = append(topics, strings.ToLower(strings.TrimSpace(title)))
		}
	}
	return topics
}

// Section returns the body of the "## title" section, matched
// case-insensitively.
func Section(title string) (string, bool) {
	title = strings.ToLower(strings.TrimSpace(title))
	var sb strings.Builder
	in := false
	for _, line := range strings.Split(Usage, "\n") {
		if h, ok := strings.CutPrefix(line, "## "); ok {
			if in {
				break
			}
			in = strings.ToLower(strings.TrimSpace(h)) == title
			continue
		}
		if in {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	if !in {
		return "", false
	}
	return strings.TrimSpace(sb.String()), true
}
