package enrichment

import "strings"

// StripMarkdown reduces a model completion to plain text: code fences and
// heading/emphasis decoration are removed, lines are rejoined with single
// spaces.
func StripMarkdown(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```markdown")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || line == "```" {
			continue
		}
		line = strings.TrimLeft(line, "#")
		// Bullet markers
		for _, prefix := range []string{"- ", "* ", "+ "} {
			line = strings.TrimPrefix(line, prefix)
		}
		line = strings.NewReplacer("**", "", "__", "", "`", "").Replace(line)
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, " ")
}
