package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown strips an outer code fence so narrative prose renders as
// plain markdown. Models frequently wrap whole answers in ```markdown.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	for _, label := range []string{"```markdown", "```md", "```"} {
		if strings.HasPrefix(cleaned, label) && strings.HasSuffix(cleaned, "```") {
			cleaned = strings.TrimPrefix(cleaned, label)
			cleaned = strings.TrimSuffix(cleaned, "```")
			return strings.TrimSpace(cleaned)
		}
	}
	return cleaned
}

// ValidateMarkdown reports whether the string parses as markdown. Goldmark
// accepts almost anything, so this only rejects truly broken input.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}
