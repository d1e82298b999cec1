// Package treatment renders the free-text treatment plan returned by the
// follow-up endpoint into a rough heading/list structure for display.
//
// The text follows a simple convention: a bold-marked title (**Heading**)
// starts a section, followed by either a paragraph or a bullet list. Parsing
// is purely presentational; it never feeds back into stored state.
package treatment

import (
	"regexp"
	"strings"
)

// Section is one displayable block of the treatment plan. A section has a
// paragraph, a bullet list, or both (title line text followed by bullets).
type Section struct {
	Title     string
	Paragraph string
	Items     []string
}

var (
	titlePattern = regexp.MustCompile(`^\*\*(.+?)\*\*:?\s*(.*)$`)
	boldPattern  = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// Parse splits the treatment text into sections. It is side-effect free and
// total: malformed input degrades to a single untitled paragraph section.
func Parse(text string) []Section {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var (
		sections []Section
		current  *Section
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Paragraph = strings.TrimSpace(current.Paragraph)
		if current.Title != "" || current.Paragraph != "" || len(current.Items) > 0 {
			sections = append(sections, *current)
		}
		current = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if match := titlePattern.FindStringSubmatch(trimmed); match != nil {
			flush()
			// The colon usually sits inside the bold markers (**Diagnosis:**),
			// so the lazy group captures it with the title.
			title := strings.TrimSuffix(strings.TrimSpace(match[1]), ":")
			current = &Section{
				Title:     title,
				Paragraph: stripBold(match[2]),
			}
			continue
		}

		if current == nil {
			current = &Section{}
		}

		if item, ok := bulletItem(trimmed); ok {
			current.Items = append(current.Items, item)
			continue
		}

		if current.Paragraph != "" {
			current.Paragraph += " "
		}
		current.Paragraph += stripBold(trimmed)
	}
	flush()

	return sections
}

// bulletItem strips the bullet marker from a list line.
func bulletItem(line string) (string, bool) {
	for _, marker := range []string{"* ", "- ", "• "} {
		if strings.HasPrefix(line, marker) {
			return stripBold(strings.TrimSpace(strings.TrimPrefix(line, marker))), true
		}
	}
	return "", false
}

// stripBold removes the **...** emphasis markers while keeping the text.
func stripBold(s string) string {
	s = boldPattern.ReplaceAllString(s, "$1")
	return strings.TrimSpace(strings.TrimLeft(s, "*"))
}
