package llm

import (
	"fmt"

	"rssDigestBot/internal/infrastructure/html"
)

const promptTemplate = `Summarize this blog post for a messaging channel.

Title: %s
Link: %s

Content (may be partial):
%s

Output rules:
- 4–6 bullet points max
- then one line: "Why it matters: ..."
- no invented facts
- keep under 900 characters
`

// BuildPrompt renders the summarization prompt. The snippet is reduced to
// plain text and bounded before it is embedded.
func BuildPrompt(title, link, htmlSnippet string) string {
	return fmt.Sprintf(promptTemplate, title, link, html.PlainText(htmlSnippet, html.MaxSnippetChars))
}
