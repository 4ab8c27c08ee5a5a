package analysis

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from a feed-supplied HTML fragment.
func PlainText(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Summarize builds a compact summary from a feed entry's HTML: strip markup,
// keep sentences between 30 and 500 characters, join the first four.
func Summarize(html string) string {
	if html == "" {
		return "No summary content available."
	}

	text := PlainText(html)
	var meaningful []string
	for _, sentence := range splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > 30 && len(sentence) < 500 {
			meaningful = append(meaningful, sentence)
		}
		if len(meaningful) == 4 {
			break
		}
	}

	if len(meaningful) == 0 {
		return "A brief summary could not be generated from the provided text."
	}
	return strings.Join(meaningful, " ")
}

// splitSentences breaks text after terminal punctuation followed by
// whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				sentences = append(sentences, string(runes[start:i+1]))
				start = i + 1
			}
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}
