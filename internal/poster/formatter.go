package poster

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// TwitterMaxLength is the maximum character count for a tweet.
	TwitterMaxLength = 280

	// AltTextMaxLength is the maximum character count for media alt text.
	AltTextMaxLength = 1000

	// partIndicatorLen reserves room for a " (n/m)" part suffix.
	partIndicatorLen = 10
)

// FitsInLimit checks if text fits within a character limit.
func FitsInLimit(text string, limit int) bool {
	return utf8.RuneCountInString(text) <= limit
}

// TruncateAltText trims alt text to the platform cap, cutting at a word
// boundary where one is close enough.
func TruncateAltText(alt string) string {
	if FitsInLimit(alt, AltTextMaxLength) {
		return alt
	}

	runes := []rune(alt)
	truncated := string(runes[:AltTextMaxLength-3])

	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > (AltTextMaxLength-3)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimRight(truncated, " .,;:!?") + "..."
}

// SplitReply splits reply text into tweet-sized parts. Text that fits in
// one tweet is returned as a single part; longer text becomes a numbered
// chain split at word boundaries.
func SplitReply(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if FitsInLimit(text, limit) {
		return []string{text}
	}

	perPart := limit - partIndicatorLen

	words := strings.Fields(text)
	var parts []string
	var current strings.Builder

	for _, word := range words {
		// A word that can't fit any part on its own is hard-split.
		if utf8.RuneCountInString(word) > perPart {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			runes := []rune(word)
			for len(runes) > perPart {
				parts = append(parts, string(runes[:perPart]))
				runes = runes[perPart:]
			}
			if len(runes) > 0 {
				current.WriteString(string(runes))
			}
			continue
		}

		add := word
		if current.Len() > 0 {
			add = " " + word
		}

		if utf8.RuneCountInString(current.String())+utf8.RuneCountInString(add) > perPart && current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
			current.WriteString(word)
			continue
		}
		current.WriteString(add)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	total := len(parts)
	if total == 1 {
		return parts
	}

	numbered := make([]string, total)
	for i, part := range parts {
		numbered[i] = fmt.Sprintf("%s (%d/%d)", part, i+1, total)
	}
	return numbered
}
