// Package extractor derives post text from a downloaded description file.
package extractor

import (
	"fmt"
	"os"
	"strings"
)

const (
	// altTextMaxChars caps alt text when the content has no sentence break.
	altTextMaxChars = 100

	fallbackBody = "No description available."
)

// Description is the derived text of a description file: a short excerpt
// used as image alt text and the full body used as the reply.
type Description struct {
	AltText  string
	FullText string
}

// Extractor turns description files into post text.
type Extractor struct {
	fallbackAlt string
}

// Config holds extractor configuration.
type Config struct {
	// FallbackAltText is used when a description file is empty.
	FallbackAltText string
}

// New creates an extractor.
func New(cfg Config) *Extractor {
	fallback := cfg.FallbackAltText
	if fallback == "" {
		fallback = "A recommended image"
	}
	return &Extractor{fallbackAlt: fallback}
}

// FromFile reads a description file and extracts its alt text and body.
// An empty file yields the fallback pair; an unreadable file is an error,
// which the caller treats as disqualifying the folder.
func (e *Extractor) FromFile(path string) (Description, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Description{}, fmt.Errorf("read description file: %w", err)
	}
	return e.FromText(string(content)), nil
}

// FromText extracts alt text and body from raw description content.
// Alt text is the first sentence when one exists, otherwise the first
// 100 characters, trimmed either way.
func (e *Extractor) FromText(content string) Description {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Description{AltText: e.fallbackAlt, FullText: fallbackBody}
	}

	alt := trimmed
	if idx := strings.Index(trimmed, "."); idx >= 0 {
		alt = trimmed[:idx]
	} else if len([]rune(trimmed)) > altTextMaxChars {
		alt = string([]rune(trimmed)[:altTextMaxChars])
	}

	alt = strings.TrimSpace(alt)
	if alt == "" {
		// Content like "...": publishing requires a non-empty excerpt.
		alt = e.fallbackAlt
	}

	return Description{
		AltText:  alt,
		FullText: trimmed,
	}
}
