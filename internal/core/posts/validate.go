package posts

import (
	"fmt"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

// Content limits. Length counts grapheme clusters, so a ZWJ sequence or a
// flag counts as one character the way it renders as one glyph.
const (
	minContentLength = 1
	maxContentLength = 280
)

// validateContent enforces the emoji-only content rule: 1-280 grapheme
// clusters, each of which must contain an emoji per gomoji's Unicode
// emoji tables. Plain letters, digits, and whitespace are rejected.
func validateContent(content string) error {
	if content == "" {
		return NewValidationError("content", "content is required")
	}

	count := 0
	gr := uniseg.NewGraphemes(content)
	for gr.Next() {
		count++
		if count > maxContentLength {
			return NewValidationError("content",
				fmt.Sprintf("content too long (max %d characters)", maxContentLength))
		}
		if !gomoji.ContainsEmoji(gr.Str()) {
			return NewValidationError("content", "content must contain only emojis")
		}
	}

	if count < minContentLength {
		return NewValidationError("content", "content is required")
	}

	return nil
}
