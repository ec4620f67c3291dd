package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxTextLength is the longest node text accepted from users.
const MaxTextLength = 1024

// ValidateNodeText validates user-supplied node text.
//
// The rules are intentionally small:
//   - No empty (or whitespace-only) text
//   - No control characters other than newline and tab
//   - Maximum length of MaxTextLength bytes
func ValidateNodeText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "node text cannot be empty")
	}

	if len(text) > MaxTextLength {
		return New(ErrCodeInvalidInput, "node text too long (max %d characters)", MaxTextLength)
	}

	for _, r := range text {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node text contains invalid control characters")
		}
	}

	return nil
}

// ValidateMapID validates a map identifier as issued by the server (a UUID).
func ValidateMapID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "map id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid map id %q", id)
	}
	return nil
}
