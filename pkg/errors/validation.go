package errors

import (
	"strings"
	"unicode"
)

// ValidateSlug validates a slug used in URLs and option keys (post type
// slugs, taxonomy slugs, term slugs). It rejects values that could be used
// for path traversal or injection.
//
// The validation rules are intentionally conservative:
//   - No empty values
//   - Lowercase letters, digits, '_' and '-' only
//   - Maximum length of 128 characters
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidInput, "slug cannot be empty")
	}

	if len(slug) > 128 {
		return New(ErrCodeInvalidInput, "slug too long (max 128 characters)")
	}

	for _, r := range slug {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-' {
			continue
		}
		return New(ErrCodeInvalidInput, "slug contains invalid character %q", r)
	}

	return nil
}

// ValidateRequestPath validates a raw request path before it is split into
// segments. It ensures the path cannot escape the site root.
func ValidateRequestPath(path string) error {
	if len(path) > 2048 {
		return New(ErrCodeInvalidPath, "path too long (max 2048 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(path, pattern) {
			return New(ErrCodeInvalidPath, "path contains invalid sequence: %q", pattern)
		}
	}

	return nil
}
