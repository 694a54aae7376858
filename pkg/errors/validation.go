package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateAnchorName validates an anchor name used as a key in an anchor set.
//
// Anchor names appear verbatim inside canonical column ids, so the rules are
// conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateAnchorName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "anchor name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "anchor name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "anchor name %q contains invalid control characters", name)
		}
	}

	return nil
}

// ValidatePattern checks that pattern compiles as a regular expression.
// Selector name and annotation patterns are validated with it before use.
func ValidatePattern(pattern string) error {
	if _, err := regexp.Compile(pattern); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid pattern %q", pattern)
	}
	return nil
}

// ValidatePath validates an input or output file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Stdin marker is handled by the caller
	if strings.TrimSpace(path) != path {
		return New(ErrCodeInvalidPath, "path %q has leading or trailing whitespace", path)
	}

	return nil
}
