package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateRepertoireID validates a repertoire ID for safety and correctness.
// IDs double as file names in the file store and as URL path segments in the
// API, so names that could be used for path traversal are rejected.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 128 characters
//   - Only letters, digits, '.', '_' and '-'
func ValidateRepertoireID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "repertoire id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "repertoire id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "repertoire id contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "repertoire id contains invalid characters: %q", pattern)
		}
	}

	if !repertoireIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid repertoire id: %q", id)
	}

	return nil
}

var repertoireIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePath validates an input file path given on the command line or in
// configuration.
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

	return nil
}
