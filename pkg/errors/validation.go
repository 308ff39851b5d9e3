package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// fileKeyRegex matches design-file keys as issued by the Figma API.
// Keys are 22 alphanumeric characters; a few legacy files carry longer keys,
// so the upper bound is generous.
var fileKeyRegex = regexp.MustCompile(`^[A-Za-z0-9]{22,128}$`)

// ValidateFileKey validates a design-file key for safety and correctness.
// It rejects keys that could be used for path traversal or URL injection
// when interpolated into API request paths.
func ValidateFileKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidRef, "file key cannot be empty")
	}
	if !fileKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidRef, "invalid file key: %q", key)
	}
	return nil
}

// nodeIDRegex matches canonical (colon-form) node identifiers, e.g. "0:1"
// or "I123:456;789:10" for instance sub-nodes.
var nodeIDRegex = regexp.MustCompile(`^I?[0-9]+:[0-9]+(;[0-9]+:[0-9]+)*$`)

// ValidateNodeID validates a node identifier in the API's colon form.
// Dash-form IDs from share URLs must be normalized before validation.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidRef, "node id cannot be empty")
	}
	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidRef, "invalid node id: %q (expected colon form like 0:1)", id)
	}
	return nil
}

// ValidateOutputPath validates a local output path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "output path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
