package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxIDLength is the longest person ID accepted at the boundary.
const MaxIDLength = 256

// ValidatePersonID validates a person ID received from outside the process.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 bytes
//
// IDs are otherwise opaque; numeric IDs from upstream arrive as strings.
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "person id cannot be empty")
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidInput, "person id too long (max %d characters)", MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "person id contains invalid control characters")
		}
	}

	return nil
}

// ValidateGridSize validates the horizontal grid size of the layout.
// Zero means "use the default" and is accepted.
func ValidateGridSize(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidOptions, "horizontal grid size must be a non-negative number, got %v", v)
	}
	return nil
}

// ValidateAttraction validates the relative attraction of the layout.
func ValidateAttraction(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidOptions, "relative attraction must be within [0, 1], got %v", v)
	}
	return nil
}

// ValidatePath validates a file path given on the command line or in a
// config file.
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

// ValidateURL validates a connection URL against a list of accepted schemes,
// for example "redis" and "rediss" for the cache or "mongodb" and
// "mongodb+srv" for the person source.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URL must use one of the schemes %s", strings.Join(schemes, ", "))
}
