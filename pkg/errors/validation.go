package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateEnvironmentPath validates an environment key, which is a directory
// path relative to the project root (e.g. "us-west-1/dev").
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateEnvironmentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "environment path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "environment path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "environment path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "environment path must be relative (cannot start with /): %q", path)
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "environment path cannot contain path traversal sequences (..): %q", path)
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "environment path cannot contain backslashes: %q", path)
	}

	return nil
}

// displayNameRegex matches names that are safe to use as output file stems.
var displayNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDisplayName validates an environment display name. The name becomes
// the stem of the generated diagram files, so it must be a plain basename.
func ValidateDisplayName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidEnvironment, "display name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidEnvironment, "display name too long (max 128 characters)")
	}
	if !displayNameRegex.MatchString(name) {
		return New(ErrCodeInvalidEnvironment, "invalid display name: %q", name)
	}
	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a display color in CSS hex notation.
func ValidateColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidEnvironment, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}
