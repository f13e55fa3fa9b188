package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateComponentName validates a component name before it is written
// into a graph file. The line format quotes names and separates
// dependencies with commas, so names containing either cannot be
// round-tripped and are rejected.
//
// The validation rules are:
//   - No empty names
//   - No control characters
//   - No double quotes, commas, or square/curly brackets
//   - Maximum length of 256 characters
func ValidateComponentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "component name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "component name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "component name contains invalid control characters")
		}
	}

	if i := strings.IndexAny(name, `",[]{}`); i >= 0 {
		return New(ErrCodeInvalidInput, "component name %q contains reserved character %q", name, name[i])
	}

	return nil
}

// typeNameRegex matches component type labels such as "lib" or "examples".
var typeNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTypeName validates a component type label.
func ValidateTypeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "component type cannot be empty")
	}
	if !typeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid component type: %q", name)
	}
	return nil
}

// ValidateDisplayName validates an optional display name. The empty
// string is accepted and means "same as the component name".
func ValidateDisplayName(name string) error {
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, `",[]`) {
		return New(ErrCodeInvalidInput, "display name %q contains reserved characters", name)
	}
	return nil
}
