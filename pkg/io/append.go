package io

import (
	"errors"
	"fmt"
	"os"
	"strings"

	deperrors "github.com/matzehuels/depgraph/pkg/errors"
)

// emptyGraph is the content of a freshly initialised graph file.
var emptyGraph = [2]string{"digraph {\n", "}\n"}

// Append adds one record to the graph file at path, as a build step does
// once per configured component.
//
// If the file does not exist it is initialised to an empty graph first.
// The last line of the file (the closing brace) is replaced by the encoded
// record followed by a new closing brace, so the file is a valid graph
// after every call. Names are validated so that the appended line decodes
// back to the same record.
func Append(path string, r Record) error {
	if err := validateRecord(r); err != nil {
		return err
	}

	lines, err := readLines(path)
	if errors.Is(err, os.ErrNotExist) {
		lines = []string{emptyGraph[0], emptyGraph[1]}
	} else if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(lines) == 0 {
		lines = []string{emptyGraph[0], emptyGraph[1]}
	}

	lines[len(lines)-1] = EncodeLine(r) + "\n"
	lines = append(lines, emptyGraph[1])

	if err := os.WriteFile(path, []byte(strings.Join(lines, "")), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Reset deletes the graph file at path so the next [Append] starts a new
// graph. A missing file is not an error.
func Reset(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reset %s: %w", path, err)
	}
	return nil
}

// readLines returns the file's lines, each keeping its trailing newline.
// A final line without a newline gets one.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.SplitAfter(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		lines[n-1] += "\n"
	}
	return lines, nil
}

func validateRecord(r Record) error {
	if err := deperrors.ValidateTypeName(r.Type); err != nil {
		return err
	}
	if err := deperrors.ValidateComponentName(r.Name); err != nil {
		return err
	}
	if err := deperrors.ValidateDisplayName(r.DisplayName); err != nil {
		return err
	}
	for _, d := range r.Deps {
		if err := deperrors.ValidateComponentName(d); err != nil {
			return deperrors.Wrap(deperrors.ErrCodeInvalidInput, err, "dependency of %s", r.Name)
		}
	}
	return nil
}
