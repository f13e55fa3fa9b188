package io

import (
	"fmt"
	"strings"

	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/errors"
)

// Attribute keys understood by the line codec.
const (
	AttrType        = "dpdk_componentType"
	AttrStyle       = "style"
	AttrDisplayName = "dpdk_displayName"

	// styleOptional marks an edge group as optional when contained in the
	// style attribute value.
	styleOptional = "dotted"
)

// Record is one decoded line of a graph file: a component, its type, and
// one group of dependencies sharing the same optionality.
type Record struct {
	Name        string
	Type        string
	DisplayName string
	Optional    bool
	Deps        []string
}

// Group returns the record's dependencies as a [dag.EdgeGroup].
func (r Record) Group() dag.EdgeGroup {
	return dag.EdgeGroup{Optional: r.Optional, Deps: r.Deps}
}

// LineError reports a graph line that cannot be decoded. It is not
// recoverable: the whole read is aborted.
type LineError struct {
	Line   int    // 1-based line number, 0 when decoding a single line
	Text   string // the offending line
	Reason string
}

// Error implements the error interface.
func (e *LineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Text)
}

// Code returns [errors.ErrCodeMalformedLine].
func (e *LineError) Code() errors.Code { return errors.ErrCodeMalformedLine }

// DecodeLine parses a single edge record of the form
//
//	"name" -> { "dep1", "dep2" } [dpdk_componentType="lib",style="dotted"]
//
// or, for a component without dependencies,
//
//	"name" [dpdk_componentType="lib"]
//
// The attribute list is mandatory and must contain dpdk_componentType.
// A style attribute containing "dotted" marks the dependencies as optional.
// Attribute order does not matter; unknown attributes are ignored.
func DecodeLine(line string) (Record, error) {
	return decodeLine(line, "")
}

// decodeLine is DecodeLine with a fallback type, used inside clusters of
// classified output where the type is carried by the cluster label.
func decodeLine(line, defaultType string) (Record, error) {
	line = strings.TrimSpace(line)
	fail := func(reason string) (Record, error) {
		return Record{}, &LineError{Text: line, Reason: reason}
	}

	body, attrs, ok, err := splitAttrs(line)
	if err != nil {
		return fail(err.Error())
	}
	if !ok && defaultType == "" {
		return fail("missing attribute list")
	}

	r := Record{
		Type:        attrs[AttrType],
		DisplayName: attrs[AttrDisplayName],
		Optional:    strings.Contains(attrs[AttrStyle], styleOptional),
	}
	if r.Type == "" {
		r.Type = defaultType
	}
	if r.Type == "" {
		return fail("missing component type")
	}

	name, deps, hasArrow := strings.Cut(body, "->")
	r.Name = unquote(name)
	if r.Name == "" {
		return fail("missing component name")
	}
	r.Deps = []string{}
	if hasArrow {
		deps = strings.TrimSpace(deps)
		if !strings.HasPrefix(deps, "{") || !strings.HasSuffix(deps, "}") {
			return fail("dependency list must be enclosed in braces")
		}
		for _, d := range strings.Split(strings.Trim(deps, "{}"), ",") {
			if d = unquote(d); d != "" {
				r.Deps = append(r.Deps, d)
			}
		}
	}
	return r, nil
}

// splitAttrs separates the edge body from its trailing [key=value, ...]
// block. ok is false when the line has no attribute block.
func splitAttrs(line string) (body string, attrs map[string]string, ok bool, err error) {
	attrs = map[string]string{}
	first := strings.Index(line, "[")
	if first < 0 {
		return line, attrs, false, nil
	}
	last := strings.LastIndex(line, "]")
	if last < first {
		return "", nil, false, fmt.Errorf("unterminated attribute list")
	}
	for _, kv := range strings.Split(line[first+1:last], ",") {
		if strings.TrimSpace(kv) == "" {
			continue
		}
		k, v, found := strings.Cut(kv, "=")
		if !found {
			return "", nil, false, fmt.Errorf("attribute %q is not key=value", strings.TrimSpace(kv))
		}
		attrs[unquote(k)] = unquote(v)
	}
	return line[:first], attrs, true, nil
}

func unquote(s string) string {
	return strings.Trim(s, `" `)
}

// EncodeLine formats r as a single edge record. It is the inverse of
// [DecodeLine] for any record whose names contain no double quote or comma.
// No trailing newline is added.
func EncodeLine(r Record) string {
	var b strings.Builder
	b.WriteString(`"` + r.Name + `"`)
	if len(r.Deps) > 0 {
		b.WriteString(` -> { "`)
		b.WriteString(strings.Join(r.Deps, `", "`))
		b.WriteString(`" }`)
	}
	fmt.Fprintf(&b, ` [%s="%s"`, AttrType, r.Type)
	if r.Optional {
		fmt.Fprintf(&b, `,%s="%s"`, AttrStyle, styleOptional)
	}
	if r.DisplayName != "" {
		fmt.Fprintf(&b, `,%s="%s"`, AttrDisplayName, r.DisplayName)
	}
	b.WriteString("]")
	return b.String()
}

// IsStructural reports whether line carries no edge record: blank lines,
// the digraph header, closing braces, and the cluster and layout lines of
// classified output.
func IsStructural(line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "", line == "}":
		return true
	case strings.HasPrefix(line, "digraph") && strings.HasSuffix(line, "{"):
		return true
	case strings.HasPrefix(line, "subgraph") && strings.HasSuffix(line, "{"):
		return true
	case strings.HasPrefix(line, "//"), strings.HasPrefix(line, "#"):
		return true
	}
	_, ok := graphSetting(line)
	return ok
}

// graphSetting recognises bare graph-level "key=value" statements such as
// overlap=false or label = "lib". The value is returned unquoted.
func graphSetting(line string) (value string, ok bool) {
	if strings.Contains(line, "->") || strings.Contains(line, "[") || strings.HasPrefix(line, `"`) {
		return "", false
	}
	k, v, found := strings.Cut(line, "=")
	if !found {
		return "", false
	}
	switch strings.TrimSpace(k) {
	case "label", "overlap", "model", "rankdir", "compound":
		return unquote(strings.TrimSuffix(strings.TrimSpace(v), ";")), true
	}
	return "", false
}
