package render

import (
	"strconv"
	"strings"

	"github.com/doron007/realtechee-forms/pkg/model"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages keyed by the dotted field paths used throughout the pipeline.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	return dedupeMessages(append(append([]string{}, existing...), extras...))
}

// MapErrorPayload normalises backend error payloads (including JSON-pointer
// style paths) onto the definition's dotted field paths. Unknown paths are
// treated as form-level errors so messages are not lost.
func MapErrorPayload(def model.FormDefinition, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		return mapping
	}

	known := knownPaths(def)
	for rawPath, messages := range payload {
		cleaned := dedupeMessages(messages)
		if len(cleaned) == 0 {
			continue
		}
		if path, ok := resolveFieldPath(rawPath, known); ok {
			mapping.Fields[path] = append(mapping.Fields[path], cleaned...)
		} else {
			mapping.Form = append(mapping.Form, cleaned...)
		}
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = dedupeMessages(mapping.Form)
	return mapping
}

// knownPaths indexes the definition's dotted paths. Composite members also
// resolve via their group prefix.
func knownPaths(def model.FormDefinition) map[string]struct{} {
	known := make(map[string]struct{})
	for _, path := range def.FieldPaths() {
		known[path] = struct{}{}
		if idx := strings.Index(path, "."); idx > 0 {
			known[path[:idx]] = struct{}{}
		}
	}
	return known
}

func dedupeMessages(messages []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// resolveFieldPath maps one backend error key onto a known dotted path. It
// tries the raw segments plus variants with leading wrapper segments
// (body, payload, ...) and numeric array indices removed, and keeps the
// deepest match any variant produces.
func resolveFieldPath(raw string, known map[string]struct{}) (string, bool) {
	key := strings.TrimSpace(raw)
	if isFormLevelKey(key) {
		return "", false
	}

	segments := splitErrorPath(key)
	if len(segments) == 0 {
		return "", false
	}

	best := ""
	for _, dropWrappers := range []bool{false, true} {
		for _, dropIndices := range []bool{false, true} {
			variant := segments
			if dropWrappers {
				variant = trimWrapperPrefix(variant)
			}
			if dropIndices {
				variant = withoutNumericSegments(variant)
			}
			if match := deepestKnownPrefix(variant, known); match != "" {
				if strings.Count(match, ".") > strings.Count(best, ".") ||
					(strings.Count(match, ".") == strings.Count(best, ".") && len(match) > len(best)) {
					best = match
				}
			}
		}
	}

	return best, best != ""
}

// splitErrorPath tokenizes dotted, slashed, JSON-pointer, and bracketed path
// notations into plain segments.
func splitErrorPath(raw string) []string {
	clean := strings.TrimSpace(raw)
	for len(clean) > 0 && strings.ContainsRune("#/$.", rune(clean[0])) {
		clean = clean[1:]
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		// JSON-pointer escapes.
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		segments = append(segments, segment)
	}
	return segments
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"input":      {},
	"attributes": {},
}

func trimWrapperPrefix(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, wrapper := wrapperSegments[strings.ToLower(out[0])]; !wrapper {
			break
		}
		out = out[1:]
	}
	return out
}

func withoutNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func deepestKnownPrefix(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(key) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	}
	return false
}
