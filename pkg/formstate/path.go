package formstate

import "strings"

// Get resolves a dotted path against a nested value map.
func Get(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := node[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Set writes a value at a dotted path, creating intermediate maps as needed.
func Set(root map[string]any, path string, value any) {
	if root == nil || path == "" {
		return
	}
	segments := strings.Split(path, ".")
	node := root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}

// Delete removes a value at a dotted path. Empty intermediate maps are left
// in place; they carry no meaning for validation or payloads.
func Delete(root map[string]any, path string) {
	if root == nil || path == "" {
		return
	}
	segments := strings.Split(path, ".")
	node := root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			return
		}
		node = child
	}
	delete(node, segments[len(segments)-1])
}

// Flatten converts a nested value map into dotted-path keys. Nested maps
// recurse; every other value is kept as-is.
func Flatten(root map[string]any) map[string]any {
	out := make(map[string]any, len(root))
	flattenInto(out, "", root)
	return out
}

func flattenInto(dest map[string]any, prefix string, node map[string]any) {
	for key, value := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := value.(map[string]any); ok {
			flattenInto(dest, path, child)
			continue
		}
		dest[path] = value
	}
}

// StringAt resolves a path and coerces the value to a trimmed string. Missing
// or non-string values yield "".
func StringAt(root map[string]any, path string) string {
	value, ok := Get(root, path)
	if !ok {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
