package pluginconf

import (
	"fmt"
	"sort"
)

// StringField is one string leaf inside a plugin's parameter structure,
// addressed by its concrete dotted path relative to the structure root.
type StringField struct {
	Path  string
	Value string
}

// StringFields walks a parameter structure depth-first and returns every
// string leaf with its concrete path. Object keys are visited in sorted order
// so repeated walks yield identical field ordering.
func StringFields(args any) []StringField {
	var fields []StringField
	walkStrings(args, "", &fields)
	return fields
}

func walkStrings(value any, path string, out *[]StringField) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkStrings(v[k], joinPath(path, k), out)
		}
	case []any:
		for i, elem := range v {
			walkStrings(elem, joinPath(path, fmt.Sprintf("%d", i)), out)
		}
	case string:
		if path != "" {
			*out = append(*out, StringField{Path: path, Value: v})
		}
	}
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

// FieldNode is one entry of the navigable field tree handed to the UI so a
// human can toggle per-field translatability.
type FieldNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Type     string      `json:"type"`
	Value    string      `json:"value,omitempty"`
	Children []FieldNode `json:"children,omitempty"`
}

// Inspect builds a field tree with inferred value types from a plugin's raw
// parameter structure. It is a read-only wrapper over the same traversal used
// for pattern matching, so paths shown to users match paths the matcher sees.
func Inspect(args any) []FieldNode {
	return inspectValue(args, "")
}

func inspectValue(value any, path string) []FieldNode {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		nodes := make([]FieldNode, 0, len(keys))
		for _, k := range keys {
			nodes = append(nodes, makeNode(k, joinPath(path, k), v[k]))
		}
		return nodes
	case []any:
		nodes := make([]FieldNode, 0, len(v))
		for i, elem := range v {
			name := fmt.Sprintf("%d", i)
			nodes = append(nodes, makeNode(name, joinPath(path, name), elem))
		}
		return nodes
	default:
		return nil
	}
}

func makeNode(name, path string, value any) FieldNode {
	node := FieldNode{Name: name, Path: path, Type: valueType(value)}
	switch v := value.(type) {
	case string:
		node.Value = v
	case map[string]any, []any:
		node.Children = inspectValue(value, path)
	}
	return node
}

func valueType(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
