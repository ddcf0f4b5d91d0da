package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of an AST dump.
type Format string

// Supported AST dump formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the dump format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// reserved keys are consumed by the node header and never become children.
var reserved = map[string]bool{"type": true, "start": true, "end": true, "parent": true}

// Decode reads an AST dump and returns its linked root.
//
// Any object carrying a "type" key is a node and must also carry integer
// "start" and "end" offsets. A scalar "name" becomes Node.Name, other
// scalars land in Node.Attrs, and nested nodes (directly, inside arrays or
// inside untyped objects) become children tagged with the key they were
// found under.
func Decode(r io.Reader, format Format) (*Node, error) {
	var raw any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode JSON AST: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode YAML AST: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported AST format %q", format)
	}

	obj, ok := asObject(raw)
	if !ok {
		return nil, fmt.Errorf("decode(): root is not an object: %w", ErrMalformedNode)
	}
	root, err := buildNode(obj, "$")
	if err != nil {
		return nil, err
	}
	return Link(root), nil
}

// DecodeJSON is Decode with FormatJSON.
func DecodeJSON(r io.Reader) (*Node, error) {
	return Decode(r, FormatJSON)
}

// DecodeYAML is Decode with FormatYAML.
func DecodeYAML(r io.Reader) (*Node, error) {
	return Decode(r, FormatYAML)
}

func buildNode(obj map[string]any, path string) (*Node, error) {
	typ, _ := obj["type"].(string)
	if typ == "" {
		return nil, fmt.Errorf("decode(): %s has no string \"type\": %w", path, ErrMalformedNode)
	}
	start, ok := toInt(obj["start"])
	if !ok {
		return nil, fmt.Errorf("decode(): %s (%s) has no integer \"start\": %w", path, typ, ErrMalformedNode)
	}
	end, ok := toInt(obj["end"])
	if !ok {
		return nil, fmt.Errorf("decode(): %s (%s) has no integer \"end\": %w", path, typ, ErrMalformedNode)
	}

	n := &Node{Type: NodeType(typ), Start: start, End: end}
	if err := Validate(n, "decode"); err != nil {
		return nil, err
	}
	if err := collect(n, obj, path); err != nil {
		return nil, err
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Start < n.Children[j].Start
	})
	return n, nil
}

// collect walks the non-header keys of obj and attaches what it finds to n.
func collect(n *Node, obj map[string]any, path string) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := attach(n, key, obj[key], path+"."+key); err != nil {
			return err
		}
	}
	return nil
}

func attach(n *Node, field string, v any, path string) error {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		for i, item := range val {
			if err := attach(n, field, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	}

	if obj, ok := asObject(v); ok {
		if _, typed := obj["type"]; !typed {
			// Untyped wrapper: its nodes belong to n under the outer key.
			for _, inner := range sortedValues(obj) {
				if !isComposite(inner) {
					continue
				}
				if err := attach(n, field, inner, path); err != nil {
					return err
				}
			}
			return nil
		}
		child, err := buildNode(obj, path)
		if err != nil {
			return err
		}
		child.Field = field
		n.Children = append(n.Children, child)
		return nil
	}

	if field == FieldName {
		if s, ok := v.(string); ok {
			n.Name = s
			return nil
		}
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[field] = normalizeScalar(v)
	return nil
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func isComposite(v any) bool {
	if _, ok := v.([]any); ok {
		return true
	}
	_, ok := asObject(v)
	return ok
}

func sortedValues(obj map[string]any) []any {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, obj[k])
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func normalizeScalar(v any) any {
	num, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := num.Int64(); err == nil {
		return int(i)
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}
