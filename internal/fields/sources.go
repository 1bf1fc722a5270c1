package fields

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Source looks up a value by dotted path. A missing path yields "".
type Source interface {
	Lookup(path string) string
}

// Sources maps source names (profile, activity, signer, ...) to their data.
type Sources map[string]Source

// MapSource is a Source over decoded JSON-like data.
type MapSource map[string]any

// Lookup walks path segment by segment; numeric segments index into lists.
// Lists render as ", "-joined scalars.
func (m MapSource) Lookup(path string) string {
	var cur any = map[string]any(m)
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return ""
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return ""
			}
			cur = node[i]
		default:
			return ""
		}
	}
	return render(cur)
}

func render(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		if t {
			return "true"
		}
		return ""
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(render(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(t, ", ")
	default:
		return ""
	}
}

// StructSource converts any JSON-encodable value into a MapSource keyed by its JSON field names.
func StructSource(v any) MapSource {
	data, err := json.Marshal(v)
	if err != nil {
		return MapSource{}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return MapSource{}
	}
	return MapSource(m)
}

// StringSource is a flat Source keyed by exact path.
type StringSource map[string]string

func (s StringSource) Lookup(path string) string {
	return s[path]
}
