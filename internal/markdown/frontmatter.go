package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// ParseFrontMatter extracts a leading front matter block from source. It
// returns the decoded keys and the remaining body. Sources without front
// matter come back unchanged with an empty map.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// extractFrontMatter maps scalar front matter keys onto head tags in sorted
// key order. "title" is treated as web_title.
func extractFrontMatter(source []byte) ([]Tag, string, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, "", err
	}
	if len(meta) == 0 {
		return nil, string(body), nil
	}

	tags := make([]Tag, 0, len(meta))
	for _, key := range slices.Sorted(maps.Keys(meta)) {
		value, ok := scalarString(meta[key])
		if !ok {
			continue
		}
		name := key
		if name == "title" {
			name = WebTitleKey
		}
		tags = append(tags, Tag{Key: name, Value: strings.TrimSpace(value), Kind: ClassifyKey(name)})
	}
	return tags, string(body), nil
}

// scalarString flattens front matter values. Lists of scalars are joined
// with ", "; nested maps are skipped.
func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case time.Time:
		return v.Format(time.RFC3339), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := scalarString(item)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ", "), true
	case []string:
		return strings.Join(v, ", "), true
	default:
		return "", false
	}
}
