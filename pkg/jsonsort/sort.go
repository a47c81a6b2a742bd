package jsonsort

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"golang.org/x/exp/slices"
)

// Indent is the per-level indentation of rewritten files.
const Indent = "  "

// Entry is one top-level member of a translation object. Value keeps the
// member's raw JSON text.
type Entry struct {
	Key   string
	Value gjson.Result
}

// Parse reads the top-level members of a JSON object in document order.
// When a key repeats, the last value wins and the first position is kept.
func Parse(content []byte) ([]Entry, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidJSON)
	}
	if !gjson.ValidBytes(content) {
		return nil, syntaxError(content)
	}
	root := gjson.ParseBytes(content)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, describe(root))
	}

	index := map[string]int{}
	var entries []Entry
	root.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if i, ok := index[k]; ok {
			entries[i].Value = value
			return true
		}
		index[k] = len(entries)
		entries = append(entries, Entry{Key: k, Value: value})
		return true
	})
	return entries, nil
}

// SortEntries returns a copy of entries ordered by key. Comparison is
// byte-wise, which for UTF-8 is code-point order: "Z" sorts before "a".
func SortEntries(entries []Entry) []Entry {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b Entry) int {
		return strings.Compare(a.Key, b.Key)
	})
	return sorted
}

// Marshal serializes entries, in the given order, as an object indented
// with two spaces. Nested values are re-indented at the same width. There is
// no trailing newline.
func Marshal(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return []byte("{}"), nil
	}
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			compact.WriteByte(',')
		}
		key, err := encodeKey(e.Key)
		if err != nil {
			return nil, err
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.WriteString(e.Value.Raw)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", Indent); err != nil {
		return nil, fmt.Errorf("failed to format sorted object: %w", err)
	}
	return out.Bytes(), nil
}

// Sort is the whole transform: parse, order by key, serialize. It returns
// the new content and the sorted entries.
func Sort(content []byte) ([]byte, []Entry, error) {
	entries, err := Parse(content)
	if err != nil {
		return nil, nil, err
	}
	sorted := SortEntries(entries)
	out, err := Marshal(sorted)
	if err != nil {
		return nil, nil, err
	}
	return out, sorted, nil
}

// encodeKey quotes a key the way JSON.stringify does: no HTML escaping.
func encodeKey(key string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return nil, fmt.Errorf("failed to encode key %q: %w", key, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func syntaxError(content []byte) error {
	var v any
	if err := json.Unmarshal(content, &v); err != nil {
		var se *json.SyntaxError
		if errors.As(err, &se) {
			return fmt.Errorf("%w: %v (at byte %d)", ErrInvalidJSON, err, se.Offset)
		}
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return ErrInvalidJSON
}

func describe(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.Type == gjson.String:
		return "string"
	case r.Type == gjson.Number:
		return "number"
	case r.Type == gjson.True, r.Type == gjson.False:
		return "boolean"
	case r.Type == gjson.Null:
		return "null"
	default:
		return "unknown value"
	}
}
