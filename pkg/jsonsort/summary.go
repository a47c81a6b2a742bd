package jsonsort

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

const (
	previewCount    = 5
	previewMaxRunes = 50
)

// KeyPreview is one line of the summary. Index is 1-based in sorted order.
type KeyPreview struct {
	Index int    `json:"index" yaml:"index"`
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Summary lets a human check the result of a sort at a glance.
type Summary struct {
	File     string       `json:"file" yaml:"file"`
	Path     string       `json:"path" yaml:"path"`
	KeyCount int          `json:"keyCount" yaml:"keyCount"`
	First    []KeyPreview `json:"first" yaml:"first"`
	// Last is only filled when there are more than five keys.
	Last []KeyPreview `json:"last,omitempty" yaml:"last,omitempty"`
}

// NewSummary previews the first five and, past five keys, the last five of
// the sorted entries.
func NewSummary(sorted []Entry) *Summary {
	s := &Summary{KeyCount: len(sorted), First: []KeyPreview{}}
	for i := 0; i < len(sorted) && i < previewCount; i++ {
		s.First = append(s.First, preview(i, sorted[i]))
	}
	if len(sorted) > previewCount {
		for i := len(sorted) - previewCount; i < len(sorted); i++ {
			s.Last = append(s.Last, preview(i, sorted[i]))
		}
	}
	return s
}

func preview(i int, e Entry) KeyPreview {
	return KeyPreview{Index: i + 1, Key: e.Key, Value: Truncate(displayValue(e.Value), previewMaxRunes)}
}

// displayValue shows strings decoded and everything else as compact JSON.
func displayValue(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(v.Raw)); err != nil {
		return v.Raw
	}
	return buf.String()
}

// Truncate shortens s to max runes and marks the cut with "...".
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// WriteText prints the summary in the plain console layout.
func (s *Summary) WriteText(w io.Writer) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "File contains %d translation keys\n", s.KeyCount)
	fmt.Fprintf(&buf, "%s has been sorted in alphabetical order!\n", s.File)
	if len(s.First) > 0 {
		fmt.Fprintf(&buf, "First %d keys:\n", previewCount)
		writePreviews(&buf, s.First)
	}
	if len(s.Last) > 0 {
		fmt.Fprintf(&buf, "\nLast %d keys:\n", previewCount)
		writePreviews(&buf, s.Last)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writePreviews(buf *bytes.Buffer, previews []KeyPreview) {
	for _, p := range previews {
		fmt.Fprintf(buf, "   %d. %s: %q\n", p.Index, p.Key, p.Value)
	}
}

// Rows returns the previews as table rows (index, key, value).
func (s *Summary) Rows() [][]string {
	var rows [][]string
	for _, p := range append(append([]KeyPreview{}, s.First...), s.Last...) {
		rows = append(rows, []string{fmt.Sprint(p.Index), p.Key, p.Value})
	}
	return rows
}
