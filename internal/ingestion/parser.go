package ingestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/tidwall/gjson"
)

// ErrEmptyResult is returned when a document parses but holds nothing usable.
var ErrEmptyResult = errors.New("empty result")

// ParseError reports a malformed upload. Line is the 1-based position among
// the non-blank, non-comment lines when the line-oriented fallback failed,
// and 0 otherwise.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Entries splits an uploaded document into its top-level entries.
//
// A whole JSON document is tried first: an array yields its elements, an
// object yields the first property (in document order) holding a non-empty
// array of objects or arrays, and any other object is a single entry. When
// the document is not valid JSON it is read as JSON Lines, skipping blank
// lines and lines starting with '#'.
func Entries(text string) ([]gjson.Result, error) {
	if gjson.Valid(text) {
		return documentEntries(gjson.Parse(text)), nil
	}
	return lineEntries(text)
}

func documentEntries(doc gjson.Result) []gjson.Result {
	if doc.IsArray() {
		return doc.Array()
	}
	if doc.IsObject() {
		var wrapped []gjson.Result
		doc.ForEach(func(_, value gjson.Result) bool {
			if !value.IsArray() {
				return true
			}
			items := value.Array()
			if len(items) == 0 || !structured(items[0]) {
				return true
			}
			wrapped = items
			return false
		})
		if wrapped != nil {
			return wrapped
		}
	}
	return []gjson.Result{doc}
}

// structured matches objects, arrays and null, the values a wrapper property
// may start with.
func structured(v gjson.Result) bool {
	return v.IsObject() || v.IsArray() || v.Type == gjson.Null
}

func lineEntries(text string) ([]gjson.Result, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, line)
	}

	entries := make([]gjson.Result, 0, len(lines))
	for i, line := range lines {
		var raw json.RawMessage
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, &ParseError{Line: i + 1, Message: err.Error()}
		}
		entries = append(entries, gjson.ParseBytes(raw))
	}
	return entries, nil
}

// ParseRecords decodes an uploaded usage export. Either every entry decodes
// or the call fails.
func ParseRecords(text string) ([]v1.UsageRecord, error) {
	entries, err := Entries(text)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: parsed result is empty", ErrEmptyResult)
	}

	records := make([]v1.UsageRecord, len(entries))
	for i, entry := range entries {
		if !entry.IsObject() {
			return nil, &ParseError{Message: fmt.Sprintf("record %d: expected an object, got %s", i+1, kind(entry))}
		}
		if err := json.Unmarshal([]byte(entry.Raw), &records[i]); err != nil {
			return nil, &ParseError{Message: fmt.Sprintf("record %d: %v", i+1, err)}
		}
	}
	return records, nil
}

func kind(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.Type == gjson.Null:
		return "null"
	case v.Type == gjson.True, v.Type == gjson.False:
		return "boolean"
	default:
		return strings.ToLower(v.Type.String())
	}
}
