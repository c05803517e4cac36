package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CategoryListKeys are the wrapper keys a category listing may use, in the
// order they are tried.
var CategoryListKeys = []string{"data", "list", "categories"}

// Records decodes a JSON array of objects. A null document is an empty list.
func Records(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []Record{}, nil
	}
	recs, ok := parseRecords(data)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array, got %s", preview(data))
	}
	return recs, nil
}

// UnwrapList decodes a listing that is either a bare array or an object
// holding the array under one of keys. Any other shape, including null, {}
// and malformed JSON, is an empty list; wellFormed is false only for the
// last.
func UnwrapList(data []byte, keys ...string) (recs []Record, wellFormed bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Record{}, true
	}
	if !json.Valid(data) {
		return []Record{}, false
	}
	if recs, ok := parseRecords(data); ok {
		return recs, true
	}
	obj, ok := asRecord(data)
	if !ok {
		return []Record{}, true
	}
	for _, k := range keys {
		if v, ok := obj.raw(k); ok {
			if recs, ok := parseRecords(v); ok {
				return recs, true
			}
		}
	}
	return []Record{}, true
}

// Preview shortens a response body for log messages.
func Preview(data []byte) string {
	return preview(data)
}

// MapAll applies f to every record.
func MapAll[T any](recs []Record, f func(Record) T) []T {
	out := make([]T, len(recs))
	for i, r := range recs {
		out[i] = f(r)
	}
	return out
}

func preview(data []byte) string {
	const limit = 64
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
